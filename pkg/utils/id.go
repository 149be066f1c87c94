package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// GenShortID returns a random 8 character url-safe id for rooms.
func GenShortID() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
