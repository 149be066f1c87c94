// Package deck holds the card primitives shared by the card games.
package deck

import "math/rand"

type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// Rank runs 1..13 with ace low in the encoding (the poker evaluator treats
// it high where it matters).
type Rank uint8

const (
	Ace   Rank = 1
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
)

type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

var suitRunes = [4]rune{'♣', '♦', '♥', '♠'}

const rankRunes = " A23456789TJQK"

func (c Card) String() string {
	if c.Rank < 1 || c.Rank > 13 || c.Suit > Spades {
		return "??"
	}
	return string(rankRunes[c.Rank]) + string(suitRunes[c.Suit])
}

// Deck is a shuffled 52 card deck drawn strictly front to back. It is never
// reshuffled mid-hand; a fresh deck is built per hand.
type Deck struct {
	cards []Card
	next  int
}

// New builds a full deck shuffled with r, so a seeded source yields a
// reproducible order.
func New(r *rand.Rand) *Deck {
	cards := make([]Card, 0, 52)
	for s := Clubs; s <= Spades; s++ {
		for v := 1; v <= 13; v++ {
			cards = append(cards, Card{Suit: s, Rank: Rank(v)})
		}
	}
	r.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return &Deck{cards: cards}
}

// Draw removes the top card. ok is false once the deck is exhausted.
func (d *Deck) Draw() (Card, bool) {
	if d.next >= len(d.cards) {
		return Card{}, false
	}
	c := d.cards[d.next]
	d.next++
	return c, true
}

// Burn discards the top card without exposing it.
func (d *Deck) Burn() {
	if d.next < len(d.cards) {
		d.next++
	}
}

func (d *Deck) Remaining() int { return len(d.cards) - d.next }
