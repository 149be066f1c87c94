package deck

import (
	"math/rand"
	"testing"
)

func TestNewDeckHas52UniqueCards(t *testing.T) {
	d := New(rand.New(rand.NewSource(1)))
	if d.Remaining() != 52 {
		t.Fatalf("expected 52 cards, got %d", d.Remaining())
	}

	seen := make(map[Card]bool)
	for {
		c, ok := d.Draw()
		if !ok {
			break
		}
		if seen[c] {
			t.Fatalf("duplicate card %v", c)
		}
		seen[c] = true
	}
	if len(seen) != 52 {
		t.Fatalf("expected 52 unique cards, got %d", len(seen))
	}
}

func TestSameSeedSameOrder(t *testing.T) {
	a := New(rand.New(rand.NewSource(42)))
	b := New(rand.New(rand.NewSource(42)))
	for i := 0; i < 52; i++ {
		ca, _ := a.Draw()
		cb, _ := b.Draw()
		if ca != cb {
			t.Fatalf("card %d differs: %v vs %v", i, ca, cb)
		}
	}
}

func TestDrawExhausts(t *testing.T) {
	d := New(rand.New(rand.NewSource(7)))
	for i := 0; i < 52; i++ {
		if _, ok := d.Draw(); !ok {
			t.Fatalf("deck exhausted early at %d", i)
		}
	}
	if _, ok := d.Draw(); ok {
		t.Fatal("expected exhausted deck")
	}
}

func TestBurnSkipsCard(t *testing.T) {
	a := New(rand.New(rand.NewSource(9)))
	b := New(rand.New(rand.NewSource(9)))

	a.Draw()
	b.Burn()
	if a.Remaining() != b.Remaining() {
		t.Fatalf("burn should consume exactly one card")
	}
	ca, _ := a.Draw()
	cb, _ := b.Draw()
	if ca != cb {
		t.Fatalf("expected same card after burn, got %v vs %v", ca, cb)
	}
}
