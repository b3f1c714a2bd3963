package cards

import (
	"math/rand"
	"testing"
)

func newTestDeck(n int, rng *rand.Rand) *Deck[int] {
	list := make([]int, n)
	for i := range list {
		list[i] = i
	}
	return NewDeck("test", list, rng)
}

func TestDeckDrawAndDiscardConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	d := newTestDeck(10, rng)

	drawn := d.Draw(4)
	if len(drawn) != 4 {
		t.Fatalf("drew %d cards, want 4", len(drawn))
	}
	for _, c := range drawn {
		d.Discard(c)
	}
	if got := d.DrawLen() + d.DiscardLen(); got != 10 {
		t.Errorf("total cards = %d, want 10", got)
	}
}

func TestDeckReshufflesMidDraw(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	d := newTestDeck(3, rng)

	first := d.Draw(2)
	for _, c := range first {
		d.Discard(c)
	}

	// One card left in the draw pile, two in discard; a 3-card draw has to
	// fold the discard pile back in.
	drawn := d.Draw(3)
	if len(drawn) != 3 {
		t.Fatalf("drew %d cards across a reshuffle, want 3", len(drawn))
	}
	if d.DrawLen() != 0 || d.DiscardLen() != 0 {
		t.Errorf("piles after exhaustive draw: draw=%d discard=%d", d.DrawLen(), d.DiscardLen())
	}
}

func TestDeckExhaustion(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	d := newTestDeck(2, rng)

	if got := d.Draw(5); len(got) != 2 {
		t.Errorf("draw from short deck returned %d cards, want 2", len(got))
	}
	if _, ok := d.DrawOne(); ok {
		t.Error("DrawOne succeeded on an exhausted deck")
	}
}

func TestLibraryComposition(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	lib := NewLibrary(rng)

	if got := lib.Shop.DrawLen(); got != 20 {
		t.Errorf("shop deck size = %d, want 20", got)
	}
	if got := lib.Rules.DrawLen(); got != 16 {
		t.Errorf("rule deck size = %d, want 16", got)
	}
	if got := lib.Events.DrawLen(); got != 18 {
		t.Errorf("event deck size = %d, want 18", got)
	}
}

func TestShopDeckDuplicatesTemplates(t *testing.T) {
	counts := map[string]int{}
	for _, c := range shopDeck() {
		counts[c.UID]++
	}
	if len(counts) != 10 {
		t.Fatalf("got %d distinct shop cards, want 10", len(counts))
	}
	for uid, n := range counts {
		if n != 2 {
			t.Errorf("shop card %s has %d copies, want 2", uid, n)
		}
	}
}

func TestEventCardSides(t *testing.T) {
	for _, ec := range eventDeck() {
		if got := ec.Side(true); got != ec.Good {
			t.Errorf("card %s Side(true) returned the wrong face", ec.UID)
		}
		if got := ec.Side(false); got != ec.Bad {
			t.Errorf("card %s Side(false) returned the wrong face", ec.UID)
		}
		if ec.Good.Effect == "" || ec.Bad.Effect == "" {
			t.Errorf("card %s has an empty effect id", ec.UID)
		}
	}
}

func TestValidateFindsMissingHandlers(t *testing.T) {
	all := map[EffectID]bool{}
	for _, id := range ReferencedEffects() {
		all[id] = true
	}
	if err := Validate(all); err != nil {
		t.Fatalf("full registry rejected: %v", err)
	}

	delete(all, EffectGainCoins)
	if err := Validate(all); err == nil {
		t.Error("registry missing gain_coins accepted")
	}

	if err := Validate(nil); err == nil {
		t.Error("empty registry accepted")
	}
}
