package game

import "github.com/Shaherezada/cutthroat-race/internal/cards"

// Gameplay constants of the standard rule set.
const (
	StartCoins    = 10
	MaxHandSize   = 3
	ActiveRuleCap = 3
	ShopPrice     = 5
	WinningRoll   = 6
)

// Player holds the mutable per-actor state. Coins never go negative and the
// hand never exceeds MaxHandSize; mutations that would violate either fail
// without partial effect.
type Player struct {
	ID       int
	Name     string
	Position int
	Coins    int

	Hand      []*cards.ShopCard
	UsedCards map[int]bool // hand indices used this turn

	SkipNextTurn     bool
	HasExtraTurn     bool
	PendingExtraTurn bool // survives the turn-flag reset; promoted at next turn start

	HasMoved       bool
	TurnChecksDone bool
	EndChecksDone  bool
	IsFinished     bool
}

func newPlayer(id int, name string) *Player {
	return &Player{
		ID:        id,
		Name:      name,
		Coins:     StartCoins,
		UsedCards: make(map[int]bool),
	}
}

// CanAfford reports whether the player can pay amount.
func (p *Player) CanAfford(amount int) bool { return p.Coins >= amount }

// Pay deducts amount atomically. It returns false and leaves the balance
// untouched when funds are insufficient.
func (p *Player) Pay(amount int) bool {
	if p.Coins < amount {
		return false
	}
	p.Coins -= amount
	return true
}

// AddCoins credits amount, clamping the balance at zero for penalties.
func (p *Player) AddCoins(amount int) {
	p.Coins += amount
	if p.Coins < 0 {
		p.Coins = 0
	}
}

// AddCard appends a card to the hand. It returns false without mutating
// when the hand is full; the caller must then force a discard.
func (p *Player) AddCard(c *cards.ShopCard) bool {
	if len(p.Hand) >= MaxHandSize {
		return false
	}
	p.Hand = append(p.Hand, c)
	return true
}

// RemoveCard removes and returns the hand card at index, or nil for an
// out-of-range index.
func (p *Player) RemoveCard(index int) *cards.ShopCard {
	if index < 0 || index >= len(p.Hand) {
		return nil
	}
	c := p.Hand[index]
	p.Hand = append(p.Hand[:index], p.Hand[index+1:]...)
	// Re-key used flags so cards past the removed slot keep their
	// spent-this-turn state at their new indices.
	used := make(map[int]bool, len(p.UsedCards))
	for i := range p.UsedCards {
		switch {
		case i < index:
			used[i] = true
		case i > index:
			used[i-1] = true
		}
	}
	p.UsedCards = used
	return c
}

// HasPassive reports whether the hand holds a passive card with the given
// effect.
func (p *Player) HasPassive(effect cards.EffectID) bool {
	for _, c := range p.Hand {
		if c.IsPassive && c.Effect == effect {
			return true
		}
	}
	return false
}

// MarkCardUsed flags a one-shot card as spent for this turn.
func (p *Player) MarkCardUsed(index int) { p.UsedCards[index] = true }

// ResetTurnFlags clears the per-turn state at the start of a turn.
// PendingExtraTurn deliberately survives the reset.
func (p *Player) ResetTurnFlags() {
	p.UsedCards = make(map[int]bool)
	p.HasMoved = false
	p.HasExtraTurn = false
	p.TurnChecksDone = false
	p.EndChecksDone = false
}
