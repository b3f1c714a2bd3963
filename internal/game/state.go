package game

import (
	"fmt"
	"math/rand"

	"github.com/Shaherezada/cutthroat-race/internal/cards"
)

// State is the shared match state: the fixed player roster, the three
// decks, the bounded FIFO of active house rules and the turn pointer. It is
// owned exclusively by the Engine; nothing else mutates it.
type State struct {
	Players    []*Player
	CurrentIdx int
	TurnNumber int

	Library     *cards.Library
	ActiveRules []*cards.RuleCard
}

func newState(playerCount int, rng *rand.Rand) (*State, error) {
	if playerCount < 2 {
		return nil, fmt.Errorf("game: need at least 2 players, got %d", playerCount)
	}
	s := &State{
		TurnNumber: 1,
		Library:    cards.NewLibrary(rng),
	}
	for i := 0; i < playerCount; i++ {
		s.Players = append(s.Players, newPlayer(i, fmt.Sprintf("Player %d", i+1)))
	}
	return s, nil
}

// CurrentPlayer returns the player whose turn it is.
func (s *State) CurrentPlayer() *Player { return s.Players[s.CurrentIdx] }

// PlayerByID looks up a roster player by id.
func (s *State) PlayerByID(id int) (*Player, error) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("game: no player with id %d", id)
}

// Opponents returns every player except the given one.
func (s *State) Opponents(p *Player) []*Player {
	opps := make([]*Player, 0, len(s.Players)-1)
	for _, o := range s.Players {
		if o.ID != p.ID {
			opps = append(opps, o)
		}
	}
	return opps
}

// NextTurn advances the turn pointer and resets the new current player's
// per-turn flags.
func (s *State) NextTurn() {
	s.CurrentIdx = (s.CurrentIdx + 1) % len(s.Players)
	s.TurnNumber++
	s.CurrentPlayer().ResetTurnFlags()
}

// AddRule installs a house rule into the bounded active-rule queue,
// silently evicting the oldest when the queue is full.
func (s *State) AddRule(rule *cards.RuleCard) {
	if len(s.ActiveRules) == ActiveRuleCap {
		s.ActiveRules = s.ActiveRules[1:]
	}
	s.ActiveRules = append(s.ActiveRules, rule)
}

// RuleActive reports whether a rule with the given effect is currently in
// force and returns its card for the value payload.
func (s *State) RuleActive(effect cards.EffectID) (*cards.RuleCard, bool) {
	for _, r := range s.ActiveRules {
		if r.Effect == effect {
			return r, true
		}
	}
	return nil, false
}
