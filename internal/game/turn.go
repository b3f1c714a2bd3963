package game

import "github.com/Shaherezada/cutthroat-race/internal/cards"

// hookRange is how far ahead a hook or harpoon reaches.
const hookRange = 10

// StartTurnChecks runs the once-per-turn start bookkeeping for the current
// player: forfeited turns, promotion of a granted extra turn, and the
// last-place aid rules. It returns true when the turn was skipped and the
// turn pointer has already advanced.
func (e *Engine) StartTurnChecks() bool {
	if e.gameOver {
		return false
	}
	p := e.state.CurrentPlayer()
	if p.TurnChecksDone {
		return false
	}
	p.TurnChecksDone = true

	if p.SkipNextTurn {
		p.SkipNextTurn = false
		e.record(p.ID, "turn_skipped", nil)
		e.state.NextTurn()
		return true
	}

	if p.PendingExtraTurn {
		p.PendingExtraTurn = false
		p.HasExtraTurn = true
	}

	if e.IsLastPlace(p) {
		if rule, ok := e.state.RuleActive(cards.EffectRuleLastIncome); ok {
			p.AddCoins(rule.Value)
			e.record(p.ID, "rule_last_income", map[string]any{"rule": rule.Name, "gain": rule.Value})
		}
		if rule, ok := e.state.RuleActive(cards.EffectRuleLastAid); ok {
			if len(p.Hand) < MaxHandSize {
				if c, drew := e.state.Library.Shop.DrawOne(); drew {
					p.AddCard(c)
					e.record(p.ID, "rule_last_aid", map[string]any{"rule": rule.Name, "card": c.Name})
				}
			}
		}
		if _, ok := e.state.RuleActive(cards.EffectRuleLastDrawGood); ok {
			e.enqueueEventDraw(p, true)
		}
	}
	return false
}

// endTurnChecks runs the once-per-turn end bookkeeping: the last-place
// compensation rules.
func (e *Engine) endTurnChecks(p *Player) {
	if p.EndChecksDone {
		return
	}
	p.EndChecksDone = true

	if !e.IsLastPlace(p) {
		return
	}
	if rule, ok := e.state.RuleActive(cards.EffectRuleLastDiceCoins); ok {
		roll := e.dice.Roll()
		p.AddCoins(roll)
		e.record(p.ID, "rule_last_dice_coins", map[string]any{"rule": rule.Name, "gain": roll})
	}
	if rule, ok := e.state.RuleActive(cards.EffectRuleLastMove5); ok {
		e.record(p.ID, "rule_last_move", map[string]any{"rule": rule.Name, "steps": rule.Value})
		e.MovePlayer(p, rule.Value, true, true)
	}
}

// EndTurn closes the current player's turn. All pending events must be
// resolved first. An earned extra turn keeps the turn with the same player
// after a flag reset; otherwise the pointer advances.
func (e *Engine) EndTurn() error {
	if e.gameOver {
		return ErrGameOver
	}
	if len(e.pending) > 0 {
		return ErrPendingEvents
	}
	p := e.state.CurrentPlayer()
	e.endTurnChecks(p)
	if e.gameOver || len(e.pending) > 0 {
		// An end-of-turn move can win the game or queue new decisions.
		return nil
	}

	if p.HasExtraTurn {
		p.ResetTurnFlags()
		e.record(p.ID, "extra_turn", nil)
		return nil
	}
	e.state.NextTurn()
	return nil
}

// IsLastPlace reports strict last place: every other player is at least as
// far along and at least one is strictly ahead. With everyone level nobody
// is last.
func (e *Engine) IsLastPlace(p *Player) bool {
	ahead := false
	for _, other := range e.state.Opponents(p) {
		if other.Position < p.Position {
			return false
		}
		if other.Position > p.Position {
			ahead = true
		}
	}
	return ahead
}

// AttemptFinish rolls for the win from the finish-safe cell. boost buys up
// to +2 on the roll at a fixed price per point, paid before the roll and
// forfeited on a miss. The player wins on roll+boost >= 6.
func (e *Engine) AttemptFinish(p *Player, boost int) error {
	if e.gameOver {
		return ErrGameOver
	}
	if !p.IsFinished {
		return ErrNotFinished
	}
	if boost < 0 || boost > 2 {
		return ErrInvalidChoice
	}
	if !p.Pay(boost * finishBoostCost) {
		return ErrCannotAfford
	}

	roll := e.dice.Roll()
	total := roll + boost
	e.record(p.ID, "finish_attempt", map[string]any{"roll": roll, "boost": boost, "total": total})
	if total >= WinningRoll {
		e.endGame(p)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Shop card abilities
// ---------------------------------------------------------------------------

// UseCard plays a one-shot shop card from the player's hand. targetID picks
// the victim for attack cards; pass a negative id to auto-target when only
// one opponent qualifies. The card stays in hand but cannot be used again
// this turn. The use cost is only charged once the target is validated.
func (e *Engine) UseCard(p *Player, cardIdx, targetID int) error {
	if e.gameOver {
		return ErrGameOver
	}
	if cardIdx < 0 || cardIdx >= len(p.Hand) {
		return ErrInvalidChoice
	}
	c := p.Hand[cardIdx]
	if c.IsPassive || p.UsedCards[cardIdx] {
		return ErrInvalidChoice
	}

	var target *Player
	if needsTarget(c.Effect) {
		candidates := e.targetCandidates(p, c.Effect)
		var err error
		if target, err = pickTarget(candidates, targetID); err != nil {
			return err
		}
	}
	if !p.Pay(c.UseCost) {
		return ErrCannotAfford
	}
	p.MarkCardUsed(cardIdx)
	e.record(p.ID, "card_used", map[string]any{"card": c.Name, "cost": c.UseCost})

	switch c.Effect {
	case cards.EffectMoveRocket:
		e.MovePlayer(p, c.Value, true, true)

	case cards.EffectAttackGrenade:
		e.MovePlayer(target, c.Value, false, true)

	case cards.EffectAttackVoodoo:
		e.enqueueEventDraw(target, false)

	case cards.EffectAttackHandFate:
		cells := 1
		if len(e.state.Players) > 3 {
			cells = 2
		}
		e.MovePlayer(target, cells, false, true)

	case cards.EffectAttackHook:
		// The player reels themselves up to the target's cell.
		e.relocate(p, target.Position)

	case cards.EffectMoveHarpoon:
		// The target is dragged back onto the player's cell.
		e.relocate(target, p.Position)
	}
	return nil
}

// CanPlayerDoActions reports whether the player holds any playable one-shot card:
// affordable, unused this turn, and with a qualifying target if required.
func (e *Engine) CanPlayerDoActions(p *Player) bool {
	for i, c := range p.Hand {
		if c.IsPassive || p.UsedCards[i] || !p.CanAfford(c.UseCost) {
			continue
		}
		if !needsTarget(c.Effect) {
			return true
		}
		if len(e.targetCandidates(p, c.Effect)) > 0 {
			return true
		}
	}
	return false
}

func needsTarget(effect cards.EffectID) bool {
	switch effect {
	case cards.EffectAttackGrenade, cards.EffectAttackVoodoo,
		cards.EffectAttackHandFate, cards.EffectAttackHook,
		cards.EffectMoveHarpoon:
		return true
	}
	return false
}

// targetCandidates filters opponents down to the legal targets of a card.
// Hooks and harpoons only reach opponents strictly ahead within range.
func (e *Engine) targetCandidates(p *Player, effect cards.EffectID) []*Player {
	opponents := e.state.Opponents(p)
	if effect != cards.EffectAttackHook && effect != cards.EffectMoveHarpoon {
		return opponents
	}
	var inRange []*Player
	for _, o := range opponents {
		if d := o.Position - p.Position; d > 0 && d <= hookRange {
			inRange = append(inRange, o)
		}
	}
	return inRange
}

// pickTarget selects from candidates by id; a negative id auto-selects
// when exactly one candidate qualifies.
func pickTarget(candidates []*Player, targetID int) (*Player, error) {
	if len(candidates) == 0 {
		return nil, ErrInvalidChoice
	}
	if targetID < 0 {
		if len(candidates) == 1 {
			return candidates[0], nil
		}
		return nil, ErrInvalidChoice
	}
	for _, o := range candidates {
		if o.ID == targetID {
			return o, nil
		}
	}
	return nil, ErrInvalidChoice
}
