package game

import (
	"github.com/Shaherezada/cutthroat-race/internal/board"
	"github.com/Shaherezada/cutthroat-race/internal/cards"
)

// effectFunc applies one effect. target is non-nil only when the external
// actor already picked one; targeted handlers otherwise auto-select or
// suspend on a choice event.
type effectFunc func(e *Engine, src *Player, value int, target *Player)

// effectRegistry is the dispatch table for effects triggered by event-card
// faces. Shop-card abilities route through UseCard and house rules fire
// contextually from the landing pipeline and turn checks; those ids are
// listed in contextualEffects instead.
var effectRegistry = map[cards.EffectID]effectFunc{
	// Direct economy and movement.
	cards.EffectGainCoins: func(e *Engine, src *Player, value int, _ *Player) {
		src.AddCoins(value)
	},
	cards.EffectLoseCoins: func(e *Engine, src *Player, value int, _ *Player) {
		src.Pay(min(src.Coins, value))
	},
	cards.EffectMoveSelfForward: func(e *Engine, src *Player, value int, _ *Player) {
		e.MovePlayer(src, value, true, true)
	},
	cards.EffectMoveSelfBack: func(e *Engine, src *Player, value int, _ *Player) {
		e.MovePlayer(src, value, false, true)
	},
	cards.EffectNoEffect: func(*Engine, *Player, int, *Player) {},
	cards.EffectMoveForwardGainCoins: func(e *Engine, src *Player, value int, _ *Player) {
		e.MovePlayer(src, value, true, true)
		src.AddCoins(value)
	},

	// Positional searches. Scans terminate at the board bounds and fall
	// back to a fixed displacement when no matching cell exists.
	cards.EffectMoveNearestGreen: func(e *Engine, src *Player, _ int, _ *Player) {
		for i := src.Position + 1; i < e.board.MaxCellID(); i++ {
			if e.board.MustCell(i).Kind == board.Green {
				e.MovePlayer(src, i-src.Position, true, true)
				return
			}
		}
		e.MovePlayer(src, 3, true, true)
	},
	cards.EffectMoveBackToRedOr3: func(e *Engine, src *Player, _ int, _ *Player) {
		e.moveBackToRedOr3(src)
	},

	// Mass effects: every payment is independently capped at that
	// player's balance; one player's shortfall never blocks the rest.
	cards.EffectPayAllOthersBank: func(e *Engine, src *Player, value int, _ *Player) {
		for _, p := range e.state.Opponents(src) {
			p.AddCoins(value)
		}
	},
	cards.EffectOthersMoveForward: func(e *Engine, src *Player, value int, _ *Player) {
		for _, p := range e.state.Opponents(src) {
			e.MovePlayer(p, value, true, false)
		}
	},
	cards.EffectAllLoseCoinsGlobal: func(e *Engine, _ *Player, value int, _ *Player) {
		for _, p := range e.state.Players {
			p.Pay(min(p.Coins, value))
		}
	},
	cards.EffectOthersGainCoinsMove: func(e *Engine, src *Player, value int, _ *Player) {
		for _, p := range e.state.Opponents(src) {
			p.AddCoins(value)
			e.MovePlayer(p, value, true, false)
		}
	},
	cards.EffectSteal2FromAll: func(e *Engine, src *Player, value int, _ *Player) {
		for _, p := range e.state.Opponents(src) {
			amount := min(p.Coins, value)
			if p.Pay(amount) {
				src.AddCoins(amount)
			}
		}
	},
	cards.EffectDraw2Bad: func(e *Engine, src *Player, _ int, _ *Player) {
		e.enqueueEventDraw(src, false)
		e.enqueueEventDraw(src, false)
	},

	// Dice effects.
	cards.EffectRollLoseCoinsOrBack: func(e *Engine, src *Player, _ int, _ *Player) {
		roll := e.dice.Roll()
		e.record(src.ID, "effect_roll", map[string]any{"roll": roll})
		if roll <= 3 {
			src.Pay(min(src.Coins, 5))
		} else {
			e.MovePlayer(src, 10, false, true)
		}
	},
	cards.EffectRollGambleMoneyMove: func(e *Engine, src *Player, _ int, _ *Player) {
		roll := e.dice.Roll()
		e.record(src.ID, "effect_roll", map[string]any{"roll": roll})
		if roll <= 3 {
			src.AddCoins(10)
		} else {
			e.MovePlayer(src, 5, true, true)
		}
	},

	// Choice-required effects: never resolved synchronously unless the
	// choice is degenerate.
	cards.EffectExtraTurnPayCoins: func(e *Engine, src *Player, value int, _ *Player) {
		if src.Coins < value {
			return
		}
		e.push(&PendingEvent{Type: EventExtraTurnOffer, Player: src, Cost: value})
	},
	cards.EffectPayCoinsMoveFlexible: func(e *Engine, src *Player, value int, _ *Player) {
		// value 2: up to 5 coins at 2 cells each. value 0: any number of
		// coins at 1 cell each.
		maxCoins := src.Coins
		perCoin := 1
		if value > 0 {
			maxCoins = min(maxCoins, 5)
			perCoin = value
		}
		if maxCoins == 0 {
			return
		}
		e.push(&PendingEvent{
			Type: EventCoinTrade, Player: src,
			Effect: cards.EffectPayCoinsMoveFlexible, MaxCoins: maxCoins, StepsPerCoin: perCoin,
		})
	},
	cards.EffectPayCoinsMoveOthersBack: func(e *Engine, src *Player, _ int, _ *Player) {
		if src.Coins == 0 {
			return
		}
		e.push(&PendingEvent{
			Type: EventCoinTrade, Player: src,
			Effect: cards.EffectPayCoinsMoveOthersBack, MaxCoins: src.Coins, StepsPerCoin: 1,
		})
	},
	cards.EffectPlaceMines: func(e *Engine, src *Player, value int, _ *Player) {
		if src.Coins < value {
			return
		}
		e.push(&PendingEvent{Type: EventPlaceMines, Player: src, Value: value})
	},
	cards.EffectTaxShopCards: func(e *Engine, src *Player, value int, _ *Player) {
		if len(src.Hand) == 0 {
			return
		}
		e.push(&PendingEvent{Type: EventTaxShopCards, Player: src, Value: value})
	},
	cards.EffectAllDiscardToOneShop: func(e *Engine, _ *Player, _ int, _ *Player) {
		for _, p := range e.state.Players {
			if len(p.Hand) > 1 {
				e.push(&PendingEvent{Type: EventDiscardToOne, Player: p})
			}
		}
	},
	cards.EffectDraw2Keep1Free: func(e *Engine, src *Player, _ int, _ *Player) {
		offer := e.state.Library.Shop.Draw(2)
		if len(offer) == 0 {
			return
		}
		e.push(&PendingEvent{Type: EventShop, Player: src, ShopCards: offer, FreeShop: true})
	},
	cards.EffectDiscardShopOrRed: func(e *Engine, src *Player, _ int, _ *Player) {
		if len(src.Hand) == 0 {
			e.moveBackToRedOr3(src)
			return
		}
		e.push(&PendingEvent{Type: EventChooseOwnDiscard, Player: src})
	},
	cards.EffectSkipTurnMutual: func(e *Engine, src *Player, value int, target *Player) {
		if len(e.state.Players) == 2 {
			src.SkipNextTurn = true
			e.record(src.ID, "skip_turn_mutual", nil)
			return
		}
		e.targetedEffect(cards.EffectSkipTurnMutual, src, value, target)
	},

	// Effects that need a target player.
	cards.EffectStealCoinsTarget:     targeted(cards.EffectStealCoinsTarget),
	cards.EffectForceEnemyDrawBad:    targeted(cards.EffectForceEnemyDrawBad),
	cards.EffectDiscardEnemyShopCard: targeted(cards.EffectDiscardEnemyShopCard),
	cards.EffectRollPushEnemy:        targeted(cards.EffectRollPushEnemy),
	cards.EffectGive5ToTarget:        targeted(cards.EffectGive5ToTarget),
	cards.EffectGive10ToTarget:       targeted(cards.EffectGive10ToTarget),
	cards.EffectForceEnemyLoseCoins:  targeted(cards.EffectForceEnemyLoseCoins),
	cards.EffectGiveDoubleTurnEnemy:  targeted(cards.EffectGiveDoubleTurnEnemy),
	cards.EffectStealShopCardLeader:  targeted(cards.EffectStealShopCardLeader),
}

// contextualEffects lists the ids that are valid card data but never
// dispatched through ApplyEffect: passive shop cards consulted by the
// roll and landing logic, shop-card abilities routed through UseCard, and
// house rules fired from the landing pipeline and turn checks.
var contextualEffects = []cards.EffectID{
	cards.EffectAttackVoodoo,
	cards.EffectAttackGrenade,
	cards.EffectAttackHook,
	cards.EffectMoveHarpoon,
	cards.EffectMoveRocket,
	cards.EffectAttackHandFate,
	cards.EffectPassiveRollPlus1,
	cards.EffectPassiveRedIncome,
	cards.EffectPassiveEmptyMove,
	cards.EffectPassiveEmptyGain,
	cards.EffectRuleRedChoice,
	cards.EffectRuleGreenIncome,
	cards.EffectRuleGreenExtraTurn,
	cards.EffectRuleGreenMove,
	cards.EffectRuleLastAid,
	cards.EffectRuleDoubleReroll,
	cards.EffectRuleCollisionDuel,
	cards.EffectRuleLastIncome,
	cards.EffectRuleLastDiceCoins,
	cards.EffectRuleSixSkip,
	cards.EffectRuleRedBad,
	cards.EffectRuleLastDrawGood,
	cards.EffectRuleGreenGood,
	cards.EffectRuleRedTaxAll,
	cards.EffectRuleOvertakeSteal,
	cards.EffectRuleLastMove5,
}

// registeredEffects returns the full set of effect ids the engine can
// honour, for load-time validation against the card data.
func registeredEffects() map[cards.EffectID]bool {
	set := make(map[cards.EffectID]bool, len(effectRegistry)+len(contextualEffects))
	for id := range effectRegistry {
		set[id] = true
	}
	for _, id := range contextualEffects {
		set[id] = true
	}
	return set
}

// moveBackToRedOr3 sends the player to the nearest red cell behind them,
// falling back to three cells back when no red exists. Backward relocation
// does not run the landing pipeline.
func (e *Engine) moveBackToRedOr3(src *Player) {
	for i := src.Position - 1; i >= 0; i-- {
		if e.board.MustCell(i).Kind == board.Red {
			src.Position = i
			return
		}
	}
	e.MovePlayer(src, 3, false, true)
}

func targeted(id cards.EffectID) effectFunc {
	return func(e *Engine, src *Player, value int, target *Player) {
		e.targetedEffect(id, src, value, target)
	}
}

// ApplyEffect dispatches one effect id. Unmapped ids are recorded as
// unimplemented and otherwise no-ops; load-time validation makes this
// unreachable for the shipped card set.
func (e *Engine) ApplyEffect(id cards.EffectID, src *Player, value int, target *Player) {
	h, ok := effectRegistry[id]
	if !ok {
		e.record(src.ID, "effect_unimplemented", map[string]any{"effect": string(id)})
		return
	}
	h(e, src, value, target)
}

// targetedEffect routes an effect that needs a target player: an explicit
// target bypasses selection, a single valid target is auto-picked, and
// multiple candidates suspend on a choice event.
func (e *Engine) targetedEffect(id cards.EffectID, src *Player, value int, target *Player) {
	var opponents []*Player
	if id == cards.EffectStealShopCardLeader {
		for _, p := range e.state.Opponents(src) {
			if p.Position > src.Position {
				opponents = append(opponents, p)
			}
		}
	} else {
		opponents = e.state.Opponents(src)
	}
	if len(opponents) == 0 {
		return
	}
	if target != nil {
		e.executeTargeted(id, src, target, value)
		return
	}
	if len(opponents) == 1 {
		e.executeTargeted(id, src, opponents[0], value)
		return
	}
	e.push(&PendingEvent{
		Type: EventChooseTarget, Player: src,
		Effect: id, Value: value, Opponents: opponents,
	})
}

// executeTargeted applies a targeted effect to a known target.
func (e *Engine) executeTargeted(id cards.EffectID, src, target *Player, value int) {
	switch id {
	case cards.EffectStealCoinsTarget:
		amount := min(target.Coins, value)
		if target.Pay(amount) {
			src.AddCoins(amount)
			e.record(src.ID, "effect_steal", map[string]any{"from": target.Name, "amount": amount})
		}

	case cards.EffectForceEnemyDrawBad:
		e.enqueueEventDraw(target, false)
		e.record(src.ID, "effect_force_draw_bad", map[string]any{"target": target.Name})

	case cards.EffectDiscardEnemyShopCard:
		switch len(target.Hand) {
		case 0:
			e.record(src.ID, "effect_discard_none", map[string]any{"target": target.Name})
		case 1:
			c := target.RemoveCard(0)
			e.state.Library.Shop.Discard(c)
			e.record(src.ID, "effect_discard", map[string]any{"target": target.Name, "card": c.Name})
		default:
			e.push(&PendingEvent{
				Type: EventChooseCardDiscard, Player: src, Target: target,
				ShopCards: append([]*cards.ShopCard(nil), target.Hand...),
			})
		}

	case cards.EffectRollPushEnemy:
		roll := e.dice.Roll()
		e.record(src.ID, "effect_push", map[string]any{"target": target.Name, "roll": roll})
		e.MovePlayer(target, roll, true, true)

	case cards.EffectGive5ToTarget:
		// Transfer from the source, partial at its balance.
		amount := min(src.Coins, value)
		if src.Pay(amount) {
			target.AddCoins(amount)
			e.record(src.ID, "effect_give", map[string]any{"to": target.Name, "amount": amount})
		}

	case cards.EffectGive10ToTarget:
		// Unconditional bank grant; the source pays nothing.
		target.AddCoins(value)
		e.record(src.ID, "effect_give", map[string]any{"to": target.Name, "amount": value})

	case cards.EffectForceEnemyLoseCoins:
		loss := min(target.Coins, value)
		target.Pay(loss)
		e.record(src.ID, "effect_force_lose", map[string]any{"target": target.Name, "amount": loss})

	case cards.EffectGiveDoubleTurnEnemy:
		target.PendingExtraTurn = true
		e.record(src.ID, "effect_double_turn", map[string]any{"target": target.Name})

	case cards.EffectSkipTurnMutual:
		src.SkipNextTurn = true
		target.SkipNextTurn = true
		e.record(src.ID, "skip_turn_mutual", map[string]any{"target": target.Name})

	case cards.EffectStealShopCardLeader:
		switch len(target.Hand) {
		case 0:
			e.record(src.ID, "effect_steal_card_none", map[string]any{"target": target.Name})
		case 1:
			e.stealCard(src, target, 0)
		default:
			e.push(&PendingEvent{
				Type: EventChooseCardDiscard, Player: src, Target: target, Steal: true,
				ShopCards: append([]*cards.ShopCard(nil), target.Hand...),
			})
		}
	}
}

// stealCard moves a hand card from target to src; a full hand sends the
// card to the shop discard pile instead so no card is ever destroyed.
func (e *Engine) stealCard(src, target *Player, cardIdx int) {
	c := target.RemoveCard(cardIdx)
	if c == nil {
		return
	}
	if src.AddCard(c) {
		e.record(src.ID, "effect_steal_card", map[string]any{"target": target.Name, "card": c.Name})
	} else {
		e.state.Library.Shop.Discard(c)
		e.record(src.ID, "effect_steal_card_full", map[string]any{"target": target.Name, "card": c.Name})
	}
}
