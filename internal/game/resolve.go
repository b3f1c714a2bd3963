package game

import "github.com/Shaherezada/cutthroat-race/internal/cards"

// The Resolve* entrypoints consume the head of the pending queue. Each
// validates the actor's choice against the queued payload first and only
// then pops, so a rejected choice leaves the queue intact for a retry.
// Popping before applying lets effects chained by the resolution queue
// behind the remaining entries in FIFO order.

// peekHead returns the head event if the game is live and the head matches
// the expected type.
func (e *Engine) peekHead(want PendingEventType) (*PendingEvent, error) {
	if e.gameOver {
		return nil, ErrGameOver
	}
	ev := e.PeekEvent()
	if ev == nil {
		return nil, errNoPendingEvent
	}
	if ev.Type != want {
		return nil, errWrongEventType(want, ev.Type)
	}
	return ev, nil
}

// ResolveShopChoice answers a shop offer. choice indexes the offered cards;
// choice == len(offer) declines. A purchase into a full hand is rejected so
// the actor can decline instead; a purchase the player cannot pay for
// forfeits the offer and both cards go to the discard pile.
func (e *Engine) ResolveShopChoice(choice int) error {
	ev, err := e.peekHead(EventShop)
	if err != nil {
		return err
	}
	if choice < 0 || choice > len(ev.ShopCards) {
		return ErrInvalidChoice
	}
	p := ev.Player
	if choice < len(ev.ShopCards) && len(p.Hand) >= MaxHandSize {
		return ErrInvalidChoice
	}
	e.dropHead()

	if choice == len(ev.ShopCards) {
		for _, c := range ev.ShopCards {
			e.state.Library.Shop.Discard(c)
		}
		e.record(p.ID, "shop_skip", nil)
		return nil
	}

	price := ShopPrice
	if ev.FreeShop {
		price = 0
	}
	if !p.Pay(price) {
		for _, c := range ev.ShopCards {
			e.state.Library.Shop.Discard(c)
		}
		e.record(p.ID, "shop_pay_failed", map[string]any{"price": price})
		return nil
	}
	for i, c := range ev.ShopCards {
		if i == choice {
			p.AddCard(c)
		} else {
			e.state.Library.Shop.Discard(c)
		}
	}
	e.record(p.ID, "shop_buy", map[string]any{
		"card": ev.ShopCards[choice].Name, "price": price,
	})
	return nil
}

// ResolveEventCard reveals the queued chest card face, applies its effect
// and discards the card.
func (e *Engine) ResolveEventCard() error {
	ev, err := e.peekHead(EventCardReveal)
	if err != nil {
		return err
	}
	e.dropHead()

	side := ev.Event.Side(ev.GoodSide)
	e.record(ev.Player.ID, "event_card", map[string]any{
		"card": side.Name, "good": ev.GoodSide, "effect": string(side.Effect),
	})
	e.state.Library.Events.Discard(ev.Event)
	e.ApplyEffect(side.Effect, ev.Player, side.Value, nil)
	return nil
}

// ResolveRuleReveal installs the revealed house rule.
func (e *Engine) ResolveRuleReveal() error {
	ev, err := e.peekHead(EventRuleReveal)
	if err != nil {
		return err
	}
	e.dropHead()
	e.state.AddRule(ev.Rule)
	e.record(ev.Player.ID, "rule_installed", map[string]any{"rule": ev.Rule.Name})
	return nil
}

// ResolveDuelOpponent picks the skirmish opponent and rolls the duel.
func (e *Engine) ResolveDuelOpponent(idx int) error {
	ev, err := e.peekHead(EventDuelChooseOpponent)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(ev.Opponents) {
		return ErrInvalidChoice
	}
	e.dropHead()
	e.startDuel(ev.Player, ev.Opponents[idx])
	return nil
}

// ResolveDuelReward applies the winner's chosen reward. cardIdx is only
// consulted for the steal-card reward and must index the loser's hand.
func (e *Engine) ResolveDuelReward(reward DuelReward, cardIdx int) error {
	ev, err := e.peekHead(EventDuelChooseReward)
	if err != nil {
		return err
	}
	winner, loser := ev.Player, ev.Loser
	if reward == DuelRewardStealCard {
		if cardIdx < 0 || cardIdx >= len(loser.Hand) {
			return ErrInvalidChoice
		}
	}
	e.dropHead()

	switch reward {
	case DuelRewardMoney:
		amount := min(loser.Coins, duelRewardCoins)
		if loser.Pay(amount) {
			winner.AddCoins(amount)
		}
		e.record(winner.ID, "duel_reward", map[string]any{"reward": string(reward), "amount": amount})

	case DuelRewardPush:
		e.record(winner.ID, "duel_reward", map[string]any{"reward": string(reward), "loser": loser.Name})
		e.MovePlayer(loser, duelPushCells, false, true)

	case DuelRewardStealCard:
		e.record(winner.ID, "duel_reward", map[string]any{"reward": string(reward)})
		e.stealCard(winner, loser, cardIdx)

	default:
		// Already popped; an unknown reward forfeits it.
		e.record(winner.ID, "duel_reward", map[string]any{"reward": "forfeit"})
	}
	return nil
}

// ResolveTornado answers a tornado pull: pay the toll to stay put, or be
// relocated to the tornado cell. A player who elects to pay but cannot
// afford the toll is pulled in anyway.
func (e *Engine) ResolveTornado(pay bool) error {
	ev, err := e.peekHead(EventTornadoDecision)
	if err != nil {
		return err
	}
	e.dropHead()

	p := ev.Player
	if pay && p.Pay(tornadoToll) {
		e.record(p.ID, "tornado_paid", map[string]any{"toll": tornadoToll})
		return nil
	}
	e.relocate(p, ev.TargetPos)
	e.record(p.ID, "tornado_pulled", map[string]any{"to": ev.TargetPos})
	return nil
}

// ResolveTargetChoice picks the target for a suspended targeted effect.
func (e *Engine) ResolveTargetChoice(targetID int) error {
	ev, err := e.peekHead(EventChooseTarget)
	if err != nil {
		return err
	}
	var target *Player
	for _, o := range ev.Opponents {
		if o.ID == targetID {
			target = o
			break
		}
	}
	if target == nil {
		return ErrInvalidChoice
	}
	e.dropHead()
	e.executeTargeted(ev.Effect, ev.Player, target, ev.Value)
	return nil
}

// ResolveCardDiscard picks a card in the target's hand to discard, or to
// steal when the queued effect was a theft.
func (e *Engine) ResolveCardDiscard(cardIdx int) error {
	ev, err := e.peekHead(EventChooseCardDiscard)
	if err != nil {
		return err
	}
	if cardIdx < 0 || cardIdx >= len(ev.Target.Hand) {
		return ErrInvalidChoice
	}
	e.dropHead()

	if ev.Steal {
		e.stealCard(ev.Player, ev.Target, cardIdx)
		return nil
	}
	c := ev.Target.RemoveCard(cardIdx)
	e.state.Library.Shop.Discard(c)
	e.record(ev.Player.ID, "card_discarded", map[string]any{
		"target": ev.Target.Name, "card": c.Name,
	})
	return nil
}

// ResolvePlaceMines places mines on the chosen cells at the queued price
// per mine. Cells must be strictly between start and finish and unmined;
// placement stops silently when the player can no longer pay.
func (e *Engine) ResolvePlaceMines(cellIDs []int) error {
	ev, err := e.peekHead(EventPlaceMines)
	if err != nil {
		return err
	}
	for _, id := range cellIDs {
		if id <= 0 || id >= e.board.MaxCellID() {
			return ErrInvalidChoice
		}
		if _, mined := e.placedMines[id]; mined {
			return ErrInvalidChoice
		}
	}
	e.dropHead()

	p := ev.Player
	placed := make([]int, 0, len(cellIDs))
	for _, id := range cellIDs {
		if !p.Pay(ev.Value) {
			break
		}
		e.placedMines[id] = p.ID
		placed = append(placed, id)
	}
	e.record(p.ID, "mines_placed", map[string]any{"cells": placed})
	return nil
}

// ResolveCoinTrade spends coins for movement at the queued exchange rate.
// Zero coins declines the trade.
func (e *Engine) ResolveCoinTrade(coins int) error {
	ev, err := e.peekHead(EventCoinTrade)
	if err != nil {
		return err
	}
	if coins < 0 || coins > ev.MaxCoins {
		return ErrInvalidChoice
	}
	e.dropHead()

	p := ev.Player
	if coins == 0 || !p.Pay(coins) {
		e.record(p.ID, "coin_trade_skip", nil)
		return nil
	}
	steps := coins * ev.StepsPerCoin
	e.record(p.ID, "coin_trade", map[string]any{"coins": coins, "steps": steps})
	switch ev.Effect {
	case cards.EffectPayCoinsMoveOthersBack:
		for _, other := range e.state.Opponents(p) {
			e.MovePlayer(other, steps, false, false)
		}
	default:
		e.MovePlayer(p, steps, true, true)
	}
	return nil
}

// ResolveTaxShopCards keeps the chosen hand cards at the queued price each
// and discards the rest. keep indices must be valid, distinct, and the
// total tax affordable.
func (e *Engine) ResolveTaxShopCards(keep []int) error {
	ev, err := e.peekHead(EventTaxShopCards)
	if err != nil {
		return err
	}
	p := ev.Player
	seen := map[int]bool{}
	for _, idx := range keep {
		if idx < 0 || idx >= len(p.Hand) || seen[idx] {
			return ErrInvalidChoice
		}
		seen[idx] = true
	}
	if !p.CanAfford(len(keep) * ev.Value) {
		return ErrInvalidChoice
	}
	e.dropHead()

	p.Pay(len(keep) * ev.Value)
	kept := make([]*cards.ShopCard, 0, len(keep))
	for i, c := range p.Hand {
		if seen[i] {
			kept = append(kept, c)
		} else {
			e.state.Library.Shop.Discard(c)
		}
	}
	p.Hand = kept
	p.UsedCards = make(map[int]bool)
	e.record(p.ID, "shop_tax", map[string]any{"kept": len(kept), "paid": len(kept) * ev.Value})
	return nil
}

// ResolveDiscardToOne keeps one hand card and discards the rest.
func (e *Engine) ResolveDiscardToOne(keepIdx int) error {
	ev, err := e.peekHead(EventDiscardToOne)
	if err != nil {
		return err
	}
	p := ev.Player
	if keepIdx < 0 || keepIdx >= len(p.Hand) {
		return ErrInvalidChoice
	}
	e.dropHead()

	for i, c := range p.Hand {
		if i != keepIdx {
			e.state.Library.Shop.Discard(c)
		}
	}
	p.Hand = []*cards.ShopCard{p.Hand[keepIdx]}
	p.UsedCards = make(map[int]bool)
	e.record(p.ID, "hand_reduced", map[string]any{"kept": p.Hand[0].Name})
	return nil
}

// ResolveExtraTurnOffer accepts or declines a paid extra turn.
func (e *Engine) ResolveExtraTurnOffer(accept bool) error {
	ev, err := e.peekHead(EventExtraTurnOffer)
	if err != nil {
		return err
	}
	e.dropHead()

	p := ev.Player
	if accept && p.Pay(ev.Cost) {
		p.HasExtraTurn = true
		e.record(p.ID, "extra_turn_bought", map[string]any{"cost": ev.Cost})
	}
	return nil
}

// ResolveRedChoice answers the red-cell house rule: pay up to the queued
// amount, or move back that many cells.
func (e *Engine) ResolveRedChoice(pay bool) error {
	ev, err := e.peekHead(EventRedChoice)
	if err != nil {
		return err
	}
	e.dropHead()

	p := ev.Player
	if pay {
		loss := min(p.Coins, ev.Value)
		p.Pay(loss)
		e.record(p.ID, "red_choice_pay", map[string]any{"amount": loss})
		return nil
	}
	e.record(p.ID, "red_choice_move_back", map[string]any{"cells": ev.Value})
	e.MovePlayer(p, ev.Value, false, true)
	return nil
}

// ResolveOwnDiscard discards one of the player's own cards.
func (e *Engine) ResolveOwnDiscard(cardIdx int) error {
	ev, err := e.peekHead(EventChooseOwnDiscard)
	if err != nil {
		return err
	}
	p := ev.Player
	if cardIdx < 0 || cardIdx >= len(p.Hand) {
		return ErrInvalidChoice
	}
	e.dropHead()

	c := p.RemoveCard(cardIdx)
	e.state.Library.Shop.Discard(c)
	e.record(p.ID, "card_discarded", map[string]any{"card": c.Name})
	return nil
}
