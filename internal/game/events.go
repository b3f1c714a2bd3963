package game

import "github.com/Shaherezada/cutthroat-race/internal/cards"

// PendingEventType tags a queued instruction the engine cannot resolve by
// itself. The tag determines which Resolve* entrypoint must be called next.
type PendingEventType string

const (
	EventShop               PendingEventType = "shop"                 // buy one of two cards or skip
	EventCardReveal         PendingEventType = "event_card"           // reveal and resolve a chest card face
	EventRuleReveal         PendingEventType = "rule_reveal"          // show a new house rule, then install it
	EventDuelChooseOpponent PendingEventType = "duel_choose_opponent" // pick a skirmish opponent
	EventDuelChooseReward   PendingEventType = "duel_choose_reward"   // winner picks a reward
	EventTornadoDecision    PendingEventType = "tornado_decision"     // pay the toll or be pulled in
	EventChooseTarget       PendingEventType = "choose_target"        // pick the target of an effect
	EventChooseCardDiscard  PendingEventType = "choose_card_discard"  // pick a card in the target's hand
	EventPlaceMines         PendingEventType = "place_mines"          // pick cells to mine, 1 coin each
	EventCoinTrade          PendingEventType = "coin_trade"           // spend coins for movement
	EventTaxShopCards       PendingEventType = "tax_shop_cards"       // pay per kept card, discard the rest
	EventDiscardToOne       PendingEventType = "discard_to_one"       // keep one hand card, discard the rest
	EventExtraTurnOffer     PendingEventType = "extra_turn_offer"     // pay for an extra turn
	EventRedChoice          PendingEventType = "red_choice"           // lose coins or move back
	EventChooseOwnDiscard   PendingEventType = "choose_own_discard"   // pick one of your own cards to discard
)

// DuelReward names the winner's reward options.
type DuelReward string

const (
	DuelRewardMoney     DuelReward = "money"      // take up to 10 coins from the loser
	DuelRewardPush      DuelReward = "push"       // push the loser 10 cells back
	DuelRewardStealCard DuelReward = "steal_card" // steal one shop card from the loser
)

// PendingEvent carries the minimal payload needed to validate and apply
// the external actor's eventual choice. Only the fields relevant to the
// Type are populated.
type PendingEvent struct {
	Type   PendingEventType
	Player *Player // who must decide

	ShopCards []*cards.ShopCard // shop offers or discard-choice lists
	FreeShop  bool              // draw_2_keep_1_free: price is zero

	Event    *cards.EventCard
	GoodSide bool

	Rule *cards.RuleCard

	Opponents []*Player
	Effect    cards.EffectID
	Value     int
	Target    *Player
	Steal     bool // choose_card_discard: steal instead of discard

	TargetPos int // tornado: the mover's cell

	Loser       *Player // duel reward
	AttackRoll  int
	DefenseRoll int

	Cost         int // extra_turn_offer
	MaxCoins     int // coin_trade budget
	StepsPerCoin int // coin_trade exchange rate
}

// push appends an event to the tail of the pending queue.
func (e *Engine) push(ev *PendingEvent) {
	e.pending = append(e.pending, ev)
}

// PeekEvent returns the head of the pending queue without removing it, or
// nil when the queue is empty. Only the head may be resolved.
func (e *Engine) PeekEvent() *PendingEvent {
	if len(e.pending) == 0 {
		return nil
	}
	return e.pending[0]
}

// PendingCount returns the number of queued events.
func (e *Engine) PendingCount() int { return len(e.pending) }

// dropHead removes the head event once its resolution is validated.
// Resolvers pop before applying, so chained events queue behind the
// remaining entries without reordering them.
func (e *Engine) dropHead() {
	e.pending = e.pending[1:]
}
