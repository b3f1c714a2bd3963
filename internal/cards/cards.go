// Package cards holds the three card shapes (shop items, house rules,
// two-faced event cards), the draw/discard deck, and the closed effect-id
// vocabulary shared with the engine's dispatch table.
package cards

import "math/rand"

// EffectID names one entry in the engine's effect dispatch table. The set
// referenced by card data is closed and versioned; the engine validates at
// load time that every referenced id has a registered handler.
type EffectID string

// Shop item effects.
const (
	EffectAttackVoodoo     EffectID = "attack_voodoo"
	EffectAttackGrenade    EffectID = "attack_grenade"
	EffectAttackHook       EffectID = "attack_hook"
	EffectMoveHarpoon      EffectID = "move_harpoon"
	EffectMoveRocket       EffectID = "move_rocket"
	EffectAttackHandFate   EffectID = "attack_hand_fate"
	EffectPassiveRollPlus1 EffectID = "passive_roll_plus_1"
	EffectPassiveRedIncome EffectID = "passive_red_income"
	EffectPassiveEmptyMove EffectID = "passive_empty_move"
	EffectPassiveEmptyGain EffectID = "passive_empty_income"
)

// House rule effects.
const (
	EffectRuleRedChoice      EffectID = "rule_red_choice"
	EffectRuleGreenIncome    EffectID = "rule_green_income"
	EffectRuleGreenExtraTurn EffectID = "rule_green_extra_turn"
	EffectRuleGreenMove      EffectID = "rule_green_move"
	EffectRuleLastAid        EffectID = "rule_last_aid"
	EffectRuleDoubleReroll   EffectID = "rule_double_reroll"
	EffectRuleCollisionDuel  EffectID = "rule_collision_duel"
	EffectRuleLastIncome     EffectID = "rule_last_player_income"
	EffectRuleLastDiceCoins  EffectID = "rule_last_dice_coins"
	EffectRuleSixSkip        EffectID = "rule_six_skip"
	EffectRuleRedBad         EffectID = "rule_red_bad"
	EffectRuleLastDrawGood   EffectID = "rule_last_draw_good"
	EffectRuleGreenGood      EffectID = "rule_green_good"
	EffectRuleRedTaxAll      EffectID = "rule_red_tax_all"
	EffectRuleOvertakeSteal  EffectID = "rule_overtake_steal"
	EffectRuleLastMove5      EffectID = "rule_last_move_5"
)

// Event card face effects.
const (
	EffectMoveNearestGreen       EffectID = "move_nearest_green"
	EffectPayAllOthersBank       EffectID = "pay_all_others_bank"
	EffectExtraTurnPayCoins      EffectID = "extra_turn_pay_coins"
	EffectNoEffect               EffectID = "no_effect"
	EffectStealShopCardLeader    EffectID = "steal_shop_card_leader"
	EffectAllLoseCoinsGlobal     EffectID = "all_lose_coins_global"
	EffectPayCoinsMoveFlexible   EffectID = "pay_coins_move_flexible"
	EffectRollLoseCoinsOrBack    EffectID = "roll_lose_coins_or_move_back"
	EffectStealCoinsTarget       EffectID = "steal_coins_target"
	EffectTaxShopCards           EffectID = "tax_shop_cards"
	EffectDiscardEnemyShopCard   EffectID = "discard_enemy_shop_card"
	EffectGiveDoubleTurnEnemy    EffectID = "give_double_turn_enemy"
	EffectForceEnemyDrawBad      EffectID = "force_enemy_draw_bad"
	EffectLoseCoins              EffectID = "lose_coins"
	EffectForceEnemyLoseCoins    EffectID = "force_enemy_lose_coins"
	EffectOthersMoveForward      EffectID = "others_move_forward"
	EffectRollGambleMoneyMove    EffectID = "roll_gamble_money_move"
	EffectMoveSelfBack           EffectID = "move_self_back"
	EffectGainCoins              EffectID = "gain_coins"
	EffectOthersGainCoinsMove    EffectID = "others_gain_coins_move"
	EffectPlaceMines             EffectID = "place_mines"
	EffectAllDiscardToOneShop    EffectID = "all_discard_to_one_shop_card"
	EffectMoveForwardGainCoins   EffectID = "move_forward_gain_coins"
	EffectSkipTurnMutual         EffectID = "skip_turn_mutual"
	EffectSteal2FromAll          EffectID = "steal_2_from_all"
	EffectRollPushEnemy          EffectID = "roll_push_enemy"
	EffectGive5ToTarget          EffectID = "give_5_to_target"
	EffectGive10ToTarget         EffectID = "give_10_to_target"
	EffectMoveSelfForward        EffectID = "move_self_forward"
	EffectDiscardShopOrRed       EffectID = "discard_shop_or_red"
	EffectDraw2Keep1Free         EffectID = "draw_2_keep_1_free"
	EffectMoveBackToRedOr3       EffectID = "move_back_to_red_or_3"
	EffectPayCoinsMoveOthersBack EffectID = "pay_coins_move_others_back"
	EffectDraw2Bad               EffectID = "draw_2_bad"
)

// ShopCard is a Joe's Shop card: either a one-shot purchasable ability or
// an always-on passive modifier. Cards are immutable value templates.
type ShopCard struct {
	UID         string
	Name        string
	UseCost     int
	Description string
	Effect      EffectID
	IsPassive   bool
	Value       int
	SpriteID    int
}

// RuleCard is a Ta-Dam card: a persistent house rule affecting all players
// until evicted from the bounded active-rules queue.
type RuleCard struct {
	UID         string
	Name        string
	Description string
	Effect      EffectID
	SpriteID    int
	Value       int
}

// EventSide describes one face of a chest card.
type EventSide struct {
	Name        string
	Description string
	Effect      EffectID
	Value       int
}

// EventCard is a two-faced chest card; exactly one face is revealed per
// draw depending on context.
type EventCard struct {
	UID  string
	Good EventSide
	Bad  EventSide
}

// Side returns the face selected by the draw context.
func (c *EventCard) Side(good bool) EventSide {
	if good {
		return c.Good
	}
	return c.Bad
}

// Deck is a draw pile plus a discard pile. A deck never mutates a card;
// it only tracks pile membership. Draw order is pile order, top = end.
type Deck[C any] struct {
	name    string
	draw    []C
	discard []C
	rng     *rand.Rand
}

// NewDeck builds a shuffled deck over the given cards.
func NewDeck[C any](name string, list []C, rng *rand.Rand) *Deck[C] {
	d := &Deck[C]{
		name: name,
		draw: append([]C(nil), list...),
		rng:  rng,
	}
	d.shuffle()
	return d
}

// Name returns the deck's display name.
func (d *Deck[C]) Name() string { return d.name }

// DrawLen returns the current draw pile size.
func (d *Deck[C]) DrawLen() int { return len(d.draw) }

// DiscardLen returns the current discard pile size.
func (d *Deck[C]) DiscardLen() int { return len(d.discard) }

// Draw pops up to n cards from the top of the draw pile, reshuffling the
// discard pile in when the draw pile runs dry mid-draw. If both piles are
// exhausted the returned slice is short.
func (d *Deck[C]) Draw(n int) []C {
	drawn := make([]C, 0, n)
	for i := 0; i < n; i++ {
		if len(d.draw) == 0 {
			d.reshuffle()
		}
		if len(d.draw) == 0 {
			break
		}
		top := d.draw[len(d.draw)-1]
		d.draw = d.draw[:len(d.draw)-1]
		drawn = append(drawn, top)
	}
	return drawn
}

// DrawOne draws a single card. The second result is false when the deck is
// fully exhausted.
func (d *Deck[C]) DrawOne() (C, bool) {
	drawn := d.Draw(1)
	if len(drawn) == 0 {
		var zero C
		return zero, false
	}
	return drawn[0], true
}

// Discard appends a card to the discard pile. No ownership check is made;
// the caller must only discard cards obtained from this deck.
func (d *Deck[C]) Discard(c C) {
	d.discard = append(d.discard, c)
}

func (d *Deck[C]) reshuffle() {
	if len(d.discard) == 0 {
		return
	}
	d.draw = append(d.draw, d.discard...)
	d.discard = d.discard[:0]
	d.shuffle()
}

func (d *Deck[C]) shuffle() {
	d.rng.Shuffle(len(d.draw), func(i, j int) {
		d.draw[i], d.draw[j] = d.draw[j], d.draw[i]
	})
}
