package cards

import (
	"fmt"
	"math/rand"
)

// Library bundles the three decks of a match.
type Library struct {
	Shop   *Deck[*ShopCard]
	Events *Deck[*EventCard]
	Rules  *Deck[*RuleCard]
}

// NewLibrary builds the three shuffled decks from the standard card set.
func NewLibrary(rng *rand.Rand) *Library {
	return &Library{
		Shop:   NewDeck("Joe's Shop", shopDeck(), rng),
		Events: NewDeck("Chests", eventDeck(), rng),
		Rules:  NewDeck("Ta-Dam", ruleDeck(), rng),
	}
}

// ReferencedEffects returns every effect id referenced by the standard card
// set. The engine checks this against its dispatch registry at load time.
func ReferencedEffects() []EffectID {
	seen := map[EffectID]bool{}
	var out []EffectID
	add := func(id EffectID) {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, c := range shopTemplates() {
		add(c.Effect)
	}
	for _, c := range ruleDeck() {
		add(c.Effect)
	}
	for _, c := range eventDeck() {
		add(c.Good.Effect)
		add(c.Bad.Effect)
	}
	return out
}

// Validate checks that every effect id referenced by the standard card set
// is present in the given handler registry. A gap is a configuration error.
func Validate(registered map[EffectID]bool) error {
	for _, id := range ReferencedEffects() {
		if !registered[id] {
			return fmt.Errorf("cards: effect %q referenced by card data has no registered handler", id)
		}
	}
	return nil
}

func shopTemplates() []*ShopCard {
	return []*ShopCard{
		// Active abilities.
		{UID: "shop_voodoo", Name: "Voodoo", UseCost: 3, SpriteID: 9,
			Description: "Discard 3 coins to make the player ahead of you draw a Bad card.",
			Effect:      EffectAttackVoodoo},
		{UID: "shop_grenade", Name: "Grenade", UseCost: 3, Value: 6, SpriteID: 5,
			Description: "Discard 3 coins to push the player ahead of you 6 cells back.",
			Effect:      EffectAttackGrenade},
		{UID: "shop_hook", Name: "Hook", UseCost: 3, Value: 10, SpriteID: 10,
			Description: "Discard 3 coins to move onto another player's cell if they are within 10 cells ahead of you.",
			Effect:      EffectAttackHook},
		{UID: "shop_harpoon", Name: "Harpoon", UseCost: 3, Value: 10, SpriteID: 8,
			Description: "Discard 3 coins to pull another player onto your cell if they are within 10 cells ahead of you.",
			Effect:      EffectMoveHarpoon},
		{UID: "shop_rocket", Name: "Rocket", UseCost: 3, Value: 5, SpriteID: 2,
			Description: "Discard 3 coins to move 5 cells forward.",
			Effect:      EffectMoveRocket},
		{UID: "shop_hand_fate", Name: "Hand of Fate", Value: 2, SpriteID: 3,
			Description: "Choose another player. They move 2 cells back (1 cell in a two- or three-player game).",
			Effect:      EffectAttackHandFate},

		// Passives.
		{UID: "shop_magic_cube", Name: "Magic Cube", IsPassive: true, Value: 1, SpriteID: 4,
			Description: "Add 1 to the result of your dice roll.",
			Effect:      EffectPassiveRollPlus1},
		{UID: "shop_magnet", Name: "Money Magnet", IsPassive: true, Value: 5, SpriteID: 7,
			Description: "If you stop on a red cell, gain 5 coins.",
			Effect:      EffectPassiveRedIncome},
		{UID: "shop_travelator", Name: "Travelator", IsPassive: true, Value: 4, SpriteID: 1,
			Description: "If you stop on an empty cell, move 4 cells forward.",
			Effect:      EffectPassiveEmptyMove},
		{UID: "shop_clover", Name: "Four-Leaf Clover", IsPassive: true, Value: 4, SpriteID: 6,
			Description: "If you stop on an empty cell, gain 4 coins.",
			Effect:      EffectPassiveEmptyGain},
	}
}

// shopDeck duplicates each template; the physical deck carries two copies
// of every shop card.
func shopDeck() []*ShopCard {
	var deck []*ShopCard
	for _, c := range shopTemplates() {
		deck = append(deck, c, c)
	}
	return deck
}

func ruleDeck() []*RuleCard {
	return []*RuleCard{
		{UID: "rule_red_penalty", Name: "Red Trap", SpriteID: 5,
			Description: "If you stop on a red cell, choose one: lose 3 coins or move 3 cells back.",
			Effect:      EffectRuleRedChoice},
		{UID: "rule_green_bonus", Name: "Green Bonus", Value: 5, SpriteID: 6,
			Description: "If you stop on a green cell, gain 5 coins.",
			Effect:      EffectRuleGreenIncome},
		{UID: "rule_green_reroll", Name: "Green Surge", SpriteID: 4,
			Description: "If you stop on a green cell, take another turn.",
			Effect:      EffectRuleGreenExtraTurn},
		{UID: "rule_green_turbo", Name: "Green Turbo", Value: 7, SpriteID: 3,
			Description: "If you stop on a green cell, move 7 forward.",
			Effect:      EffectRuleGreenMove},
		{UID: "rule_last_aid", Name: "Help for the Trailing", SpriteID: 7,
			Description: "The last player draws a free Joe's Shop card at the start of their turn if they hold fewer than three.",
			Effect:      EffectRuleLastAid},
		{UID: "rule_double_move", Name: "Double Move", SpriteID: 8,
			Description: "If you roll a double, take another turn.",
			Effect:      EffectRuleDoubleReroll},
		{UID: "rule_aggro", Name: "Aggression", SpriteID: 1,
			Description: "If you end your move on a cell with another player, start a skirmish with them!",
			Effect:      EffectRuleCollisionDuel},
		{UID: "rule_last_pity", Name: "Consolation", Value: 3, SpriteID: 2,
			Description: "The last player gains 3 coins at the start of their turn.",
			Effect:      EffectRuleLastIncome},
		{UID: "rule_last_dice_coins", Name: "Trailing Wage", SpriteID: 13,
			Description: "The last player rolls 1 die at the end of their turn and gains that many coins.",
			Effect:      EffectRuleLastDiceCoins},
		{UID: "rule_six_skip", Name: "Curse of the Six", SpriteID: 14,
			Description: "If at least one die shows a six, skip a turn. If you are on the Gum cell, ignore this card.",
			Effect:      EffectRuleSixSkip},
		{UID: "rule_red_bad", Name: "Red Misfortune", SpriteID: 15,
			Description: "If you stop on a red cell, draw a Bad card.",
			Effect:      EffectRuleRedBad},
		{UID: "rule_last_draw_good", Name: "Trailing Luck", SpriteID: 16,
			Description: "The last player draws a Good card at the start of their turn.",
			Effect:      EffectRuleLastDrawGood},
		{UID: "rule_green_good", Name: "Green Gift", SpriteID: 12,
			Description: "If you stop on a green cell, draw a Good card.",
			Effect:      EffectRuleGreenGood},
		{UID: "rule_red_tax_all", Name: "Red Tax", Value: 2, SpriteID: 11,
			Description: "If you stop on a red cell, give every player 2 coins (4 coins in a two-player game).",
			Effect:      EffectRuleRedTaxAll},
		{UID: "rule_overtake_steal", Name: "Pickpocket", Value: 3, SpriteID: 9,
			Description: "If you overtake someone, take 3 coins from them.",
			Effect:      EffectRuleOvertakeSteal},
		{UID: "rule_last_move_5", Name: "Trailing Leap", Value: 5, SpriteID: 10,
			Description: "The last player moves 5 extra cells forward at the end of their turn. Cell effects apply as usual.",
			Effect:      EffectRuleLastMove5},
	}
}

func eventDeck() []*EventCard {
	pairs := []struct {
		good EventSide
		bad  EventSide
	}{
		{
			EventSide{Name: "Green Light", Effect: EffectMoveNearestGreen,
				Description: "Move forward to the nearest green cell. If there is no green cell ahead, move 3 cells forward."},
			EventSide{Name: "Treat", Effect: EffectPayAllOthersBank, Value: 3,
				Description: "Every player except you gains 3 coins."},
		},
		{
			EventSide{Name: "Extra Move", Effect: EffectExtraTurnPayCoins, Value: 2,
				Description: "Discard 2 coins to take another turn. If you have fewer than 2 coins, nothing happens."},
			EventSide{Name: "Lucky One", Effect: EffectNoEffect,
				Description: "You are lucky! Nothing happens."},
		},
		{
			EventSide{Name: "Looting", Effect: EffectStealShopCardLeader,
				Description: "Take any Joe's Shop card from a player who is ahead of you."},
			EventSide{Name: "Mass Robbery", Effect: EffectAllLoseCoinsGlobal, Value: 5,
				Description: "Every player loses 5 coins."},
		},
		{
			EventSide{Name: "Paid Boost", Effect: EffectPayCoinsMoveFlexible, Value: 2,
				Description: "Discard up to 5 coins. Move 2 cells forward for each coin discarded."},
			EventSide{Name: "Bad Luck", Effect: EffectRollLoseCoinsOrBack,
				Description: "Roll a die: 1-3 lose 5 coins; 4-6 move 10 cells back."},
		},
		{
			EventSide{Name: "Extortion", Effect: EffectStealCoinsTarget, Value: 3,
				Description: "Choose another player and take 3 coins from them."},
			EventSide{Name: "Property Tax", Effect: EffectTaxShopCards, Value: 3,
				Description: "Pay 3 coins for each of your Joe's Shop cards. Discard every card you cannot or will not pay for."},
		},
		{
			EventSide{Name: "Disposal", Effect: EffectDiscardEnemyShopCard,
				Description: "Discard any Joe's Shop card belonging to another player."},
			EventSide{Name: "Nobility", Effect: EffectGiveDoubleTurnEnemy,
				Description: "Choose another player. On their turn they move twice in a row."},
		},
		{
			EventSide{Name: "Setup", Effect: EffectForceEnemyDrawBad,
				Description: "Choose another player; they draw a Bad card."},
			EventSide{Name: "Loss", Effect: EffectLoseCoins, Value: 5,
				Description: "Lose 5 coins."},
		},
		{
			EventSide{Name: "Rival's Fine", Effect: EffectForceEnemyLoseCoins, Value: 5,
				Description: "Choose another player; they lose 5 coins."},
			EventSide{Name: "Enemy Advantage", Effect: EffectOthersMoveForward, Value: 5,
				Description: "All other players move 5 cells forward."},
		},
		{
			EventSide{Name: "Gamble", Effect: EffectRollGambleMoneyMove,
				Description: "Roll a die: 1-3 gain 10 coins; 4-6 move 5 cells forward."},
			EventSide{Name: "Failure", Effect: EffectMoveSelfBack, Value: 5,
				Description: "Move 5 cells back."},
		},
		{
			EventSide{Name: "Windfall", Effect: EffectGainCoins, Value: 5,
				Description: "Gain 5 coins."},
			EventSide{Name: "Head Start for the Rest", Effect: EffectOthersGainCoinsMove, Value: 3,
				Description: "Every player except you gains 3 coins and moves 3 cells forward."},
		},
		{
			EventSide{Name: "Trap", Effect: EffectPlaceMines, Value: 1,
				Description: "Place 1 of your coins on any cells. When any player stops on a cell with a coin, they skip their next turn and the coin is discarded. The cell's own effect does not trigger."},
			EventSide{Name: "Inventory", Effect: EffectAllDiscardToOneShop,
				Description: "Every player discards all of their Joe's Shop cards except one."},
		},
		{
			EventSide{Name: "Easy Road", Effect: EffectMoveForwardGainCoins, Value: 3,
				Description: "Move 3 cells forward and gain 3 coins."},
			EventSide{Name: "Shared Delay", Effect: EffectSkipTurnMutual,
				Description: "Choose another player. You both skip your next turn (in a two-player game only you skip)."},
		},
		{
			EventSide{Name: "Levies", Effect: EffectSteal2FromAll, Value: 2,
				Description: "Take 2 coins from every player."},
			EventSide{Name: "Forward Shove", Effect: EffectRollPushEnemy,
				Description: "Choose another player, roll 1 die and move them forward by the result."},
		},
		{
			EventSide{Name: "Reward", Effect: EffectGainCoins, Value: 10,
				Description: "Gain 10 coins."},
			EventSide{Name: "Alms", Effect: EffectGive5ToTarget, Value: 5,
				Description: "Choose another player and give them 5 of your coins."},
		},
		{
			EventSide{Name: "Forced March", Effect: EffectMoveSelfForward, Value: 5,
				Description: "Move 5 cells forward."},
			EventSide{Name: "Lost Gear", Effect: EffectDiscardShopOrRed,
				Description: "Discard a Joe's Shop card. If you have none, move back to the nearest red cell."},
		},
		{
			EventSide{Name: "Overdrive", Effect: EffectPayCoinsMoveFlexible,
				Description: "Discard any number of coins and move that many cells forward."},
			EventSide{Name: "Someone Else's Luck", Effect: EffectGive10ToTarget, Value: 10,
				Description: "Choose another player; they receive 10 coins."},
		},
		{
			EventSide{Name: "Gift from Joe", Effect: EffectDraw2Keep1Free,
				Description: "Draw 2 Joe's Shop cards. Keep one for free and discard the rest."},
			EventSide{Name: "Red Rollback", Effect: EffectMoveBackToRedOr3,
				Description: "Move back to the nearest red cell. If there is no red cell behind you, move 3 cells back."},
		},
		{
			EventSide{Name: "Sabotage", Effect: EffectPayCoinsMoveOthersBack,
				Description: "Discard any number of coins. All other players move that many cells back."},
			EventSide{Name: "Double Misfortune", Effect: EffectDraw2Bad,
				Description: "Draw two Bad cards."},
		},
	}

	deck := make([]*EventCard, 0, len(pairs))
	for i, p := range pairs {
		deck = append(deck, &EventCard{
			UID:  fmt.Sprintf("event_%d", i),
			Good: p.good,
			Bad:  p.bad,
		})
	}
	return deck
}
