package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shaherezada/cutthroat-race/internal/cards"
)

func TestIsLastPlaceStrict(t *testing.T) {
	eng, _ := testEngine(t, 3)
	players := eng.State().Players

	// Everyone level: nobody is last.
	for _, p := range players {
		p.Position = 5
	}
	for _, p := range players {
		assert.False(t, eng.IsLastPlace(p), "player %d at level positions", p.ID)
	}

	// A trailing player behind a tied pair is last.
	players[0].Position = 3
	players[1].Position = 7
	players[2].Position = 7
	assert.True(t, eng.IsLastPlace(players[0]))
	assert.False(t, eng.IsLastPlace(players[1]))
	assert.False(t, eng.IsLastPlace(players[2]))

	// Distinct positions: only the hindmost is last.
	players[0].Position = 1
	players[1].Position = 2
	players[2].Position = 3
	assert.True(t, eng.IsLastPlace(players[0]))
	assert.False(t, eng.IsLastPlace(players[1]))
	assert.False(t, eng.IsLastPlace(players[2]))
}

func TestStartTurnChecksSkipsForfeitedTurn(t *testing.T) {
	eng, rec := testEngine(t, 2)
	p := eng.CurrentPlayer()
	p.SkipNextTurn = true

	skipped := eng.StartTurnChecks()
	assert.True(t, skipped)
	assert.False(t, p.SkipNextTurn, "the flag is spent")
	assert.True(t, rec.has("turn_skipped"))
	assert.NotSame(t, p, eng.CurrentPlayer(), "turn advanced")
}

func TestStartTurnChecksPromotesBankedExtraTurn(t *testing.T) {
	eng, _ := testEngine(t, 2)
	p := eng.CurrentPlayer()
	p.PendingExtraTurn = true

	assert.False(t, eng.StartTurnChecks())
	assert.True(t, p.HasExtraTurn)
	assert.False(t, p.PendingExtraTurn)
}

func TestStartTurnChecksRunOnce(t *testing.T) {
	eng, _ := testEngine(t, 2)
	eng.State().AddRule(&cards.RuleCard{Name: "Consolation", Value: 3, Effect: cards.EffectRuleLastIncome})
	p := eng.CurrentPlayer()
	eng.State().Players[1].Position = 10

	eng.StartTurnChecks()
	eng.StartTurnChecks()
	assert.Equal(t, 13, p.Coins, "income granted once per turn")
}

func TestLastPlaceStartPerks(t *testing.T) {
	eng, _ := testEngine(t, 2)
	eng.State().AddRule(&cards.RuleCard{Name: "Help for the Trailing", Effect: cards.EffectRuleLastAid})
	eng.State().AddRule(&cards.RuleCard{Name: "Trailing Luck", Effect: cards.EffectRuleLastDrawGood})
	p := eng.CurrentPlayer()
	eng.State().Players[1].Position = 10

	eng.StartTurnChecks()
	assert.Len(t, p.Hand, 1, "free shop card")
	require.Equal(t, 1, eng.PendingCount())
	assert.True(t, eng.PeekEvent().GoodSide)
}

func TestLastAidRespectsHandCap(t *testing.T) {
	eng, _ := testEngine(t, 2)
	eng.State().AddRule(&cards.RuleCard{Name: "Help for the Trailing", Effect: cards.EffectRuleLastAid})
	p := eng.CurrentPlayer()
	eng.State().Players[1].Position = 10
	for i := 0; i < MaxHandSize; i++ {
		p.Hand = append(p.Hand, &cards.ShopCard{Name: "Filler"})
	}

	eng.StartTurnChecks()
	assert.Len(t, p.Hand, MaxHandSize)
}

func TestEndTurnBlocksOnPendingEvents(t *testing.T) {
	eng, _ := testEngine(t, 2)
	eng.push(&PendingEvent{Type: EventRuleReveal, Player: eng.CurrentPlayer(), Rule: &cards.RuleCard{Name: "X"}})

	require.ErrorIs(t, eng.EndTurn(), ErrPendingEvents)
}

func TestEndTurnAdvancesOrRepeats(t *testing.T) {
	eng, _ := testEngine(t, 2)
	first := eng.CurrentPlayer()

	require.NoError(t, eng.EndTurn())
	assert.NotSame(t, first, eng.CurrentPlayer())
	assert.Equal(t, 2, eng.State().TurnNumber)

	// An extra turn keeps the seat.
	second := eng.CurrentPlayer()
	second.HasExtraTurn = true
	require.NoError(t, eng.EndTurn())
	assert.Same(t, second, eng.CurrentPlayer())
	assert.False(t, second.HasExtraTurn, "flags reset for the repeat turn")
}

func TestEndTurnLastPlaceWage(t *testing.T) {
	eng, _ := testEngine(t, 2, 4)
	eng.State().AddRule(&cards.RuleCard{Name: "Trailing Wage", Effect: cards.EffectRuleLastDiceCoins})
	p := eng.CurrentPlayer()
	eng.State().Players[1].Position = 10

	require.NoError(t, eng.EndTurn())
	assert.Equal(t, 14, p.Coins)
}

func TestEndTurnLastPlaceLeapLands(t *testing.T) {
	eng, _ := testEngine(t, 2)
	eng.State().AddRule(&cards.RuleCard{Name: "Trailing Leap", Value: 5, Effect: cards.EffectRuleLastMove5})
	p := eng.CurrentPlayer()
	p.Position = 28 // leap lands on empty cell 33
	eng.State().Players[1].Position = 40

	require.NoError(t, eng.EndTurn())
	assert.Equal(t, 33, p.Position)
}

func TestAttemptFinishRequiresFinishCell(t *testing.T) {
	eng, _ := testEngine(t, 2)
	p := eng.CurrentPlayer()

	require.ErrorIs(t, eng.AttemptFinish(p, 0), ErrNotFinished)
}

func TestAttemptFinishBoostMath(t *testing.T) {
	// Roll 4 + boost 2 reaches 6.
	eng, _ := testEngine(t, 2, 4)
	p := eng.CurrentPlayer()
	p.IsFinished = true

	require.NoError(t, eng.AttemptFinish(p, 2))
	assert.True(t, eng.IsGameOver())
	assert.Same(t, p, eng.Winner())
	assert.Equal(t, StartCoins-2*finishBoostCost, p.Coins, "boost paid up front")
}

func TestAttemptFinishMissForfeitsBoost(t *testing.T) {
	eng, _ := testEngine(t, 2, 4)
	p := eng.CurrentPlayer()
	p.IsFinished = true

	require.NoError(t, eng.AttemptFinish(p, 1))
	assert.False(t, eng.IsGameOver())
	assert.Equal(t, StartCoins-finishBoostCost, p.Coins, "missed boost is forfeited")

	p.Coins = 4
	require.ErrorIs(t, eng.AttemptFinish(p, 1), ErrCannotAfford)
}

func TestUseCardRocket(t *testing.T) {
	eng, _ := testEngine(t, 2)
	p := eng.CurrentPlayer()
	p.Position = 28
	p.Hand = append(p.Hand, &cards.ShopCard{
		Name: "Rocket", UseCost: 3, Value: 5, Effect: cards.EffectMoveRocket,
	})

	require.NoError(t, eng.UseCard(p, 0, -1))
	assert.Equal(t, 33, p.Position)
	assert.Equal(t, StartCoins-3, p.Coins)
	assert.True(t, p.UsedCards[0])

	require.ErrorIs(t, eng.UseCard(p, 0, -1), ErrInvalidChoice, "one use per turn")
}

func TestRemoveCardKeepsUsedFlagsAligned(t *testing.T) {
	eng, _ := testEngine(t, 2)
	p := eng.CurrentPlayer()
	p.Position = 28
	p.Hand = append(p.Hand,
		&cards.ShopCard{Name: "Voodoo", UseCost: 3, Effect: cards.EffectAttackVoodoo},
		&cards.ShopCard{Name: "Rocket", UseCost: 3, Value: 5, Effect: cards.EffectMoveRocket},
	)

	require.NoError(t, eng.UseCard(p, 1, -1))
	assert.Equal(t, 33, p.Position)

	// Losing the card in slot 0 shifts the rocket down; its spent flag
	// must move with it so it cannot fire twice in one turn.
	p.RemoveCard(0)
	require.Len(t, p.Hand, 1)
	assert.True(t, p.UsedCards[0])
	require.ErrorIs(t, eng.UseCard(p, 0, -1), ErrInvalidChoice)
}

func TestUseCardGrenadeAutoTargets(t *testing.T) {
	eng, _ := testEngine(t, 2)
	p, other := eng.State().Players[0], eng.State().Players[1]
	other.Position = 33
	p.Hand = append(p.Hand, &cards.ShopCard{
		Name: "Grenade", UseCost: 3, Value: 6, Effect: cards.EffectAttackGrenade,
	})

	require.NoError(t, eng.UseCard(p, 0, -1))
	assert.Equal(t, 27, other.Position)
}

func TestUseCardHookAndHarpoonRange(t *testing.T) {
	eng, _ := testEngine(t, 2)
	p, other := eng.State().Players[0], eng.State().Players[1]
	p.Position, other.Position = 30, 45
	p.Hand = append(p.Hand, &cards.ShopCard{
		Name: "Hook", UseCost: 3, Value: 10, Effect: cards.EffectAttackHook,
	})

	require.ErrorIs(t, eng.UseCard(p, 0, -1), ErrInvalidChoice, "out of reach")
	assert.Equal(t, StartCoins, p.Coins, "no charge without a target")

	other.Position = 39
	require.NoError(t, eng.UseCard(p, 0, -1))
	assert.Equal(t, 39, p.Position, "the hook moves its user")

	// Harpoon drags the target instead.
	eng2, _ := testEngine(t, 2)
	p2, other2 := eng2.State().Players[0], eng2.State().Players[1]
	p2.Position, other2.Position = 30, 39
	p2.Hand = append(p2.Hand, &cards.ShopCard{
		Name: "Harpoon", UseCost: 3, Value: 10, Effect: cards.EffectMoveHarpoon,
	})
	require.NoError(t, eng2.UseCard(p2, 0, -1))
	assert.Equal(t, 30, other2.Position)
	assert.Equal(t, 30, p2.Position)
}

func TestUseCardHandOfFateScalesWithPlayers(t *testing.T) {
	eng, _ := testEngine(t, 2)
	p, other := eng.State().Players[0], eng.State().Players[1]
	other.Position = 33
	p.Hand = append(p.Hand, &cards.ShopCard{Name: "Hand of Fate", Effect: cards.EffectAttackHandFate})

	require.NoError(t, eng.UseCard(p, 0, -1))
	assert.Equal(t, 32, other.Position, "one cell in small games")

	eng2, _ := testEngine(t, 4)
	p2 := eng2.State().Players[0]
	target := eng2.State().Players[3]
	target.Position = 33
	p2.Hand = append(p2.Hand, &cards.ShopCard{Name: "Hand of Fate", Effect: cards.EffectAttackHandFate})

	require.NoError(t, eng2.UseCard(p2, 0, target.ID))
	assert.Equal(t, 31, target.Position, "two cells in larger games")
}

func TestUseCardRejectsPassives(t *testing.T) {
	eng, _ := testEngine(t, 2)
	p := eng.CurrentPlayer()
	p.Hand = append(p.Hand, &cards.ShopCard{
		Name: "Magic Cube", IsPassive: true, Effect: cards.EffectPassiveRollPlus1,
	})

	require.ErrorIs(t, eng.UseCard(p, 0, -1), ErrInvalidChoice)
}

func TestUseCardVoodooQueuesBadDraw(t *testing.T) {
	eng, _ := testEngine(t, 2)
	p, other := eng.State().Players[0], eng.State().Players[1]
	p.Hand = append(p.Hand, &cards.ShopCard{
		Name: "Voodoo", UseCost: 3, Effect: cards.EffectAttackVoodoo,
	})

	require.NoError(t, eng.UseCard(p, 0, -1))
	require.Equal(t, 1, eng.PendingCount())
	ev := eng.PeekEvent()
	assert.Equal(t, EventCardReveal, ev.Type)
	assert.Same(t, other, ev.Player)
	assert.False(t, ev.GoodSide)
}

func TestCanPlayerDoActions(t *testing.T) {
	eng, _ := testEngine(t, 2)
	p, other := eng.State().Players[0], eng.State().Players[1]

	assert.False(t, eng.CanPlayerDoActions(p), "empty hand")

	p.Hand = append(p.Hand, &cards.ShopCard{
		Name: "Magic Cube", IsPassive: true, Effect: cards.EffectPassiveRollPlus1,
	})
	assert.False(t, eng.CanPlayerDoActions(p), "passives are not actions")

	p.Hand = append(p.Hand, &cards.ShopCard{
		Name: "Hook", UseCost: 3, Value: 10, Effect: cards.EffectAttackHook,
	})
	p.Position, other.Position = 30, 45
	assert.False(t, eng.CanPlayerDoActions(p), "no target in reach")

	other.Position = 35
	assert.True(t, eng.CanPlayerDoActions(p))

	p.Coins = 2
	assert.False(t, eng.CanPlayerDoActions(p), "cannot afford the use cost")
}

func TestExtraTurnSurvivesEndTurnChecksOrder(t *testing.T) {
	// A granted double turn lands on the other player and fires on their
	// next turn, not the granter's.
	eng, _ := testEngine(t, 2)
	granter, grantee := eng.State().Players[0], eng.State().Players[1]

	eng.ApplyEffect(cards.EffectGiveDoubleTurnEnemy, granter, 0, nil)
	require.NoError(t, eng.EndTurn())
	assert.Same(t, grantee, eng.CurrentPlayer())

	assert.False(t, eng.StartTurnChecks())
	assert.True(t, grantee.HasExtraTurn)
	require.NoError(t, eng.EndTurn())
	assert.Same(t, grantee, eng.CurrentPlayer(), "extra turn keeps the seat")
}
