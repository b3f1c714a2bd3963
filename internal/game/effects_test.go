package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shaherezada/cutthroat-race/internal/cards"
)

func TestRegisteredEffectsCoverCardData(t *testing.T) {
	require.NoError(t, cards.Validate(registeredEffects()))
}

func TestEffectGainAndLoseCoins(t *testing.T) {
	eng, _ := testEngine(t, 2)
	p := eng.CurrentPlayer()

	eng.ApplyEffect(cards.EffectGainCoins, p, 5, nil)
	assert.Equal(t, 15, p.Coins)

	eng.ApplyEffect(cards.EffectLoseCoins, p, 20, nil)
	assert.Equal(t, 0, p.Coins, "loss capped at balance")
}

func TestEffectMoveNearestGreen(t *testing.T) {
	eng, _ := testEngine(t, 2)
	p := eng.CurrentPlayer()
	p.Position = 33

	eng.ApplyEffect(cards.EffectMoveNearestGreen, p, 0, nil)
	assert.Equal(t, 38, p.Position, "nearest green ahead of 33")
}

func TestEffectMoveBackToRedOr3(t *testing.T) {
	eng, _ := testEngine(t, 2)
	p := eng.CurrentPlayer()

	p.Position = 33
	eng.ApplyEffect(cards.EffectMoveBackToRedOr3, p, 0, nil)
	assert.Equal(t, 32, p.Position, "nearest red behind 33")

	// No red cell behind cell 5: plain 3-cell retreat.
	p.Position = 5
	eng.ApplyEffect(cards.EffectMoveBackToRedOr3, p, 0, nil)
	assert.Equal(t, 2, p.Position)
}

func TestEffectSteal2FromAllCapsPerPlayer(t *testing.T) {
	eng, _ := testEngine(t, 3)
	src := eng.State().Players[0]
	b, c := eng.State().Players[1], eng.State().Players[2]
	b.Coins, c.Coins = 1, 5

	eng.ApplyEffect(cards.EffectSteal2FromAll, src, 2, nil)
	assert.Equal(t, 13, src.Coins)
	assert.Equal(t, 0, b.Coins)
	assert.Equal(t, 3, c.Coins)
}

func TestEffectGive5TransfersFromSource(t *testing.T) {
	eng, _ := testEngine(t, 2)
	src, target := eng.State().Players[0], eng.State().Players[1]
	src.Coins = 3

	eng.ApplyEffect(cards.EffectGive5ToTarget, src, 5, nil)
	assert.Equal(t, 0, src.Coins, "partial transfer drains the source")
	assert.Equal(t, 13, target.Coins)
}

func TestEffectGive10GrantsFromBank(t *testing.T) {
	eng, _ := testEngine(t, 2)
	src, target := eng.State().Players[0], eng.State().Players[1]
	src.Coins = 0

	eng.ApplyEffect(cards.EffectGive10ToTarget, src, 10, nil)
	assert.Equal(t, 0, src.Coins, "source pays nothing")
	assert.Equal(t, 20, target.Coins)
}

func TestTargetedEffectAutoSelectsSoleOpponent(t *testing.T) {
	eng, _ := testEngine(t, 2)
	src, target := eng.State().Players[0], eng.State().Players[1]

	eng.ApplyEffect(cards.EffectStealCoinsTarget, src, 3, nil)
	assert.Zero(t, eng.PendingCount(), "two-player match never asks for a target")
	assert.Equal(t, 13, src.Coins)
	assert.Equal(t, 7, target.Coins)
}

func TestTargetedEffectSuspendsOnMultipleOpponents(t *testing.T) {
	eng, _ := testEngine(t, 3)
	src := eng.State().Players[0]

	eng.ApplyEffect(cards.EffectStealCoinsTarget, src, 3, nil)
	require.Equal(t, 1, eng.PendingCount())
	ev := eng.PeekEvent()
	assert.Equal(t, EventChooseTarget, ev.Type)
	assert.Len(t, ev.Opponents, 2)
}

func TestEffectStealShopCardLeaderNeedsSomeoneAhead(t *testing.T) {
	eng, _ := testEngine(t, 2)
	src, other := eng.State().Players[0], eng.State().Players[1]
	src.Position, other.Position = 20, 10
	other.Hand = append(other.Hand, &cards.ShopCard{Name: "Rocket"})

	eng.ApplyEffect(cards.EffectStealShopCardLeader, src, 0, nil)
	assert.Zero(t, eng.PendingCount())
	assert.Empty(t, src.Hand, "nobody ahead, nothing happens")

	other.Position = 30
	eng.ApplyEffect(cards.EffectStealShopCardLeader, src, 0, nil)
	assert.Len(t, src.Hand, 1)
	assert.Empty(t, other.Hand)
}

func TestEffectDraw2BadQueuesTwoReveals(t *testing.T) {
	eng, _ := testEngine(t, 2)
	p := eng.CurrentPlayer()

	eng.ApplyEffect(cards.EffectDraw2Bad, p, 0, nil)
	require.Equal(t, 2, eng.PendingCount())
	assert.Equal(t, EventCardReveal, eng.PeekEvent().Type)
	assert.False(t, eng.PeekEvent().GoodSide)
}

func TestEffectSkipTurnMutualTwoPlayerOnlySourceSkips(t *testing.T) {
	eng, _ := testEngine(t, 2)
	src, other := eng.State().Players[0], eng.State().Players[1]

	eng.ApplyEffect(cards.EffectSkipTurnMutual, src, 0, nil)
	assert.True(t, src.SkipNextTurn)
	assert.False(t, other.SkipNextTurn)
}

func TestEffectSkipTurnMutualTargetedBothSkip(t *testing.T) {
	eng, _ := testEngine(t, 3)
	src, target := eng.State().Players[0], eng.State().Players[2]

	eng.ApplyEffect(cards.EffectSkipTurnMutual, src, 0, target)
	assert.True(t, src.SkipNextTurn)
	assert.True(t, target.SkipNextTurn)
	assert.False(t, eng.State().Players[1].SkipNextTurn)
}

func TestEffectPayCoinsMoveFlexibleBudgets(t *testing.T) {
	eng, _ := testEngine(t, 2)
	p := eng.CurrentPlayer()

	// Capped variant: up to 5 coins at 2 cells each.
	eng.ApplyEffect(cards.EffectPayCoinsMoveFlexible, p, 2, nil)
	require.Equal(t, 1, eng.PendingCount())
	ev := eng.PeekEvent()
	assert.Equal(t, 5, ev.MaxCoins)
	assert.Equal(t, 2, ev.StepsPerCoin)
	eng.pending = nil

	// Open variant: the whole balance at 1 cell each.
	eng.ApplyEffect(cards.EffectPayCoinsMoveFlexible, p, 0, nil)
	require.Equal(t, 1, eng.PendingCount())
	ev = eng.PeekEvent()
	assert.Equal(t, p.Coins, ev.MaxCoins)
	assert.Equal(t, 1, ev.StepsPerCoin)
}

func TestEffectExtraTurnPayCoinsNeedsFunds(t *testing.T) {
	eng, _ := testEngine(t, 2)
	p := eng.CurrentPlayer()

	p.Coins = 1
	eng.ApplyEffect(cards.EffectExtraTurnPayCoins, p, 2, nil)
	assert.Zero(t, eng.PendingCount(), "broke players get no offer")

	p.Coins = 2
	eng.ApplyEffect(cards.EffectExtraTurnPayCoins, p, 2, nil)
	require.Equal(t, 1, eng.PendingCount())
	assert.Equal(t, EventExtraTurnOffer, eng.PeekEvent().Type)
}

func TestEffectDiscardShopOrRedBranches(t *testing.T) {
	eng, _ := testEngine(t, 2)
	p := eng.CurrentPlayer()

	// Empty hand falls through to the red rollback.
	p.Position = 33
	eng.ApplyEffect(cards.EffectDiscardShopOrRed, p, 0, nil)
	assert.Equal(t, 32, p.Position)
	assert.Zero(t, eng.PendingCount())

	// With a card in hand the player picks which to discard.
	p.Hand = append(p.Hand, &cards.ShopCard{Name: "Rocket"})
	eng.ApplyEffect(cards.EffectDiscardShopOrRed, p, 0, nil)
	require.Equal(t, 1, eng.PendingCount())
	assert.Equal(t, EventChooseOwnDiscard, eng.PeekEvent().Type)
}

func TestEffectOthersMoveForwardSuppressesLanding(t *testing.T) {
	eng, _ := testEngine(t, 3)
	src := eng.State().Players[0]
	b, c := eng.State().Players[1], eng.State().Players[2]
	b.Position, c.Position = 0, 17 // +5 puts b on a bad chest, c on a bad chest

	eng.ApplyEffect(cards.EffectOthersMoveForward, src, 5, nil)
	assert.Equal(t, 5, b.Position)
	assert.Equal(t, 22, c.Position)
	assert.Zero(t, eng.PendingCount(), "mass moves never run the landing pipeline")
}

func TestEffectGiveDoubleTurnBanksExtraTurn(t *testing.T) {
	eng, _ := testEngine(t, 2)
	src, target := eng.State().Players[0], eng.State().Players[1]

	eng.ApplyEffect(cards.EffectGiveDoubleTurnEnemy, src, 0, nil)
	assert.True(t, target.PendingExtraTurn)
	assert.False(t, target.HasExtraTurn, "promotion waits for the target's turn start")
}

func TestEffectRollBranches(t *testing.T) {
	// Low roll loses up to 5 coins.
	eng, _ := testEngine(t, 2, 2)
	p := eng.CurrentPlayer()
	p.Coins = 3
	eng.ApplyEffect(cards.EffectRollLoseCoinsOrBack, p, 0, nil)
	assert.Equal(t, 0, p.Coins)

	// High roll retreats 10.
	eng2, _ := testEngine(t, 2, 5)
	p2 := eng2.CurrentPlayer()
	p2.Position = 33
	eng2.ApplyEffect(cards.EffectRollLoseCoinsOrBack, p2, 0, nil)
	assert.Equal(t, 23, p2.Position)

	// Gamble: low roll pays out, high roll moves.
	eng3, _ := testEngine(t, 2, 1)
	p3 := eng3.CurrentPlayer()
	eng3.ApplyEffect(cards.EffectRollGambleMoneyMove, p3, 0, nil)
	assert.Equal(t, 20, p3.Coins)
}

func TestUnknownEffectIsRecordedNoOp(t *testing.T) {
	eng, rec := testEngine(t, 2)
	p := eng.CurrentPlayer()

	eng.ApplyEffect(cards.EffectID("does_not_exist"), p, 0, nil)
	assert.True(t, rec.has("effect_unimplemented"))
	assert.Equal(t, StartCoins, p.Coins)
}
