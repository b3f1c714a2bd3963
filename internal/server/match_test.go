package server

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shaherezada/cutthroat-race/internal/database"
	"github.com/Shaherezada/cutthroat-race/internal/game"
	"github.com/Shaherezada/cutthroat-race/internal/historian"
)

type scriptDice struct {
	rolls []int
	i     int
}

func (d *scriptDice) Roll() int {
	r := d.rolls[d.i%len(d.rolls)]
	d.i++
	return r
}

func testMatch(t *testing.T, rolls ...int) *Match {
	t.Helper()
	if len(rolls) == 0 {
		rolls = []int{1}
	}
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	id := uuid.New()
	hist := historian.New(id, log, nil)
	eng, err := game.NewEngine(game.Config{
		ID:       id,
		Players:  2,
		Seed:     7,
		Dice:     &scriptDice{rolls: rolls},
		Recorder: hist,
	})
	require.NoError(t, err)
	return NewMatch(eng, hist, database.New(nil), log, t.TempDir())
}

func payload(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestHandleActionRejectsOutOfTurn(t *testing.T) {
	m := testMatch(t, 3)

	m.HandleAction(1, Action{Type: "roll"})
	assert.Nil(t, m.rolls, "player 1 cannot roll on player 0's turn")
}

func TestHandleActionRollThenMove(t *testing.T) {
	m := testMatch(t, 3)
	p := m.eng.CurrentPlayer()

	m.HandleAction(0, Action{Type: "start_turn"})
	m.HandleAction(0, Action{Type: "roll"})
	require.Equal(t, []int{3}, m.rolls)
	require.Equal(t, []int{3}, m.options)

	m.HandleAction(0, Action{Type: "move", Payload: payload(t, map[string]int{"steps": 3})})
	assert.Equal(t, 3, p.Position)
	assert.True(t, m.moved)
}

func TestHandleActionMoveRequiresRoll(t *testing.T) {
	m := testMatch(t)
	p := m.eng.CurrentPlayer()

	m.HandleAction(0, Action{Type: "move", Payload: payload(t, map[string]int{"steps": 3})})
	assert.Equal(t, 0, p.Position)
}

func TestHandleActionRejectsUnrolledSteps(t *testing.T) {
	m := testMatch(t, 3)
	p := m.eng.CurrentPlayer()

	m.HandleAction(0, Action{Type: "roll"})
	m.HandleAction(0, Action{Type: "move", Payload: payload(t, map[string]int{"steps": 5})})
	assert.Equal(t, 0, p.Position, "5 was not among the rolled options")
}

func TestHandleActionDoubleRollRejected(t *testing.T) {
	m := testMatch(t, 3)

	m.HandleAction(0, Action{Type: "roll"})
	first := m.rolls
	m.HandleAction(0, Action{Type: "roll"})
	assert.Equal(t, first, m.rolls)
}

func TestPendingEventBlocksTurnActions(t *testing.T) {
	m := testMatch(t, 3)
	p := m.eng.CurrentPlayer()

	m.HandleAction(0, Action{Type: "roll"})
	// Landing on cell 3 opens a shop offer.
	m.HandleAction(0, Action{Type: "move", Payload: payload(t, map[string]int{"steps": 3})})
	require.Equal(t, 1, m.eng.PendingCount())

	m.HandleAction(0, Action{Type: "end_turn"})
	assert.Same(t, p, m.eng.CurrentPlayer(), "turn cannot end with a pending offer")

	// Declining the offer unblocks the turn.
	m.HandleAction(0, Action{Type: "resolve_shop", Payload: payload(t, map[string]int{"choice": 2})})
	assert.Zero(t, m.eng.PendingCount())

	m.HandleAction(0, Action{Type: "end_turn"})
	assert.NotSame(t, p, m.eng.CurrentPlayer())
	assert.Nil(t, m.rolls, "roll gate resets for the next turn")
}

func TestResolveAddressedToDeciderOnly(t *testing.T) {
	m := testMatch(t, 3)
	a, b := m.eng.State().Players[0], m.eng.State().Players[1]
	b.Position = 30

	m.HandleAction(0, Action{Type: "roll"})
	a.Position = 57 // tornado at 60
	m.HandleAction(0, Action{Type: "move", Payload: payload(t, map[string]int{"steps": 3})})
	require.Equal(t, 1, m.eng.PendingCount())
	require.Equal(t, game.EventTornadoDecision, m.eng.PeekEvent().Type)

	// The mover cannot answer the opponent's tornado decision.
	m.HandleAction(0, Action{Type: "resolve_tornado", Payload: payload(t, map[string]bool{"pay": true})})
	require.Equal(t, 1, m.eng.PendingCount())

	m.HandleAction(1, Action{Type: "resolve_tornado", Payload: payload(t, map[string]bool{"pay": true})})
	assert.Zero(t, m.eng.PendingCount())
	assert.Equal(t, 30, b.Position)
	assert.Equal(t, 0, b.Coins)
}

func TestPendingPayloadShapes(t *testing.T) {
	m := testMatch(t, 3)
	p := m.eng.CurrentPlayer()

	m.HandleAction(0, Action{Type: "roll"})
	m.HandleAction(0, Action{Type: "move", Payload: payload(t, map[string]int{"steps": 3})})
	ev := m.eng.PeekEvent()
	require.NotNil(t, ev)

	got := pendingPayload(ev)
	assert.Equal(t, "shop", got["event"])
	assert.Len(t, got["cards"], 2)
	assert.Equal(t, false, got["free"])

	state := m.publicState()
	assert.Equal(t, 1, state["pending"])
	assert.Equal(t, p.ID, state["current"])
}
