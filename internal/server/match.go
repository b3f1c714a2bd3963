package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Shaherezada/cutthroat-race/internal/database"
	"github.com/Shaherezada/cutthroat-race/internal/game"
	"github.com/Shaherezada/cutthroat-race/internal/historian"
)

// Action is one inbound client frame.
type Action struct {
	Type    string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Match drives one engine instance for its connected players. All engine
// access is serialized under mu; the engine itself is single-threaded.
type Match struct {
	mu sync.Mutex

	eng  *game.Engine
	hist *historian.Historian
	st   *database.Store
	log  *logrus.Logger

	conns  map[int]*client // player id -> connection
	logDir string

	// turn-phase gate: a player must roll before moving and may move
	// exactly once per turn.
	rolls   []int
	options []int
	moved   bool
}

// NewMatch builds a match session over a running engine.
func NewMatch(eng *game.Engine, hist *historian.Historian, st *database.Store, log *logrus.Logger, logDir string) *Match {
	return &Match{
		eng:    eng,
		hist:   hist,
		st:     st,
		log:    log,
		conns:  make(map[int]*client),
		logDir: logDir,
	}
}

// HandleAction routes one client frame into the engine. Turn ownership and
// phase checks happen here; index validation happens in both layers.
func (m *Match) HandleAction(playerID int, act Action) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.eng.IsGameOver() {
		m.sendError(playerID, "the game is over")
		return
	}

	// Pending-event resolutions are addressed to the event's decider, who
	// need not be the current player (tornado tolls, forced discards).
	if ev := m.eng.PeekEvent(); ev != nil {
		if !isResolveAction(act.Type) {
			m.sendError(playerID, "a pending event must be resolved first")
			return
		}
		if ev.Player.ID != playerID {
			m.sendError(playerID, "waiting on another player's decision")
			return
		}
		m.dispatchResolve(playerID, act)
		m.afterAction()
		return
	}

	if isResolveAction(act.Type) {
		m.sendError(playerID, "nothing to resolve")
		return
	}
	if m.eng.CurrentPlayer().ID != playerID {
		m.sendError(playerID, "not your turn")
		return
	}
	m.dispatchTurn(playerID, act)
	m.afterAction()
}

func (m *Match) dispatchTurn(playerID int, act Action) {
	p := m.eng.CurrentPlayer()

	switch act.Type {
	case "start_turn":
		if skipped := m.eng.StartTurnChecks(); skipped {
			m.broadcast(frame{Type: "turn_skipped", Player: playerID})
			return
		}
		m.sendTo(playerID, frame{
			Type: "turn_started", Player: playerID,
			Payload: map[string]any{"canUseCards": m.eng.CanPlayerDoActions(p)},
		})

	case "roll":
		if m.rolls != nil {
			m.sendError(playerID, "already rolled this turn")
			return
		}
		m.rolls = m.eng.Roll(p)
		m.options = m.eng.MoveOptions(p, m.rolls)
		m.broadcast(frame{
			Type: "rolled", Player: playerID,
			Payload: map[string]any{"rolls": m.rolls, "options": m.options},
		})

	case "move":
		var req struct {
			Steps int `json:"steps"`
		}
		if err := json.Unmarshal(act.Payload, &req); err != nil {
			m.sendError(playerID, "malformed payload")
			return
		}
		if m.rolls == nil {
			m.sendError(playerID, "roll first")
			return
		}
		if m.moved {
			m.sendError(playerID, "already moved this turn")
			return
		}
		if !contains(m.options, req.Steps) {
			m.sendError(playerID, "steps not among the rolled options")
			return
		}
		m.moved = true
		m.eng.MovePlayer(p, req.Steps, true, true)
		m.broadcast(frame{
			Type: "moved", Player: playerID,
			Payload: map[string]any{"steps": req.Steps, "position": p.Position},
		})

	case "use_card":
		var req struct {
			Card   int  `json:"card"`
			Target *int `json:"target"`
		}
		if err := json.Unmarshal(act.Payload, &req); err != nil {
			m.sendError(playerID, "malformed payload")
			return
		}
		target := -1
		if req.Target != nil {
			target = *req.Target
		}
		if err := m.eng.UseCard(p, req.Card, target); err != nil {
			m.sendError(playerID, err.Error())
			return
		}
		m.broadcast(frame{Type: "card_used", Player: playerID, Payload: map[string]any{"card": req.Card}})

	case "attempt_finish":
		var req struct {
			Boost int `json:"boost"`
		}
		if err := json.Unmarshal(act.Payload, &req); err != nil {
			m.sendError(playerID, "malformed payload")
			return
		}
		if err := m.eng.AttemptFinish(p, req.Boost); err != nil {
			m.sendError(playerID, err.Error())
			return
		}
		m.broadcast(frame{Type: "finish_attempted", Player: playerID})

	case "end_turn":
		if err := m.eng.EndTurn(); err != nil {
			m.sendError(playerID, err.Error())
			return
		}
		m.rolls, m.options, m.moved = nil, nil, false
		m.broadcast(frame{
			Type: "turn_ended", Player: playerID,
			Payload: map[string]any{"current": m.eng.CurrentPlayer().ID},
		})

	default:
		m.sendError(playerID, "unknown action "+act.Type)
	}
}

func isResolveAction(t string) bool {
	switch t {
	case "resolve_shop", "resolve_event_card", "resolve_rule",
		"resolve_duel_opponent", "resolve_duel_reward", "resolve_tornado",
		"resolve_target", "resolve_card_discard", "resolve_place_mines",
		"resolve_coin_trade", "resolve_tax", "resolve_discard_to_one",
		"resolve_extra_turn", "resolve_red_choice", "resolve_own_discard":
		return true
	}
	return false
}

func (m *Match) dispatchResolve(playerID int, act Action) {
	var err error
	switch act.Type {
	case "resolve_shop":
		var req struct {
			Choice int `json:"choice"`
		}
		if err = json.Unmarshal(act.Payload, &req); err == nil {
			err = m.eng.ResolveShopChoice(req.Choice)
		}

	case "resolve_event_card":
		err = m.eng.ResolveEventCard()

	case "resolve_rule":
		err = m.eng.ResolveRuleReveal()

	case "resolve_duel_opponent":
		var req struct {
			Index int `json:"index"`
		}
		if err = json.Unmarshal(act.Payload, &req); err == nil {
			err = m.eng.ResolveDuelOpponent(req.Index)
		}

	case "resolve_duel_reward":
		var req struct {
			Reward string `json:"reward"`
			Card   int    `json:"card"`
		}
		if err = json.Unmarshal(act.Payload, &req); err == nil {
			err = m.eng.ResolveDuelReward(game.DuelReward(req.Reward), req.Card)
		}

	case "resolve_tornado":
		var req struct {
			Pay bool `json:"pay"`
		}
		if err = json.Unmarshal(act.Payload, &req); err == nil {
			err = m.eng.ResolveTornado(req.Pay)
		}

	case "resolve_target":
		var req struct {
			Target int `json:"target"`
		}
		if err = json.Unmarshal(act.Payload, &req); err == nil {
			err = m.eng.ResolveTargetChoice(req.Target)
		}

	case "resolve_card_discard":
		var req struct {
			Card int `json:"card"`
		}
		if err = json.Unmarshal(act.Payload, &req); err == nil {
			err = m.eng.ResolveCardDiscard(req.Card)
		}

	case "resolve_place_mines":
		var req struct {
			Cells []int `json:"cells"`
		}
		if err = json.Unmarshal(act.Payload, &req); err == nil {
			err = m.eng.ResolvePlaceMines(req.Cells)
		}

	case "resolve_coin_trade":
		var req struct {
			Coins int `json:"coins"`
		}
		if err = json.Unmarshal(act.Payload, &req); err == nil {
			err = m.eng.ResolveCoinTrade(req.Coins)
		}

	case "resolve_tax":
		var req struct {
			Keep []int `json:"keep"`
		}
		if err = json.Unmarshal(act.Payload, &req); err == nil {
			err = m.eng.ResolveTaxShopCards(req.Keep)
		}

	case "resolve_discard_to_one":
		var req struct {
			Keep int `json:"keep"`
		}
		if err = json.Unmarshal(act.Payload, &req); err == nil {
			err = m.eng.ResolveDiscardToOne(req.Keep)
		}

	case "resolve_extra_turn":
		var req struct {
			Accept bool `json:"accept"`
		}
		if err = json.Unmarshal(act.Payload, &req); err == nil {
			err = m.eng.ResolveExtraTurnOffer(req.Accept)
		}

	case "resolve_red_choice":
		var req struct {
			Pay bool `json:"pay"`
		}
		if err = json.Unmarshal(act.Payload, &req); err == nil {
			err = m.eng.ResolveRedChoice(req.Pay)
		}

	case "resolve_own_discard":
		var req struct {
			Card int `json:"card"`
		}
		if err = json.Unmarshal(act.Payload, &req); err == nil {
			err = m.eng.ResolveOwnDiscard(req.Card)
		}
	}
	if err != nil {
		m.sendError(playerID, err.Error())
	}
}

// afterAction broadcasts the public state, surfaces the next pending event
// to its decider, and closes out the match once it is over.
func (m *Match) afterAction() {
	m.broadcast(frame{Type: "state", Payload: m.publicState()})

	if ev := m.eng.PeekEvent(); ev != nil {
		m.sendTo(ev.Player.ID, frame{
			Type: "pending_event", Player: ev.Player.ID,
			Payload: pendingPayload(ev),
		})
	}

	if m.eng.IsGameOver() {
		m.finish()
	}
}

// finish announces the result, dumps the match log and persists the final
// standings.
func (m *Match) finish() {
	winner := m.eng.Winner()
	m.broadcast(frame{
		Type: "game_over",
		Payload: map[string]any{
			"winner": winner.ID, "winnerName": winner.Name,
		},
	})

	if path, err := m.hist.DumpJSON(m.logDir); err != nil {
		m.log.WithError(err).Error("dump match log")
	} else {
		m.log.WithField("path", path).Info("match log written")
	}

	st := m.eng.State()
	standings := make([]database.PlayerStanding, 0, len(st.Players))
	for _, p := range st.Players {
		standings = append(standings, database.PlayerStanding{
			PlayerID: p.ID, Name: p.Name,
			Position: p.Position, Coins: p.Coins, Finished: p.IsFinished,
		})
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.st.SaveResult(ctx, database.MatchResult{
		MatchID:    m.eng.ID,
		WinnerID:   winner.ID,
		WinnerName: winner.Name,
		Turns:      st.TurnNumber,
		Standings:  standings,
		FinishedAt: time.Now(),
	}); err != nil {
		m.log.WithError(err).Error("persist match result")
	}
}

func contains(list []int, v int) bool {
	for _, n := range list {
		if n == v {
			return true
		}
	}
	return false
}
