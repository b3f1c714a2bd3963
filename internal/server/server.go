// Package server is the external-actor boundary: a websocket endpoint that
// feeds authenticated player choices into the engine and broadcasts state
// and pending decisions back out as JSON frames.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/sirupsen/logrus"

	"github.com/Shaherezada/cutthroat-race/internal/auth"
	"github.com/Shaherezada/cutthroat-race/internal/game"
)

const writeTimeout = 5 * time.Second

// frame is one outbound server message.
type frame struct {
	Type    string         `json:"type"`
	Player  int            `json:"player,omitempty"`
	Error   string         `json:"error,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

// client is one connected player.
type client struct {
	playerID int
	conn     *websocket.Conn
}

// Server hosts a single match over websockets. Players join with a seat
// token issued for this match.
type Server struct {
	match  *Match
	secret string
	log    *logrus.Logger
}

// New builds the websocket server for one match session.
func New(match *Match, secret string, log *logrus.Logger) *Server {
	return &Server{match: match, secret: secret, log: log}
}

// ServeHTTP upgrades the connection, authenticates the seat token from the
// query string, registers the player and pumps inbound frames into the
// match until the connection drops.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.ParseSeatToken(s.secret, r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "invalid seat token", http.StatusUnauthorized)
		return
	}
	if claims.MatchID != s.match.eng.ID {
		http.Error(w, "token is for another match", http.StatusForbidden)
		return
	}
	if _, err := s.match.eng.State().PlayerByID(claims.PlayerID); err != nil {
		http.Error(w, "unknown seat", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket accept")
		return
	}
	c := &client{playerID: claims.PlayerID, conn: conn}
	s.match.register(c)
	s.log.WithField("player", c.playerID).Info("player connected")

	defer func() {
		s.match.unregister(c)
		conn.Close(websocket.StatusNormalClosure, "bye")
		s.log.WithField("player", c.playerID).Info("player disconnected")
	}()

	ctx := r.Context()
	for {
		var act Action
		if err := wsjson.Read(ctx, conn, &act); err != nil {
			return
		}
		s.match.HandleAction(c.playerID, act)
	}
}

// register attaches a connection and replays the current public state plus
// any pending decision addressed to this seat.
func (m *Match) register(c *client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[c.playerID] = c

	m.send(c, frame{Type: "state", Payload: m.publicState()})
	if ev := m.eng.PeekEvent(); ev != nil && ev.Player.ID == c.playerID {
		m.send(c, frame{Type: "pending_event", Player: c.playerID, Payload: pendingPayload(ev)})
	}
}

func (m *Match) unregister(c *client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conns[c.playerID] == c {
		delete(m.conns, c.playerID)
	}
}

// send writes one frame to one connection with a bounded timeout. Write
// failures drop the frame; the read loop notices the dead connection.
func (m *Match) send(c *client, f frame) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := wsjson.Write(ctx, c.conn, f); err != nil {
		m.log.WithError(err).WithField("player", c.playerID).Warn("frame write")
	}
}

func (m *Match) sendTo(playerID int, f frame) {
	if c, ok := m.conns[playerID]; ok {
		m.send(c, f)
	}
}

func (m *Match) sendError(playerID int, msg string) {
	m.sendTo(playerID, frame{Type: "error", Player: playerID, Error: msg})
}

func (m *Match) broadcast(f frame) {
	for _, c := range m.conns {
		m.send(c, f)
	}
}

// publicState is the spectator-safe snapshot: positions, balances and hand
// sizes, never hand contents.
func (m *Match) publicState() map[string]any {
	st := m.eng.State()
	players := make([]map[string]any, 0, len(st.Players))
	for _, p := range st.Players {
		players = append(players, map[string]any{
			"id":       p.ID,
			"name":     p.Name,
			"position": p.Position,
			"coins":    p.Coins,
			"handSize": len(p.Hand),
			"finished": p.IsFinished,
		})
	}
	rules := make([]string, 0, len(st.ActiveRules))
	for _, r := range st.ActiveRules {
		rules = append(rules, r.Name)
	}
	return map[string]any{
		"turn":    st.TurnNumber,
		"current": st.CurrentPlayer().ID,
		"players": players,
		"rules":   rules,
		"pending": m.eng.PendingCount(),
	}
}

// pendingPayload shapes a pending event for its decider. Only the fields
// the decision needs are exposed.
func pendingPayload(ev *game.PendingEvent) map[string]any {
	p := map[string]any{"event": string(ev.Type)}
	switch ev.Type {
	case game.EventShop:
		offers := make([]map[string]any, 0, len(ev.ShopCards))
		for _, c := range ev.ShopCards {
			offers = append(offers, map[string]any{
				"name": c.Name, "description": c.Description, "useCost": c.UseCost,
			})
		}
		p["cards"] = offers
		p["free"] = ev.FreeShop

	case game.EventCardReveal:
		side := ev.Event.Side(ev.GoodSide)
		p["card"] = side.Name
		p["description"] = side.Description
		p["good"] = ev.GoodSide

	case game.EventRuleReveal:
		p["rule"] = ev.Rule.Name
		p["description"] = ev.Rule.Description

	case game.EventDuelChooseOpponent, game.EventChooseTarget:
		ids := make([]int, 0, len(ev.Opponents))
		for _, o := range ev.Opponents {
			ids = append(ids, o.ID)
		}
		p["opponents"] = ids

	case game.EventDuelChooseReward:
		p["loser"] = ev.Loser.ID
		p["loserHandSize"] = len(ev.Loser.Hand)

	case game.EventTornadoDecision:
		p["toCell"] = ev.TargetPos

	case game.EventChooseCardDiscard:
		p["target"] = ev.Target.ID
		p["handSize"] = len(ev.Target.Hand)
		p["steal"] = ev.Steal

	case game.EventCoinTrade:
		p["maxCoins"] = ev.MaxCoins
		p["stepsPerCoin"] = ev.StepsPerCoin

	case game.EventExtraTurnOffer:
		p["cost"] = ev.Cost

	case game.EventPlaceMines, game.EventTaxShopCards, game.EventRedChoice:
		p["value"] = ev.Value
	}
	return p
}
