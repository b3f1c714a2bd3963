// Package historian is the write-only audit sink for match events. It keeps
// the ordered in-memory history, echoes each record through structured
// logging, optionally publishes records to a Redis stream, and dumps the
// full match log as JSON at game end.
package historian

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Record is one match-log entry. Index is the per-match sequence number;
// ordering is the contract, consumers replay history by Index.
type Record struct {
	MatchID   uuid.UUID      `json:"matchId"`
	Index     int            `json:"index"`
	Turn      int            `json:"turn"`
	PlayerID  int            `json:"playerId"`
	EventType string         `json:"eventType"`
	Details   map[string]any `json:"details"`
	Timestamp int64          `json:"timestamp"` // unix milliseconds
}

// Historian collects ordered match records. It satisfies game.Recorder.
// All methods are safe for concurrent use.
type Historian struct {
	matchID uuid.UUID
	log     *logrus.Logger
	rdb     *redis.Client // nil disables publishing

	mu      sync.Mutex
	index   int
	history []Record
}

// New builds a historian for one match. rdb may be nil; records are then
// kept locally only.
func New(matchID uuid.UUID, log *logrus.Logger, rdb *redis.Client) *Historian {
	if log == nil {
		log = logrus.New()
	}
	return &Historian{matchID: matchID, log: log, rdb: rdb}
}

// Record appends one entry to the history, echoes it to the log and
// asynchronously publishes it to the match's Redis stream.
func (h *Historian) Record(turn, playerID int, eventType string, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}
	h.mu.Lock()
	h.index++
	rec := Record{
		MatchID:   h.matchID,
		Index:     h.index,
		Turn:      turn,
		PlayerID:  playerID,
		EventType: eventType,
		Details:   details,
		Timestamp: time.Now().UnixMilli(),
	}
	h.history = append(h.history, rec)
	h.mu.Unlock()

	h.log.WithFields(logrus.Fields{
		"match":  h.matchID,
		"turn":   turn,
		"player": playerID,
		"event":  eventType,
	}).Debug("match event")

	if h.rdb != nil {
		go h.publish(rec)
	}
}

func (h *Historian) publish(rec Record) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	payload, err := json.Marshal(rec.Details)
	if err != nil {
		h.log.WithError(err).Warn("historian: marshal details")
		return
	}
	err = h.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: streamKey(rec.MatchID),
		Values: map[string]any{
			"index":   rec.Index,
			"turn":    rec.Turn,
			"player":  rec.PlayerID,
			"event":   rec.EventType,
			"details": payload,
			"ts":      rec.Timestamp,
		},
	}).Err()
	if err != nil {
		h.log.WithError(err).WithField("index", rec.Index).Warn("historian: redis publish")
	}
}

func streamKey(matchID uuid.UUID) string {
	return fmt.Sprintf("match:%s:events", matchID)
}

// History returns a copy of the ordered record list.
func (h *Historian) History() []Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Record, len(h.history))
	copy(out, h.history)
	return out
}

// Len returns the number of recorded entries.
func (h *Historian) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.history)
}

// DumpJSON writes the full match log to dir as <matchID>.json, creating
// the directory if needed, and returns the written path.
func (h *Historian) DumpJSON(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("historian: create log dir: %w", err)
	}
	data, err := json.MarshalIndent(h.History(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("historian: marshal history: %w", err)
	}
	path := filepath.Join(dir, h.matchID.String()+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("historian: write match log: %w", err)
	}
	return path, nil
}
