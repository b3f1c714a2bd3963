package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNilStoreSkipsWrites(t *testing.T) {
	res := MatchResult{
		MatchID:    uuid.New(),
		WinnerID:   0,
		WinnerName: "Player 1",
		Turns:      42,
		FinishedAt: time.Now(),
	}

	assert.NoError(t, New(nil).SaveResult(context.Background(), res))

	var s *Store
	assert.NoError(t, s.SaveResult(context.Background(), res), "nil store is usable")
	s.Close()
}
