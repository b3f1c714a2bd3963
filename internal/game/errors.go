package game

import (
	"errors"
	"fmt"
)

// Boundary errors returned by Resolve* entrypoints. Resource-insufficiency
// inside the rules (failed payments, full hands) is never an error; these
// cover protocol misuse by the external actor.
var (
	errNoPendingEvent = errors.New("game: no pending event to resolve")
	ErrGameOver       = errors.New("game: the game is over")
	ErrNotFinished    = errors.New("game: player has not reached the finish")
	ErrInvalidChoice  = errors.New("game: choice out of range")
	ErrPendingEvents  = errors.New("game: pending events must be resolved first")
	ErrCannotAfford   = errors.New("game: not enough coins")
)

func errWrongEventType(want, got PendingEventType) error {
	return fmt.Errorf("game: pending event is %s, expected %s", got, want)
}
