// Package history defines the practice-attempt persistence layer.
//
// Every evaluation made inside a practice session produces an [Attempt].
// Implementations of [Store] are provided for PostgreSQL (the postgres
// subpackage), for append-only local JSON lines ([FileStore]), and as a
// no-op for when persistence is disabled ([Discard]).
package history

import (
	"context"
	"errors"
	"time"

	"github.com/fonema/fonema/pkg/score"
)

// ErrNotFound is returned when a session has no recorded attempts.
var ErrNotFound = errors.New("history: session not found")

// Attempt is one evaluated pronunciation attempt.
type Attempt struct {
	// SessionID identifies the practice session this attempt belongs to.
	SessionID string `json:"session_id"`

	// DeckName is the name of the deck being practiced.
	DeckName string `json:"deck_name"`

	// Phrase is the target phrase.
	Phrase string `json:"phrase"`

	// Spoken is the text the STT collaborator heard.
	Spoken string `json:"spoken"`

	// Percentage is the rounded similarity percentage.
	Percentage int `json:"percentage"`

	// WorstWord is the most-mismatched spoken word, when any.
	WorstWord string `json:"worst_word,omitempty"`

	// Band is the qualitative feedback tier for this attempt.
	Band score.Band `json:"band"`

	// At is when the attempt was evaluated, UTC.
	At time.Time `json:"at"`
}

// Stats summarises the attempts of one session.
type Stats struct {
	Attempts       int     `json:"attempts"`
	MeanPercentage float64 `json:"mean_percentage"`
	BestPercentage int     `json:"best_percentage"`
}

// Store persists and retrieves practice attempts.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// SaveAttempt records a single attempt.
	SaveAttempt(ctx context.Context, a Attempt) error

	// ListAttempts returns every attempt of sessionID in chronological order.
	// Returns ErrNotFound when the session has no attempts.
	ListAttempts(ctx context.Context, sessionID string) ([]Attempt, error)

	// SessionStats aggregates the attempts of sessionID.
	// Returns ErrNotFound when the session has no attempts.
	SessionStats(ctx context.Context, sessionID string) (Stats, error)
}

// Discard is a [Store] that drops every attempt. Used when persistence is
// disabled in the configuration.
type Discard struct{}

var _ Store = Discard{}

// SaveAttempt implements [Store] by doing nothing.
func (Discard) SaveAttempt(context.Context, Attempt) error { return nil }

// ListAttempts implements [Store]; a Discard store never has attempts.
func (Discard) ListAttempts(context.Context, string) ([]Attempt, error) {
	return nil, ErrNotFound
}

// SessionStats implements [Store]; a Discard store never has attempts.
func (Discard) SessionStats(context.Context, string) (Stats, error) {
	return Stats{}, ErrNotFound
}

// Aggregate computes [Stats] from a list of attempts. Shared by Store
// implementations that aggregate client-side.
func Aggregate(attempts []Attempt) Stats {
	if len(attempts) == 0 {
		return Stats{}
	}
	// Percentages can be negative (over-long spoken phrases), so the best
	// starts from the first attempt rather than zero.
	s := Stats{Attempts: len(attempts), BestPercentage: attempts[0].Percentage}
	sum := 0
	for _, a := range attempts {
		sum += a.Percentage
		if a.Percentage > s.BestPercentage {
			s.BestPercentage = a.Percentage
		}
	}
	s.MeanPercentage = float64(sum) / float64(len(attempts))
	return s
}
