// Package session manages live practice sessions: one learner working
// through one phrase deck, attempt by attempt.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fonema/fonema/internal/history"
	"github.com/fonema/fonema/internal/observe"
	"github.com/fonema/fonema/internal/phrase"
	"github.com/fonema/fonema/pkg/score"
)

// Session is a single learner's run through a deck. All methods are safe for
// concurrent use.
//
// A session advances to the next phrase only when an attempt scores in the
// excellent band. Lower-scoring attempts keep the cursor in place so the
// learner retries the same phrase.
type Session struct {
	id        string
	evaluator *score.Evaluator
	store     history.Store
	metrics   *observe.Metrics
	startedAt time.Time

	mu     sync.Mutex
	cursor *phrase.Cursor
}

// AttemptResult is the outcome of scoring one spoken attempt.
type AttemptResult struct {
	// Report is the full scoring report for this attempt.
	Report *score.Report

	// Phrase is the target phrase that was attempted.
	Phrase phrase.Phrase

	// Advanced is true when the attempt scored excellent and the session
	// moved to the next phrase.
	Advanced bool

	// Next is the upcoming phrase after this attempt, or nil when the deck
	// is exhausted.
	Next *phrase.Phrase

	// Done is true when every phrase in the deck has been completed.
	Done bool
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// DeckName returns the name of the deck being practised.
func (s *Session) DeckName() string { return s.cursor.Deck().Name }

// StartedAt returns when the session was created.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Current returns the phrase the learner should attempt next. ok is false
// when the deck is exhausted.
func (s *Session) Current() (phrase.Phrase, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor.Peek()
}

// Remaining returns how many phrases are left, including the current one.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor.Remaining()
}

// Attempt scores spoken against the current phrase, records the attempt in
// history, and advances to the next phrase when the score is excellent.
//
// History write failures are logged but do not fail the attempt: the learner
// still gets their feedback.
func (s *Session) Attempt(ctx context.Context, spoken string) (*AttemptResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.cursor.Peek()
	if !ok {
		return nil, false
	}

	start := time.Now()
	report := s.evaluator.Evaluate(target.Text, spoken)
	s.metrics.RecordEvaluation(ctx, time.Since(start).Seconds(), string(report.Band))

	attempt := history.Attempt{
		SessionID:  s.id,
		DeckName:   s.DeckName(),
		Phrase:     target.Text,
		Spoken:     spoken,
		Percentage: report.Percentage,
		WorstWord:  report.WorstWord,
		Band:       report.Band,
		At:         start,
	}
	if err := s.store.SaveAttempt(ctx, attempt); err != nil {
		observe.SessionLogger(ctx, s.id).Warn("failed to record attempt",
			slog.String("error", err.Error()),
		)
	}

	res := &AttemptResult{
		Report: report,
		Phrase: target,
	}

	if report.Band == score.BandExcellent {
		s.cursor.Next()
		res.Advanced = true
	}

	if next, ok := s.cursor.Peek(); ok {
		res.Next = &next
	} else {
		res.Done = true
	}
	return res, true
}

// Skip abandons the current phrase and moves to the next one without
// recording an attempt. ok is false when the deck was already exhausted.
func (s *Session) Skip() (next *phrase.Phrase, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cursor.Next(); !ok {
		return nil, false
	}
	if n, ok := s.cursor.Peek(); ok {
		return &n, true
	}
	return nil, true
}

// Restart rewinds the cursor to the first phrase of the deck.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor.Reset()
}

// Stats returns aggregate history for this session.
func (s *Session) Stats(ctx context.Context) (history.Stats, error) {
	return s.store.SessionStats(ctx, s.id)
}
