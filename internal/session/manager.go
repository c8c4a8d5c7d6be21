package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fonema/fonema/internal/history"
	"github.com/fonema/fonema/internal/observe"
	"github.com/fonema/fonema/internal/phrase"
	"github.com/fonema/fonema/pkg/score"
)

// ErrUnknownSession is returned by Manager.Get and Manager.End for session
// IDs that do not exist or have already ended.
var ErrUnknownSession = errors.New("session: unknown session ID")

// ErrUnknownDeck is returned by Manager.Create for deck names that are not
// loaded.
var ErrUnknownDeck = errors.New("session: unknown deck")

// Manager owns all live sessions and the deck library they draw from.
// All methods are safe for concurrent use.
type Manager struct {
	decks     map[string]*phrase.Deck
	evaluator *score.Evaluator
	store     history.Store
	metrics   *observe.Metrics

	mu       sync.Mutex
	sessions map[string]*Session
}

// ManagerConfig configures a [Manager].
type ManagerConfig struct {
	// Decks is the phrase library. Deck names are unique; phrase.LoadDir
	// enforces that.
	Decks []*phrase.Deck

	// Evaluator scores attempts. Defaults to score.New() if nil.
	Evaluator *score.Evaluator

	// Store records attempt history. Defaults to history.Discard{} if nil.
	Store history.Store

	// Metrics receives session and evaluation telemetry. Defaults to
	// observe.DefaultMetrics() if nil.
	Metrics *observe.Metrics
}

// NewManager creates a new [Manager] with the given configuration.
func NewManager(cfg ManagerConfig) *Manager {
	ev := cfg.Evaluator
	if ev == nil {
		ev = score.New()
	}
	st := cfg.Store
	if st == nil {
		st = history.Discard{}
	}
	m := cfg.Metrics
	if m == nil {
		m = observe.DefaultMetrics()
	}
	decks := make(map[string]*phrase.Deck, len(cfg.Decks))
	for _, d := range cfg.Decks {
		decks[d.Name] = d
	}
	return &Manager{
		decks:     decks,
		evaluator: ev,
		store:     st,
		metrics:   m,
		sessions:  make(map[string]*Session),
	}
}

// Decks returns all loaded decks sorted by name.
func (m *Manager) Decks() []*phrase.Deck {
	out := make([]*phrase.Deck, 0, len(m.decks))
	for _, d := range m.decks {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Deck returns the named deck, or ErrUnknownDeck.
func (m *Manager) Deck(name string) (*phrase.Deck, error) {
	d, ok := m.decks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDeck, name)
	}
	return d, nil
}

// Create starts a new session over the named deck and returns it.
func (m *Manager) Create(ctx context.Context, deckName string) (*Session, error) {
	deck, err := m.Deck(deckName)
	if err != nil {
		return nil, err
	}

	id, err := newSessionID()
	if err != nil {
		return nil, fmt.Errorf("session: generate ID: %w", err)
	}

	s := &Session{
		id:        id,
		cursor:    phrase.NewCursor(deck),
		evaluator: m.evaluator,
		store:     m.store,
		metrics:   m.metrics,
		startedAt: time.Now(),
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.metrics.ActiveSessions.Add(ctx, 1)
	return s, nil
}

// Get returns the live session with the given ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSession, id)
	}
	return s, nil
}

// End removes the session with the given ID from the live set. History
// already written for the session is retained.
func (m *Manager) End(ctx context.Context, id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSession, id)
	}
	m.metrics.ActiveSessions.Add(ctx, -1)
	return nil
}

// Active returns the number of live sessions.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// newSessionID returns a 32-character random hex identifier.
func newSessionID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
