package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fonema/fonema/internal/history"
	"github.com/fonema/fonema/internal/phrase"
	"github.com/fonema/fonema/internal/session"
)

// testDecks returns a small two-deck library.
func testDecks() []*phrase.Deck {
	return []*phrase.Deck{
		{
			Name:     "saludos",
			Language: "es-AR",
			Phrases: []phrase.Phrase{
				{Text: "Buenos días"},
				{Text: "¿Cómo estás?"},
			},
		},
		{
			Name:     "cafe",
			Language: "es-AR",
			Phrases: []phrase.Phrase{
				{Text: "Un café con leche, por favor"},
			},
		},
	}
}

func newTestManager(t *testing.T, store history.Store) *session.Manager {
	t.Helper()
	return session.NewManager(session.ManagerConfig{
		Decks: testDecks(),
		Store: store,
	})
}

func TestManager_CreateAndGet(t *testing.T) {
	t.Parallel()
	m := newTestManager(t, nil)
	ctx := context.Background()

	s, err := m.Create(ctx, "saludos")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(s.ID()) != 32 {
		t.Errorf("session ID length = %d, want 32", len(s.ID()))
	}
	if s.DeckName() != "saludos" {
		t.Errorf("DeckName = %q, want %q", s.DeckName(), "saludos")
	}

	got, err := m.Get(s.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != s {
		t.Error("Get returned a different session")
	}
	if m.Active() != 1 {
		t.Errorf("Active = %d, want 1", m.Active())
	}
}

func TestManager_CreateUnknownDeck(t *testing.T) {
	t.Parallel()
	m := newTestManager(t, nil)

	_, err := m.Create(context.Background(), "nope")
	if !errors.Is(err, session.ErrUnknownDeck) {
		t.Fatalf("Create(nope): got %v, want ErrUnknownDeck", err)
	}
}

func TestManager_GetUnknownSession(t *testing.T) {
	t.Parallel()
	m := newTestManager(t, nil)

	_, err := m.Get("deadbeef")
	if !errors.Is(err, session.ErrUnknownSession) {
		t.Fatalf("Get: got %v, want ErrUnknownSession", err)
	}
}

func TestManager_End(t *testing.T) {
	t.Parallel()
	m := newTestManager(t, nil)
	ctx := context.Background()

	s, err := m.Create(ctx, "cafe")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := m.End(ctx, s.ID()); err != nil {
		t.Fatalf("End: %v", err)
	}
	if m.Active() != 0 {
		t.Errorf("Active = %d after End, want 0", m.Active())
	}
	if err := m.End(ctx, s.ID()); !errors.Is(err, session.ErrUnknownSession) {
		t.Errorf("second End: got %v, want ErrUnknownSession", err)
	}
}

func TestManager_DecksSortedByName(t *testing.T) {
	t.Parallel()
	m := newTestManager(t, nil)

	decks := m.Decks()
	if len(decks) != 2 {
		t.Fatalf("len(Decks) = %d, want 2", len(decks))
	}
	if decks[0].Name != "cafe" || decks[1].Name != "saludos" {
		t.Errorf("deck order = [%s %s], want [cafe saludos]", decks[0].Name, decks[1].Name)
	}
}

func TestManager_DeckLookup(t *testing.T) {
	t.Parallel()
	m := newTestManager(t, nil)

	d, err := m.Deck("cafe")
	if err != nil {
		t.Fatalf("Deck(cafe): %v", err)
	}
	if d.Name != "cafe" {
		t.Errorf("Deck name = %q, want %q", d.Name, "cafe")
	}
	if _, err := m.Deck("missing"); !errors.Is(err, session.ErrUnknownDeck) {
		t.Errorf("Deck(missing): got %v, want ErrUnknownDeck", err)
	}
}
