package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fonema/fonema/pkg/provider/stt"
	"github.com/fonema/fonema/pkg/provider/stt/openai"
)

func TestNew_EmptyAPIKey_ReturnsError(t *testing.T) {
	_, err := openai.New("")
	if err == nil {
		t.Fatal("expected error for empty apiKey, got nil")
	}
}

func TestNew_WithOptions_DoesNotError(t *testing.T) {
	p, err := openai.New("sk-test",
		openai.WithModel("whisper-1"),
		openai.WithBaseURL("http://localhost:9999"),
		openai.WithTimeout(5*time.Second),
		openai.WithSampleRate(48000),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p == nil {
		t.Fatal("expected non-nil Provider")
	}
}

func TestTranscribe_EmptyAudio_ReturnsError(t *testing.T) {
	p, err := openai.New("sk-test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = p.Transcribe(context.Background(), nil, stt.TranscribeConfig{})
	if err == nil {
		t.Fatal("expected error for empty audio, got nil")
	}
}

func TestTranscribe_SendsLanguageWithoutRegion(t *testing.T) {
	var gotLanguage string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotLanguage = r.FormValue("language")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "buenos días"})
	}))
	defer srv.Close()

	p, err := openai.New("sk-test", openai.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tr, err := p.Transcribe(context.Background(), make([]byte, 3200), stt.TranscribeConfig{
		SampleRate: 16000,
		Channels:   1,
		Language:   "es-AR",
	})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if tr.Text != "buenos días" {
		t.Errorf("Text = %q, want %q", tr.Text, "buenos días")
	}
	// The OpenAI API rejects BCP-47 region subtags; only the primary
	// language code should be forwarded.
	if gotLanguage != "es" {
		t.Errorf("language field = %q, want %q", gotLanguage, "es")
	}
}
