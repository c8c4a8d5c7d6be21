package whisper_test

import (
	"testing"

	"github.com/fonema/fonema/pkg/provider/stt/whisper"
)

// These tests only exercise the constructor paths that fail before any model
// is loaded. Inference tests require a real ggml model file and the
// whisper.cpp static library, so they live in integration tooling instead.

func TestNewNative_EmptyPath_ReturnsError(t *testing.T) {
	_, err := whisper.NewNative("")
	if err == nil {
		t.Fatal("expected error for empty model path, got nil")
	}
}

func TestNewNative_InvalidPath_ReturnsError(t *testing.T) {
	_, err := whisper.NewNative("/nonexistent/model.bin")
	if err == nil {
		t.Fatal("expected error for invalid model path, got nil")
	}
}
