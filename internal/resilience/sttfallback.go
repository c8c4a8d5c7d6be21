package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fonema/fonema/pkg/provider/stt"
)

// ErrAllBackendsFailed is returned by [STTFallback.Transcribe] when every
// backend failed or had an open breaker.
var ErrAllBackendsFailed = errors.New("all stt backends failed")

// backend pairs a provider with its breaker.
type backend struct {
	name     string
	provider stt.Provider
	breaker  *Breaker
}

// STTFallback is an [stt.Provider] that fails over across several backends.
// The primary is tried first; backends whose breaker is open are skipped.
//
// Backends must be registered before the first Transcribe call; AddFallback
// is not safe to call concurrently with Transcribe.
type STTFallback struct {
	backends []backend
	breaker  BreakerConfig
}

var _ stt.Provider = (*STTFallback)(nil)

// NewSTTFallback creates an [STTFallback] with primary as the preferred
// backend. cfg configures the breaker created for each backend.
func NewSTTFallback(primary stt.Provider, name string, cfg BreakerConfig) *STTFallback {
	f := &STTFallback{breaker: cfg}
	f.backends = append(f.backends, f.newBackend(name, primary))
	return f
}

// AddFallback registers another backend. Fallbacks are tried in registration
// order after the primary.
func (f *STTFallback) AddFallback(name string, provider stt.Provider) {
	f.backends = append(f.backends, f.newBackend(name, provider))
}

func (f *STTFallback) newBackend(name string, provider stt.Provider) backend {
	cfg := f.breaker
	cfg.Name = name
	return backend{name: name, provider: provider, breaker: NewBreaker(cfg)}
}

// Transcribe forwards to the first healthy backend. It returns
// [ErrAllBackendsFailed] wrapped with the last error when none succeeds.
func (f *STTFallback) Transcribe(ctx context.Context, pcm []byte, cfg stt.TranscribeConfig) (stt.Transcript, error) {
	var lastErr error
	for i := range f.backends {
		be := &f.backends[i]
		var tr stt.Transcript
		err := be.breaker.Do(func() error {
			var innerErr error
			tr, innerErr = be.provider.Transcribe(ctx, pcm, cfg)
			return innerErr
		})
		if err == nil {
			return tr, nil
		}
		lastErr = err
		if errors.Is(err, ErrBreakerOpen) {
			slog.Debug("skipping stt backend", "backend", be.name, "reason", "breaker open")
		} else {
			slog.Warn("stt backend failed", "backend", be.name, "err", err)
		}
		if ctx.Err() != nil {
			return stt.Transcript{}, ctx.Err()
		}
	}
	return stt.Transcript{}, fmt.Errorf("%w: %v", ErrAllBackendsFailed, lastErr)
}
