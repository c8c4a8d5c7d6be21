// Package mock provides a test double for the stt.Provider interface.
//
// Pre-populate Result with the Transcript the consumer should receive, then
// inspect TranscribeCalls to verify what audio and configuration were passed.
package mock

import (
	"context"
	"sync"

	"github.com/fonema/fonema/pkg/provider/stt"
)

// TranscribeCall records a single invocation of Provider.Transcribe.
type TranscribeCall struct {
	// PCM is a copy of the audio bytes that were passed to Transcribe.
	PCM []byte
	// Cfg is the TranscribeConfig passed to Transcribe.
	Cfg stt.TranscribeConfig
}

// Provider is a mock implementation of stt.Provider.
type Provider struct {
	mu sync.Mutex

	// Result is the Transcript returned by every Transcribe call.
	Result stt.Transcript

	// TranscribeErr, if non-nil, is returned as the error from Transcribe.
	TranscribeErr error

	// TranscribeFunc, if non-nil, overrides Result/TranscribeErr entirely.
	TranscribeFunc func(ctx context.Context, pcm []byte, cfg stt.TranscribeConfig) (stt.Transcript, error)

	// TranscribeCalls records every call to Transcribe in order.
	TranscribeCalls []TranscribeCall
}

// Transcribe records the call and returns Result, TranscribeErr (or delegates
// to TranscribeFunc when set).
func (p *Provider) Transcribe(ctx context.Context, pcm []byte, cfg stt.TranscribeConfig) (stt.Transcript, error) {
	p.mu.Lock()
	cp := make([]byte, len(pcm))
	copy(cp, pcm)
	p.TranscribeCalls = append(p.TranscribeCalls, TranscribeCall{PCM: cp, Cfg: cfg})
	fn := p.TranscribeFunc
	res, err := p.Result, p.TranscribeErr
	p.mu.Unlock()

	if fn != nil {
		return fn(ctx, pcm, cfg)
	}
	return res, err
}

// TranscribeCallCount returns the number of Transcribe calls. Thread-safe.
func (p *Provider) TranscribeCallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.TranscribeCalls)
}

// Reset clears all recorded calls. Thread-safe.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.TranscribeCalls = nil
}

// Ensure Provider implements stt.Provider at compile time.
var _ stt.Provider = (*Provider)(nil)
