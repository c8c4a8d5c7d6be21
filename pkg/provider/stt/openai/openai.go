// Package openai provides an STT provider backed by the OpenAI audio
// transcription API (Whisper).
package openai

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"

	"github.com/fonema/fonema/pkg/audio"
	"github.com/fonema/fonema/pkg/provider/stt"
)

const defaultModel = "whisper-1"

// Compile-time assertion that Provider implements stt.Provider.
var _ stt.Provider = (*Provider)(nil)

// Provider implements stt.Provider using the OpenAI audio API.
type Provider struct {
	client     oai.Client
	model      string
	sampleRate int
}

// config holds optional configuration for the provider.
type config struct {
	baseURL    string
	model      string
	timeout    time.Duration
	sampleRate int
}

// Option is a functional option for Provider.
type Option func(*config)

// WithBaseURL overrides the default OpenAI API base URL.
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// WithModel sets the transcription model. Defaults to "whisper-1".
func WithModel(model string) Option {
	return func(c *config) {
		c.model = model
	}
}

// WithTimeout sets a per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithSampleRate sets the default audio sample rate in Hz, used when the
// per-request TranscribeConfig leaves SampleRate unset. Defaults to 16000.
func WithSampleRate(rate int) Option {
	return func(c *config) {
		c.sampleRate = rate
	}
}

// New constructs a new OpenAI STT Provider.
func New(apiKey string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: apiKey must not be empty")
	}

	cfg := &config{
		model:      defaultModel,
		sampleRate: 16000,
	}
	for _, o := range opts {
		o(cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{
			Timeout: cfg.timeout,
		}))
	}

	client := oai.NewClient(reqOpts...)
	return &Provider{client: client, model: cfg.model, sampleRate: cfg.sampleRate}, nil
}

// Transcribe wraps pcm in a WAV container and submits it to the OpenAI audio
// transcription endpoint. cfg.Language, when set, is forwarded as a
// recognition hint (the API expects an ISO-639-1 code, so any region subtag
// is stripped).
func (p *Provider) Transcribe(ctx context.Context, pcm []byte, cfg stt.TranscribeConfig) (stt.Transcript, error) {
	if len(pcm) == 0 {
		return stt.Transcript{}, fmt.Errorf("openai: empty audio")
	}

	sr := cfg.SampleRate
	if sr <= 0 {
		sr = p.sampleRate
	}
	ch := cfg.Channels
	if ch <= 0 {
		ch = 1
	}

	wav := audio.EncodeWAV(pcm, sr, ch)

	params := oai.AudioTranscriptionNewParams{
		File:  oai.File(bytes.NewReader(wav), "audio.wav", "audio/wav"),
		Model: oai.AudioModel(p.model),
	}
	if cfg.Language != "" {
		lang, _, _ := strings.Cut(cfg.Language, "-")
		params.Language = param.NewOpt(lang)
	}

	resp, err := p.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return stt.Transcript{}, fmt.Errorf("openai: transcription request: %w", err)
	}

	return stt.Transcript{Text: resp.Text}, nil
}
