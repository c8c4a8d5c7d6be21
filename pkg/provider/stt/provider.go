// Package stt defines the Provider interface for Speech-to-Text backends.
//
// An STT provider wraps a transcription engine (a local whisper.cpp server,
// the whisper.cpp CGO bindings, or the OpenAI API) and exposes a uniform
// batch interface: hand it a complete recorded utterance, get back the
// transcribed text. Pronunciation practice works on whole phrases, so batch
// transcription of a finished recording is the natural unit of work here.
//
// Implementations must be safe for concurrent use. Multiple practice
// sessions may transcribe simultaneously.
package stt

import (
	"context"
	"time"
)

// TranscribeConfig describes the audio format and recognition hints for a
// transcription request. All fields must be compatible with what the
// underlying provider supports; see each provider's documentation for valid
// ranges.
type TranscribeConfig struct {
	// SampleRate is the audio sample rate in Hz. Common values: 16000
	// (STT-optimised mono), 48000 (browser MediaRecorder output).
	SampleRate int

	// Channels is the number of audio channels. 1 = mono (required by most
	// STT providers). Implementors may downmix stereo internally.
	Channels int

	// Language is the BCP-47 language tag for recognition (e.g., "es-AR",
	// "en-US"). An empty string lets the provider auto-detect the language,
	// if supported.
	Language string
}

// Transcript represents a speech-to-text result from an STT provider.
type Transcript struct {
	// Text is the transcribed speech content.
	Text string

	// Confidence is the overall confidence score (0.0–1.0). May be zero if
	// the provider does not report confidence.
	Confidence float64

	// Duration is the length of the transcribed audio, when the provider
	// reports it.
	Duration time.Duration
}

// Provider is the abstraction over any STT backend.
//
// Implementations must be safe for concurrent use.
type Provider interface {
	// Transcribe runs batch speech recognition over a complete utterance of
	// raw 16-bit signed little-endian PCM audio. The audio format must match
	// cfg; implementations fall back to their own defaults for zero-valued
	// fields.
	//
	// Returns an error if the provider cannot complete the request (e.g.,
	// authentication failure, unsupported configuration, or ctx cancelled).
	Transcribe(ctx context.Context, pcm []byte, cfg TranscribeConfig) (Transcript, error)
}
