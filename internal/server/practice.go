package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/fonema/fonema/internal/observe"
	"github.com/fonema/fonema/internal/phrase"
	"github.com/fonema/fonema/internal/session"
	"github.com/fonema/fonema/pkg/audio"
	"github.com/fonema/fonema/pkg/score"
)

// sttTarget is the audio format fed to STT providers: 16 kHz mono is what
// whisper.cpp expects.
const (
	sttSampleRate = 16000
	sttChannels   = 1
)

// clientMessage is a text frame from the practising client.
type clientMessage struct {
	// Type is "attempt", "skip", or "restart".
	Type string `json:"type"`

	// Spoken carries the attempt text when Type is "attempt".
	Spoken string `json:"spoken,omitempty"`
}

// serverMessage is a frame sent to the practising client.
type serverMessage struct {
	// Type is "phrase", "report", "done", or "error".
	Type string `json:"type"`

	// Phrase fields, set when Type is "phrase".
	Text      string `json:"text,omitempty"`
	Hint      string `json:"hint,omitempty"`
	Remaining int    `json:"remaining,omitempty"`

	// Report is the scoring result, set when Type is "report".
	Report *score.Report `json:"report,omitempty"`

	// Advanced indicates the report moved the session to the next phrase.
	Advanced bool `json:"advanced,omitempty"`

	// Transcript is what STT heard, set on reports for audio attempts.
	Transcript string `json:"transcript,omitempty"`

	// Error describes a rejected message, set when Type is "error".
	Error string `json:"error,omitempty"`
}

// handlePractice runs the WebSocket practice loop. The client connects with
// ?deck=<name>, receives the first phrase, and then sends attempts:
//
//   - a text frame {"type":"attempt","spoken":"..."} scores the given text;
//   - a binary frame containing a WAV recording is transcribed first, then
//     scored;
//   - {"type":"skip"} moves on without scoring;
//   - {"type":"restart"} rewinds the deck.
//
// Every attempt is answered with a report frame followed by the next phrase
// (or a done frame once the deck is cleared).
func (s *Server) handlePractice(w http.ResponseWriter, r *http.Request) {
	deckName := r.URL.Query().Get("deck")
	if deckName == "" {
		writeError(w, http.StatusBadRequest, "deck query parameter is required")
		return
	}

	sess, err := s.manager.Create(r.Context(), deckName)
	if err != nil {
		if errors.Is(err, session.ErrUnknownDeck) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		// Accept has already written the HTTP error response.
		_ = s.manager.End(r.Context(), sess.ID())
		return
	}

	ctx := r.Context()
	log := observe.SessionLogger(ctx, sess.ID()).With(
		slog.String("deck", deckName),
	)
	log.Info("practice session started")

	defer func() {
		_ = s.manager.End(context.WithoutCancel(ctx), sess.ID())
		conn.Close(websocket.StatusNormalClosure, "session ended")
		log.Info("practice session ended")
	}()

	if err := s.sendCurrentPhrase(ctx, conn, sess); err != nil {
		return
	}

	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || ctx.Err() != nil {
				return
			}
			log.Warn("practice read failed", "error", err)
			return
		}

		var spoken, transcript string
		switch typ {
		case websocket.MessageText:
			var msg clientMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				s.sendErr(ctx, conn, "invalid message: "+err.Error())
				continue
			}
			switch msg.Type {
			case "attempt":
				spoken = msg.Spoken
			case "skip":
				sess.Skip()
				if err := s.sendCurrentPhrase(ctx, conn, sess); err != nil {
					return
				}
				continue
			case "restart":
				sess.Restart()
				if err := s.sendCurrentPhrase(ctx, conn, sess); err != nil {
					return
				}
				continue
			default:
				s.sendErr(ctx, conn, "unknown message type "+msg.Type)
				continue
			}

		case websocket.MessageBinary:
			text, err := s.transcribe(ctx, data)
			if err != nil {
				s.sendErr(ctx, conn, err.Error())
				continue
			}
			spoken = text
			transcript = text
		}

		res, ok := sess.Attempt(ctx, spoken)
		if !ok {
			s.sendErr(ctx, conn, "deck is finished; send restart to practise again")
			continue
		}

		msg := serverMessage{
			Type:       "report",
			Report:     res.Report,
			Advanced:   res.Advanced,
			Transcript: transcript,
		}
		if err := wsjson.Write(ctx, conn, msg); err != nil {
			return
		}
		if err := s.sendCurrentPhrase(ctx, conn, sess); err != nil {
			return
		}
	}
}

// sendCurrentPhrase sends the phrase the learner should attempt next, or a
// done frame when the deck is exhausted.
func (s *Server) sendCurrentPhrase(ctx context.Context, conn *websocket.Conn, sess *session.Session) error {
	p, ok := sess.Current()
	if !ok {
		return wsjson.Write(ctx, conn, serverMessage{Type: "done"})
	}
	return wsjson.Write(ctx, conn, phraseMessage(p, sess.Remaining()))
}

func phraseMessage(p phrase.Phrase, remaining int) serverMessage {
	return serverMessage{
		Type:      "phrase",
		Text:      p.Text,
		Hint:      p.Hint,
		Remaining: remaining,
	}
}

func (s *Server) sendErr(ctx context.Context, conn *websocket.Conn, msg string) {
	_ = wsjson.Write(ctx, conn, serverMessage{Type: "error", Error: msg})
}

// transcribe decodes a WAV recording, converts it to the STT target format,
// and runs speech recognition.
func (s *Server) transcribe(ctx context.Context, wav []byte) (string, error) {
	if s.sttProv == nil {
		return "", errors.New("audio attempts are not supported: no STT provider configured")
	}

	clip, err := audio.DecodeWAV(wav)
	if err != nil {
		return "", err
	}
	clip = audio.Convert(clip, sttSampleRate, sttChannels)

	cfg := s.sttCfg
	cfg.SampleRate = sttSampleRate
	cfg.Channels = sttChannels

	start := time.Now()
	tr, err := s.sttProv.Transcribe(ctx, clip.PCM, cfg)
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordSTTRequest(ctx, time.Since(start).Seconds(), s.sttName, status)
	if err != nil {
		return "", err
	}
	return tr.Text, nil
}
