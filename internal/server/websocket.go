package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/cwbudde/algo-modal/control"
)

// Message types accepted on /ws. A "stats" request is answered with a
// "stats" message; every other type is fire-and-forget.
const (
	TypeHit    = "hit"
	TypeState  = "state"
	TypePlate  = "plate"
	TypeParams = "params"
	TypeStats  = "stats"
)

const (
	writeTimeout   = 5 * time.Second
	maxCloseReason = 120
)

// Envelope wraps every WebSocket message.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type statsMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	// Sessions outlive the server's per-request deadlines.
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.cfg.OriginPatterns,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket accept failed")
		return
	}
	defer conn.CloseNow()

	id := r.Header.Get("X-Request-Id")
	if id == "" {
		id = r.RemoteAddr
	}
	log := s.log.With().Str("connectionID", id).Logger()
	log.Info().Msg("websocket session opened")

	ctx := r.Context()
	for {
		var env Envelope
		if err := wsjson.Read(ctx, conn, &env); err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				log.Info().Msg("websocket session closed")
			default:
				if !errors.Is(err, context.Canceled) {
					log.Warn().Err(err).Msg("websocket read failed")
				}
			}
			return
		}

		if err := s.dispatch(ctx, conn, env); err != nil {
			log.Warn().Err(err).Str("type", env.Type).Msg("rejected websocket message")
			reason := closeReason(err.Error())
			conn.Close(websocket.StatusUnsupportedData, reason)
			return
		}
	}
}

func (s *Server) dispatch(ctx context.Context, conn *websocket.Conn, env Envelope) error {
	switch env.Type {
	case TypeHit:
		var m control.Impact
		if err := unmarshal(env.Data, &m); err != nil {
			return err
		}
		s.adapter.Impact(m)
	case TypeState:
		var m control.State
		if err := unmarshal(env.Data, &m); err != nil {
			return err
		}
		s.adapter.State(m)
	case TypePlate:
		var m control.Plate
		if err := unmarshal(env.Data, &m); err != nil {
			return err
		}
		s.adapter.Plate(m)
	case TypeParams:
		var m control.Settings
		if err := unmarshal(env.Data, &m); err != nil {
			return err
		}
		s.adapter.Apply(m)
	case TypeStats:
		wctx, cancel := context.WithTimeout(ctx, writeTimeout)
		defer cancel()
		return wsjson.Write(wctx, conn, statsMessage{Type: TypeStats, Data: s.stats.Stats()})
	default:
		return fmt.Errorf("unknown message type %q", env.Type)
	}
	return nil
}

func unmarshal(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return errors.New("missing data")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// closeReason cuts s to maxCloseReason bytes without splitting a rune.
func closeReason(s string) string {
	if len(s) <= maxCloseReason {
		return s
	}
	cut := maxCloseReason
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
