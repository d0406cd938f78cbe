package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/goliatone/go-bookingform/pkg/form"
	"github.com/goliatone/go-bookingform/pkg/validation"
)

const (
	liveWriteTimeout = 5 * time.Second
	livePongWait     = 60 * time.Second
	livePingPeriod   = livePongWait * 9 / 10
	liveMaxMessage   = 8 << 10
)

// Live frame types sent to the browser.
const (
	FrameRender = "render"
	FrameError  = "error"
)

// LiveEvent is one browser-to-server message on the live channel. Seq is a
// client counter echoed on the reply so the browser can drop frames that
// answer an event older than its latest.
type LiveEvent struct {
	form.Event
	Seq int64 `json:"seq,omitempty"`
}

// LiveFrame is one server-to-browser message on the live channel.
type LiveFrame struct {
	Type   string             `json:"type"`
	Seq    int64              `json:"seq,omitempty"`
	HTML   string             `json:"html,omitempty"`
	Status form.Status        `json:"status,omitempty"`
	Errors []validation.Issue `json:"errors,omitempty"`
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessions.Get(r.URL.Query().Get("session"))
	if err != nil {
		s.metrics.WebsocketError("session")
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.metrics.WebsocketError("upgrade")
		s.logger.Warn("live upgrade failed", "session", session.ID, "error", err)
		return
	}
	defer conn.Close()

	s.metrics.LiveConnected()
	defer s.metrics.LiveDisconnected()

	logger := s.logger.With("session", session.ID)
	logger.Debug("live channel open")

	conn.SetReadLimit(liveMaxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(livePongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(livePingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(liveWriteTimeout)); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	ctx := r.Context()
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.metrics.WebsocketError("read")
				logger.Warn("live read failed", "error", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(livePongWait))
		if _, err := s.sessions.Get(session.ID); err != nil {
			_ = s.writeFrame(conn, LiveFrame{Type: FrameError, Errors: []validation.Issue{{Message: err.Error()}}})
			return
		}

		var event LiveEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			s.metrics.WebsocketError("decode")
			if err := s.writeFrame(conn, LiveFrame{Type: FrameError, Errors: []validation.Issue{{Message: "malformed event"}}}); err != nil {
				return
			}
			continue
		}

		state, dispatchErr := session.Controller.Dispatch(ctx, event.Event)
		if isEventError(dispatchErr) {
			s.metrics.WebsocketError("dispatch")
			if err := s.writeFrame(conn, LiveFrame{Type: FrameError, Seq: event.Seq, Errors: s.issues(dispatchErr)}); err != nil {
				return
			}
			continue
		}

		out, err := s.render(ctx, session, true)
		if err != nil {
			s.metrics.WebsocketError("render")
			logger.Error("live render failed", "error", err)
			return
		}
		if err := s.writeFrame(conn, LiveFrame{Type: FrameRender, Seq: event.Seq, HTML: string(out), Status: state.Status()}); err != nil {
			s.metrics.WebsocketError("write")
			return
		}
	}
}

func (s *Server) writeFrame(conn *websocket.Conn, frame LiveFrame) error {
	_ = conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
	return conn.WriteJSON(frame)
}

// isEventError reports malformed events. Submit outcomes, including handler
// failures, are reflected in the rendered state instead.
func isEventError(err error) bool {
	return errors.Is(err, form.ErrUnknownField) || errors.Is(err, form.ErrUnknownEvent)
}
