package kiosk

import (
	"context"
	"net/http"
	"time"

	"github.com/KirkDiggler/secretsanta/internal/reveal"
	"github.com/KirkDiggler/secretsanta/internal/services/messaging"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Frame types sent on the reveal stream
const (
	FrameStep  = "step"
	FrameDone  = "done"
	FrameError = "error"
)

// revealFrame is one JSON message on the reveal stream
type revealFrame struct {
	Type    string              `json:"type"`
	Step    *reveal.Step        `json:"step,omitempty"`
	Kind    messaging.ErrorKind `json:"kind,omitempty"`
	Title   string              `json:"title,omitempty"`
	Message string              `json:"message,omitempty"`
}

// serveReveal draws for the named participant and streams the letters of
// the result over a websocket.
func (s *Server) serveReveal() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		name := p.ByName("name")

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.log.WithError(err).Warn("Websocket upgrade failed")
			return
		}
		defer conn.Close()

		log := s.log.WithFields(logrus.Fields{
			"remote": r.RemoteAddr,
			"path":   r.URL.Path,
		})
		log.Info("WebSocket connected")

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// The client never sends anything useful; a read error means it left.
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.NextReader(); err != nil {
					return
				}
			}
		}()

		err = s.streamReveal(ctx, conn, name)
		if err != nil {
			log.WithError(err).Info("WebSocket disconnected")
			return
		}

		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		log.Info("WebSocket disconnected")
	}
}

func (s *Server) streamReveal(ctx context.Context, conn *websocket.Conn, name string) error {
	write := func(frame revealFrame) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(frame)
	}

	output, err := s.getOrDraw(ctx, name)
	if err != nil {
		msg, msgErr := s.messages.GetErrorMessage(ctx, &messaging.GetErrorMessageInput{Err: err})
		if msgErr != nil {
			return msgErr
		}
		if msg.Kind == messaging.ErrorKindInternal {
			s.log.WithError(err).WithField("drawer", name).Error("Draw failed")
		}
		return write(revealFrame{
			Type:    FrameError,
			Kind:    msg.Kind,
			Title:   msg.Title,
			Message: msg.Message,
		})
	}

	err = reveal.Play(ctx, output.Recipient, &reveal.Config{Interval: s.config.RevealInterval}, func(step reveal.Step) error {
		return write(revealFrame{Type: FrameStep, Step: &step})
	})
	if err != nil {
		return err
	}

	msg, err := s.messages.GetDrawResultMessage(ctx, &messaging.GetDrawResultMessageInput{
		Drawer:    name,
		Recipient: output.Recipient,
		IsNewDraw: output.IsNewDraw,
	})
	if err != nil {
		return err
	}

	return write(revealFrame{Type: FrameDone, Title: msg.Title, Message: msg.Message})
}
