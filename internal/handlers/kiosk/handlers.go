package kiosk

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/KirkDiggler/secretsanta/internal/auth"
	"github.com/KirkDiggler/secretsanta/internal/services/messaging"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"
)

const qrSize = 320

// statusResponse is the JSON body of GET /status
type statusResponse struct {
	DeviceLock   string   `json:"device_lock"`
	Drawn        []string `json:"drawn"`
	Remaining    int      `json:"remaining"`
	Participants int      `json:"participants"`
}

// statusCode maps a draw failure to the HTTP status the kiosk answers with
func statusCode(kind messaging.ErrorKind) int {
	switch kind {
	case messaging.ErrorKindUnknownParticipant:
		return http.StatusNotFound
	case messaging.ErrorKindDeviceAlreadyUsed:
		return http.StatusConflict
	case messaging.ErrorKindNoValidRecipient:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) serveHome() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		status, err := s.getStatus(r.Context())
		if err != nil {
			s.log.WithError(err).Error("Failed to read draw status")
			s.renderError(w, http.StatusInternalServerError, "Something went wrong", "The draw status could not be read. Please try again.")
			return
		}

		s.render(w, http.StatusOK, s.pages.home, homePage{
			Names:        s.roster.Names(),
			LockedAs:     status.DeviceLock,
			Remaining:    status.Remaining,
			Participants: status.Participants,
		})
	}
}

func (s *Server) serveDraw() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		name := strings.TrimSpace(r.PostFormValue("name"))

		output, err := s.getOrDraw(r.Context(), name)
		if err != nil {
			s.failDraw(w, r, name, err)
			return
		}

		msg, err := s.messages.GetDrawResultMessage(r.Context(), &messaging.GetDrawResultMessageInput{
			Drawer:    name,
			Recipient: output.Recipient,
			IsNewDraw: output.IsNewDraw,
		})
		if err != nil {
			s.log.WithError(err).Error("Failed to build result message")
			s.renderError(w, http.StatusInternalServerError, "Something went wrong", "Please try again.")
			return
		}

		s.render(w, http.StatusOK, s.pages.result, resultPage{
			Title:     msg.Title,
			Message:   msg.Message,
			Drawer:    name,
			Recipient: output.Recipient,
		})
	}
}

func (s *Server) failDraw(w http.ResponseWriter, r *http.Request, name string, err error) {
	msg, msgErr := s.messages.GetErrorMessage(r.Context(), &messaging.GetErrorMessageInput{Err: err})
	if msgErr != nil {
		s.log.WithError(msgErr).Error("Failed to build error message")
		s.renderError(w, http.StatusInternalServerError, "Something went wrong", "Please try again.")
		return
	}

	if msg.Kind == messaging.ErrorKindInternal {
		s.log.WithError(err).WithField("drawer", name).Error("Draw failed")
	}

	s.renderError(w, statusCode(msg.Kind), msg.Title, msg.Message)
}

func (s *Server) serveStatus() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		status, err := s.getStatus(r.Context())
		if err != nil {
			s.log.WithError(err).Error("Failed to read draw status")
			s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "status unavailable"})
			return
		}

		drawn := status.Drawn
		if drawn == nil {
			drawn = []string{}
		}

		s.writeJSON(w, http.StatusOK, statusResponse{
			DeviceLock:   status.DeviceLock,
			Drawn:        drawn,
			Remaining:    status.Remaining,
			Participants: status.Participants,
		})
	}
}

// serveQR answers with a PNG QR code pointing at the kiosk home page, for
// opening the kiosk on the one device that serves the draw. The home page does
// not link to it.
func (s *Server) serveQR() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
			scheme = proto
		}

		png, err := qrcode.Encode(scheme+"://"+r.Host+"/", qrcode.Medium, qrSize)
		if err != nil {
			s.log.WithError(err).Error("Failed to generate QR code")
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(w)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}

func (s *Server) serveAdminReset() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if s.adminHash == "" {
			s.writeJSON(w, http.StatusForbidden, map[string]string{"error": "reset is disabled"})
			return
		}

		ok, err := auth.ComparePasswordAndHash(r.PostFormValue("password"), s.adminHash)
		if err != nil {
			s.log.WithError(err).Error("Configured admin hash is invalid")
		}
		if !ok {
			s.log.WithField("remote", r.RemoteAddr).Warn("Rejected admin reset")
			s.writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
			return
		}

		output, err := s.reset(r.Context())
		if err != nil {
			s.log.WithError(err).Error("Failed to reset draw")
			s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "reset failed"})
			return
		}

		s.log.WithFields(logrus.Fields{
			"remote": r.RemoteAddr,
		}).Warn("Draw reset from kiosk")

		s.writeJSON(w, http.StatusOK, map[string]bool{"success": output.Success})
	}
}

func (s *Server) serveHealthCheck() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(w)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Ok\n"))
	}
}

func (s *Server) serveStatic() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		name := p.ByName("file")

		body, err := fs.ReadFile(staticFS, path.Join("static", path.Base(name)))
		if err != nil {
			http.NotFound(w, r)
			return
		}

		switch path.Ext(name) {
		case ".css":
			w.Header().Set("Content-Type", "text/css; charset=utf-8")
		case ".js":
			w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		}
		securityHeaders(w)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}
