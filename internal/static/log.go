package static

import (
	"net/http"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
)

type levelEnabler interface {
	IsLevelEnabled(logrus.Level) bool
}

// logRequest dumps the incoming headers when debug logging is on.
func (h *Handler) logRequest(r *http.Request) {
	if l, ok := h.logger.(levelEnabler); ok && !l.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	h.logger.WithField("path", r.URL.Path).Debug("Request headers\n" + spew.Sdump(r.Header))
}

func (h *Handler) logAccess(r *http.Request, w *responseWriter, elapsed time.Duration) {
	h.logger.WithFields(logrus.Fields{
		"remote":   r.RemoteAddr,
		"method":   r.Method,
		"path":     r.URL.Path,
		"proto":    r.Proto,
		"status":   w.status,
		"bytes":    w.bytes,
		"duration": elapsed,
	}).Info("Request served")
}
