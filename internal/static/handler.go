// Package static serves a directory tree to browsers during development. Every
// response carries permissive CORS headers, and ".js" files are always sent
// with a JavaScript content type so they load as ES modules.
package static

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Handler is an http.Handler serving files below a root directory.
type Handler struct {
	root   string
	fs     http.FileSystem
	router *mux.Router
	logger logrus.FieldLogger
}

// NewHandler constructor.
func NewHandler(root string, logger logrus.FieldLogger) *Handler {
	h := &Handler{
		root:   root,
		fs:     http.Dir(root),
		logger: logger,
	}

	router := mux.NewRouter()
	router.Methods(http.MethodGet, http.MethodHead).HandlerFunc(h.serveFile)
	router.Methods(http.MethodOptions).HandlerFunc(h.servePreflight)
	router.MethodNotAllowedHandler = http.HandlerFunc(h.serveUnsupported)
	h.router = router

	return h
}

// Root returns the directory the handler serves from.
func (h *Handler) Root() string {
	return h.root
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	h.logRequest(r)

	rw := newResponseWriter(w, r)
	if r.Method == http.MethodOptions && r.URL.Path == "*" {
		// Asterisk-form targets are not paths; mux would clean them to "/*".
		h.servePreflight(rw, r)
	} else {
		h.router.ServeHTTP(rw, r)
	}

	h.logAccess(r, rw, time.Since(start))
}

func (h *Handler) servePreflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) serveUnsupported(w http.ResponseWriter, r *http.Request) {
	http.Error(w, fmt.Sprintf("Unsupported method ('%s')", r.Method), http.StatusNotImplemented)
}

func (h *Handler) serveError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := statusOf(err)
	entry := h.logger.WithError(err).WithField("path", r.URL.Path)
	if status == http.StatusNotFound {
		entry.Debug("File not found")
	} else {
		entry.Warn("Unable to serve request")
	}
	http.Error(w, body, status)
}
