package static

import (
	"net/http"
	"strings"
)

// JavaScriptContentType is forced onto every response for a ".js" path so
// browsers accept the file as an ES module.
const JavaScriptContentType = "application/javascript"

var corsHeaders = []struct {
	name  string
	value string
}{
	{"Access-Control-Allow-Origin", "*"},
	{"Access-Control-Allow-Methods", "GET, POST, OPTIONS"},
	{"Access-Control-Allow-Headers", "Content-Type"},
}

// FixedHeader returns the CORS headers every response carries.
func (h *Handler) FixedHeader() http.Header {
	header := make(http.Header, len(corsHeaders))
	for _, c := range corsHeaders {
		header.Set(c.name, c.value)
	}
	return header
}

// responseWriter decorates the header set at the moment the status line is
// committed, after whatever the wrapped handler chose, and records the status
// and body size for the access log.
type responseWriter struct {
	http.ResponseWriter
	javaScript bool
	status     int
	bytes      int64
}

func newResponseWriter(w http.ResponseWriter, r *http.Request) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		javaScript:     strings.HasSuffix(r.URL.Path, ".js"),
	}
}

func (w *responseWriter) WriteHeader(status int) {
	if w.status != 0 {
		return
	}
	w.status = status

	h := w.Header()
	for _, c := range corsHeaders {
		h.Set(c.name, c.value)
	}
	// Last, so it overrides both extension inference and error pages.
	if w.javaScript {
		h.Set("Content-Type", JavaScriptContentType)
	}

	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(p)
	w.bytes += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
