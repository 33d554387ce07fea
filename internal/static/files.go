package static

import (
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/joomcode/errorx"
)

// indexFiles are tried, in order, when a directory is requested.
var indexFiles = []string{"index.html", "index.htm"}

func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Path
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	if err := h.serve(w, r, name); err != nil {
		h.serveError(w, r, err)
	}
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, name string) error {
	if containsDotDot(name) {
		return Forbidden.New("path %q leaves the served root", name)
	}

	f, info, err := h.open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	if !info.IsDir() {
		if strings.HasSuffix(name, "/") {
			return NotFound.New("%s is not a directory", name)
		}
		http.ServeContent(w, r, info.Name(), info.ModTime(), f)
		return nil
	}

	if !strings.HasSuffix(name, "/") {
		redirectToSlash(w, r)
		return nil
	}

	index, indexInfo, err := h.openIndex(name)
	if err != nil {
		return err
	}
	if index != nil {
		defer index.Close()
		http.ServeContent(w, r, indexInfo.Name(), indexInfo.ModTime(), index)
		return nil
	}

	return h.list(w, r, name, f)
}

func (h *Handler) open(name string) (http.File, os.FileInfo, error) {
	f, err := h.fs.Open(name)
	if err != nil {
		return nil, nil, classify(err, name)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, classify(err, name)
	}
	return f, info, nil
}

// openIndex returns the first regular index file inside dir, or a nil file if
// there is none.
func (h *Handler) openIndex(dir string) (http.File, os.FileInfo, error) {
	for _, index := range indexFiles {
		f, info, err := h.open(path.Join(dir, index))
		if err != nil {
			if errorx.IsOfType(err, NotFound) {
				continue
			}
			return nil, nil, err
		}
		if info.IsDir() {
			f.Close()
			continue
		}
		return f, info, nil
	}
	return nil, nil, nil
}

func redirectToSlash(w http.ResponseWriter, r *http.Request) {
	target := url.URL{Path: r.URL.Path + "/", RawQuery: r.URL.RawQuery}
	w.Header().Set("Location", target.String())
	w.WriteHeader(http.StatusMovedPermanently)
}

func containsDotDot(name string) bool {
	if !strings.Contains(name, "..") {
		return false
	}
	for _, element := range strings.FieldsFunc(name, isSlashRune) {
		if element == ".." {
			return true
		}
	}
	return false
}

func isSlashRune(r rune) bool { return r == '/' || r == '\\' }
