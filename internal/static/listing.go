package static

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
)

var listingTemplate = template.Must(template.New("listing").Parse(`<!DOCTYPE HTML>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Directory listing for {{.Path}}</title>
</head>
<body>
<h1>Directory listing for {{.Path}}</h1>
<hr>
<ul>
{{range .Entries}}<li><a href="{{.Href}}">{{.Name}}</a></li>
{{end}}</ul>
<hr>
</body>
</html>
`))

type listingEntry struct {
	Name string
	Href string
}

// list renders an HTML index of the directory f, which was opened as name.
func (h *Handler) list(w http.ResponseWriter, r *http.Request, name string, f http.File) error {
	infos, err := f.Readdir(-1)
	if err != nil {
		return Internal.Wrap(err, "read directory %s", name)
	}
	sort.Slice(infos, func(i, j int) bool {
		return strings.ToLower(infos[i].Name()) < strings.ToLower(infos[j].Name())
	})

	entries := make([]listingEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, h.listingEntry(name, info))
	}

	var buf bytes.Buffer
	err = listingTemplate.Execute(&buf, struct {
		Path    string
		Entries []listingEntry
	}{name, entries})
	if err != nil {
		return Internal.Wrap(err, "render listing for %s", name)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		w.Write(buf.Bytes())
	}
	return nil
}

func (h *Handler) listingEntry(dir string, info os.FileInfo) listingEntry {
	name := info.Name()
	display, link := name, name

	isDir := info.IsDir()
	if info.Mode()&os.ModeSymlink != 0 {
		// Readdir reports the link itself; follow it to see what it names.
		if target, targetInfo, err := h.open(path.Join(dir, name)); err == nil {
			target.Close()
			isDir = targetInfo.IsDir()
		}
	}
	if isDir {
		display, link = name+"/", name+"/"
	}
	if info.Mode()&os.ModeSymlink != 0 {
		display = name + "@"
	}

	// url.URL guards names with a colon from being read as a scheme.
	href := url.URL{Path: link}
	return listingEntry{Name: display, Href: href.String()}
}
