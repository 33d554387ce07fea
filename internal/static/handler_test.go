package static_test

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mgnsk/esm-devserver/internal/static"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

const (
	indexHTML = "<!DOCTYPE html>\n<script type=\"module\" src=\"js/main.js\"></script>\n"
	mainJS    = "import { run } from './app.js';\nrun();\n"
	secret    = "do not serve me"
)

func writeFile(name, content string) {
	Expect(os.MkdirAll(filepath.Dir(name), 0755)).To(Succeed())
	Expect(ioutil.WriteFile(name, []byte(content), 0644)).To(Succeed())
}

func expectCORS(h http.Header) {
	Expect(h.Get("Access-Control-Allow-Origin")).To(Equal("*"))
	Expect(h.Get("Access-Control-Allow-Methods")).To(Equal("GET, POST, OPTIONS"))
	Expect(h.Get("Access-Control-Allow-Headers")).To(Equal("Content-Type"))
}

var _ = Describe("Handler", func() {
	var (
		base    string
		root    string
		handler *static.Handler
		hook    *test.Hook
	)

	serve := func(method, target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
		return rec
	}

	BeforeEach(func() {
		var err error
		base, err = ioutil.TempDir("", "static")
		Expect(err).NotTo(HaveOccurred())

		root = filepath.Join(base, "root")
		writeFile(filepath.Join(root, "index.html"), indexHTML)
		writeFile(filepath.Join(root, "js", "main.js"), mainJS)
		writeFile(filepath.Join(root, "css", "site.css"), "body { margin: 0; }\n")
		writeFile(filepath.Join(root, "docs", "b.txt"), "b")
		writeFile(filepath.Join(root, "docs", "A.txt"), "a")
		Expect(os.Mkdir(filepath.Join(root, "docs", "guides"), 0755)).To(Succeed())
		writeFile(filepath.Join(root, "app", "index.html"), "<h1>app</h1>")
		writeFile(filepath.Join(base, "secret.txt"), secret)

		var logger *logrus.Logger
		logger, hook = test.NewNullLogger()
		handler = static.NewHandler(root, logger)
	})

	AfterEach(func() {
		Expect(os.RemoveAll(base)).To(Succeed())
	})

	When("a file is requested", func() {
		It("serves index.html byte for byte", func() {
			rec := serve(http.MethodGet, "/index.html")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(Equal(indexHTML))
			Expect(rec.Header().Get("Content-Type")).To(HavePrefix("text/html"))
		})

		It("serves JavaScript as application/javascript", func() {
			rec := serve(http.MethodGet, "/js/main.js")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(Equal(mainJS))
			Expect(rec.Header().Get("Content-Type")).To(Equal(static.JavaScriptContentType))
		})

		It("matches the script suffix on the path, ignoring the query", func() {
			rec := serve(http.MethodGet, "/js/main.js?v=2")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(Equal(mainJS))
			Expect(rec.Header().Get("Content-Type")).To(Equal(static.JavaScriptContentType))
		})

		It("leaves other types to extension inference", func() {
			rec := serve(http.MethodGet, "/css/site.css")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(HavePrefix("text/css"))
		})

		It("answers HEAD without a body", func() {
			rec := serve(http.MethodHead, "/index.html")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.Len()).To(BeZero())
			Expect(rec.Header().Get("Content-Length")).To(Equal(strconv.Itoa(len(indexHTML))))
		})

		It("rejects a trailing slash on a file", func() {
			rec := serve(http.MethodGet, "/index.html/")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	When("a file is missing", func() {
		It("returns not found and keeps serving", func() {
			rec := serve(http.MethodGet, "/nope.html")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(rec.Body.String()).To(ContainSubstring("File not found"))

			rec = serve(http.MethodGet, "/index.html")
			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("still labels a missing script as JavaScript", func() {
			rec := serve(http.MethodGet, "/js/missing.js")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(rec.Header().Get("Content-Type")).To(Equal(static.JavaScriptContentType))
		})
	})

	When("a directory is requested", func() {
		It("redirects to the slash form keeping the query", func() {
			rec := serve(http.MethodGet, "/docs?sort=name")
			Expect(rec.Code).To(Equal(http.StatusMovedPermanently))
			Expect(rec.Header().Get("Location")).To(Equal("/docs/?sort=name"))
		})

		It("serves its index document", func() {
			rec := serve(http.MethodGet, "/app/")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(Equal("<h1>app</h1>"))
		})

		It("serves the root index document", func() {
			rec := serve(http.MethodGet, "/")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(Equal(indexHTML))
		})

		It("lists entries when there is no index", func() {
			rec := serve(http.MethodGet, "/docs/")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("text/html; charset=utf-8"))

			body := rec.Body.String()
			Expect(body).To(ContainSubstring("<title>Directory listing for /docs/</title>"))
			Expect(body).To(ContainSubstring(`<a href="guides/">guides/</a>`))
			Expect(body).To(MatchRegexp(`(?s)A\.txt.*b\.txt.*guides/`))
		})
	})

	When("a path tries to leave the root", func() {
		DescribeTable("never returns the outside file",
			func(target string) {
				rec := serve(http.MethodGet, target)
				Expect(rec.Code).NotTo(Equal(http.StatusOK))
				Expect(rec.Body.String()).NotTo(ContainSubstring(secret))

				if location := rec.Header().Get("Location"); location != "" {
					rec = serve(http.MethodGet, location)
					Expect(rec.Code).To(Equal(http.StatusNotFound))
					Expect(rec.Body.String()).NotTo(ContainSubstring(secret))
				}
			},
			Entry("plain", "/../secret.txt"),
			Entry("nested", "/js/../../secret.txt"),
			Entry("encoded", "/%2e%2e/secret.txt"),
			Entry("deep", "/../../../../etc/passwd"),
		)
	})

	DescribeTable("CORS headers on every response",
		func(method, target string, status int) {
			rec := serve(method, target)
			Expect(rec.Code).To(Equal(status))
			expectCORS(rec.Header())
		},
		Entry("file", http.MethodGet, "/index.html", http.StatusOK),
		Entry("script", http.MethodGet, "/js/main.js", http.StatusOK),
		Entry("missing", http.MethodGet, "/missing.txt", http.StatusNotFound),
		Entry("directory redirect", http.MethodGet, "/docs", http.StatusMovedPermanently),
		Entry("listing", http.MethodGet, "/docs/", http.StatusOK),
		Entry("preflight", http.MethodOptions, "/js/main.js", http.StatusNoContent),
		Entry("asterisk preflight", http.MethodOptions, "*", http.StatusNoContent),
		Entry("post", http.MethodPost, "/index.html", http.StatusNotImplemented),
		Entry("put", http.MethodPut, "/index.html", http.StatusNotImplemented),
	)

	It("exposes the headers it stamps on every response", func() {
		expectCORS(handler.FixedHeader())
		Expect(handler.FixedHeader()).To(HaveLen(3))
	})

	It("reports unsupported methods by name", func() {
		rec := serve(http.MethodPost, "/index.html")
		Expect(rec.Body.String()).To(Equal("Unsupported method ('POST')\n"))
	})

	It("logs every request", func() {
		serve(http.MethodGet, "/index.html")
		serve(http.MethodGet, "/missing.txt")

		entries := hook.AllEntries()
		Expect(entries).To(HaveLen(2))

		Expect(entries[0].Level).To(Equal(logrus.InfoLevel))
		Expect(entries[0].Message).To(Equal("Request served"))
		Expect(entries[0].Data).To(HaveKeyWithValue("path", "/index.html"))
		Expect(entries[0].Data).To(HaveKeyWithValue("status", http.StatusOK))
		Expect(entries[0].Data).To(HaveKeyWithValue("bytes", int64(len(indexHTML))))

		Expect(entries[1].Data).To(HaveKeyWithValue("status", http.StatusNotFound))
	})
})
