package web

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/Temutjin2k/smartrash/pkg/hasher"
	"github.com/Temutjin2k/smartrash/pkg/logger"
	wrap "github.com/Temutjin2k/smartrash/pkg/logger/wrapper"
)

//go:embed index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

// PageConfig is what the map page needs to render.
type PageConfig struct {
	Title     string
	CenterLat float64
	CenterLng float64
	Zoom      int
	// StreamPath is the WebSocket route of the marker stream.
	StreamPath string
}

// Page serves the live map.
type Page struct {
	body []byte
	etag string
	log  logger.Logger
}

// NewPage renders the page once; the content does not change at runtime.
func NewPage(cfg PageConfig, log logger.Logger) (*Page, error) {
	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, cfg); err != nil {
		return nil, err
	}
	return &Page{body: buf.Bytes(), etag: hasher.ETag(buf.Bytes()), log: log}, nil
}

func (p *Page) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("ETag", p.etag)
	if r.Header.Get("If-None-Match") == p.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(p.body); err != nil {
		p.log.Debug(wrap.WithAction(r.Context(), "serve_map_page"), "failed to write page", "error", err.Error())
	}
}
