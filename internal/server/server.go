// Package server exposes the rendered map, charts, summary and data of one
// pipeline run over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/KaramelBytes/hospiviz-cli/internal/analysis"
	"github.com/KaramelBytes/hospiviz-cli/internal/export"
	"github.com/KaramelBytes/hospiviz-cli/internal/logging"
	"github.com/KaramelBytes/hospiviz-cli/internal/pipeline"
	"github.com/KaramelBytes/hospiviz-cli/internal/render"
)

// Options configures the served artifacts.
type Options struct {
	Map     render.MapOptions
	Chart   render.ChartOptions
	Summary analysis.Options
	Log     *logging.Logger
	// AccessLog enables chi's request logger.
	AccessLog bool
}

// Server serves artifacts for a single, read-only pipeline result.
type Server struct {
	router *chi.Mux
	res    *pipeline.Result
	opt    Options
}

// New builds the router for res.
func New(res *pipeline.Result, opt Options) *Server {
	s := &Server{router: chi.NewRouter(), res: res, opt: opt}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	if s.opt.AccessLog {
		s.router.Use(middleware.Logger)
	}
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/map", s.handleMap)
	s.router.Get("/charts/{chart}.png", s.handleChart)
	s.router.Get("/summary", s.handleSummary)
	s.router.Get("/summary.md", s.handleSummaryMarkdown)
	s.router.Get("/data.json", s.handleData)
	s.router.Get("/data.csv", s.handleDataCSV)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>HospiViz: {{.Source}}</title></head>
<body>
<h1>{{.Source}}</h1>
<p>{{.Count}} facilities, run {{.RunID}}</p>
<ul>
<li><a href="/map">Map</a></li>
<li><a href="/charts/bar.png">Patients by facility</a></li>
<li><a href="/charts/heatmap.png">Correlation heatmap</a></li>
<li><a href="/charts/violin.png">Rating distribution</a></li>
<li><a href="/summary">Summary</a></li>
<li><a href="/data.json">Data (JSON)</a> / <a href="/data.csv">CSV</a></li>
</ul>
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.respond(w, "text/html; charset=utf-8", func(out io.Writer) error {
		return indexTemplate.Execute(out, map[string]any{
			"Source": s.res.Report.Source,
			"Count":  len(s.res.Facilities),
			"RunID":  s.res.Report.RunID,
		})
	})
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	s.respond(w, "text/html; charset=utf-8", func(out io.Writer) error {
		return render.Map(out, s.res.Facilities, s.opt.Map)
	})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	var draw func(io.Writer) error
	switch chi.URLParam(r, "chart") {
	case "bar":
		draw = func(out io.Writer) error { return render.Bar(out, s.res.Facilities, s.opt.Chart) }
	case "heatmap":
		draw = func(out io.Writer) error { return render.Heatmap(out, s.res.Facilities, s.opt.Chart) }
	case "violin":
		draw = func(out io.Writer) error { return render.Violin(out, s.res.Facilities, s.opt.Chart) }
	default:
		http.NotFound(w, r)
		return
	}
	s.respond(w, "image/png", draw)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.respond(w, "text/html; charset=utf-8", func(out io.Writer) error {
		_, err := out.Write(analysis.Summarize(s.res, s.opt.Summary).HTML())
		return err
	})
}

func (s *Server) handleSummaryMarkdown(w http.ResponseWriter, r *http.Request) {
	s.respond(w, "text/markdown; charset=utf-8", func(out io.Writer) error {
		_, err := io.WriteString(out, analysis.Summarize(s.res, s.opt.Summary).Markdown())
		return err
	})
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	s.respond(w, "application/json", func(out io.Writer) error {
		return export.WriteJSON(out, s.res)
	})
}

func (s *Server) handleDataCSV(w http.ResponseWriter, r *http.Request) {
	s.respond(w, "text/csv; charset=utf-8", func(out io.Writer) error {
		return export.WriteCSV(out, s.res.Dataset)
	})
}

// respond renders into memory first so a failure yields a clean error status.
func (s *Server) respond(w http.ResponseWriter, contentType string, fn func(io.Writer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, render.ErrNoFacilities) {
			status = http.StatusNotFound
		}
		s.opt.Log.Errorf("serve: %v", err)
		http.Error(w, fmt.Sprintf("%s: %v", http.StatusText(status), err), status)
		return
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = buf.WriteTo(w)
}
