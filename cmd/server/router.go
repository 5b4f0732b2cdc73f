package main

import (
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/stock-report-api/internal/api"
	apiMiddleware "github.com/phrazzld/stock-report-api/internal/api/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// resultPrefix is the URL prefix under which rendered reports are served.
const resultPrefix = "/result"

// setupRouter creates the router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	taskHandler := api.NewTaskHandler(app.manager, app.logger)

	r.Get("/version", taskHandler.Version)
	r.Get("/start", taskHandler.Start)
	r.Get("/process", taskHandler.Process)
	r.Delete("/delete", taskHandler.Delete)

	r.Handle(resultPrefix+"/*", http.StripPrefix(resultPrefix, artifactHandler(app.artifacts.HTTPFileSystem())))

	r.Handle("/metrics", promhttp.HandlerFor(app.metricsReg, promhttp.HandlerOpts{}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}

// artifactHandler serves report files by name. Directory listings and
// in-progress temporary files are hidden.
func artifactHandler(fsys http.FileSystem) http.Handler {
	files := http.FileServer(fsys)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") || strings.HasPrefix(path.Base(r.URL.Path), ".") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
