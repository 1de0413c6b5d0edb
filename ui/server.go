package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"failboard/app"
	"failboard/internal"
)

//go:embed templates/* static/* methodology.md
var embeddedFiles embed.FS

// App is the dashboard web shell: it owns the filter and selection state (as
// query parameters), calls the dashboard service, and renders the results.
type App struct {
	router    *chi.Mux
	service   *app.DashboardService
	templates *template.Template
	log       *internal.Logger
	port      string
}

// Config holds UI application configuration
type Config struct {
	Port string
	// AllowedOrigins is passed to the CORS middleware on /export routes so
	// external renderers can fetch the JSON.
	AllowedOrigins []string
}

// NewApp creates the dashboard application.
func NewApp(config Config, service *app.DashboardService, log *internal.Logger) (*App, error) {
	funcMap := template.FuncMap{
		// Markdown output is generated server-side from an embedded file,
		// never from user input.
		"safeHTML": func(s string) template.HTML { return template.HTML(s) },
		"pct":      func(p float64) string { return fmt.Sprintf("%.1f%%", p*100) },
		"f1":       func(v float64) string { return fmt.Sprintf("%.1f", v) },
		"barwidth": func(count, max int) int {
			if max == 0 {
				return 0
			}
			return count * 100 / max
		},
		"heat": func(count, max int) template.CSS {
			if max == 0 {
				return "background: none"
			}
			alpha := float64(count) / float64(max)
			return template.CSS(fmt.Sprintf("background: rgba(30, 110, 190, %.2f)", alpha))
		},
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		router:    chi.NewRouter(),
		service:   service,
		templates: templates,
		log:       log.With("UI"),
		port:      config.Port,
	}
	a.setupMiddleware(config)
	a.setupRoutes()
	return a, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware(config Config) {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))

	staticFS := http.FileServer(http.FS(embeddedFiles))
	a.router.Handle("/static/*", staticFS)

	origins := config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	a.router.Route("/export", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET"},
		}))
		r.Get("/views.json", a.handleExportJSON)
		r.Get("/views/{name}.xlsx", a.handleExportXLSX)
	})
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/methodology", a.handleMethodology)
	a.router.Post("/upload", a.handleUpload)
}

// Router exposes the handler for tests and embedding.
func (a *App) Router() http.Handler {
	return a.router
}

// Start runs the HTTP server.
func (a *App) Start() error {
	a.log.Info("dashboard listening on :%s", a.port)
	return http.ListenAndServe(":"+a.port, a.router)
}

func (a *App) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.templates.ExecuteTemplate(w, name, data); err != nil {
		a.log.Error("template %s: %v", name, err)
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}
