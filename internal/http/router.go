package http

import (
	_ "embed"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/swaggest/swgui"
	"github.com/swaggest/swgui/v5emb"
)

//go:embed swagger.json
var swaggerJSON []byte

// NewRouter builds the route table. Profile routes are mounted under prefix.
func NewRouter(profiles Profile, prefix string, log *slog.Logger) http.Handler {
	h := &handlers{profiles: profiles, log: log}
	if prefix == "" {
		prefix = "/"
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(log))
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", h.health)
	setupSwaggerUI(r)

	r.Route(prefix, func(r chi.Router) {
		r.Get("/profiles", h.listProfiles)
		r.Post("/profiles", h.createProfile)
		r.Get("/profiles/{id}", h.getProfile)
		r.Put("/profiles/{id}", h.updateProfile)
		r.Delete("/profiles/{id}", h.deleteProfile)

		r.Post("/profiles/{id}/experiences", h.addExperience)
		r.Delete("/profiles/{id}/experiences/{exp}", h.removeExperience)

		r.Post("/profiles/{id}/skills", h.addSkill)
		r.Delete("/profiles/{id}/skills/{skill}", h.removeSkill)

		r.Put("/profiles/{id}/information", h.replaceInformation)
	})

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-Request-Id")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Length")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func accessLog(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Info("http request",
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.String("remote_addr", r.RemoteAddr),
				slog.Duration("latency", time.Since(start)),
			)
		})
	}
}

func setupSwaggerUI(r chi.Router) {
	swaggerHandler := v5emb.NewHandlerWithConfig(swgui.Config{
		Title:       "Profile API Documentation",
		SwaggerJSON: "/swagger/swagger.json",
		BasePath:    "/swagger/",
		ShowTopBar:  true,
	})

	r.Get("/swagger/swagger.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(swaggerJSON)
	})
	r.Handle("/swagger/*", swaggerHandler)
	r.Handle("/swagger", http.RedirectHandler("/swagger/", http.StatusFound))
}
