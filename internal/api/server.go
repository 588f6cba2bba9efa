package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/terra-clan/quiz-engine/internal/auth"
	"github.com/terra-clan/quiz-engine/internal/config"
	"github.com/terra-clan/quiz-engine/internal/health"
	"github.com/terra-clan/quiz-engine/internal/observability"
	"github.com/terra-clan/quiz-engine/internal/quiz"
)

// Server represents the HTTP API server
type Server struct {
	config         config.ServerConfig
	router         *chi.Mux
	service        *quiz.Service
	health         *health.Registry
	authMiddleware *AuthMiddleware
}

// NewServer creates a new API server. registry may be nil, in which case
// /ready always reports ready.
func NewServer(
	cfg config.ServerConfig,
	service *quiz.Service,
	verifier *auth.Verifier,
	registry *health.Registry,
) *Server {
	s := &Server{
		config:         cfg,
		service:        service,
		health:         registry,
		authMiddleware: NewAuthMiddleware(verifier),
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	timeout := s.config.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(observability.MetricsMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Operational endpoints (public)
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	authn := s.authMiddleware.Authenticate

	r.Route("/user", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Get("/get/{id}", s.handleGetUser)

		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.Put("/addBookmark/{userId}", s.handleAddBookmark)
			r.Delete("/removeBookmark/{userId}/{questionId}", s.handleRemoveBookmark)
			r.Post("/change_password", s.handleChangePassword)
			r.Post("/logout", s.handleLogout)
			r.Delete("/delete/{id}", s.handleDeleteUser)
			r.With(s.authMiddleware.RequireAdmin).Put("/role/{id}", s.handleSetRole)
		})
	})

	r.Route("/question", func(r chi.Router) {
		r.Get("/all", s.handleListQuestions)
		r.Get("/getById/{id}", s.handleGetQuestion)
		r.Get("/search/{term}", s.handleSearchQuestions)
		r.Get("/get/bySkill", s.handleQuestionsBySkill)
		r.Get("/get/byLevels", s.handleQuestionsByLevels)

		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.Get("/byQuery", s.handleQueryQuestions)
			r.Get("/random", s.handleRandomQuestion)
			r.Put("/update/attempted/{id}", s.handleMarkAttempted)
			r.Put("/update/like/{id}", s.handleLikeQuestion)

			r.Group(func(r chi.Router) {
				r.Use(s.authMiddleware.RequireAuthorizedUser)
				r.Post("/add", s.handleAddQuestion)
				r.Put("/update/{id}", s.handleUpdateQuestion)
				r.Delete("/delete/{id}", s.handleDeleteQuestion)
			})
		})
	})

	r.Route("/answer", func(r chi.Router) {
		r.Get("/get/{questionID}", s.handleListAnswers)

		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.Post("/create", s.handleCreateAnswer)
			r.Put("/update/{id}", s.handleUpdateAnswer)
			r.Delete("/delete/{id}", s.handleDeleteAnswer)
		})
	})

	r.Route("/comment", func(r chi.Router) {
		r.Get("/get/{questionID}", s.handleListComments)

		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.Post("/create", s.handleCreateComment)
			r.Put("/update/{id}", s.handleUpdateComment)
			r.Delete("/delete/{id}", s.handleDeleteComment)
		})
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
