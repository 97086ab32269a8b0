package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"notemind-backend/internal/handlers"
	"notemind-backend/internal/middleware"
)

func New(
	jwtAuth *middleware.JWTAuth,
	quizHandler *handlers.QuizHandler,
	sharedHandler *handlers.SharedQuizHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Anonymous shared-quiz traffic is the only unauthenticated surface,
	// so it gets a per-IP limiter (30 req/min).
	sharedLimiter := middleware.NewRateLimiter(30, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/quiz", func(r chi.Router) {

			// ──── Public shared-quiz routes ────
			r.Group(func(r chi.Router) {
				r.Use(sharedLimiter.Middleware)
				r.Get("/shared/{token}", sharedHandler.GetShared)
				r.Post("/shared/{token}/submit", sharedHandler.SubmitShared)
			})

			// ──── Authenticated quiz lifecycle ────
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/generate", quizHandler.Generate)
				r.Post("/submit", quizHandler.Submit)
				r.Get("/results", quizHandler.ListResults)
				r.Get("/results/{resultID}", quizHandler.GetResult)
				r.Get("/results/{resultID}/download", quizHandler.DownloadResult)
				r.Get("/download/{quizID}", quizHandler.DownloadQuiz)
				r.Post("/share", sharedHandler.Share)
				r.Delete("/shared/{token}", sharedHandler.DeleteShared)
				r.Delete("/{quizID}", quizHandler.Delete)
			})
		})
	})

	return r
}
