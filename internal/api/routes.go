package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		// Everything below requires a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/me", s.handleMe)

			r.Get("/courses/{id}", s.handleGetCourse)
			r.Post("/courses/{id}/enroll", s.handleEnroll)
			r.Post("/courses/{id}/lessons/{lessonID}/complete", s.handleCompleteLesson)

			r.Get("/quizzes/{id}", s.handleGetQuiz)
			r.Get("/quizzes/{id}/stats", s.handleQuizStats)
			r.Post("/quizzes/{id}/attempts", s.handleStartAttempt)

			r.Get("/attempts", s.handleListAttempts)
			r.Get("/attempts/{id}", s.handleGetAttempt)
			r.Post("/attempts/{id}/submit", s.handleSubmitAttempt)

			r.Get("/rewards", s.handleListRewards)
			r.Get("/rewards/{id}", s.handleGetReward)
			r.Post("/rewards/{id}/award", s.handleAwardReward)
			r.Get("/users/{id}/rewards", s.handleUserRewards)
		})
	})
	return r
}
