package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marinav/edquest/internal/errors"
	"github.com/marinav/edquest/internal/models"
)

func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	quizID := chi.URLParam(r, "id")

	quiz, err := s.QuizService.Get(r.Context(), user, quizID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, quiz)
}

func (s *Server) handleQuizStats(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user.Role == models.RoleStudent {
		handleError(w, r, errors.NewForbiddenError("only teachers and admins can view quiz statistics"))
		return
	}

	stats, err := s.AttemptService.QuizStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
