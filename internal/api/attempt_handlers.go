package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/marinav/edquest/internal/models"
)

func (s *Server) handleStartAttempt(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	quizID := chi.URLParam(r, "id")

	result, err := s.AttemptService.Start(r.Context(), user, quizID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleSubmitAttempt(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	attemptID := chi.URLParam(r, "id")

	var in struct {
		Answers []models.SubmittedAnswer `json:"answers"`
	}
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.AttemptService.Submit(r.Context(), user, attemptID, in.Answers)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetAttempt(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	attemptID := chi.URLParam(r, "id")

	attempt, err := s.AttemptService.Get(r.Context(), user, attemptID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, attempt)
}

func (s *Server) handleListAttempts(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	q := r.URL.Query()
	filter := models.AttemptFilter{
		QuizID:        q.Get("quiz_id"),
		CourseID:      q.Get("course_id"),
		CompletedOnly: q.Get("completed") == "true",
	}
	if v := q.Get("user_id"); v != "" {
		filter.UserID = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		filter.Offset = v
	}

	attempts, err := s.AttemptService.ListForUser(r.Context(), user, filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, attempts)
}
