package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	courseID := chi.URLParam(r, "id")

	view, err := s.CourseService.Get(r.Context(), user, courseID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	courseID := chi.URLParam(r, "id")

	if err := s.CourseService.Enroll(r.Context(), user, courseID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": "enrolled"})
}

func (s *Server) handleCompleteLesson(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	courseID := chi.URLParam(r, "id")
	lessonID := chi.URLParam(r, "lessonID")

	result, err := s.CourseService.CompleteLesson(r.Context(), user, courseID, lessonID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
