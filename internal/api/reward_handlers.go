package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marinav/edquest/internal/errors"
	"github.com/marinav/edquest/internal/models"
)

func (s *Server) handleListRewards(w http.ResponseWriter, r *http.Request) {
	rewards, err := s.RewardService.ListActive(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rewards)
}

func (s *Server) handleGetReward(w http.ResponseWriter, r *http.Request) {
	reward, err := s.RewardService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, reward)
}

func (s *Server) handleAwardReward(w http.ResponseWriter, r *http.Request) {
	granter := userFromContext(r.Context())
	rewardID := chi.URLParam(r, "id")

	var in struct {
		UserID string `json:"userId"`
		Reason string `json:"reason"`
	}
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, r, err)
		return
	}
	if in.UserID == "" {
		handleError(w, r, errors.NewValidationError("userId is required"))
		return
	}

	if err := s.RewardService.AwardToUser(r.Context(), granter, rewardID, in.UserID, in.Reason); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": "awarded"})
}

func (s *Server) handleUserRewards(w http.ResponseWriter, r *http.Request) {
	caller := userFromContext(r.Context())
	userID := chi.URLParam(r, "id")

	// Students can only look at their own trophy case.
	if caller.Role == models.RoleStudent && caller.ID != userID {
		handleError(w, r, errors.NewForbiddenError("you can only view your own rewards"))
		return
	}

	rewards, err := s.RewardService.ListForUser(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rewards)
}
