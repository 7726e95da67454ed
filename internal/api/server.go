package api

import (
	"github.com/marinav/edquest/internal/services"
)

// Server holds the HTTP handlers' service dependencies.
type Server struct {
	AuthService    services.AuthService
	CourseService  services.CourseService
	QuizService    services.QuizService
	AttemptService services.AttemptService
	RewardService  services.RewardService
	AllowedOrigins []string
}
