// Package rewards decides whether a learner may be granted a reward.
package rewards

import (
	"fmt"
	"math"
	"time"

	"github.com/marinav/edquest/internal/models"
)

// RuleContext is the learner state a custom rule evaluates against.
type RuleContext struct {
	User       models.User
	Percentage float64 // percentage of the triggering attempt, if any
	Progress   int     // course progress of the triggering update, if any
}

// RuleFunc evaluates a named custom rule.
type RuleFunc func(ctx RuleContext) bool

// Registry maps custom rule names to evaluators. Rules without an
// implemented evaluator are treated as not satisfied: the engine fails
// closed and never awards on an unrecognized rule.
type Registry struct {
	rules map[string]RuleFunc
}

// NewRegistry returns a registry with the built-in rules installed.
func NewRegistry() *Registry {
	r := &Registry{rules: make(map[string]RuleFunc)}
	r.Register("perfect-score", func(ctx RuleContext) bool {
		return ctx.Percentage >= 100
	})
	r.Register("first-level-up", func(ctx RuleContext) bool {
		return ctx.User.Level >= 2
	})
	return r
}

// Register installs an evaluator under a rule name.
func (r *Registry) Register(name string, fn RuleFunc) {
	r.rules[name] = fn
}

// Satisfied evaluates the named rule, failing closed when unknown.
func (r *Registry) Satisfied(name string, ctx RuleContext) bool {
	fn, ok := r.rules[name]
	if !ok {
		return false
	}
	return fn(ctx)
}

// CanAward checks the award-time guards: the reward must be active, not
// expired, and not exhausted when limited. Holding the reward already is
// checked separately against the learner's reward set.
func CanAward(r models.Reward, awardedCount int, now time.Time) bool {
	if !r.IsActive {
		return false
	}
	if r.ExpiresAt != nil && r.ExpiresAt.Before(now) {
		return false
	}
	if r.IsLimited && awardedCount >= r.LimitedQuantity {
		return false
	}
	return true
}

// Reason builds the granting reason recorded on the reward's awarded list,
// derived from the reward's criteria kind.
func Reason(r models.Reward, quizTitle, courseTitle string, percentage float64, progress int) string {
	switch r.Criteria.Kind {
	case models.CriteriaQuizScore:
		return fmt.Sprintf("Scored %d%% on quiz %q", int(math.Round(percentage)), quizTitle)
	case models.CriteriaCourseCompletion:
		return fmt.Sprintf("Completed course %q with %d%% progress", courseTitle, progress)
	case models.CriteriaPointsEarned:
		return fmt.Sprintf("Reached %d points", int(r.Criteria.Threshold))
	case models.CriteriaCustom:
		return fmt.Sprintf("Satisfied rule %q", r.Criteria.CustomRule)
	}
	return ""
}

// EarnedActivity is the activity-log line written when a reward is granted.
func EarnedActivity(r models.Reward) string {
	return fmt.Sprintf("Earned the %q %s!", r.Name, r.Type)
}
