package domain

import catalogdomain "chalkup/internal/modules/catalog/domain"

// GradeGoal is the read view of an active grade-type goal.
type GradeGoal struct {
	ID          string
	Title       string
	TargetGrade catalogdomain.Grade
	Style       catalogdomain.GradeStyle
}

// Satisfied reports whether climb meets the goal. Onsight is checked the same
// way as flash: a single attempt is all the log records, so prior beta on the
// problem cannot be ruled out.
func (g GradeGoal) Satisfied(climb ClimbLog) bool {
	if !climb.Sent {
		return false
	}
	logged, ok := catalogdomain.Rank(climb.Grade)
	if !ok {
		return false
	}
	target, ok := catalogdomain.Rank(g.TargetGrade)
	if !ok || logged < target {
		return false
	}
	switch g.Style {
	case catalogdomain.StyleSend:
		return true
	case catalogdomain.StyleFlash, catalogdomain.StyleOnsight:
		return climb.Attempts == 1
	default:
		return false
	}
}

const AchievementGoal = "goal"

// Achievement is queued for display when a goal completes during a session.
type Achievement struct {
	GoalID string `json:"goal_id"`
	Title  string `json:"title"`
	Type   string `json:"type"`
}
