package domain

import "time"

type ChangeKind string

const (
	ChangeSessionStarted          ChangeKind = "session_started"
	ChangeClimbAppended           ChangeKind = "climb_appended"
	ChangeExerciseProgressUpdated ChangeKind = "exercise_progress_updated"
	ChangeSessionUpdated          ChangeKind = "session_updated"
	ChangeSessionFinished         ChangeKind = "session_finished"
	ChangeSessionDeleted          ChangeKind = "session_deleted"
)

// Change is one discrete mutation of a session. Stores persist changes
// rather than diffing whole sessions; Seq is assigned by the store.
type Change struct {
	Seq       int64              `json:"seq,omitempty"`
	Kind      ChangeKind         `json:"kind"`
	SessionID string             `json:"session_id"`
	At        time.Time          `json:"at"`
	Session   *Session           `json:"session,omitempty"`
	Climb     *ClimbLog          `json:"climb,omitempty"`
	Progress  []ExerciseProgress `json:"progress,omitempty"`
	Details   *Details           `json:"details,omitempty"`
	Finish    *FinishRecord      `json:"finish,omitempty"`
}

type FinishRecord struct {
	EndTime         time.Time     `json:"end_time"`
	DurationMinutes int           `json:"duration_minutes"`
	ExerciseLogs    []ExerciseLog `json:"exercise_logs"`
}

// Live is the in-memory state of the active session.
type Live struct {
	Session      Session
	Progress     []ExerciseProgress
	Achievements []Achievement
	Attempts     int
	Workout      *WorkoutPlan
}

func (l Live) ShowsClimbLogging() bool {
	return l.Workout == nil || l.Workout.ShowsClimbLogging
}

func (l Live) ProgressFor(exerciseID string) (ExerciseProgress, int, bool) {
	for i, p := range l.Progress {
		if p.ExerciseID == exerciseID {
			return p, i, true
		}
	}
	return ExerciseProgress{}, -1, false
}

func (l Live) Achieved(goalID string) bool {
	for _, a := range l.Achievements {
		if a.GoalID == goalID {
			return true
		}
	}
	return false
}

// Apply folds change into the live state. Slices are copied so earlier
// snapshots handed to callers stay untouched.
func (l Live) Apply(change Change) Live {
	switch change.Kind {
	case ChangeSessionStarted:
		if change.Session != nil {
			l.Session = *change.Session
		}
		l.Progress = append([]ExerciseProgress(nil), change.Progress...)
	case ChangeClimbAppended:
		if change.Climb != nil {
			climbs := make([]ClimbLog, 0, len(l.Session.Climbs)+1)
			climbs = append(climbs, *change.Climb)
			l.Session.Climbs = append(climbs, l.Session.Climbs...)
		}
	case ChangeExerciseProgressUpdated:
		progress := append([]ExerciseProgress(nil), l.Progress...)
		for _, updated := range change.Progress {
			for i := range progress {
				if progress[i].ExerciseID == updated.ExerciseID {
					updated.Expanded = progress[i].Expanded
					progress[i] = updated
				}
			}
		}
		l.Progress = progress
	case ChangeSessionUpdated:
		if change.Details != nil {
			l.Session = applyDetails(l.Session, *change.Details)
		}
	case ChangeSessionFinished:
		if change.Details != nil {
			l.Session = applyDetails(l.Session, *change.Details)
		}
		if change.Finish != nil {
			end := change.Finish.EndTime
			l.Session.EndTime = &end
			l.Session.DurationMinutes = change.Finish.DurationMinutes
			l.Session.ExerciseLogs = append([]ExerciseLog(nil), change.Finish.ExerciseLogs...)
		}
	}
	return l
}

func applyDetails(s Session, d Details) Session {
	s.RPE = d.RPE
	s.Notes = d.Notes
	s.SkinCondition = d.SkinCondition
	s.SleepQuality = d.SleepQuality
	return s
}
