package dto

import "time"

type StartInput struct {
	WorkoutID string
}

type ClimbOutput struct {
	ID        string
	Grade     string
	Attempts  int
	Sent      bool
	Timestamp time.Time
}

type ExerciseLogOutput struct {
	ID             string
	ExerciseID     string
	CompletedSets  int
	CompletedReps  int
	AddedWeight    *float64
	EdgeDepth      *float64
	ResistanceBand string
	RPE            *int
	Notes          string
	Timestamp      time.Time
}

type SessionOutput struct {
	ID              string
	WorkoutID       string
	StartTime       time.Time
	EndTime         *time.Time
	DurationMinutes int
	RPE             int
	Notes           string
	SkinCondition   string
	SleepQuality    string
	Climbs          []ClimbOutput
	ExerciseLogs    []ExerciseLogOutput
}

type SessionSummaryOutput struct {
	ID              string
	WorkoutID       string
	StartTime       time.Time
	EndTime         *time.Time
	DurationMinutes int
	Climbs          int
	Sends           int
	Active          bool
}

type ExerciseProgressOutput struct {
	ExerciseID     string
	TargetSets     int
	CompletedSets  int
	CompletedReps  int
	AddedWeight    *float64
	EdgeDepth      *float64
	ResistanceBand string
	RPE            *int
	Notes          string
	Expanded       bool
	Complete       bool
}

type AchievementOutput struct {
	GoalID string
	Title  string
	Type   string
}

type LiveOutput struct {
	Session           SessionOutput
	WorkoutName       string
	Progress          []ExerciseProgressOutput
	Achievements      []AchievementOutput
	Attempts          int
	ElapsedSeconds    int
	ShowsClimbLogging bool
	HasInterval       bool
}

type LogClimbInput struct {
	Grade string
	// Attempts falls back to the live attempts counter when zero.
	Attempts int
	Sent     bool
}

type LogClimbOutput struct {
	Climb        ClimbOutput
	Achievements []AchievementOutput
	RestStarted  bool
}

type LogSetOutput struct {
	Progress    ExerciseProgressOutput
	Changed     bool
	RestStarted bool
}

type UpdateExerciseInput struct {
	ExerciseID     string
	CompletedReps  *int
	AddedWeight    *float64
	EdgeDepth      *float64
	ResistanceBand *string
	RPE            *int
	Notes          *string
	Expanded       *bool
}

type DetailsInput struct {
	RPE           *int
	Notes         *string
	SkinCondition *string
	SleepQuality  *string
}

type FinishInput struct {
	Details DetailsInput
}

type FinishOutput struct {
	Session         SessionOutput
	ScheduleEntryID string
}

type ChangeOutput struct {
	Seq  int64
	Kind string
	At   time.Time
}
