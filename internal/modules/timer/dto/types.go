package dto

import "time"

type IntervalInput struct {
	WorkSeconds            int
	RestSeconds            int
	RepsPerSet             int
	TotalSets              int
	RestBetweenSetsSeconds int
}

type IntervalOutput struct {
	Loaded                 bool
	Phase                  string
	CurrentRep             int
	CurrentSet             int
	RepsPerSet             int
	TotalSets              int
	RemainingSeconds       int
	Running                bool
	WorkSeconds            int
	RestSeconds            int
	RestBetweenSetsSeconds int
}

type RestOutput struct {
	Active           bool
	Completed        bool
	Running          bool
	DurationSeconds  int
	RemainingSeconds int
}

type SnapshotOutput struct {
	Interval       IntervalOutput
	Rest           RestOutput
	ElapsedSeconds int
	StartedAt      time.Time
}

type EventOutput struct {
	Source   string
	Interval IntervalOutput
	Rest     RestOutput
	Elapsed  int
	Cues     []string
	At       time.Time
}
