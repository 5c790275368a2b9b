package domain

import timerdomain "chalkup/internal/modules/timer/domain"

// Seed returns the built-in catalog used when no catalog file exists.
func Seed() Catalog {
	return Catalog{Workouts: seedWorkouts(), Exercises: seedExercises(), Presets: seedPresets()}
}

func repeaters() *timerdomain.IntervalConfig {
	return &timerdomain.IntervalConfig{WorkSeconds: 7, RestSeconds: 3, RepsPerSet: 6, TotalSets: 3, RestBetweenSetsSeconds: 180}
}

func maxHangs() *timerdomain.IntervalConfig {
	return &timerdomain.IntervalConfig{WorkSeconds: 10, RestSeconds: 0, RepsPerSet: 1, TotalSets: 5, RestBetweenSetsSeconds: 180}
}

func seedWorkouts() []Workout {
	return []Workout{
		{
			ID:              "w1",
			Name:            "Limit Bouldering",
			Type:            WorkoutTypeBoulder,
			Description:     "Projecting at your limit. Focus on hard moves.",
			DurationMinutes: 90,
			Steps:           []string{"Warm up (20m)", "Pyramid up to flash level", "Projecting: 4-5 problems (45m)", "Cool down"},
		},
		{
			ID:              "w2",
			Name:            "Hangboard 7/3",
			Type:            WorkoutTypeHangboard,
			Description:     "Repeaters protocol. 7s hang, 3s rest. 6 reps per set, 3 sets.",
			DurationMinutes: 45,
			Steps:           []string{"Warm up fingers", "Start timer for protocols"},
			Timer:           repeaters(),
		},
		{
			ID:              "w3",
			Name:            "Volume Day",
			Type:            WorkoutTypeBoulder,
			Description:     "Sub-max climbing to build capacity.",
			DurationMinutes: 120,
			Steps:           []string{"20 boulders between V2-V4", "Focus on perfect technique"},
		},
		{
			ID:              "w4",
			Name:            "Rest Day",
			Type:            WorkoutTypeRest,
			Description:     "Active recovery or full rest.",
			DurationMinutes: 0,
			Steps:           []string{"Stretch", "Walk", "Sleep"},
		},
	}
}

func seedExercises() []Exercise {
	return []Exercise{
		{ID: "e1", Name: "Push-ups", Description: "Standard push-ups for chest and tricep balance.", Category: CategoryAntagonist, Difficulty: "Beginner", DefaultSets: 3, DefaultReps: 15},
		{ID: "e2", Name: "Reverse Wrist Curls", Description: "Forearm extensor strengthening to prevent elbow issues.", Category: CategoryAntagonist, Difficulty: "Beginner", DefaultSets: 3, DefaultReps: 20},
		{ID: "e3", Name: "External Rotations", Description: "Shoulder stabilizer work with band or light weight.", Category: CategoryAntagonist, Difficulty: "Beginner", DefaultSets: 3, DefaultReps: 15},
		{ID: "e4", Name: "Hanging Leg Raises", Description: "Hang from bar, raise legs to 90 degrees or higher.", Category: CategoryCore, Difficulty: "Intermediate", DefaultSets: 3, DefaultReps: 10},
		{ID: "e5", Name: "Front Lever Progressions", Description: "Tuck, advanced tuck, or full front lever holds.", Category: CategoryCore, Difficulty: "Advanced", DefaultSets: 5, DefaultDurationSeconds: 10},
		{ID: "e6", Name: "Hollow Body Hold", Description: "Gymnastic hold for core tension.", Category: CategoryCore, Difficulty: "Beginner", DefaultSets: 3, DefaultDurationSeconds: 30},
		{ID: "e7", Name: "Max Hangs", Description: "10 second max weight hangs on 18-20mm edge.", Category: CategoryLimitStrength, Difficulty: "Advanced", DefaultSets: 5, DefaultDurationSeconds: 10, Timer: maxHangs()},
		{ID: "e8", Name: "One-Arm Lock-offs", Description: "Lock off at 90 degrees, assisted or weighted.", Category: CategoryLimitStrength, Difficulty: "Advanced", DefaultSets: 3, DefaultReps: 3},
		{ID: "e9", Name: "Campus Ladders", Description: "1-2-3 or 1-3-5 campus board sequences.", Category: CategoryPower, Difficulty: "Advanced", DefaultSets: 5, DefaultReps: 2},
		{ID: "e10", Name: "Explosive Pull-ups", Description: "Pull up fast, hands leave bar at top.", Category: CategoryPower, Difficulty: "Intermediate", DefaultSets: 4, DefaultReps: 5},
		{ID: "e11", Name: "Repeaters 7/3", Description: "7 second hang, 3 second rest, 6 reps per set.", Category: CategoryStrengthEndurance, Difficulty: "Intermediate", DefaultSets: 3, DefaultReps: 6, Timer: repeaters()},
		{ID: "e12", Name: "4x4s", Description: "4 boulder problems, 4 times through with minimal rest.", Category: CategoryStrengthEndurance, Difficulty: "Intermediate", DefaultSets: 4, DefaultReps: 4},
		{ID: "e13", Name: "Linked Boulder Circuit", Description: "Chain 3-5 easy boulders without rest.", Category: CategoryStrengthEndurance, Difficulty: "Intermediate", DefaultSets: 3, DefaultReps: 1},
		{ID: "e14", Name: "ARC Training", Description: "20-45 minutes of continuous easy climbing.", Category: CategoryAerobic, Difficulty: "Beginner", DefaultSets: 1, DefaultDurationSeconds: 1800},
		{ID: "e15", Name: "Easy Traversing", Description: "Traverse walls at low intensity for recovery.", Category: CategoryAerobic, Difficulty: "Beginner", DefaultSets: 1, DefaultDurationSeconds: 1200},
	}
}

func seedPresets() []Preset {
	return []Preset{
		{ID: "repeaters-7-3", Name: "7/3 Repeaters", Timer: *repeaters()},
		{ID: "max-hangs-10", Name: "10s Max Hangs", Timer: *maxHangs()},
		{ID: "density-hangs", Name: "Density Hangs", Timer: timerdomain.IntervalConfig{WorkSeconds: 30, RestSeconds: 30, RepsPerSet: 6, TotalSets: 1}},
	}
}
