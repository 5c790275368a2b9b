package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"chalkup/internal/bootstrap"
	sessiondto "chalkup/internal/modules/session/dto"
	"chalkup/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	dataPath string
	logLevel string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "chalkup",
		Short:         "Climbing session timer and training log",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.dataPath, "data", ".", "data directory")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level override: trace|debug|info|warn|error")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newSessionCmd(flags))
	root.AddCommand(newLogCmd(flags))
	root.AddCommand(newTimerCmd(flags))
	root.AddCommand(newCatalogCmd(flags))
	root.AddCommand(newWorkoutCmd(flags))
	root.AddCommand(newPresetCmd(flags))
	root.AddCommand(newGoalCmd(flags))
	root.AddCommand(newPlanCmd(flags))
	root.AddCommand(newCueCmd(flags))
	return root
}

func loadApp(ctx context.Context, flags *rootFlags, opts bootstrap.Options) (*bootstrap.App, error) {
	cfg, err := config.New(flags.dataPath)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	return bootstrap.New(ctx, cfg, opts)
}

// withApp runs fn against a fully wired app and releases it afterwards.
func withApp(flags *rootFlags, fn func(ctx context.Context, app *bootstrap.App) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	app, err := loadApp(ctx, flags, bootstrap.Options{})
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = app.Close(closeCtx)
	}()
	return fn(ctx, app)
}

func newTUICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the live session screen",
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			app, err := loadApp(ctx, flags, bootstrap.Options{LogToFile: true})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close(context.Background()) }()
			return bootstrap.RunTUI(ctx, app)
		},
	}
}

func newSessionCmd(flags *rootFlags) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Session lifecycle"}

	session.AddCommand(&cobra.Command{
		Use:   "start [workout-id]",
		Short: "Start a session, optionally for a catalog workout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workoutID := ""
			if len(args) == 1 {
				workoutID = args[0]
			}
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				live, err := app.SessionCLI.Start(ctx, workoutID)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session started: %s at=%s\n", live.Session.ID, live.Session.StartTime.Local().Format(time.RFC3339))
				printLive(cmd.OutOrStdout(), live)
				return nil
			})
		},
	})

	session.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				live, err := app.SessionCLI.GetActive(ctx)
				if err != nil {
					return err
				}
				printLive(cmd.OutOrStdout(), live)
				return nil
			})
		},
	})

	session.AddCommand(&cobra.Command{
		Use:   "resume",
		Short: "Rebuild the active session after a restart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				live, err := app.SessionCLI.Resume(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session resumed: %s\n", live.Session.ID)
				printLive(cmd.OutOrStdout(), live)
				return nil
			})
		},
	})

	var details detailFlags
	update := &cobra.Command{
		Use:   "update",
		Short: "Update rpe, notes, skin and sleep of the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.UpdateDetails(ctx, details.input(cmd))
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session updated: %s rpe=%d skin=%s sleep=%s\n", out.ID, out.RPE, out.SkinCondition, out.SleepQuality)
				return nil
			})
		},
	}
	details.register(update)

	var finishDetails detailFlags
	finish := &cobra.Command{
		Use:   "finish",
		Short: "Finish the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.Finish(ctx, finishDetails.input(cmd))
				if err != nil {
					return err
				}
				s := out.Session
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session finished: %s duration=%dmin climbs=%d logs=%d rpe=%d\n", s.ID, s.DurationMinutes, len(s.Climbs), len(s.ExerciseLogs), s.RPE)
				if out.ScheduleEntryID != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "planned workout completed: %s\n", out.ScheduleEntryID)
				}
				return nil
			})
		},
	}
	finishDetails.register(finish)

	session.AddCommand(update, finish)

	session.AddCommand(&cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.SessionCLI.Delete(ctx, args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session deleted: %s\n", args[0])
				return nil
			})
		},
	})

	session.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				sessions, err := app.SessionCLI.List(ctx)
				if err != nil {
					return err
				}
				if len(sessions) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
					return nil
				}
				for _, s := range sessions {
					state := fmt.Sprintf("%dmin", s.DurationMinutes)
					if s.Active {
						state = "active"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\tclimbs=%d sends=%d\n",
						s.ID, s.StartTime.Local().Format("2006-01-02 15:04"), orDash(s.WorkoutID), state, s.Climbs, s.Sends)
				}
				return nil
			})
		},
	})

	var withChanges bool
	show := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show a stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				s, err := app.SessionCLI.Get(ctx, args[0])
				if err != nil {
					return err
				}
				printSession(cmd.OutOrStdout(), s)
				if !withChanges {
					return nil
				}
				changes, err := app.SessionCLI.Changes(ctx, args[0])
				if err != nil {
					return err
				}
				for _, c := range changes {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "#%d %s %s\n", c.Seq, c.At.Local().Format(time.RFC3339), c.Kind)
				}
				return nil
			})
		},
	}
	show.Flags().BoolVar(&withChanges, "changes", false, "include the change journal")
	session.AddCommand(show)
	return session
}

func newLogCmd(flags *rootFlags) *cobra.Command {
	logCmd := &cobra.Command{Use: "log", Short: "Log climbs and sets into the active session"}

	var attempts int
	var sent bool
	climb := &cobra.Command{
		Use:   "climb <grade>",
		Short: "Log a climb (VB, V0..V10)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.LogClimb(ctx, args[0], attempts, sent)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "climb logged: %s attempts=%d sent=%t\n", out.Climb.Grade, out.Climb.Attempts, out.Climb.Sent)
				for _, a := range out.Achievements {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "goal achieved: %s\n", a.Title)
				}
				if out.RestStarted {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "rest timer started")
				}
				return nil
			})
		},
	}
	climb.Flags().IntVar(&attempts, "attempts", 0, "attempts (defaults to the session attempts counter)")
	climb.Flags().BoolVar(&sent, "sent", false, "the climb was sent")

	set := &cobra.Command{
		Use:   "set <exercise-id>",
		Short: "Log one completed set of a workout exercise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.LogSet(ctx, args[0])
				if err != nil {
					return err
				}
				p := out.Progress
				if !out.Changed {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s already complete: %d/%d\n", p.ExerciseID, p.CompletedSets, p.TargetSets)
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d sets\n", p.ExerciseID, p.CompletedSets, p.TargetSets)
				if out.RestStarted {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "rest timer started")
				}
				return nil
			})
		},
	}

	attemptsCmd := &cobra.Command{
		Use:   "attempts <n>",
		Short: "Set the attempts counter for the next climb",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var n int
			if _, err := fmt.Sscanf(args[0], "%d", &n); err != nil {
				return fmt.Errorf("attempts must be a number: %w", err)
			}
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.SetAttempts(ctx, n)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "attempts=%d\n", out)
				return nil
			})
		},
	}

	var exercise exerciseFlags
	exerciseCmd := &cobra.Command{
		Use:   "exercise <exercise-id>",
		Short: "Record reps, load and notes for a workout exercise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				p, err := app.SessionCLI.UpdateExercise(ctx, exercise.input(cmd, args[0]))
				if err != nil {
					return err
				}
				printProgress(cmd.OutOrStdout(), p)
				return nil
			})
		},
	}
	exercise.register(exerciseCmd)

	logCmd.AddCommand(climb, set, attemptsCmd, exerciseCmd)
	return logCmd
}

type detailFlags struct {
	rpe   int
	notes string
	skin  string
	sleep string
}

func (d *detailFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&d.rpe, "rpe", 5, "perceived exertion 1..10")
	cmd.Flags().StringVar(&d.notes, "notes", "", "session notes")
	cmd.Flags().StringVar(&d.skin, "skin", "Good", "skin condition: Good|Fair|Bad")
	cmd.Flags().StringVar(&d.sleep, "sleep", "Good", "sleep quality: Good|Fair|Bad")
}

// input sets only the fields whose flags were given.
func (d *detailFlags) input(cmd *cobra.Command) sessiondto.DetailsInput {
	in := sessiondto.DetailsInput{}
	if cmd.Flags().Changed("rpe") {
		in.RPE = &d.rpe
	}
	if cmd.Flags().Changed("notes") {
		in.Notes = &d.notes
	}
	if cmd.Flags().Changed("skin") {
		skin := capitalize(d.skin)
		in.SkinCondition = &skin
	}
	if cmd.Flags().Changed("sleep") {
		sleep := capitalize(d.sleep)
		in.SleepQuality = &sleep
	}
	return in
}

type exerciseFlags struct {
	reps   int
	weight float64
	edge   float64
	band   string
	notes  string
	rpe    int
}

func (e *exerciseFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&e.reps, "reps", 0, "completed reps")
	cmd.Flags().Float64Var(&e.weight, "weight", 0, "added weight")
	cmd.Flags().Float64Var(&e.edge, "edge", 0, "edge depth in mm")
	cmd.Flags().StringVar(&e.band, "band", "", "resistance band")
	cmd.Flags().IntVar(&e.rpe, "rpe", 0, "exercise rpe 1..10")
	cmd.Flags().StringVar(&e.notes, "notes", "", "exercise notes")
}

func (e *exerciseFlags) input(cmd *cobra.Command, exerciseID string) sessiondto.UpdateExerciseInput {
	in := sessiondto.UpdateExerciseInput{ExerciseID: exerciseID}
	if cmd.Flags().Changed("reps") {
		in.CompletedReps = &e.reps
	}
	if cmd.Flags().Changed("weight") {
		in.AddedWeight = &e.weight
	}
	if cmd.Flags().Changed("edge") {
		in.EdgeDepth = &e.edge
	}
	if cmd.Flags().Changed("band") {
		in.ResistanceBand = &e.band
	}
	if cmd.Flags().Changed("rpe") {
		in.RPE = &e.rpe
	}
	if cmd.Flags().Changed("notes") {
		in.Notes = &e.notes
	}
	return in
}

func printLive(w io.Writer, live sessiondto.LiveOutput) {
	s := live.Session
	_, _ = fmt.Fprintf(w, "session=%s workout=%s elapsed=%s attempts=%d climbs=%d\n",
		s.ID, orDash(live.WorkoutName), formatClock(live.ElapsedSeconds), live.Attempts, len(s.Climbs))
	if live.ShowsClimbLogging {
		for _, c := range s.Climbs {
			_, _ = fmt.Fprintf(w, "  %s %-3s attempts=%d sent=%t\n", c.Timestamp.Local().Format("15:04"), c.Grade, c.Attempts, c.Sent)
		}
	}
	for _, p := range live.Progress {
		printProgress(w, p)
	}
	for _, a := range live.Achievements {
		_, _ = fmt.Fprintf(w, "  achieved: %s\n", a.Title)
	}
}

func printProgress(w io.Writer, p sessiondto.ExerciseProgressOutput) {
	line := fmt.Sprintf("  %s %d/%d sets reps=%d", p.ExerciseID, p.CompletedSets, p.TargetSets, p.CompletedReps)
	if p.AddedWeight != nil {
		line += fmt.Sprintf(" weight=%.1f", *p.AddedWeight)
	}
	if p.EdgeDepth != nil {
		line += fmt.Sprintf(" edge=%.0fmm", *p.EdgeDepth)
	}
	if p.ResistanceBand != "" {
		line += " band=" + p.ResistanceBand
	}
	if p.Complete {
		line += " done"
	}
	_, _ = fmt.Fprintln(w, line)
}

func printSession(w io.Writer, s sessiondto.SessionOutput) {
	end := "active"
	if s.EndTime != nil {
		end = s.EndTime.Local().Format(time.RFC3339)
	}
	_, _ = fmt.Fprintf(w, "id: %s\nworkout: %s\nstart: %s\nend: %s\nduration: %dmin\nrpe: %d\nskin: %s\nsleep: %s\nnotes: %s\n",
		s.ID, orDash(s.WorkoutID), s.StartTime.Local().Format(time.RFC3339), end, s.DurationMinutes, s.RPE, s.SkinCondition, s.SleepQuality, s.Notes)
	for _, c := range s.Climbs {
		_, _ = fmt.Fprintf(w, "climb %s attempts=%d sent=%t at=%s\n", c.Grade, c.Attempts, c.Sent, c.Timestamp.Local().Format("15:04:05"))
	}
	for _, l := range s.ExerciseLogs {
		_, _ = fmt.Fprintf(w, "exercise %s sets=%d reps=%d\n", l.ExerciseID, l.CompletedSets, l.CompletedReps)
	}
}

func formatClock(seconds int) string {
	return fmt.Sprintf("%d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}

func orDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

func capitalize(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return v
	}
	return strings.ToUpper(v[:1]) + strings.ToLower(v[1:])
}
