package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"chalkup/internal/bootstrap"
	catalogdto "chalkup/internal/modules/catalog/dto"
)

func newCatalogCmd(flags *rootFlags) *cobra.Command {
	catalog := &cobra.Command{Use: "catalog", Short: "Workout and exercise catalog"}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default catalog file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.CatalogCLI.Init(ctx, force)
				if err != nil {
					return err
				}
				if !out.Written {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "catalog exists: %s\n", out.Path)
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "catalog written: %s\n", out.Path)
				return nil
			})
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing catalog")

	exercises := &cobra.Command{
		Use:   "exercises",
		Short: "List catalog exercises",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				items, err := app.CatalogCLI.Exercises(ctx)
				if err != nil {
					return err
				}
				for _, e := range items {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\tsets=%d reps=%d\n", e.ID, e.Name, e.Category, e.Difficulty, e.DefaultSets, e.DefaultReps)
				}
				return nil
			})
		},
	}

	catalog.AddCommand(initCmd, exercises)
	return catalog
}

func newWorkoutCmd(flags *rootFlags) *cobra.Command {
	workout := &cobra.Command{Use: "workout", Short: "Catalog workouts"}

	workout.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List workouts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				items, err := app.CatalogCLI.Workouts(ctx)
				if err != nil {
					return err
				}
				for _, w := range items {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%dmin\n", w.ID, w.Name, w.Type, w.DurationMinutes)
				}
				return nil
			})
		},
	})

	workout.AddCommand(&cobra.Command{
		Use:   "show <workout-id>",
		Short: "Show one workout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				w, err := app.CatalogCLI.Workout(ctx, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(out, "id: %s\nname: %s\ntype: %s\nduration: %dmin\nclimb logging: %t\n", w.ID, w.Name, w.Type, w.DurationMinutes, w.ShowsClimbLogging)
				if w.Description != "" {
					_, _ = fmt.Fprintf(out, "description: %s\n", w.Description)
				}
				if w.Timer != nil {
					_, _ = fmt.Fprintf(out, "timer: %s\n", timerLine(*w.Timer))
				}
				for i, step := range w.Steps {
					_, _ = fmt.Fprintf(out, "%d. %s\n", i+1, step)
				}
				for _, e := range w.Exercises {
					_, _ = fmt.Fprintf(out, "- %s %dx%d\n", e.ExerciseID, e.Sets, e.Reps)
				}
				return nil
			})
		},
	})
	return workout
}

func newPresetCmd(flags *rootFlags) *cobra.Command {
	preset := &cobra.Command{Use: "preset", Short: "Interval timer presets"}
	preset.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List timer presets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				items, err := app.CatalogCLI.Presets(ctx)
				if err != nil {
					return err
				}
				for _, p := range items {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", p.ID, p.Name, timerLine(p.Timer))
				}
				return nil
			})
		},
	})
	return preset
}

func timerLine(t catalogdto.TimerOutput) string {
	line := fmt.Sprintf("%ds on / %ds off x%d", t.WorkSeconds, t.RestSeconds, t.RepsPerSet)
	if t.TotalSets > 1 {
		line += fmt.Sprintf(", %d sets, %ds between", t.TotalSets, t.RestBetweenSetsSeconds)
	}
	return line
}

func newGoalCmd(flags *rootFlags) *cobra.Command {
	goal := &cobra.Command{Use: "goal", Short: "Training goals"}

	add := &cobra.Command{Use: "add", Short: "Add a goal"}

	var gradeStyle, gradeTarget string
	gradeCmd := &cobra.Command{
		Use:   "grade <title> <grade>",
		Short: "Add a grade goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				g, err := app.CatalogCLI.AddGradeGoal(ctx, args[0], args[1], gradeStyle, gradeTarget)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "goal added: %s %s %s\n", g.ID, g.TargetGrade, g.Style)
				return nil
			})
		},
	}
	gradeCmd.Flags().StringVar(&gradeStyle, "style", "send", "send style: send|flash|onsight")
	gradeCmd.Flags().StringVar(&gradeTarget, "target-date", "", "target date YYYY-MM-DD")

	var strengthTarget string
	strengthCmd := &cobra.Command{
		Use:   "strength <title> <exercise-id> <weight>",
		Short: "Add a strength goal",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			weight, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("weight must be a number: %w", err)
			}
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				g, err := app.CatalogCLI.AddStrengthGoal(ctx, args[0], args[1], weight, strengthTarget)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "goal added: %s %s %.1f\n", g.ID, g.ExerciseID, g.TargetWeight)
				return nil
			})
		},
	}
	strengthCmd.Flags().StringVar(&strengthTarget, "target-date", "", "target date YYYY-MM-DD")
	add.AddCommand(gradeCmd, strengthCmd)

	list := &cobra.Command{
		Use:   "list",
		Short: "List goals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				goals, err := app.CatalogCLI.Goals(ctx)
				if err != nil {
					return err
				}
				if len(goals) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no goals")
					return nil
				}
				for _, g := range goals {
					target := g.TargetGrade
					if g.Type == "strength" {
						target = fmt.Sprintf("%s %.1f", g.ExerciseID, g.TargetWeight)
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\n", g.ID, g.Status, g.Type, g.Title, target)
				}
				return nil
			})
		},
	}

	done := goalAction(flags, "done <goal-id>", "Mark a goal complete", func(ctx context.Context, app *bootstrap.App, id string) (string, error) {
		g, err := app.CatalogCLI.CompleteGoal(ctx, id)
		return "goal completed: " + g.ID, err
	})
	archive := goalAction(flags, "archive <goal-id>", "Archive a goal", func(ctx context.Context, app *bootstrap.App, id string) (string, error) {
		g, err := app.CatalogCLI.ArchiveGoal(ctx, id)
		return "goal archived: " + g.ID, err
	})
	remove := goalAction(flags, "remove <goal-id>", "Delete a goal", func(ctx context.Context, app *bootstrap.App, id string) (string, error) {
		return "goal removed: " + id, app.CatalogCLI.DeleteGoal(ctx, id)
	})

	goal.AddCommand(add, list, done, archive, remove)
	return goal
}

func goalAction(flags *rootFlags, use, short string, fn func(context.Context, *bootstrap.App, string) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				msg, err := fn(ctx, app, args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), msg)
				return nil
			})
		},
	}
}

func newPlanCmd(flags *rootFlags) *cobra.Command {
	plan := &cobra.Command{Use: "plan", Short: "Scheduled workouts"}

	plan.AddCommand(&cobra.Command{
		Use:   "add <date> <workout-id>",
		Short: "Schedule a workout on a date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				entry, err := app.CatalogCLI.Plan(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "planned: %s %s %s\n", entry.ID, entry.Date, entry.WorkoutName)
				return nil
			})
		},
	})

	var from, to string
	list := &cobra.Command{
		Use:   "list",
		Short: "List scheduled workouts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				entries, err := app.CatalogCLI.PlanList(ctx, from, to)
				if err != nil {
					return err
				}
				printSchedule(cmd, entries)
				return nil
			})
		},
	}
	list.Flags().StringVar(&from, "from", "", "first date YYYY-MM-DD")
	list.Flags().StringVar(&to, "to", "", "last date YYYY-MM-DD")

	var undo bool
	done := &cobra.Command{
		Use:   "done <entry-id>",
		Short: "Mark a scheduled workout complete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				entry, err := app.CatalogCLI.PlanDone(ctx, args[0], !undo)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "plan %s completed=%t\n", entry.ID, entry.Completed)
				return nil
			})
		},
	}
	done.Flags().BoolVar(&undo, "undo", false, "mark as not completed")

	plan.AddCommand(list, done)

	plan.AddCommand(&cobra.Command{
		Use:   "remove <entry-id>",
		Short: "Remove a scheduled workout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.CatalogCLI.PlanRemove(ctx, args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "plan removed: %s\n", args[0])
				return nil
			})
		},
	})

	plan.AddCommand(&cobra.Command{
		Use:   "copy-week <start-date>",
		Short: "Copy the week starting at a date into the following week",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				entries, err := app.CatalogCLI.PlanCopyWeek(ctx, args[0])
				if err != nil {
					return err
				}
				printSchedule(cmd, entries)
				return nil
			})
		},
	})
	return plan
}

func printSchedule(cmd *cobra.Command, entries []catalogdto.ScheduleOutput) {
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no planned workouts")
		return
	}
	for _, e := range entries {
		mark := " "
		if e.Completed {
			mark = "x"
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\t%s\t%s\n", mark, e.Date, e.WorkoutName, e.ID)
	}
}
