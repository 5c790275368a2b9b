package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"chalkup/internal/bootstrap"
	timerdto "chalkup/internal/modules/timer/dto"
)

func newTimerCmd(flags *rootFlags) *cobra.Command {
	timer := &cobra.Command{Use: "timer", Short: "Run the interval and rest timers in the foreground"}

	var preset string
	var work, rest, reps, sets, setRest int
	interval := &cobra.Command{
		Use:   "interval",
		Short: "Run an interval timer until it completes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				if preset != "" {
					presets, err := app.CatalogCLI.Presets(ctx)
					if err != nil {
						return err
					}
					found := false
					for _, p := range presets {
						if p.ID == preset {
							work, rest, reps, sets, setRest = p.Timer.WorkSeconds, p.Timer.RestSeconds, p.Timer.RepsPerSet, p.Timer.TotalSets, p.Timer.RestBetweenSetsSeconds
							found = true
							break
						}
					}
					if !found {
						return fmt.Errorf("preset %q not found", preset)
					}
				}
				if _, err := app.TimerCLI.LoadInterval(ctx, work, rest, reps, sets, setRest); err != nil {
					return err
				}
				events, cancel := app.TimerCLI.Subscribe(16)
				defer cancel()
				if _, err := app.TimerCLI.ToggleInterval(ctx); err != nil {
					return err
				}
				return follow(ctx, cmd.OutOrStdout(), app, events, func(ev timerdto.EventOutput) bool {
					if ev.Source != "interval" {
						return false
					}
					printInterval(cmd.OutOrStdout(), ev)
					return ev.Interval.Phase == "done"
				})
			})
		},
	}
	interval.Flags().StringVar(&preset, "preset", "", "catalog timer preset id")
	interval.Flags().IntVar(&work, "work", 7, "work seconds")
	interval.Flags().IntVar(&rest, "rest", 3, "rest seconds between reps")
	interval.Flags().IntVar(&reps, "reps", 6, "reps per set")
	interval.Flags().IntVar(&sets, "sets", 1, "number of sets")
	interval.Flags().IntVar(&setRest, "set-rest", 0, "rest seconds between sets")

	restCmd := &cobra.Command{
		Use:   "rest [seconds]",
		Short: "Run a rest countdown",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				seconds := app.Config.AutoRest.Seconds
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil {
						return fmt.Errorf("seconds must be a number: %w", err)
					}
					seconds = n
				}
				events, cancel := app.TimerCLI.Subscribe(16)
				defer cancel()
				if _, err := app.TimerCLI.StartRest(ctx, seconds); err != nil {
					return err
				}
				return follow(ctx, cmd.OutOrStdout(), app, events, func(ev timerdto.EventOutput) bool {
					if ev.Source != "rest" {
						return false
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "rest %s%s\n", formatClock(ev.Rest.RemainingSeconds), cueSuffix(ev.Cues))
					return ev.Rest.Completed
				})
			})
		},
	}

	timer.AddCommand(interval, restCmd)
	return timer
}

// cueDrainTimeout bounds how long the final cue may keep the process alive.
const cueDrainTimeout = 5 * time.Second

// follow drains timer events until handle reports completion or ctx ends.
// On completion it waits for the last cue so the process does not cut it off.
func follow(ctx context.Context, w io.Writer, app *bootstrap.App, events <-chan timerdto.EventOutput, handle func(timerdto.EventOutput) bool) error {
	for {
		select {
		case <-ctx.Done():
			_, _ = fmt.Fprintln(w, "stopped")
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !handle(ev) {
				continue
			}
			drainCtx, cancel := context.WithTimeout(ctx, cueDrainTimeout)
			defer cancel()
			if err := app.TimerCLI.WaitCues(drainCtx); err != nil && ctx.Err() == nil {
				app.Logger.Debug("final cue cut short", "error", err)
			}
			return nil
		}
	}
}

func printInterval(w io.Writer, ev timerdto.EventOutput) {
	iv := ev.Interval
	if iv.Phase == "done" {
		_, _ = fmt.Fprintf(w, "interval complete%s\n", cueSuffix(ev.Cues))
		return
	}
	_, _ = fmt.Fprintf(w, "%-8s set %d/%d rep %d/%d %s%s\n",
		iv.Phase, iv.CurrentSet, iv.TotalSets, iv.CurrentRep, iv.RepsPerSet, formatClock(iv.RemainingSeconds), cueSuffix(ev.Cues))
}

func cueSuffix(cues []string) string {
	if len(cues) == 0 {
		return ""
	}
	return " [" + strings.Join(cues, ",") + "]"
}

func newCueCmd(flags *rootFlags) *cobra.Command {
	cue := &cobra.Command{Use: "cue", Short: "Audio and haptic cues"}
	cue.AddCommand(&cobra.Command{
		Use:   "test <type>",
		Short: "Emit one cue: work|rest|set_rest|complete|countdown|rest_complete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				app.CueCLI.Unlock(ctx)
				if err := app.CueCLI.Test(ctx, args[0]); err != nil {
					return err
				}
				status := app.CueCLI.Status(ctx)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "cue emitted: %s audio=%t\n", args[0], status.AudioAvailable)
				return nil
			})
		},
	})
	return cue
}
