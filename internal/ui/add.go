package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/magnetic/internal/config"
	"github.com/javiermolinar/magnetic/internal/timeline"
)

func (a *App) addCmd() *cobra.Command {
	var (
		at       string
		duration string
		locked   bool
		fixed    bool
		color    string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add an item to the day",
		Long: `Add an item at a time of day. A day is always fully covered, so the
requested time is nearly always taken: the new item then snaps to the
nearer edge of the item it lands on, and the flexible items around it
shrink to make room. This applies to locked items too. On a fresh day the
only item is the free time spanning 00:00-24:00, so asking for 14:00 puts
the item at the end of the day; add the items around it first.

Example:
  magnetic add "Sleep" --at 00:00 --for 7h --locked
  magnetic add "Standup" --at 07:00 --for 15m --fixed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := timeline.TimeToMinutes(at)
			if err != nil {
				return err
			}
			minutes, err := ParseDuration(duration)
			if err != nil {
				return err
			}
			if color != "" && !config.ValidColor(color) {
				return fmt.Errorf("invalid color %q: use #rgb or #rrggbb", color)
			}

			op := timeline.AddOp{Item: timeline.NewItem{
				Title:      args[0],
				AtMinute:   start,
				Duration:   minutes,
				Color:      color,
				IsLocked:   locked,
				IsFlexible: !fixed,
			}}
			return a.apply(cmd, dryRun, func(timeline.Day) (timeline.Op, error) { return op, nil })
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Start time (HH:MM, required)")
	cmd.Flags().StringVar(&duration, "for", "", "Duration, e.g. 45m or 1h30m (required)")
	cmd.Flags().BoolVar(&locked, "locked", false, "Pin the item to its time")
	cmd.Flags().BoolVar(&fixed, "fixed", false, "Keep the item's length when others move")
	cmd.Flags().StringVar(&color, "color", "", "Item color (#rrggbb)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the result without saving it")

	_ = cmd.MarkFlagRequired("at")
	_ = cmd.MarkFlagRequired("for")

	return cmd
}
