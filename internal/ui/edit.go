package ui

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/magnetic/internal/config"
	"github.com/javiermolinar/magnetic/internal/timeline"
)

// editCmds returns every command that changes the day.
func (a *App) editCmds() []*cobra.Command {
	return []*cobra.Command{
		a.addCmd(),
		a.moveCmd(),
		a.resizeCmd(),
		a.splitCmd(),
		a.deleteCmd(),
		a.updateCmd(),
		a.reflowCmd(),
	}
}

// apply runs one edit on the --date day.
func (a *App) apply(cmd *cobra.Command, dryRun bool, build func(timeline.Day) (timeline.Op, error)) error {
	date, err := a.targetDate()
	if err != nil {
		return err
	}
	return a.applyOn(cmd, date, dryRun, build)
}

// applyOn runs one edit through a session on date. build sees the committed
// day so it can resolve ID prefixes. With dryRun the edit is only previewed.
func (a *App) applyOn(cmd *cobra.Command, date time.Time, dryRun bool, build func(timeline.Day) (timeline.Op, error)) error {
	ctx := cmd.Context()
	s, err := a.openSessionOn(ctx, date)
	if err != nil {
		return err
	}
	op, err := build(s.Day())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if dryRun {
		day, err := s.Preview(op)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %s\n\n", formatMuted("dry run:"), op.Describe())
		PrintDay(out, day, a.printOpts())
		return nil
	}

	day, err := s.Commit(ctx, op)
	if errors.Is(err, timeline.ErrStaleDay) {
		return fmt.Errorf("%w; the day changed while editing, run the command again", err)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s\n\n", formatStats(op.Describe()))
	PrintDay(out, day, a.printOpts())
	return nil
}

// byID builds an op for the item named by an ID prefix.
func byID(prefix string, build func(id string) timeline.Op) func(timeline.Day) (timeline.Op, error) {
	return func(day timeline.Day) (timeline.Op, error) {
		id, err := day.ResolveID(prefix)
		if err != nil {
			return nil, err
		}
		return build(id), nil
	}
}

func (a *App) moveCmd() *cobra.Command {
	var to string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "move [id]",
		Short: "Move an item to another time",
		Long: `Move a flexible or fixed item so it starts as close to the given time
as the locked items allow. The items it leaves and joins close up around it.

Example:
  magnetic move 1a2b --to 15:00`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minute, err := timeline.TimeToMinutes(to)
			if err != nil {
				return err
			}
			return a.apply(cmd, dryRun, byID(args[0], func(id string) timeline.Op {
				return timeline.MoveOp{ID: id, Minute: minute}
			}))
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "New start time (HH:MM, required)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the result without saving it")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func (a *App) resizeCmd() *cobra.Command {
	var duration string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "resize [id]",
		Short: "Change an item's duration",
		Long: `Resize an item from its start. Growing takes time from the flexible
items after it; shrinking hands the time to a flexible neighbour.

Example:
  magnetic resize 1a2b --for 90m`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := ParseDuration(duration)
			if err != nil {
				return err
			}
			return a.apply(cmd, dryRun, byID(args[0], func(id string) timeline.Op {
				return timeline.ResizeOp{ID: id, Duration: minutes}
			}))
		},
	}

	cmd.Flags().StringVar(&duration, "for", "", "New duration, e.g. 90m (required)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the result without saving it")
	_ = cmd.MarkFlagRequired("for")
	return cmd
}

func (a *App) splitCmd() *cobra.Command {
	var at string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "split [id]",
		Short: "Cut an item in two",
		Long: `Split an item at a time inside it. Both parts must be at least 15
minutes long and keep the item's title, colour and flags.

Example:
  magnetic split 1a2b --at 12:00`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minute, err := timeline.TimeToMinutes(at)
			if err != nil {
				return err
			}
			return a.apply(cmd, dryRun, byID(args[0], func(id string) timeline.Op {
				return timeline.SplitOp{ID: id, Minute: minute}
			}))
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Split time (HH:MM, required)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the result without saving it")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

func (a *App) deleteCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "delete [id]",
		Aliases: []string{"rm"},
		Short:   "Remove an item",
		Long: `Remove an item. A flexible neighbour takes over its time; the day's
last item cannot be removed.

Example:
  magnetic delete 1a2b`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.apply(cmd, dryRun, byID(args[0], func(id string) timeline.Op {
				return timeline.DeleteOp{ID: id}
			}))
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the result without saving it")
	return cmd
}

func (a *App) updateCmd() *cobra.Command {
	var (
		title  string
		color  string
		lock   bool
		unlock bool
		flex   bool
		fixed  bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Edit an item's title, colour or flags",
		Long: `Change an item's attributes without moving it.

Example:
  magnetic update 1a2b --title "Deep work" --fixed
  magnetic update 1a2b --lock`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if lock && unlock {
				return fmt.Errorf("--lock and --unlock are mutually exclusive")
			}
			if flex && fixed {
				return fmt.Errorf("--flexible and --fixed are mutually exclusive")
			}

			var patch timeline.ItemPatch
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("color") {
				if color != "" && !config.ValidColor(color) {
					return fmt.Errorf("invalid color %q: use #rgb or #rrggbb", color)
				}
				patch.Color = &color
			}
			if lock || unlock {
				patch.IsLocked = &lock
			}
			if flex || fixed {
				patch.IsFlexible = &flex
			}
			if patch == (timeline.ItemPatch{}) {
				return fmt.Errorf("nothing to update: pass --title, --color, --lock/--unlock or --flexible/--fixed")
			}

			return a.apply(cmd, dryRun, byID(args[0], func(id string) timeline.Op {
				return timeline.UpdateOp{ID: id, Patch: patch}
			}))
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&color, "color", "", "New color (#rrggbb, empty to clear)")
	cmd.Flags().BoolVar(&lock, "lock", false, "Pin the item to its time")
	cmd.Flags().BoolVar(&unlock, "unlock", false, "Let the item move again")
	cmd.Flags().BoolVar(&flex, "flexible", false, "Let reflow stretch and shrink the item")
	cmd.Flags().BoolVar(&fixed, "fixed", false, "Keep the item's length")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the result without saving it")
	return cmd
}

func (a *App) reflowCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "reflow",
		Short: "Re-tile the whole day",
		Long: `Lay every span between locked items back out edge to edge. A day
that is already tiled is left unchanged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.apply(cmd, dryRun, func(timeline.Day) (timeline.Op, error) {
				return timeline.ReflowOp{}, nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the result without saving it")
	return cmd
}
