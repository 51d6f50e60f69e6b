package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/magnetic/internal/dateutil"
	"github.com/javiermolinar/magnetic/internal/timeline"
)

func (a *App) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the day's timeline",
		Long: `Display every item of the day with its time range, kind and duration.

Kinds: L locked, F flexible, · fixed. The first column is the item ID;
any unique prefix of it works wherever a command takes an ID.

Example:
  magnetic show --date tomorrow`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runShow(cmd)
		},
	}
}

func (a *App) runShow(cmd *cobra.Command) error {
	s, err := a.openSession(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if s.Version() == 0 {
		fmt.Fprintln(out, formatMuted("(not saved yet)"))
	}
	PrintDay(out, s.Day(), a.printOpts())
	return nil
}

func (a *App) gapsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gaps",
		Short: "Check coverage and list the spans between locked items",
		Long: `Report any gap or overlap on the day and list the spans that
non-locked items can move within. A stored day always has full coverage;
a non-zero exit means the stored data is damaged and 'magnetic reflow'
may repair it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			day := s.Day()

			report, err := timeline.Coverage(day)
			if err != nil {
				return err
			}
			for _, g := range report.Gaps {
				fmt.Fprintf(out, "  %s  %s\n", formatProblem("gap    "), g)
			}
			for _, o := range report.Overlaps {
				fmt.Fprintf(out, "  %s  %s  %s / %s\n", formatProblem("overlap"),
					timeline.FormatRange(o.Start, o.End), shortID(o.First), shortID(o.Second))
			}

			spans, err := timeline.Spans(day)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatHeader("Spans:"))
			for _, span := range spans {
				if span.Len() == 0 {
					continue
				}
				fmt.Fprintf(out, "  %s  %s\n", span, formatMuted(FormatDuration(span.Len())))
			}
			fmt.Fprintln(out, CoverageLine(day))

			if !report.OK() {
				return fmt.Errorf("%w: %s", timeline.ErrCoverage, report)
			}
			return nil
		},
	}
}

func (a *App) daysCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "days",
		Short: "List saved days",
		Long: `List the days that have been saved, with a summary of each.
Defaults to the week containing --date.

Example:
  magnetic days --from last-monday --to friday`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			r, err := a.daysRange(from, to)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			dates, err := a.repo.ListDates(ctx, r.Start, r.End)
			if err != nil {
				return fmt.Errorf("listing days: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(dates) == 0 {
				fmt.Fprintf(out, "No saved days between %s and %s.\n",
					r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
				return nil
			}
			for _, date := range dates {
				day, version, err := a.repo.LoadDay(ctx, date)
				if err != nil {
					return fmt.Errorf("loading %s: %w", date.Format("2006-01-02"), err)
				}
				fmt.Fprintf(out, "  %s  %s  %s\n",
					formatHeader(date.Format("Mon 2006-01-02")),
					StatsLine(day.Stats()),
					formatMuted(fmt.Sprintf("v%d", version)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day (default: Monday of the --date week)")
	cmd.Flags().StringVar(&to, "to", "", "Last day (default: Sunday of the --date week, or --from)")
	return cmd
}

func (a *App) daysRange(from, to string) (dateutil.Range, error) {
	if from == "" && to == "" {
		date, err := a.targetDate()
		if err != nil {
			return dateutil.Range{}, err
		}
		return dateutil.WeekRange(date), nil
	}
	if from == "" {
		from = a.date
	}
	return dateutil.NewRange(from, to, a.now())
}
