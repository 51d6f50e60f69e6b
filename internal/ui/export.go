package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/javiermolinar/magnetic/internal/timeline"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatICS  = "ics"
)

func (a *App) exportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the day as JSON, YAML or iCalendar",
		Long: `Export the day. JSON and YAML exports can be imported again; the
iCalendar export has one event per item in local time.

Example:
  magnetic export --format yaml > today.yaml
  magnetic export --format ics --output today.ics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			data, err := EncodeDay(s.Day(), s.Version(), format, time.Local, a.now())
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			path, err := resolvePath(output)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d items to %s\n", len(s.Day().Items), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", FormatYAML, "Output format: json, yaml or ics")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

// EncodeDay renders a day in the given format. loc places the day's wall
// clock minutes for iCalendar; stamp is the DTSTAMP of every event.
func EncodeDay(day timeline.Day, version int64, format string, loc *time.Location, stamp time.Time) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		data, err := sonic.ConfigStd.MarshalIndent(PlanFromDay(day, version), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding json: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(PlanFromDay(day, version))
		if err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		return data, nil
	case FormatICS:
		var sb strings.Builder
		if err := writeICS(&sb, day, loc, stamp); err != nil {
			return nil, err
		}
		return []byte(sb.String()), nil
	default:
		return nil, fmt.Errorf("unknown format %q: use json, yaml or ics", format)
	}
}

// writeICS writes one VEVENT per item. Minutes are wall-clock times of the
// day's calendar date in loc.
func writeICS(w io.Writer, day timeline.Day, loc *time.Location, stamp time.Time) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//magnetic//timeline//EN")

	wall := func(minute int) time.Time {
		return time.Date(day.Date.Year(), day.Date.Month(), day.Date.Day(), 0, minute, 0, 0, loc)
	}
	for _, it := range day.Sorted() {
		start, err := day.MinuteOf(it.StartTime)
		if err != nil {
			return err
		}
		ev := cal.AddEvent(it.ID + "@magnetic")
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(wall(start))
		ev.SetEndAt(wall(start + it.DurationMinutes))
		ev.SetSummary(it.Title)
		ev.SetProperty(ical.ComponentProperty("X-MAGNETIC-KIND"), it.Kind())
		if it.Color != "" {
			ev.SetProperty(ical.ComponentProperty("X-MAGNETIC-COLOR"), it.Color)
		}
	}
	return cal.SerializeTo(w)
}
