package ui

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"

	"github.com/javiermolinar/magnetic/internal/timeline"
)

// Plan is the file form of a day, shared by import and export.
type Plan struct {
	Date    string     `json:"date,omitempty" yaml:"date,omitempty"`
	Version int64      `json:"version,omitempty" yaml:"version,omitempty"`
	Items   []PlanItem `json:"items" yaml:"items"`
}

// PlanItem is one item of a Plan. End and Natural are informational on
// export; Natural is read back as the item's original duration.
type PlanItem struct {
	ID       string `json:"id,omitempty" yaml:"id,omitempty"`
	Title    string `json:"title" yaml:"title"`
	Start    string `json:"start" yaml:"start"`
	End      string `json:"end,omitempty" yaml:"end,omitempty"`
	Duration string `json:"duration" yaml:"duration"`
	Natural  string `json:"natural,omitempty" yaml:"natural,omitempty"`
	Locked   bool   `json:"locked,omitempty" yaml:"locked,omitempty"`
	Flexible *bool  `json:"flexible,omitempty" yaml:"flexible,omitempty"`
	Color    string `json:"color,omitempty" yaml:"color,omitempty"`
	Part     string `json:"part,omitempty" yaml:"part,omitempty"` // "1/2"
}

// PlanFromDay converts a day to its file form.
func PlanFromDay(day timeline.Day, version int64) Plan {
	p := Plan{Date: day.Date.Format(time.DateOnly), Version: version}
	for _, it := range day.Sorted() {
		start, _ := day.MinuteOf(it.StartTime)
		flexible := it.IsFlexible
		pi := PlanItem{
			ID:       it.ID,
			Title:    it.Title,
			Start:    timeline.MinutesToTime(start),
			End:      timeline.MinutesToTime(start + it.DurationMinutes),
			Duration: FormatDuration(it.DurationMinutes),
			Locked:   it.IsLockedTime,
			Flexible: &flexible,
			Color:    it.Color,
		}
		if it.OriginalDurationMinutes != nil {
			pi.Natural = FormatDuration(*it.OriginalDurationMinutes)
		}
		if it.SplitInfo != nil {
			pi.Part = fmt.Sprintf("%d/%d", it.SplitInfo.Part, it.SplitInfo.TotalParts)
		}
		p.Items = append(p.Items, pi)
	}
	return p
}

// Day builds the items of the plan onto date. Items without an ID get a
// fresh one; flexible defaults to true. The result is not reflowed.
func (p Plan) Day(date time.Time) (timeline.Day, error) {
	if len(p.Items) == 0 {
		return timeline.Day{}, fmt.Errorf("plan has no items")
	}
	day := timeline.Day{Date: timeline.DayDate(date)}
	seen := make(map[string]bool, len(p.Items))
	for i, pi := range p.Items {
		it, start, err := pi.item()
		if err != nil {
			return timeline.Day{}, fmt.Errorf("item %d (%q): %w", i+1, pi.Title, err)
		}
		if seen[it.ID] {
			return timeline.Day{}, fmt.Errorf("item %d (%q): duplicate id %s", i+1, pi.Title, it.ID)
		}
		seen[it.ID] = true
		it.StartTime = day.At(start)
		day.Items = append(day.Items, it)
	}
	return day, nil
}

func (pi PlanItem) item() (timeline.Item, int, error) {
	title := strings.TrimSpace(pi.Title)
	if title == "" {
		return timeline.Item{}, 0, timeline.ErrEmptyTitle
	}
	start, err := timeline.TimeToMinutes(pi.Start)
	if err != nil {
		return timeline.Item{}, 0, err
	}
	duration, err := ParseDuration(pi.Duration)
	if err != nil {
		return timeline.Item{}, 0, err
	}

	it := timeline.Item{
		ID:              pi.ID,
		Title:           title,
		DurationMinutes: duration,
		IsLockedTime:    pi.Locked,
		IsFlexible:      pi.Flexible == nil || *pi.Flexible,
		Color:           pi.Color,
	}
	if it.ID == "" {
		it.ID = timeline.NewID()
	}
	if pi.Natural != "" {
		natural, err := ParseDuration(pi.Natural)
		if err != nil {
			return timeline.Item{}, 0, fmt.Errorf("natural: %w", err)
		}
		if natural != duration && it.Elastic() {
			it.OriginalDurationMinutes = &natural
		}
	}
	if pi.Part != "" {
		split, err := parsePart(pi.Part)
		if err != nil {
			return timeline.Item{}, 0, err
		}
		it.SplitInfo = split
	}
	return it, start, nil
}

func parsePart(s string) (*timeline.SplitInfo, error) {
	a, b, ok := strings.Cut(s, "/")
	part, err1 := strconv.Atoi(a)
	total, err2 := strconv.Atoi(b)
	if !ok || err1 != nil || err2 != nil || part < 1 || part > total {
		return nil, fmt.Errorf("invalid part %q: use N/M", s)
	}
	return &timeline.SplitInfo{Part: part, TotalParts: total}, nil
}

// DecodePlan reads a plan as JSON when name ends in .json and as YAML
// otherwise.
func DecodePlan(name string, data []byte) (Plan, error) {
	var p Plan
	var err error
	if strings.EqualFold(filepath.Ext(name), ".json") {
		err = sonic.Unmarshal(data, &p)
	} else {
		err = yaml.Unmarshal(data, &p)
	}
	if err != nil {
		return Plan{}, fmt.Errorf("decoding %s: %w", filepath.Base(name), err)
	}
	return p, nil
}
