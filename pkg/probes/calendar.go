package probes

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/components"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/probe"
	"gitlab.com/tinyland/lab/kitty-panel/pkg/state"
)

const (
	calendarWidth  = 20
	calendarHeader = "Su Mo Tu We Th Fr Sa"
	separatorRune  = "─"
)

// Calendar renders the current month with today highlighted.
type Calendar struct {
	interval time.Duration
	today    lipgloss.Style
	now      func() time.Time
}

// NewCalendar creates the calendar probe. today styles the current day.
func NewCalendar(today lipgloss.Style, interval time.Duration) *Calendar {
	return &Calendar{interval: interval, today: today, now: time.Now}
}

// TodayStyle is the default highlight: black on grey.
func TodayStyle(r *lipgloss.Renderer) lipgloss.Style {
	return r.NewStyle().
		Background(lipgloss.Color("#808080")).
		Foreground(lipgloss.Color("#000000"))
}

func (c *Calendar) Name() string { return state.FieldCalendar }
func (c *Calendar) Interval() time.Duration { return c.interval }

func (c *Calendar) Poll(ctx context.Context) (probe.Report, error) {
	return probe.Single(state.FieldCalendar, probe.Text(RenderMonth(c.now(), c.today))), nil
}

// RenderMonth lays out the month containing now as a Sunday-first grid. A
// separator as wide as the widest line follows the title when the grid is
// shorter than ten lines.
func RenderMonth(now time.Time, today lipgloss.Style) string {
	year, month, day := now.Date()
	first := int(time.Date(year, month, 1, 0, 0, 0, 0, now.Location()).Weekday())
	days := time.Date(year, month+1, 0, 0, 0, 0, 0, now.Location()).Day()

	title := month.String() + " " + strconv.Itoa(year)

	var b strings.Builder
	b.WriteString(components.PadCenter(title, calendarWidth) + "\n")
	b.WriteString(calendarHeader + "\n")
	b.WriteString(strings.Repeat("   ", first))
	for d := 1; d <= days; d++ {
		cell := components.PadLeft(strconv.Itoa(d), 2)
		if d == day {
			cell = today.Render(cell)
		}
		b.WriteString(cell + " ")
		if (first+d)%7 == 0 {
			b.WriteString("\n")
		}
	}

	rows := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	if len(rows) < 10 {
		width := components.BlockWidth(strings.Join(rows, "\n"))
		rows = append(rows[:1], append([]string{strings.Repeat(separatorRune, width)}, rows[1:]...)...)
	}
	for i, row := range rows {
		rows[i] = strings.TrimRight(row, " ")
	}
	return strings.Join(rows, "\n")
}
