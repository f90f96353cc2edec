package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/facilitymap/pkg/backend"
	"github.com/matzehuels/facilitymap/pkg/floor"
	"github.com/matzehuels/facilitymap/pkg/reconcile"
	"github.com/matzehuels/facilitymap/pkg/render/blueprint"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleBorder = lipgloss.NewStyle().Foreground(colorDim)
)

// statusStyle colors text with the map color of st.
func statusStyle(st floor.Status) lipgloss.Style {
	if st == floor.StatusNoRequest || !st.Valid() {
		return lipgloss.NewStyle().Foreground(colorGray)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(blueprint.StatusColor(st)))
}

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconDot     = "●"
	iconCached  = "cached"
	iconFresh   = "fresh"
	iconLive    = "live"
	iconDefault = "default data"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints a detail line (indented).
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(14)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints the status counts of a floor on a single line, followed
// by where the data came from.
func printStats(w io.Writer, stats reconcile.Stats, live bool) {
	parts := []string{StyleDim.Render(fmt.Sprintf("%d rooms", stats.Total))}
	for _, st := range []floor.Status{floor.StatusPending, floor.StatusInProgress, floor.StatusCompleted, floor.StatusNoRequest} {
		parts = append(parts, statusStyle(st).Render(iconDot)+" "+
			StyleDim.Render(fmt.Sprintf("%s %d", st.Label(), stats.Count(st))))
	}
	source := styleComputed.Render(iconDefault)
	if live {
		source = styleCached.Render(iconLive)
	}
	parts = append(parts, source)
	fmt.Fprintln(w, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printCacheState prints whether artifacts were served from the cache.
func printCacheState(w io.Writer, cached bool) {
	if cached {
		fmt.Fprintln(w, "  "+styleCached.Render(iconCached))
		return
	}
	fmt.Fprintln(w, "  "+styleComputed.Render(iconFresh))
}

// =============================================================================
// Tables
// =============================================================================

func newTable() *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder)
}

// roomTable renders the rooms of a floor. Decorative labels are skipped.
func roomTable(rooms []floor.Room) string {
	var shown []floor.Room
	for _, r := range rooms {
		if !r.Kind.Decorative() {
			shown = append(shown, r)
		}
	}

	rows := make([][]string, len(shown))
	for i, r := range shown {
		rows[i] = []string{
			r.ID,
			r.Number,
			r.Name,
			string(r.Kind),
			r.Status.Label(),
			strconv.Itoa(r.RequestCount),
		}
	}

	return newTable().
		Headers("ID", "Number", "Name", "Kind", "Status", "Requests").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch col {
			case 3:
				return base.Foreground(colorDim)
			case 4:
				return base.Inherit(statusStyle(shown[row].Status))
			case 5:
				return base.Foreground(colorCyan).Align(lipgloss.Right)
			}
			return base
		}).
		Render()
}

// requestTable renders maintenance requests. Local requests are marked with
// an asterisk.
func requestTable(reqs []backend.Request) string {
	rows := make([][]string, len(reqs))
	for i, r := range reqs {
		id := string(r.ID)
		if r.Local {
			id = "* " + id
		}
		created := r.CreatedAt
		if t, ok := r.Created(); ok {
			created = t.Local().Format("2006-01-02 15:04")
		}
		rows[i] = []string{id, r.Title, string(r.Priority), r.Status.Label(), created}
	}

	return newTable().
		Headers("ID", "Title", "Priority", "Status", "Created").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col == 3 {
				return base.Inherit(statusStyle(reqs[row].Status))
			}
			if reqs[row].Local {
				return base.Foreground(colorYellow)
			}
			return base
		}).
		Render()
}
