package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/fluxapi/internal/client/models"
	"github.com/dmitrijs2005/fluxapi/internal/client/services"
)

var (
	bandStyles = map[models.Band]lipgloss.Style{
		models.BandSuccess:     lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E")).Bold(true),
		models.BandRedirect:    lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Bold(true),
		models.BandClientError: lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true),
		models.BandServerError: lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
		models.BandUnknown:     lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
	}
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	activeStyle = lipgloss.NewStyle().Bold(true)
)

// statusLine renders "404 Not Found  12 ms  34 B" colored by band.
func statusLine(r *models.Response) string {
	band := services.BandOf(r.Status)
	status := bandStyles[band].Render(fmt.Sprintf("%d %s", r.Status, r.StatusText))
	return fmt.Sprintf("%s  %s", status, mutedStyle.Render(fmt.Sprintf("%d ms  %s", r.ResponseTime, formatSize(r.Size))))
}

func formatSize(n int) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}

// renderOutcome shows exactly one of the response and the error.
func renderOutcome(o models.Outcome, withHeaders bool) string {
	if o.Failed() {
		return errorStyle.Render(o.Err)
	}
	r := o.Response
	var b strings.Builder
	b.WriteString(statusLine(r))
	b.WriteString("\n")
	if withHeaders {
		for _, k := range sortedKeys(r.Headers) {
			fmt.Fprintf(&b, "%s: %s\n", mutedStyle.Render(k), r.Headers[k])
		}
		b.WriteString("\n")
	}
	b.WriteString(prettyBody(r.Data))
	return b.String()
}

func renderTab(i int, t models.Tab, active bool) string {
	marker := " "
	if t.IsDirty {
		marker = "*"
	}
	var label string
	if t.Type == models.TabRequest && t.Draft != nil {
		label = fmt.Sprintf("%-7s %s", t.Draft.Method, t.Title)
	} else {
		label = fmt.Sprintf("[%s] %s", t.Type, t.Title)
	}
	line := fmt.Sprintf("%2d%s %s", i+1, marker, label)
	if active {
		return activeStyle.Render(line + "  <")
	}
	return line
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
