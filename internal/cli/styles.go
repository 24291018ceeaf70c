package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Shared CLI styles.
var (
	cliSuccess = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"})
	cliWarn    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"})
	cliError   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"})
	cliMuted   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"})
	cliPrimary = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#C45A3C", Dark: "#DA7756"})
	cliBorder  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"})
)

func symSuccess() string { return cliSuccess.Render("✓") }
func symError() string   { return cliError.Render("✗") }

// kvPair is one aligned key/value line in a summary block.
type kvPair struct {
	key   string
	value string
}

// renderKeyValueLines renders aligned key/value pairs.
func renderKeyValueLines(pairs []kvPair) string {
	width := 0
	for _, p := range pairs {
		if len(p.key) > width {
			width = len(p.key)
		}
	}
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%s  %s", cliMuted.Render(fmt.Sprintf("%-*s", width, p.key)), p.value))
	}
	return b.String()
}

// renderSuccessCard renders a bordered card with a check-marked title and
// optional detail blocks.
func renderSuccessCard(title string, details ...string) string {
	var b strings.Builder
	b.WriteString(symSuccess() + " " + lipgloss.NewStyle().Bold(true).Render(title))
	for _, d := range details {
		if d == "" {
			continue
		}
		b.WriteString("\n" + d)
	}
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cliBorder.GetForeground()).
		Padding(0, 1)
	return card.Render(b.String())
}

// PrintBanner returns the startup banner with the running version.
func PrintBanner(version string) string {
	name := cliPrimary.Render("forge")
	return fmt.Sprintf("%s %s  %s", name, version, cliMuted.Render("backend project scaffolder"))
}
