package styles

import "github.com/charmbracelet/lipgloss"

const (
	ColorAccent     = "205" // titles, headers
	ColorSuccess    = "171"
	ColorError      = "196"
	ColorKeyword    = "86"  // sql keywords
	ColorString     = "220" // sql strings
	ColorFaint      = "238" // borders, separators
	ColorCellNormal = "252"
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent))

	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSuccess)).
		Bold(true)

	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorError)).
		Bold(true)

	Faint = lipgloss.NewStyle().
		Faint(true)

	Separator = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorFaint))
)

// SQL syntax highlighting
var (
	SQLKeyword = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorKeyword)).
			Bold(true)

	SQLString = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorString))
)

// Result tables
var (
	TableHeader = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorAccent)).
			Bold(true).
			Padding(0, 1)

	TableCell = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorCellNormal)).
			Padding(0, 1)

	TableNull = lipgloss.NewStyle().
			Faint(true).
			Padding(0, 1)

	TableBorder = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorFaint))
)
