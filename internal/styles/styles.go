package styles

import "github.com/charmbracelet/lipgloss"

// Color palette - default dark theme
var (
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#3B82F6") // Blue
	Accent    = lipgloss.Color("#F59E0B") // Amber

	Success = lipgloss.Color("#10B981") // Green
	Warning = lipgloss.Color("#F59E0B") // Amber
	Error   = lipgloss.Color("#EF4444") // Red

	TextPrimary   = lipgloss.Color("#F9FAFB")
	TextSecondary = lipgloss.Color("#9CA3AF")
	TextMuted     = lipgloss.Color("#6B7280")

	BorderNormal = lipgloss.Color("#374151")
	BorderActive = lipgloss.Color("#7C3AED")
)

// Panel styles
var (
	// Active panel with highlighted border
	PanelActive = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderActive).
			Padding(0, 1)

	// Inactive panel with subtle border
	PanelInactive = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderNormal).
			Padding(0, 1)

	PanelHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextPrimary)
)

// Text styles
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	UserTurn = lipgloss.NewStyle().
			Bold(true).
			Foreground(Secondary)

	AssistantTurn = lipgloss.NewStyle().
			Bold(true).
			Foreground(Success)

	ErrorTurn = lipgloss.NewStyle().
			Foreground(Error)

	NoteTurn = lipgloss.NewStyle().
			Italic(true).
			Foreground(TextMuted)
)

// List styles
var (
	ListSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	ListItem = lipgloss.NewStyle().
			Foreground(TextSecondary)
)

// Status line styles
var (
	StatusReady = lipgloss.NewStyle().
			Foreground(Success)

	StatusBusy = lipgloss.NewStyle().
			Foreground(Accent)

	StatusError = lipgloss.NewStyle().
			Foreground(Error)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning)

	StatusBar = lipgloss.NewStyle().
			Foreground(TextSecondary)
)
