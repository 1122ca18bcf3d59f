package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/xi/xiwm/internal/ipc"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	tabBarStyle = lipgloss.NewStyle().
			MarginBottom(1)

	tabGap = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		SetString(" ")

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250"))
	focusedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// renderDesktopBar renders one tab per desktop, with the current desktop
// highlighted and each label carrying its window count.
func renderDesktopBar(current, desktops int, counts map[int]int, width int) string {
	var tabs []string
	for i := 0; i < desktops; i++ {
		label := fmt.Sprintf("%d:%d", i, counts[i])
		if i == current {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, intersperse(tabs, tabGap.Render())...)
	return tabBarStyle.Width(width).Render(row)
}

// intersperse inserts sep between each element of items.
func intersperse(items []string, sep string) []string {
	if len(items) <= 1 {
		return items
	}
	result := make([]string, 0, len(items)*2-1)
	for i, item := range items {
		if i > 0 {
			result = append(result, sep)
		}
		result = append(result, item)
	}
	return result
}

// renderStatusBar renders the connection and screen summary line.
func renderStatusBar(status *ipc.StatusData, err error, width int) string {
	var text string
	if err != nil || status == nil {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		text = dot + " window manager not running"
	} else {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		parts := []string{
			dot + " xiwm",
			fmt.Sprintf("screen:%dx%d", status.ScreenWidth, status.ScreenHeight),
			fmt.Sprintf("split:%.2f", status.SplitFactor),
			fmt.Sprintf("clients:%d", status.ClientCount),
			"up:" + formatUptime(status.UptimeSeconds),
		}
		if status.DockHeight > 0 {
			parts = append(parts, "dock:"+strconv.Itoa(status.DockHeight))
		}
		if status.Dragging {
			parts = append(parts, "dragging")
		}
		text = strings.Join(parts, "  ")
	}

	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(text)
}

// renderClientTable renders the windows of one desktop.
func renderClientTable(clients []ipc.ClientInfo, desktop int, width, height int) string {
	lines := []string{headerStyle.Render(fmt.Sprintf("%-10s %-18s %-14s %-6s %s", "WINDOW", "CLASS", "INSTANCE", "LAYOUT", "GEOMETRY"))}
	for _, c := range clients {
		if c.Desktop != desktop && !c.Dock {
			continue
		}
		line := fmt.Sprintf("%-10s %-18s %-14s %-6s %dx%d+%d+%d%s",
			fmt.Sprintf("0x%x", c.Window),
			truncate(c.Class, 18),
			truncate(c.Instance, 14),
			layoutLabel(c),
			c.Width, c.Height, c.X, c.Y,
			flags(c))
		switch {
		case c.Focused:
			line = focusedStyle.Render(line)
		case c.Dock:
			line = dimStyle.Render(line)
		}
		lines = append(lines, line)
	}
	if len(lines) == 1 {
		lines = append(lines, dimStyle.Render("(no windows)"))
	}
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	return lipgloss.NewStyle().Width(width).Padding(0, 1).Render(strings.Join(lines, "\n"))
}

func layoutLabel(c ipc.ClientInfo) string {
	if c.Dock {
		return "dock"
	}
	return c.Layout
}

func flags(c ipc.ClientInfo) string {
	var f []string
	if c.Fullscreen {
		f = append(f, "fullscreen")
	}
	if c.FixedSize {
		f = append(f, "fixed")
	}
	if c.Transient != 0 {
		f = append(f, fmt.Sprintf("transient:0x%x", c.Transient))
	}
	if len(f) == 0 {
		return ""
	}
	return "  " + strings.Join(f, ",")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func formatUptime(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

// renderHelpBar renders the bottom help/keybinding bar.
func renderHelpBar(width int, lastErr string) string {
	help := "0-9: view desktop  left/right: browse  r: refresh  q/ctrl-c: quit"
	if lastErr != "" {
		help = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(lastErr) + "  " + help
	}
	style := lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	return style.Render(help)
}
