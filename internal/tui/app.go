package tui

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xi/xiwm/internal/ipc"
)

// Source is the part of the IPC client the live view needs.
type Source interface {
	GetStatus() (*ipc.StatusData, error)
	ListClients() ([]ipc.ClientInfo, error)
	Exec(action, arg string) error
}

var _ Source = (*ipc.Client)(nil)

type tickMsg time.Time

type dataMsg struct {
	status  *ipc.StatusData
	clients []ipc.ClientInfo
	err     error
}

type execMsg struct {
	err error
}

// model is the root bubbletea model for `xiwm top`.
type model struct {
	src     Source
	refresh time.Duration

	status  *ipc.StatusData
	clients []ipc.ClientInfo
	err     error
	lastErr string

	// Desktop shown in the client table. It follows the current desktop
	// until the user browses with left/right.
	desktop int
	pinned  bool

	width  int
	height int
}

func newModel(src Source, refresh time.Duration) model {
	return model{src: src, refresh: refresh}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), m.tickCmd())
}

func (m model) tickCmd() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) fetchCmd() tea.Cmd {
	src := m.src
	return func() tea.Msg {
		status, err := src.GetStatus()
		if err != nil {
			return dataMsg{err: err}
		}
		clients, err := src.ListClients()
		if err != nil {
			return dataMsg{err: err}
		}
		return dataMsg{status: status, clients: clients}
	}
}

func (m model) viewCmd(desktop int) tea.Cmd {
	src := m.src
	return func() tea.Msg {
		return execMsg{err: src.Exec("view", strconv.Itoa(desktop))}
	}
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			return m, m.fetchCmd()
		case "left", "h":
			if m.desktop > 0 {
				m.desktop--
				m.pinned = true
			}
		case "right", "l":
			if m.status != nil && m.desktop < m.status.Desktops-1 {
				m.desktop++
				m.pinned = true
			}
		case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
			n, _ := strconv.Atoi(key)
			if m.status == nil || n >= m.status.Desktops {
				return m, nil
			}
			m.desktop = n
			m.pinned = false
			return m, m.viewCmd(n)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		return m, tea.Batch(m.fetchCmd(), m.tickCmd())

	case dataMsg:
		m.err = msg.err
		if msg.err != nil {
			m.status = nil
			m.clients = nil
			return m, nil
		}
		m.status = msg.status
		m.clients = msg.clients
		if !m.pinned || m.desktop >= m.status.Desktops {
			m.desktop = m.status.CurrentDesktop
			m.pinned = false
		}

	case execMsg:
		m.lastErr = ""
		if msg.err != nil {
			m.lastErr = msg.err.Error()
			return m, nil
		}
		return m, m.fetchCmd()
	}

	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.status, m.err, m.width)
	helpBar := renderHelpBar(m.width, m.lastErr)

	var desktopBar string
	if m.status != nil {
		counts := make(map[int]int)
		for _, c := range m.clients {
			if !c.Dock {
				counts[c.Desktop]++
			}
		}
		desktopBar = renderDesktopBar(m.desktop, m.status.Desktops, counts, m.width)
	}

	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(helpBar)
	if desktopBar != "" {
		usedHeight += lipgloss.Height(desktopBar)
	}
	contentHeight := m.height - usedHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	var content string
	if m.status == nil {
		content = lipgloss.NewStyle().
			Width(m.width).
			Height(contentHeight).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center).
			Render("waiting for xiwm")
	} else {
		content = lipgloss.NewStyle().
			Height(contentHeight).
			Render(renderClientTable(m.clients, m.desktop, m.width, contentHeight))
	}

	parts := []string{statusBar}
	if desktopBar != "" {
		parts = append(parts, desktopBar)
	}
	parts = append(parts, content, helpBar)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
