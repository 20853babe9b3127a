package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tatianab/cyber-arena/internal/battle"
	"github.com/tatianab/cyber-arena/internal/models"
)

type sessionState int

const (
	stateIdle sessionState = iota
	stateLoading
	stateBattling
	stateEnded
	stateError
)

type model struct {
	state         sessionState
	machine       *battle.Machine
	transcriptDir string
	spinner       spinner.Model
	viewport      viewport.Model
	err           error
	statusLine    string
	width         int
	height        int
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	narrativeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	turnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	victoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5FFF87")).
			Bold(true)

	defeatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")).
			Bold(true)
)

// NewModel builds the initial TUI model around a battle machine.
func NewModel(machine *battle.Machine, transcriptDir string) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))

	return model{
		state:         stateIdle,
		machine:       machine,
		transcriptDir: transcriptDir,
		spinner:       sp,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

type battleStartedMsg struct {
	err error
}

type turnResolvedMsg struct {
	err error
}

type transcriptSavedMsg struct {
	path string
	err  error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			switch m.state {
			case stateIdle, stateEnded:
				m.state = stateLoading
				m.statusLine = ""
				return m, tea.Batch(m.spinner.Tick, m.startBattle())
			case stateBattling:
				m.state = stateLoading
				return m, tea.Batch(m.spinner.Tick, m.resolveTurn())
			}

		case tea.KeyRunes:
			if string(msg.Runes) == "t" && m.state == stateEnded {
				return m, m.saveTranscript()
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.logWidth()
		m.viewport.Height = msg.Height - 6
		if m.state == stateBattling || m.state == stateEnded {
			m.viewport.SetContent(m.renderLog())
		}

	case spinner.TickMsg:
		if m.state == stateLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case battleStartedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.state = stateBattling
		if m.viewport.Width == 0 {
			m.viewport = viewport.New(m.logWidth(), m.height-6)
		}
		m.viewport.SetContent(m.renderLog())
		m.viewport.GotoBottom()
		return m, nil

	case turnResolvedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		if m.machine.Session().Ended() {
			m.state = stateEnded
		} else {
			m.state = stateBattling
		}
		m.viewport.SetContent(m.renderLog())
		m.viewport.GotoBottom()
		return m, nil

	case transcriptSavedMsg:
		if msg.err != nil {
			m.statusLine = fmt.Sprintf("Could not save transcript: %v", msg.err)
		} else {
			m.statusLine = "Transcript saved to " + msg.path
		}
		return m, nil
	}

	if m.state == stateBattling || m.state == stateEnded {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) View() string {
	var s string

	switch m.state {
	case stateIdle:
		hero := m.machine.Session().Hero
		s = fmt.Sprintf(
			"%s\n\n%s enters the arena, armed with %s.\n\n%s",
			titleStyle.Render("CYBER FANTASY BATTLE ARENA"),
			hero.Name,
			strings.Join(hero.Weapons, " and "),
			helpStyle.Render("Press Enter to start a battle, Esc to quit."),
		)

	case stateLoading:
		s = fmt.Sprintf("\n  %s The arena machinery whirs...\n", m.spinner.View())

	case stateBattling, stateEnded:
		logView := m.viewport.View()
		panelView := m.renderPanel()

		mainView := lipgloss.JoinHorizontal(lipgloss.Top,
			logView,
			panelView,
		)

		s = lipgloss.JoinVertical(lipgloss.Left,
			mainView,
			"\n"+m.actionBar(),
		)
		if m.statusLine != "" {
			s += "\n" + helpStyle.Render(m.statusLine)
		}

	case stateError:
		s = fmt.Sprintf("\n  Error: %v\n\nPress Esc to quit.", m.err)
	}

	return "\n" + s + "\n"
}

func (m model) actionBar() string {
	session := m.machine.Session()
	switch {
	case m.state == stateEnded:
		return helpStyle.Render("Enter: new battle · t: save transcript · Esc: quit")
	case session.IsHeroTurn():
		return helpStyle.Render("Enter: attack! · Esc: quit")
	default:
		return helpStyle.Render("Enter: next turn · Esc: quit")
	}
}

func (m model) logWidth() int {
	return int(float64(m.width) * 0.75)
}

func (m model) renderLog() string {
	session := m.machine.Session()
	width := m.logWidth()

	var b strings.Builder
	for i, entry := range session.BattleLog {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(narrativeStyle.Width(width).Render(entry))
	}

	if m.state == stateEnded {
		b.WriteString("\n\n")
		if session.State == models.StateEndedHeroWon {
			b.WriteString(victoryStyle.Render("VICTORY: the monster has fallen."))
		} else {
			b.WriteString(defeatStyle.Render("DEFEAT: " + session.Hero.Name + " is no more."))
		}
	}
	return b.String()
}

func (m model) renderPanel() string {
	session := m.machine.Session()

	hero := titleStyle.Render("HERO") + "\n" +
		fmt.Sprintf("%s\nHP: %d\n%s\n\n", session.Hero.Name, clampHP(session.Hero.HP), strings.Join(session.Hero.Weapons, ", "))

	monster := ""
	if session.Monster != nil {
		monster = titleStyle.Render("MONSTER") + "\n" +
			fmt.Sprintf("%s\nHP: %d\n%s\n\n", session.Monster.Name, clampHP(session.Monster.HP), strings.Join(session.Monster.Weapons, ", "))
	}

	turn := titleStyle.Render("TURN") + "\n"
	switch {
	case session.Ended():
		turn += "Battle over"
	case session.IsHeroTurn():
		turn += turnStyle.Render("Hero's Turn!")
	default:
		turn += turnStyle.Render("Monster's Turn!")
	}

	content := hero + monster + turn

	panelWidth := int(float64(m.width) * 0.23)
	return panelStyle.Width(panelWidth).Height(m.viewport.Height).Render(content)
}

// clampHP keeps defeated combatants from displaying negative health.
func clampHP(hp int) int {
	if hp < 0 {
		return 0
	}
	return hp
}

func (m model) startBattle() tea.Cmd {
	return func() tea.Msg {
		return battleStartedMsg{err: m.machine.Start(context.Background())}
	}
}

func (m model) resolveTurn() tea.Cmd {
	return func() tea.Msg {
		return turnResolvedMsg{err: m.machine.ResolveTurn(context.Background())}
	}
}

func (m model) saveTranscript() tea.Cmd {
	return func() tea.Msg {
		path, err := m.machine.Session().SaveTranscript(m.transcriptDir)
		return transcriptSavedMsg{path: path, err: err}
	}
}

// Run drives the TUI until the player quits.
func Run(machine *battle.Machine, transcriptDir string) error {
	p := tea.NewProgram(NewModel(machine, transcriptDir), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
