package console

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

const PlaceHolderText = "Type a verb, or /help..."

// UI is the BubbleTea model for the full-screen console.
// https://github.com/charmbracelet/bubbletea
type UI struct {
	game     *Game
	title    string
	viewport viewport.Model
	input    textinput.Model
	ready    bool
	width    int
	height   int

	showQuitModal bool
}

var (
	storyPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(3).
			PaddingRight(3)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

func NewUI(game *Game, title string) UI {
	ti := textinput.New()
	ti.Placeholder = PlaceHolderText
	ti.Prompt = promptStyle.Render(":: ")
	ti.CharLimit = 200
	ti.Focus()

	vp := viewport.New(DefaultWidth, 20)
	vp.MouseWheelEnabled = true

	if title == "" {
		title = "ROK"
	}

	return UI{
		game:     game,
		title:    title,
		viewport: vp,
		input:    ti,
	}
}

func (m UI) Init() tea.Cmd {
	return textinput.Blink
}

func (m UI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(msg.Width-6, 1) // left(3) + right(3) padding
		m.viewport.Height = max(msg.Height-5, 1)
		m.input.Width = max(msg.Width-10, 1)
		m.ready = true
		m.writeContent()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			input := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if input == "" {
				return m, nil
			}
			m.game.Submit(input)
			m.writeContent()
			if m.game.Done() {
				return m, tea.Quit
			}
			return m, nil
		}

		// Keys belong to the input; the viewport's own bindings would
		// scroll on ordinary letters.
		m.input, tiCmd = m.input.Update(msg)
		return m, tiCmd
	}

	m.input, tiCmd = m.input.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

func (m UI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.input.Focus()
				return m, textinput.Blink
			}
		}
	}

	return m, nil
}

// writeContent re-renders the transcript for the current width.
func (m *UI) writeContent() {
	width := m.viewport.Width
	if width <= 0 {
		width = DefaultWidth
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render(m.title) + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")
	content.WriteString(renderTranscript(m.game.Transcript(), width))
	if m.game.Ended() {
		content.WriteString(titleStyle.Render("The End.") + "\n")
	}

	m.viewport.SetContent(content.String())
	m.viewport.GotoBottom()
}

func renderTranscript(entries []Entry, width int) string {
	var b strings.Builder
	for _, e := range entries {
		text := wordwrap.String(e.Text, width)
		switch e.Kind {
		case EntryNarration:
			b.WriteString(narratorStyle.Render(text))
		case EntryPlayer:
			b.WriteString(userStyle.Render("> " + text))
		case EntryError:
			b.WriteString(errorStyle.Render(text))
		case EntryInfo:
			b.WriteString(infoStyle.Render(text))
		}
		b.WriteString("\n\n")
	}
	return b.String()
}

func (m UI) renderQuitModal() string {
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Story?"))
	content.WriteString("\n\n")
	content.WriteString("Progress is not saved. Stop playing?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m UI) View() string {
	if m.showQuitModal && m.width > 0 {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	return storyPanelStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.viewport.View(),
			separatorStyle.Render(strings.Repeat("─", m.viewport.Width)),
			m.input.View(),
		),
	)
}
