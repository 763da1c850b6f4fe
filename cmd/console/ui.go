package main

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/shelterline/shelter-engine/pkg/daycycle"
	"github.com/shelterline/shelter-engine/pkg/event"
)

const (
	NarratorName    = "Narrator"
	PlaceHolderText = "Describe the family's plan..."
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config        *ConsoleConfig
	client        *http.Client
	day           int
	state         *daycycle.DailyActionState
	results       map[daycycle.Category]*daycycle.PlayerActionResult
	pending       int
	family        *FamilyState
	storyLog      []string
	seen          map[daycycle.Category]bool
	selected      int
	storyViewport viewport.Model
	metaViewport  viewport.Model
	textarea      textarea.Model
	ready         bool
	width         int
	height        int
	err           error
	loading       bool

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type dayPreparedMsg struct {
	state *daycycle.DailyActionState
	err   error
}

type dayStatusMsg struct {
	status *DayStatus
	err    error
}

type familyMsg struct {
	family *FamilyState
	err    error
}

type submitAckMsg struct {
	category daycycle.Category
	err      error
}

type progressTickMsg struct{}

type pollTickMsg struct{}

var (
	storyPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	effectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("179")) // amber

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
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

	selectedTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	storyVp := viewport.New(50, 20)
	storyVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:        cfg,
		client:        client,
		day:           1,
		textarea:      ta,
		storyViewport: storyVp,
		metaViewport:  metaVp,
		seen:          make(map[daycycle.Category]bool),
		ready:         false,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(m.prepareDay(m.day), m.loadFamily())
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.storyViewport, vpCmd = m.storyViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		storyWidth := int(float64(m.width)*0.72) - 4
		metaWidth := m.width - storyWidth - 6

		m.storyViewport.Width = storyWidth - 2
		m.storyViewport.Height = m.height - 8
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.textarea.SetWidth(storyWidth - 4)

		m.ready = true
		m.writeStoryContent()
		m.metaViewport.SetContent(m.writeMetadata())

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil

		case tea.KeyTab:
			open := m.openCategories()
			if len(open) > 1 {
				m.selected = (m.selected + 1) % len(open)
			}
			return m, nil

		case tea.KeyCtrlN:
			if m.pending == 0 && m.dayFinished() {
				m.day++
				m.loading = true
				m.progressTick = 0
				return m, tea.Batch(m.prepareDay(m.day), progressTick())
			}
			return m, nil

		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			open := m.openCategories()
			if len(open) == 0 {
				return m, nil
			}
			if m.selected >= len(open) {
				m.selected = 0
			}
			category := open[m.selected]

			m.textarea.Reset()
			m.loading = true
			m.progressTick = 0

			m.storyLog = append(m.storyLog,
				userStyle.Render("You ("+category.DisplayName()+"): ")+input)
			m.writeStoryContent()

			return m, tea.Batch(m.submit(category, input), progressTick())
		}

	case dayPreparedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.storyLog = append(m.storyLog, errorStyle.Render("Error: "+msg.err.Error()))
		} else {
			m.state = msg.state
			m.results = nil
			m.pending = 0
			m.seen = make(map[daycycle.Category]bool)
			m.selected = 0
			m.err = nil
			m.appendDayHeader()
		}
		m.writeStoryContent()
		m.metaViewport.SetContent(m.writeMetadata())
		return m, nil

	case submitAckMsg:
		if msg.err != nil {
			m.loading = false
			m.storyLog = append(m.storyLog, errorStyle.Render("Error: "+msg.err.Error()))
			m.writeStoryContent()
			return m, nil
		}
		if cs, ok := m.state.Categories[msg.category]; ok {
			cs.Submitted = true
		}
		m.metaViewport.SetContent(m.writeMetadata())
		return m, tea.Batch(m.pollStatus(), pollTick())

	case pollTickMsg:
		if m.loading {
			return m, tea.Batch(m.pollStatus(), pollTick())
		}
		return m, nil

	case dayStatusMsg:
		if msg.err != nil || msg.status == nil {
			return m, nil
		}
		m.results = msg.status.Results
		m.pending = msg.status.Pending
		m.appendNewResults()

		if m.pending == 0 {
			m.loading = false
			if m.dayFinished() {
				m.storyLog = append(m.storyLog,
					separatorStyle.Render(fmt.Sprintf("── Day %d complete. Press Ctrl+N for the next day. ──", m.day)))
			}
			m.writeStoryContent()
			return m, m.loadFamily()
		}
		m.writeStoryContent()
		return m, nil

	case familyMsg:
		if msg.err == nil && msg.family != nil {
			m.family = msg.family
			m.metaViewport.SetContent(m.writeMetadata())
		}

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeStoryContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.storyViewport, vpCmd = m.storyViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

// openCategories returns the active categories still awaiting submission,
// in stable order.
func (m *ConsoleUI) openCategories() []daycycle.Category {
	if m.state == nil {
		return nil
	}
	var out []daycycle.Category
	for _, c := range m.state.ActiveCategories() {
		if !m.state.Categories[c].Submitted {
			out = append(out, c)
		}
	}
	return out
}

// dayFinished reports whether every active category has a result.
func (m *ConsoleUI) dayFinished() bool {
	if m.state == nil {
		return false
	}
	for _, c := range m.state.ActiveCategories() {
		if _, ok := m.results[c]; !ok {
			return false
		}
	}
	return true
}

func (m *ConsoleUI) appendDayHeader() {
	m.storyLog = append(m.storyLog,
		titleStyle.Render(fmt.Sprintf("DAY %d", m.day)))

	for _, c := range m.state.ActiveCategories() {
		ch := m.state.Categories[c].Challenge
		text := ch.Description
		if c == daycycle.CategoryFamilyRequest && m.state.FamilyTarget != "" {
			text = m.state.FamilyTarget + " " + text
		}
		m.storyLog = append(m.storyLog,
			categoryStyle.Render(c.DisplayName()+": "+ch.Title)+"\n"+text)
	}
}

// appendNewResults folds freshly resolved categories into the story log.
func (m *ConsoleUI) appendNewResults() {
	for _, c := range daycycle.Categories() {
		res, ok := m.results[c]
		if !ok || m.seen[c] {
			continue
		}
		m.seen[c] = true

		if res.Failed() {
			m.storyLog = append(m.storyLog,
				errorStyle.Render(c.DisplayName()+" failed: "+res.Error))
			continue
		}

		var sb strings.Builder
		sb.WriteString(narratorStyle.Render(NarratorName+": ") + res.Event.Title + "\n")
		sb.WriteString(res.Event.Description)
		for _, eff := range res.Event.Effects {
			sb.WriteString("\n" + effectStyle.Render("  • "+formatEffect(eff)))
		}
		m.storyLog = append(m.storyLog, sb.String())
	}
}

func formatEffect(eff event.Effect) string {
	if eff.Target == "" {
		return fmt.Sprintf("%s (%d)", eff.EffectType, eff.Intensity)
	}
	return fmt.Sprintf("%s (%d) on %s", eff.EffectType, eff.Intensity, eff.Target)
}

// writeStoryContent rebuilds the story viewport for the current width.
func (m *ConsoleUI) writeStoryContent() {
	storyWidth := m.storyViewport.Width - 6
	if storyWidth < 20 {
		storyWidth = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("SHELTER ENGINE") + "\n\n")
	content.WriteString("Describe your family's plans below. Tab switches the category.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", storyWidth-6)) + "\n\n")

	for _, entry := range m.storyLog {
		content.WriteString(wordwrap.String(entry, storyWidth) + "\n\n")
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.storyViewport.SetContent(content.String())
	m.storyViewport.GotoBottom()
}

func (m *ConsoleUI) writeMetadata() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("THE FAMILY") + "\n\n")

	if m.family != nil {
		for _, s := range m.family.Survivors {
			content.WriteString(categoryStyle.Render(s.Name) + "\n")
			content.WriteString(fmt.Sprintf("  HP %d  SAN %d\n", s.Health, s.Sanity))
			content.WriteString(fmt.Sprintf("  HUN %d  THI %d\n", s.Hunger, s.Thirst))
			var flags []string
			if s.Sick {
				flags = append(flags, "sick")
			}
			if s.Injured {
				flags = append(flags, "injured")
			}
			if len(flags) > 0 {
				content.WriteString("  " + errorStyle.Render(strings.Join(flags, ", ")) + "\n")
			}
			content.WriteString("\n")
		}

		content.WriteString(titleStyle.Render("STOCKPILES") + "\n\n")
		names := make([]string, 0, len(m.family.Resources))
		for name := range m.family.Resources {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			content.WriteString(fmt.Sprintf("%s: %d\n", name, m.family.Resources[name]))
		}
		content.WriteString("\n")
	}

	if m.state != nil {
		content.WriteString(titleStyle.Render("TODAY") + "\n\n")
		open := m.openCategories()
		for i, c := range open {
			if i == m.selected {
				content.WriteString(selectedTabStyle.Render("▶ "+c.DisplayName()) + "\n")
			} else {
				content.WriteString(tabStyle.Render("  "+c.DisplayName()) + "\n")
			}
		}
		if len(open) == 0 {
			content.WriteString(promptStyle.Render("All submitted\n"))
		}
	}

	content.WriteString("\n")
	content.WriteString("Commands:\n")
	content.WriteString("• Enter: Submit plan\n")
	content.WriteString("• Tab: Switch category\n")
	content.WriteString("• Ctrl+N: Next day\n")
	content.WriteString("• Ctrl+C: Quit\n")

	return content.String()
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
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
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Leave the Shelter?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to quit? The family stays behind.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(56).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	storyWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - storyWidth - 6

	storyPanel := storyPanelStyle.Width(storyWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.storyViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", storyWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, storyPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.storyViewport.Width - 6
	if usable <= 0 {
		usable = 30
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

func (m ConsoleUI) prepareDay(day int) tea.Cmd {
	return func() tea.Msg {
		state, err := prepareDay(m.client, m.config.APIBaseURL, day)
		return dayPreparedMsg{state, err}
	}
}

func (m ConsoleUI) submit(category daycycle.Category, input string) tea.Cmd {
	return func() tea.Msg {
		err := submitCategory(m.client, m.config.APIBaseURL, category, input, nil)
		return submitAckMsg{category, err}
	}
}

func (m ConsoleUI) pollStatus() tea.Cmd {
	return func() tea.Msg {
		status, err := getDayStatus(m.client, m.config.APIBaseURL)
		return dayStatusMsg{status, err}
	}
}

func (m ConsoleUI) loadFamily() tea.Cmd {
	return func() tea.Msg {
		family, err := getFamily(m.client, m.config.APIBaseURL)
		return familyMsg{family, err}
	}
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}

// pollTick drives day status polling while submissions are in flight
func pollTick() tea.Cmd {
	return tea.Tick(time.Millisecond*600, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}
