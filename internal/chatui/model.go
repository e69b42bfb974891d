// Package chatui is a terminal chat client for the intake conversation.
package chatui

import (
	"context"
	"fmt"
	"strings"

	"smart-va/internal/models"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxHistory is the most prior turns the chat endpoint accepts
const maxHistory = 20

const (
	greeting = "Hello! I'm your Professional Virtual Assistant. I'm here to help you with business tasks like " +
		"administrative support, scheduling, email management, research, and much more. What can I assist you with today?"
	chatFailure = "I apologize for the technical difficulty. Could you please try again? Our system is working to resolve this issue."
	submitted   = "Perfect! Your business request has been successfully submitted. Our team will review your requirements " +
		"and get back to you within 24 hours with a detailed proposal and next steps. Thank you for choosing our virtual assistant services!"
	submitFailure = "I apologize, but there was an error submitting your request. Please try again, or contact our support team directly if the issue persists."
	anotherTask   = "Is there another business task I can help you with today? I'm here to support all your professional needs!"
)

// Backend is the part of the API the chat needs
type Backend interface {
	Chat(ctx context.Context, req models.ChatRequest) (*models.ChatReply, error)
	SubmitTask(ctx context.Context, req models.CreateTaskRequest) (*models.TaskSummary, error)
}

// Entry is one line of the transcript
type Entry struct {
	Role string // "user" or "assistant"
	Text string
}

type replyMsg struct {
	reply *models.ChatReply
}

type chatErrMsg struct {
	err error
}

type submittedMsg struct {
	summary *models.TaskSummary
}

type submitErrMsg struct {
	err error
}

// Model is the bubbletea model of the chat screen
type Model struct {
	ctx     context.Context
	backend Backend

	transcript []Entry
	state      models.ConversationState
	ready      bool
	waiting    bool
	lastID     string
	lastErr    error

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	width  int
	height int
}

// New creates the chat model
func New(ctx context.Context, backend Backend) Model {
	ti := textinput.New()
	ti.Placeholder = "Type your message... (/services lists shortcuts)"
	ti.CharLimit = 1000
	ti.Prompt = "> "
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = assistantLabelStyle

	m := Model{
		ctx:        ctx,
		backend:    backend,
		transcript: []Entry{{Role: "assistant", Text: greeting}},
		input:      ti,
		viewport:   viewport.New(80, 20),
		spinner:    s,
	}
	m.refresh()
	return m
}

// Run starts the chat in the terminal
func Run(ctx context.Context, backend Backend) error {
	p := tea.NewProgram(New(ctx, backend), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = max(msg.Height-8, 3)
		m.input.Width = msg.Width - 6
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case replyMsg:
		m.waiting = false
		m.lastErr = nil
		if msg.reply.Message != "" {
			m.add("assistant", msg.reply.Message)
		}
		m.state = msg.reply.CollectedData
		m.ready = msg.reply.Ready
		return m, nil

	case chatErrMsg:
		m.waiting = false
		m.lastErr = msg.err
		m.add("assistant", chatFailure)
		return m, nil

	case submittedMsg:
		m.waiting = false
		m.lastErr = nil
		m.lastID = msg.summary.ID
		m.add("assistant", submitted)
		m.add("assistant", anotherTask)
		m.state = models.ConversationState{}
		m.ready = false
		return m, nil

	case submitErrMsg:
		m.waiting = false
		m.lastErr = msg.err
		m.add("assistant", submitFailure)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.handleEnter()
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	if m.waiting {
		return m, nil
	}
	text := strings.TrimSpace(m.input.Value())
	m.input.Reset()

	switch {
	case text == "" || text == "/submit":
		if !m.ready {
			return m, nil
		}
		return m.submit()
	case text == "/services":
		m.add("assistant", servicesHelp())
		return m, nil
	case strings.HasPrefix(text, "/service "):
		label := strings.TrimSpace(strings.TrimPrefix(text, "/service "))
		return m.selectService(label)
	}
	return m.send(text, m.state)
}

// selectService sends the shortcut utterance with the category pre-filled
func (m Model) selectService(label string) (tea.Model, tea.Cmd) {
	slug := models.NormalizeCategory(label)
	if !models.IsValidCategory(slug) {
		m.add("assistant", fmt.Sprintf("I don't offer %q yet. %s", label, servicesHelp()))
		return m, nil
	}
	label = models.CategoryLabel(slug)
	state := m.state
	state.TaskCategory = label
	state.ServicePreSelected = true
	return m.send(models.ServiceSelectionMessage(label), state)
}

func (m Model) send(text string, state models.ConversationState) (tea.Model, tea.Cmd) {
	history := m.history()
	m.add("user", text)
	m.waiting = true
	m.lastID = ""

	req := models.ChatRequest{
		Message:             text,
		ConversationHistory: history,
		ConversationData:    &state,
	}
	backend, ctx := m.backend, m.ctx
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		reply, err := backend.Chat(ctx, req)
		if err != nil {
			return chatErrMsg{err: err}
		}
		return replyMsg{reply: reply}
	})
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	m.waiting = true
	req := m.state.ToCreateRequest()
	backend, ctx := m.backend, m.ctx
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		summary, err := backend.SubmitTask(ctx, req)
		if err != nil {
			return submitErrMsg{err: err}
		}
		return submittedMsg{summary: summary}
	})
}

// history returns the transcript so far as chat turns, most recent last
func (m Model) history() []models.ChatTurn {
	entries := m.transcript
	if len(entries) > maxHistory {
		entries = entries[len(entries)-maxHistory:]
	}
	turns := make([]models.ChatTurn, len(entries))
	for i, e := range entries {
		turns[i] = models.ChatTurn{Role: e.Role, Content: e.Text}
	}
	return turns
}

func (m *Model) add(role, text string) {
	m.transcript = append(m.transcript, Entry{Role: role, Text: text})
	m.refresh()
}

func (m *Model) refresh() {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	body := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	for i, e := range m.transcript {
		if i > 0 {
			b.WriteString("\n\n")
		}
		label := assistantLabelStyle.Render("ARIA")
		if e.Role == "user" {
			label = userLabelStyle.Render("You")
		}
		b.WriteString(label + "\n" + body.Render(e.Text))
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func servicesHelp() string {
	labels := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		labels[i] = c.Label
	}
	return "Pick a service with /service <name>: " + strings.Join(labels, ", ")
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Smart Virtual Assistant"))
	b.WriteString("\n")
	b.WriteString(boxStyle.Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	return b.String()
}

func (m Model) statusLine() string {
	switch {
	case m.waiting:
		return m.spinner.View() + subtleStyle.Render(" Thinking...")
	case m.ready:
		return successStyle.Render("Ready to submit: press Enter on an empty line")
	case m.lastErr != nil:
		return errorStyle.Render("Error: " + m.lastErr.Error())
	case m.lastID != "":
		return successStyle.Render("Submitted request " + m.lastID)
	}
	if missing := m.state.Missing(); missing != "" {
		return subtleStyle.Render("Still needed: " + missing + "  ·  Esc to quit")
	}
	return subtleStyle.Render("Esc to quit")
}

// Transcript returns the conversation so far
func (m Model) Transcript() []Entry {
	return m.transcript
}

// State returns the collected field-set
func (m Model) State() models.ConversationState {
	return m.state
}

// Ready reports whether the request can be submitted
func (m Model) Ready() bool {
	return m.ready
}

// Waiting reports whether a request is in flight
func (m Model) Waiting() bool {
	return m.waiting
}
