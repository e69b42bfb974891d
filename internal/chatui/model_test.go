package chatui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"smart-va/internal/models"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeBackend struct {
	chatReq   models.ChatRequest
	submitReq models.CreateTaskRequest
	reply     *models.ChatReply
	chatErr   error
	submitErr error
}

func (f *fakeBackend) Chat(_ context.Context, req models.ChatRequest) (*models.ChatReply, error) {
	f.chatReq = req
	return f.reply, f.chatErr
}

func (f *fakeBackend) SubmitTask(_ context.Context, req models.CreateTaskRequest) (*models.TaskSummary, error) {
	f.submitReq = req
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &models.TaskSummary{ID: "task-1", Name: req.Name, Status: models.TaskStatusPending}, nil
}

// typeAndEnter types text and presses enter, then runs the backend call
func typeAndEnter(t *testing.T, m Model, text string) Model {
	t.Helper()
	m.input.SetValue(text)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if cmd == nil {
		return m
	}
	return drain(m, cmd)
}

// drain runs cmd and feeds every non-tick result back into the model
func drain(m Model, cmd tea.Cmd) Model {
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			m = drain(m, c)
		}
		return m
	}
	switch msg.(type) {
	case replyMsg, chatErrMsg, submittedMsg, submitErrMsg:
		next, _ := m.Update(msg)
		return next.(Model)
	}
	return m
}

func readyReply() *models.ChatReply {
	return &models.ChatReply{
		Message: "All set, press enter to submit.",
		CollectedData: models.ConversationState{
			Name:         "Jane Doe",
			Email:        "jane@example.com",
			TaskCategory: "Travel Planning",
			Description:  "Book flights to Lisbon for the team",
			Deadline:     "next Friday",
		},
		Ready:         true,
		MissingFields: []string{},
	}
}

func TestNewModelGreets(t *testing.T) {
	m := New(context.Background(), &fakeBackend{})
	transcript := m.Transcript()
	if len(transcript) != 1 || transcript[0].Role != "assistant" {
		t.Fatalf("Expected a single greeting, got %+v", transcript)
	}
	if !strings.Contains(transcript[0].Text, "Virtual Assistant") {
		t.Errorf("Expected greeting text, got %q", transcript[0].Text)
	}
}

func TestSendMessageUpdatesState(t *testing.T) {
	backend := &fakeBackend{reply: &models.ChatReply{
		Message:       "Thanks Jane! What's your email?",
		CollectedData: models.ConversationState{Name: "Jane Doe"},
		MissingFields: []string{"email"},
	}}
	m := typeAndEnter(t, New(context.Background(), backend), "my name is Jane Doe")

	if backend.chatReq.Message != "my name is Jane Doe" {
		t.Errorf("Expected message to be sent, got %q", backend.chatReq.Message)
	}
	if len(backend.chatReq.ConversationHistory) != 1 {
		t.Errorf("Expected greeting as history, got %d turns", len(backend.chatReq.ConversationHistory))
	}
	if m.State().Name != "Jane Doe" {
		t.Errorf("Expected collected name, got %q", m.State().Name)
	}
	if m.Waiting() {
		t.Error("Expected waiting to clear after the reply")
	}
	if got := len(m.Transcript()); got != 3 {
		t.Errorf("Expected 3 transcript entries, got %d", got)
	}
}

func TestHistoryIsCapped(t *testing.T) {
	m := New(context.Background(), &fakeBackend{})
	for i := 0; i < 30; i++ {
		m.add("user", "hello")
	}
	if got := len(m.history()); got != maxHistory {
		t.Errorf("Expected %d history turns, got %d", maxHistory, got)
	}
}

func TestServiceShortcut(t *testing.T) {
	backend := &fakeBackend{reply: &models.ChatReply{Message: "Great choice!"}}
	typeAndEnter(t, New(context.Background(), backend), "/service travel planning")

	if backend.chatReq.Message != "I need help with Travel Planning" {
		t.Errorf("Expected shortcut utterance, got %q", backend.chatReq.Message)
	}
	state := backend.chatReq.ConversationData
	if state == nil || state.TaskCategory != "Travel Planning" || !state.ServicePreSelected {
		t.Errorf("Expected pre-selected category, got %+v", state)
	}
}

func TestUnknownServiceIsRejectedLocally(t *testing.T) {
	backend := &fakeBackend{}
	m := typeAndEnter(t, New(context.Background(), backend), "/service basket weaving")

	if backend.chatReq.Message != "" {
		t.Error("Expected no chat call for an unknown service")
	}
	last := m.Transcript()[len(m.Transcript())-1]
	if !strings.Contains(last.Text, "/service") {
		t.Errorf("Expected services help, got %q", last.Text)
	}
}

func TestChatErrorShowsApology(t *testing.T) {
	backend := &fakeBackend{chatErr: errors.New("connection refused")}
	m := typeAndEnter(t, New(context.Background(), backend), "hello")

	last := m.Transcript()[len(m.Transcript())-1]
	if last.Text != chatFailure {
		t.Errorf("Expected apology, got %q", last.Text)
	}
	if !strings.Contains(m.View(), "connection refused") {
		t.Error("Expected error in status line")
	}
}

func TestEnterSubmitsWhenReady(t *testing.T) {
	backend := &fakeBackend{reply: readyReply()}
	m := typeAndEnter(t, New(context.Background(), backend), "by next Friday")
	if !m.Ready() {
		t.Fatal("Expected model to be ready")
	}

	m = typeAndEnter(t, m, "")
	if backend.submitReq.Email != "jane@example.com" || backend.submitReq.TaskCategory != "Travel Planning" {
		t.Errorf("Expected collected data to be submitted, got %+v", backend.submitReq)
	}
	if m.Ready() || m.State().Name != "" {
		t.Error("Expected conversation to reset after submission")
	}
	transcript := m.Transcript()
	if transcript[len(transcript)-1].Text != anotherTask {
		t.Errorf("Expected follow-up prompt, got %q", transcript[len(transcript)-1].Text)
	}
}

func TestEmptyEnterIgnoredWhenNotReady(t *testing.T) {
	backend := &fakeBackend{}
	m := typeAndEnter(t, New(context.Background(), backend), "")
	if backend.submitReq.Name != "" || backend.chatReq.Message != "" {
		t.Error("Expected no backend call")
	}
	if len(m.Transcript()) != 1 {
		t.Errorf("Expected transcript unchanged, got %d entries", len(m.Transcript()))
	}
}

func TestSubmitErrorKeepsState(t *testing.T) {
	backend := &fakeBackend{reply: readyReply(), submitErr: errors.New("boom")}
	m := typeAndEnter(t, New(context.Background(), backend), "by next Friday")
	m = typeAndEnter(t, m, "/submit")

	if !m.Ready() || m.State().Name != "Jane Doe" {
		t.Error("Expected state to survive a failed submission")
	}
	last := m.Transcript()[len(m.Transcript())-1]
	if last.Text != submitFailure {
		t.Errorf("Expected submit failure message, got %q", last.Text)
	}
}

func TestQuitKeys(t *testing.T) {
	m := New(context.Background(), &fakeBackend{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("Expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
}
