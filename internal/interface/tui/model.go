package tui

import (
	"log"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/AswinRaj1123/NyayaAI/internal/core/api"
	"github.com/AswinRaj1123/NyayaAI/internal/core/config"
	"github.com/AswinRaj1123/NyayaAI/internal/core/docs"
	"github.com/AswinRaj1123/NyayaAI/internal/core/models"
	"github.com/AswinRaj1123/NyayaAI/internal/core/poll"
	"github.com/AswinRaj1123/NyayaAI/internal/core/session"
)

type viewMode int

const (
	authView viewMode = iota
	docsView
	chatView
)

// authField indexes the focusable auth form inputs.
type authField int

const (
	fieldEmail authField = iota
	fieldPassword
	fieldName
)

type Model struct {
	cfg  *config.Config
	sess *session.Session
	docs *docs.Client

	mode   viewMode
	width  int
	height int

	// Auth form
	emailInput    textinput.Model
	passwordInput textinput.Model
	nameInput     textinput.Model
	registering   bool
	focus         authField
	authBusy      bool
	authStatus    string
	authErr       string

	// Document list
	list        list.Model
	listReady   bool
	documents   []models.Document
	poller      *poll.Poller
	pollGen     int
	degraded    bool
	uploadMode  bool
	uploadInput textinput.Model
	uploading   bool
	docsStatus  string
	docsErr     string

	// Chat
	selected  models.Document
	question  textinput.Model
	history   []models.ConversationEntry
	viewport  viewport.Model
	vpReady   bool
	answer    *models.Answer
	asking    bool
	spin      spinner.Model
	chatErr   string
	histStale bool
}

func New(cfg *config.Config, sess *session.Session, dc *docs.Client) Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()
	email.CharLimit = 128

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128

	name := textinput.New()
	name.Placeholder = "full name (optional)"
	name.CharLimit = 128

	upload := textinput.New()
	upload.Placeholder = "path to .pdf, .docx, or .txt"
	upload.CharLimit = 512

	question := textinput.New()
	question.Placeholder = "Ask a question about this document (Hindi or English)"
	question.CharLimit = 1024

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		cfg:           cfg,
		sess:          sess,
		docs:          dc,
		mode:          authView,
		emailInput:    email,
		passwordInput: password,
		nameInput:     name,
		uploadInput:   upload,
		question:      question,
		spin:          sp,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, restoreSession(m.sess))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.listReady {
			m.list.SetSize(msg.Width, msg.Height-4)
		}
		if m.vpReady {
			m.viewport.Width = msg.Width
			m.viewport.Height = chatViewportHeight(msg.Height)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.docs.StopPolling()
			return m, tea.Quit
		}
		switch m.mode {
		case authView:
			return m.updateAuth(msg)
		case docsView:
			return m.updateDocs(msg)
		case chatView:
			return m.updateChat(msg)
		}

	case spinner.TickMsg:
		if m.asking || m.authBusy || m.uploading {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case restoredMsg:
		return m.handleRestored(msg)

	case loginDoneMsg:
		return m.handleLoginDone(msg)

	case registerDoneMsg:
		m.authBusy = false
		if msg.err != nil {
			m.authErr = detail(msg.err)
			return m, nil
		}
		// Registration never logs in; route back to the login form.
		m.registering = false
		m.authErr = ""
		m.authStatus = "Registered! Now log in."
		m.passwordInput.SetValue("")
		m.setAuthFocus(fieldEmail)
		return m, nil

	case pollEventMsg:
		return m.handlePollEvent(msg)

	case uploadDoneMsg:
		return m.handleUploadDone(msg)

	case askDoneMsg:
		return m.handleAskDone(msg)

	case historyMsg:
		return m.handleHistory(msg)
	}

	return m, nil
}

func (m Model) View() string {
	switch m.mode {
	case authView:
		return m.viewAuth()
	case docsView:
		return m.viewDocs()
	case chatView:
		return m.viewChat()
	}
	return ""
}

// enterAuthenticated transitions into the document list after a login or
// restore, starting the poll loop scoped to this session.
func (m Model) enterAuthenticated() (Model, tea.Cmd) {
	m.mode = docsView
	m.authErr = ""
	m.authStatus = ""
	m.pollGen++
	m.poller = m.docs.StartPolling(log.Printf)
	return m, waitForPoll(m.pollGen, m.poller.Events())
}

// teardown returns to the auth view, dropping everything except typed form
// state. Called on logout and on session expiry detected by the poller.
func (m Model) teardown(status string) Model {
	m.docs.StopPolling()
	m.poller = nil
	m.mode = authView
	m.documents = nil
	m.listReady = false
	m.history = nil
	m.answer = nil
	m.degraded = false
	m.uploadMode = false
	m.authStatus = status
	m.passwordInput.SetValue("")
	m.setAuthFocus(fieldEmail)
	return m
}

func detail(err error) string {
	if err == nil {
		return ""
	}
	return api.Detail(err, "request failed")
}
