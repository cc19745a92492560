package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/AswinRaj1123/NyayaAI/internal/core/docs"
	"github.com/AswinRaj1123/NyayaAI/internal/core/models"
	"github.com/AswinRaj1123/NyayaAI/internal/core/poll"
	"github.com/AswinRaj1123/NyayaAI/internal/core/session"
)

type restoredMsg struct {
	ok  bool
	err error
}

type loginDoneMsg struct {
	err error
}

type registerDoneMsg struct {
	err error
}

// pollEventMsg wraps a poller event. gen identifies which poller produced
// it; events from a previous session's poller are ignored rather than
// applied to fresh state.
type pollEventMsg struct {
	gen    int
	ev     poll.Event
	closed bool
}

type uploadDoneMsg struct {
	doc models.Document
	err error
}

type askDoneMsg struct {
	question string
	answer   models.Answer
	err      error
}

type historyMsg struct {
	entries []models.ConversationEntry
	err     error
}

func restoreSession(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		ok, err := sess.Restore(context.Background())
		return restoredMsg{ok: ok, err: err}
	}
}

func doLogin(sess *session.Session, email, password string) tea.Cmd {
	return func() tea.Msg {
		return loginDoneMsg{err: sess.Login(context.Background(), email, password)}
	}
}

func doRegister(sess *session.Session, email, password, fullName string) tea.Cmd {
	return func() tea.Msg {
		return registerDoneMsg{err: sess.Register(context.Background(), email, password, fullName)}
	}
}

// waitForPoll blocks on the poller's event stream and resumes the UI with
// whatever arrives. Re-issued after each delivery; a closed channel means
// the poller stopped.
func waitForPoll(gen int, ch <-chan poll.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return pollEventMsg{gen: gen, closed: true}
		}
		return pollEventMsg{gen: gen, ev: ev}
	}
}

func doUpload(dc *docs.Client, path string) tea.Cmd {
	return func() tea.Msg {
		doc, err := dc.Upload(context.Background(), path)
		return uploadDoneMsg{doc: doc, err: err}
	}
}

func doAsk(dc *docs.Client, question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := dc.Ask(context.Background(), question)
		return askDoneMsg{question: question, answer: answer, err: err}
	}
}

func loadHistory(dc *docs.Client, id string) tea.Cmd {
	return func() tea.Msg {
		entries, err := dc.History(context.Background(), id)
		return historyMsg{entries: entries, err: err}
	}
}
