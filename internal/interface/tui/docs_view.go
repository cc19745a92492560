package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/AswinRaj1123/NyayaAI/internal/core/models"
	"github.com/AswinRaj1123/NyayaAI/internal/core/poll"
)

type docItem struct {
	doc models.Document
}

func (i docItem) FilterValue() string {
	return i.doc.Filename
}

func (i docItem) Title() string {
	return i.doc.Filename
}

func (i docItem) Description() string {
	desc := i.doc.Status.Label()
	if !i.doc.UploadedAt.IsZero() {
		desc += " | Uploaded " + humanize.Time(i.doc.UploadedAt)
	}
	return desc
}

// docDelegate renders ready documents as selectable and everything else dim.
type docDelegate struct {
	list.DefaultDelegate
}

func (d docDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(docItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, item)
		return
	}

	title := it.doc.Filename
	desc := statusBadge(it.doc.Status.Label(), string(it.doc.Status))
	if !it.doc.UploadedAt.IsZero() {
		desc += timestampStyle.Render(" | Uploaded " + humanize.Time(it.doc.UploadedAt))
	}

	switch {
	case index == m.Index():
		title = selectedItemStyle.Render(title)
		desc = " " + desc
	case it.doc.Selectable():
		title = itemStyle.Render(title)
		desc = "  " + desc
	default:
		title = dimItemStyle.Render(title)
		desc = "  " + desc
	}

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

func newDocList(documents []models.Document, width, height int) list.Model {
	items := make([]list.Item, len(documents))
	for i, d := range documents {
		items[i] = docItem{doc: d}
	}

	delegate := docDelegate{DefaultDelegate: list.NewDefaultDelegate()}

	l := list.New(items, delegate, width, height-4)
	l.Title = ""
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(false)
	return l
}

func (m Model) updateDocs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.uploadMode {
		return m.updateUploadPrompt(msg)
	}

	switch msg.String() {
	case "q", "esc":
		m.docs.StopPolling()
		return m, tea.Quit

	case "enter":
		if selected, ok := m.list.SelectedItem().(docItem); ok {
			// Selection is gated on the latest snapshot: non-ready
			// documents are not clickable.
			if m.docs.Select(selected.doc.ID) {
				m.selected = selected.doc
				m.mode = chatView
				m.history = nil
				m.answer = nil
				m.chatErr = ""
				m.question.SetValue("")
				m.question.Focus()
				return m, loadHistory(m.docs, selected.doc.ID)
			}
			m.docsErr = fmt.Sprintf("%s is not ready yet (%s)", selected.doc.Filename, selected.doc.Status.Label())
		}
		return m, nil

	case "u":
		m.uploadMode = true
		m.docsErr = ""
		m.docsStatus = ""
		m.uploadInput.Focus()
		return m, nil

	case "r":
		if m.poller != nil {
			m.poller.Refresh()
		}
		return m, nil

	case "L":
		m.sess.Logout()
		return m.teardown("Logged out."), nil
	}

	if m.listReady {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateUploadPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.uploading {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.uploadMode = false
		return m, nil

	case "enter":
		path := strings.TrimSpace(m.uploadInput.Value())
		if path == "" {
			return m, nil
		}
		m.uploading = true
		m.docsErr = ""
		return m, tea.Batch(m.spin.Tick, doUpload(m.docs, path))
	}

	var cmd tea.Cmd
	m.uploadInput, cmd = m.uploadInput.Update(msg)
	return m, cmd
}

func (m Model) handleUploadDone(msg uploadDoneMsg) (tea.Model, tea.Cmd) {
	m.uploading = false
	if msg.err != nil {
		// The typed path stays so the user can correct and retry.
		m.docsErr = detail(msg.err)
		return m, nil
	}
	m.uploadMode = false
	m.uploadInput.SetValue("")
	m.docsStatus = fmt.Sprintf("Uploaded %s — processing", msg.doc.Filename)
	return m, nil
}

func (m Model) handlePollEvent(msg pollEventMsg) (tea.Model, tea.Cmd) {
	// Events from a previous session's poller are stale; drop them.
	if msg.gen != m.pollGen || m.poller == nil {
		return m, nil
	}
	if msg.closed {
		return m, nil
	}

	switch msg.ev.Kind {
	case poll.EventAuthFailed:
		return m.teardown("Session expired — please log in again."), nil

	case poll.EventError:
		// Fail-soft: keep showing the last known list.
		m.degraded = true

	case poll.EventSnapshot:
		m.degraded = false
		m.documents = msg.ev.Snapshot.Documents
		items := make([]list.Item, len(m.documents))
		for i, d := range m.documents {
			items[i] = docItem{doc: d}
		}
		if !m.listReady {
			m.list = newDocList(m.documents, m.width, m.height)
			m.listReady = true
		} else {
			m.list.SetItems(items)
		}
		// Affordances follow the snapshot: a selected document that left
		// Ready keeps its chat open (terminal statuses are trusted), but
		// its latest state is reflected.
		if m.mode == chatView {
			if doc, ok := msg.ev.Snapshot.Find(m.selected.ID); ok {
				m.selected = doc
			}
		}
	}

	return m, waitForPoll(m.pollGen, m.poller.Events())
}

func (m Model) viewDocs() string {
	var b strings.Builder

	header := titleStyle.Render("NyayaAI")
	if user, ok := m.sess.User(); ok {
		header += subtitleStyle.Render("  ·  " + user.DisplayName())
	}
	if m.degraded {
		header += "  " + degradedStyle.Render("(offline — showing last known state)")
	}
	b.WriteString(header + "\n\n")

	if m.uploadMode {
		b.WriteString(labelStyle.Render("Upload document") + "\n")
		b.WriteString("Path: " + m.uploadInput.View() + "\n")
		if m.uploading {
			b.WriteString(m.spin.View() + " Uploading...\n")
		}
		if m.docsErr != "" {
			b.WriteString(errorStyle.Render("Error: "+m.docsErr) + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("enter upload · esc cancel"))
		return b.String()
	}

	switch {
	case !m.listReady:
		b.WriteString(subtitleStyle.Render("Loading your documents..."))
	case len(m.documents) == 0:
		b.WriteString(subtitleStyle.Render("No documents yet. Press u to upload one."))
	default:
		b.WriteString(m.list.View())
	}
	b.WriteString("\n")

	if m.docsErr != "" {
		b.WriteString(errorStyle.Render(m.docsErr) + "\n")
	}
	if m.docsStatus != "" {
		b.WriteString(statusOKStyle.Render(m.docsStatus) + "\n")
	}

	b.WriteString(helpStyle.Render("enter chat with ready document · u upload · r refresh · L logout · q quit"))
	return b.String()
}
