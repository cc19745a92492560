package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
)

func chatViewportHeight(total int) int {
	// Header, question input, status lines, help line.
	h := total - 8
	if h < 3 {
		h = 3
	}
	return h
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.docs.Deselect()
		m.mode = docsView
		m.chatErr = ""
		return m, nil

	case "enter":
		if m.asking {
			return m, nil
		}
		question := strings.TrimSpace(m.question.Value())
		if question == "" {
			return m, nil
		}
		m.asking = true
		m.chatErr = ""
		m.answer = nil
		return m, tea.Batch(m.spin.Tick, doAsk(m.docs, question))

	case "ctrl+y":
		if m.answer != nil {
			if err := clipboard.WriteAll(m.answer.Answer); err == nil {
				m.chatErr = ""
			}
		}
		return m, nil

	case "up", "down", "pgup", "pgdown":
		if m.vpReady {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.question, cmd = m.question.Update(msg)
	return m, cmd
}

func (m Model) handleAskDone(msg askDoneMsg) (tea.Model, tea.Cmd) {
	m.asking = false
	if msg.err != nil {
		// The typed question survives; the user retries without retyping.
		m.chatErr = detail(msg.err)
		return m, nil
	}
	answer := msg.answer
	m.answer = &answer
	m.question.SetValue("")
	// History refresh is issued only after the query resolved.
	return m, loadHistory(m.docs, m.selected.ID)
}

func (m Model) handleHistory(msg historyMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Keep whatever history is on screen.
		m.histStale = true
		return m, nil
	}
	m.histStale = false
	m.history = msg.entries
	content := m.renderHistory()
	if !m.vpReady {
		m.viewport = viewport.New(m.width, chatViewportHeight(m.height))
		m.vpReady = true
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) renderHistory() string {
	if len(m.history) == 0 {
		return subtitleStyle.Render("No questions yet. Ask the first one below.")
	}
	var b strings.Builder
	for _, e := range m.history {
		b.WriteString(questionStyle.Render("Q: "+e.Question) + "\n")
		b.WriteString(answerStyle.Render(e.Answer) + "\n")
		meta := fmt.Sprintf("%d relevant sections used", e.Sources)
		if !e.AskedAt.IsZero() {
			meta += " · " + humanize.Time(e.AskedAt)
		}
		b.WriteString(timestampStyle.Render(meta) + "\n\n")
	}
	return b.String()
}

func (m Model) viewChat() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Chat: "+m.selected.Filename) + "\n")
	b.WriteString(subtitleStyle.Render("Status: "+m.selected.Status.Label()) + "\n\n")

	if m.vpReady {
		b.WriteString(m.viewport.View() + "\n")
	} else {
		b.WriteString(subtitleStyle.Render("Loading history...") + "\n")
	}
	if m.histStale {
		b.WriteString(degradedStyle.Render("(history may be out of date)") + "\n")
	}

	b.WriteString("\n> " + m.question.View() + "\n")

	if m.asking {
		b.WriteString(m.spin.View() + " Thinking...\n")
	}
	if m.answer != nil {
		b.WriteString(statusOKStyle.Render(fmt.Sprintf("Answered with %d relevant sections.", m.answer.Sources)) + "\n")
	}
	if m.chatErr != "" {
		b.WriteString(errorStyle.Render("Error: "+m.chatErr) + "\n")
	}

	b.WriteString(helpStyle.Render("enter ask · ctrl+y copy last answer · esc back · ctrl+c quit"))
	return b.String()
}
