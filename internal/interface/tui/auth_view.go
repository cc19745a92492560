package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.authBusy {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m, tea.Quit

	case "tab", "down":
		m.setAuthFocus(m.nextField(1))
		return m, nil

	case "shift+tab", "up":
		m.setAuthFocus(m.nextField(-1))
		return m, nil

	case "ctrl+r":
		// Toggle between login and register, mirroring the two-form flow.
		m.registering = !m.registering
		m.authErr = ""
		m.authStatus = ""
		m.setAuthFocus(fieldEmail)
		return m, nil

	case "enter":
		return m.submitAuth()
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldEmail:
		m.emailInput, cmd = m.emailInput.Update(msg)
	case fieldPassword:
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	case fieldName:
		m.nameInput, cmd = m.nameInput.Update(msg)
	}
	return m, cmd
}

func (m Model) submitAuth() (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(m.emailInput.Value())
	password := m.passwordInput.Value()
	if email == "" || password == "" {
		m.authErr = "email and password are required"
		return m, nil
	}

	m.authBusy = true
	m.authErr = ""
	m.authStatus = ""
	if m.registering {
		return m, tea.Batch(m.spin.Tick, doRegister(m.sess, email, password, strings.TrimSpace(m.nameInput.Value())))
	}
	return m, tea.Batch(m.spin.Tick, doLogin(m.sess, email, password))
}

func (m Model) handleRestored(msg restoredMsg) (tea.Model, tea.Cmd) {
	if msg.ok {
		return m.enterAuthenticated()
	}
	if msg.err != nil {
		// Backend unreachable; the stored token (if any) is kept for later.
		m.authErr = detail(msg.err)
	}
	return m, nil
}

func (m Model) handleLoginDone(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	m.authBusy = false
	if msg.err != nil {
		// Stay on the auth view: a failed login never transitions.
		m.authErr = detail(msg.err)
		return m, nil
	}
	return m.enterAuthenticated()
}

func (m *Model) setAuthFocus(f authField) {
	m.focus = f
	m.emailInput.Blur()
	m.passwordInput.Blur()
	m.nameInput.Blur()
	switch f {
	case fieldEmail:
		m.emailInput.Focus()
	case fieldPassword:
		m.passwordInput.Focus()
	case fieldName:
		m.nameInput.Focus()
	}
}

func (m Model) nextField(dir int) authField {
	fields := 2
	if m.registering {
		fields = 3
	}
	return authField((int(m.focus) + dir + fields) % fields)
}

func (m Model) viewAuth() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("NyayaAI"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Your Legal Awareness Assistant"))
	b.WriteString("\n\n")

	if m.registering {
		b.WriteString(labelStyle.Render("Register"))
	} else {
		b.WriteString(labelStyle.Render("Login"))
	}
	b.WriteString("\n\n")

	b.WriteString("Email:    " + m.emailInput.View() + "\n")
	b.WriteString("Password: " + m.passwordInput.View() + "\n")
	if m.registering {
		b.WriteString("Name:     " + m.nameInput.View() + "\n")
	}
	b.WriteString("\n")

	if m.authBusy {
		if m.registering {
			b.WriteString(m.spin.View() + " Registering...")
		} else {
			b.WriteString(m.spin.View() + " Logging in...")
		}
		b.WriteString("\n")
	}
	if m.authErr != "" {
		b.WriteString(errorStyle.Render("Error: "+m.authErr) + "\n")
	}
	if m.authStatus != "" {
		b.WriteString(statusOKStyle.Render(m.authStatus) + "\n")
	}

	b.WriteString("\n")
	if m.registering {
		b.WriteString(helpStyle.Render("enter submit · tab next field · ctrl+r switch to login · esc quit"))
	} else {
		b.WriteString(helpStyle.Render("enter submit · tab next field · ctrl+r switch to register · esc quit"))
	}

	return b.String()
}
