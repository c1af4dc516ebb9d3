// Package tui hosts the interactive QR login flow. It is the embedding
// layer the core leaves polling policy to: the model owns the poll
// timer and the phase/token state, and calls the three handshake phases
// on the upstream client as ordinary one-shot operations.
package tui

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/livekenceng/botgacor/internal/shopee"
)

// pollInterval is how often the model re-checks the challenge status.
// The upstream imposes no interval; 2s matches the web login page.
const pollInterval = 2 * time.Second

type phase int

const (
	phaseGenerating phase = iota
	phaseWaiting
	phaseExchanging
	phaseFetchingAccount
	phaseDone
	phaseFailed
)

type challengeMsg struct {
	challenge *shopee.QRChallenge
	imagePath string
}

type statusMsg struct{ status *shopee.QRStatus }

type pollTickMsg struct{}

type outcomeMsg struct{ outcome *shopee.LoginOutcome }

type identityMsg struct{ identity *shopee.AccountIdentity }

type failMsg struct{ err error }

// LoginModel drives the generate -> poll -> exchange handshake.
type LoginModel struct {
	client  *shopee.Client
	spinner spinner.Model

	phase     phase
	challenge *shopee.QRChallenge
	imagePath string
	status    string
	outcome   *shopee.LoginOutcome
	identity  *shopee.AccountIdentity
	err       error
}

// NewLoginModel creates a login flow model bound to an upstream client.
func NewLoginModel(client *shopee.Client) LoginModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return LoginModel{
		client:  client,
		spinner: sp,
		phase:   phaseGenerating,
	}
}

// Outcome returns the handshake result once the flow has finished.
func (m LoginModel) Outcome() *shopee.LoginOutcome {
	return m.outcome
}

// Identity returns the fetched account identity, if any.
func (m LoginModel) Identity() *shopee.AccountIdentity {
	return m.identity
}

// Err returns the hard failure that stopped the flow, if any.
func (m LoginModel) Err() error {
	return m.err
}

func (m LoginModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.generateCmd())
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}

	case challengeMsg:
		m.challenge = msg.challenge
		m.imagePath = msg.imagePath
		m.phase = phaseWaiting
		return m, schedulePoll()

	case pollTickMsg:
		if m.phase != phaseWaiting {
			return m, nil
		}
		return m, m.pollCmd()

	case statusMsg:
		m.status = msg.status.Status
		if msg.status.Token != "" {
			m.phase = phaseExchanging
			return m, m.exchangeCmd(msg.status.Token)
		}
		return m, schedulePoll()

	case outcomeMsg:
		m.outcome = msg.outcome
		if !msg.outcome.Succeeded {
			m.phase = phaseFailed
			return m, tea.Quit
		}
		m.phase = phaseFetchingAccount
		return m, m.accountInfoCmd(msg.outcome.Cookies)

	case identityMsg:
		m.identity = msg.identity
		m.phase = phaseDone
		return m, tea.Quit

	case failMsg:
		m.err = msg.err
		m.phase = phaseFailed
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m LoginModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Shopee QR login"))
	b.WriteString("\n\n")

	switch m.phase {
	case phaseGenerating:
		b.WriteString(m.spinner.View() + statusStyle("Requesting QR challenge..."))
	case phaseWaiting:
		b.WriteString("Scan the QR code with the Shopee app:\n")
		b.WriteString("  " + m.imagePath + "\n\n")
		status := m.status
		if status == "" {
			status = "NEW"
		}
		b.WriteString(m.spinner.View() + statusStyle("Waiting for scan (status: "+status+")"))
	case phaseExchanging:
		b.WriteString(m.spinner.View() + statusStyle("Confirmed, exchanging token for session..."))
	case phaseFetchingAccount:
		b.WriteString(m.spinner.View() + statusStyle("Logged in, fetching account info..."))
	case phaseDone:
		b.WriteString(successStyle("Login succeeded."))
		if m.identity != nil {
			b.WriteString(fmt.Sprintf("\n  user: %s (%d)", m.identity.Username, m.identity.UserID))
		}
	case phaseFailed:
		if m.err != nil {
			b.WriteString(errorStyle("Login failed: " + m.err.Error()))
		} else if m.outcome != nil {
			b.WriteString(errorStyle("Login failed: " + m.outcome.ErrorMessage))
		}
	}

	b.WriteString("\n\nq to quit\n")
	return docStyle.Render(b.String())
}

func schedulePoll() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

func (m LoginModel) generateCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		challenge, err := client.GenerateQR(context.Background())
		if err != nil {
			return failMsg{err}
		}
		path, err := writeQRImage(challenge)
		if err != nil {
			return failMsg{err}
		}
		return challengeMsg{challenge: challenge, imagePath: path}
	}
}

func (m LoginModel) pollCmd() tea.Cmd {
	client := m.client
	qrID := m.challenge.ID
	return func() tea.Msg {
		status, err := client.QRStatus(context.Background(), qrID)
		if err != nil {
			return failMsg{err}
		}
		return statusMsg{status}
	}
}

func (m LoginModel) exchangeCmd(token string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		outcome, err := client.Login(context.Background(), token)
		if err != nil {
			return failMsg{err}
		}
		return outcomeMsg{outcome}
	}
}

func (m LoginModel) accountInfoCmd(cookies string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		identity, err := client.AccountInfo(context.Background(), cookies)
		if err != nil {
			// The session is already won; account metadata is a bonus.
			return identityMsg{nil}
		}
		return identityMsg{identity}
	}
}

// writeQRImage decodes the challenge image into a temp PNG the user can
// open and scan. The upstream prefixes the payload with a data URL
// header on some responses.
func writeQRImage(challenge *shopee.QRChallenge) (string, error) {
	payload := challenge.ImageBase64
	if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("failed to decode qr image: %w", err)
	}
	path := filepath.Join(os.TempDir(), "botgacor-qr-"+challenge.ID+".png")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return "", fmt.Errorf("failed to write qr image: %w", err)
	}
	return path, nil
}

// RunLogin runs the interactive handshake and returns the final model.
func RunLogin(client *shopee.Client) (LoginModel, error) {
	p := tea.NewProgram(NewLoginModel(client))
	final, err := p.Run()
	if err != nil {
		return LoginModel{}, err
	}
	return final.(LoginModel), nil
}
