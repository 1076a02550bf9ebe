package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Mk7214/vidconv/internal/convert"
)

type screen int

const (
	screenPicker screen = iota
	screenFormat
	screenOutput
	screenConfirm
	screenRunning
	screenDone
	screenError
)

const (
	focusDir = iota
	focusName
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type formatItem struct {
	title string
	desc  string
	id    string
}

func (f formatItem) Title() string       { return f.title }
func (f formatItem) Description() string { return f.desc }
func (f formatItem) FilterValue() string { return f.id }

type model struct {
	screen screen
	sess   *session
	ctx    context.Context

	filepicker filepicker.Model
	formatList list.Model
	dirInput   textinput.Model
	nameInput  textinput.Model
	focus      int
	spinner    spinner.Model

	value  string // picked input file
	format string
	req    convert.Request

	status   string
	notified bool
	outcome  convert.Outcome
	cancelFn context.CancelFunc

	err      error
	canceled bool
}

type (
	// conversionDoneMsg carries the Outcome back from the worker command.
	conversionDoneMsg struct{ outcome convert.Outcome }
	// conversionNotifiedMsg is forwarded from the converter's Notifier.
	conversionNotifiedMsg string
	clearErrorMsg         struct{}
)

func clearErrorAfter(t time.Duration) tea.Cmd {
	return tea.Tick(t, func(_ time.Time) tea.Msg {
		return clearErrorMsg{}
	})
}

func initialModel(sess *session) model {
	cfg := sess.cfg

	fp := filepicker.New()
	if !cfg.Formats.AllowAny {
		fp.AllowedTypes = convert.Extensions(cfg.Formats.Allowed)
	}
	fp.CurrentDirectory = cfg.Paths.StartDir
	fp.ShowHidden = false
	fp.AutoHeight = true

	items := make([]list.Item, 0, len(cfg.Formats.Allowed))
	selected := 0
	for i, f := range cfg.Formats.Allowed {
		desc := convert.FormatDescription(f)
		if desc == "" {
			desc = "." + f + " container"
		}
		items = append(items, formatItem{title: convert.FormatLabel(f), desc: desc, id: f})
		if f == cfg.Formats.Default {
			selected = i
		}
	}
	ls := list.New(items, list.NewDefaultDelegate(), 60, 20)
	ls.Title = "Choose target format (↑/↓ then Enter)"
	ls.Select(selected)

	dir := textinput.New()
	dir.Prompt = "Folder: "
	name := textinput.New()
	name.Prompt = "Name:   "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return model{
		screen:     screenPicker,
		sess:       sess,
		ctx:        context.Background(),
		filepicker: fp,
		formatList: ls,
		dirInput:   dir,
		nameInput:  name,
		spinner:    sp,
		format:     cfg.Formats.Default,
	}
}

func (m model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Notifier messages can arrive on any screen; the status line is shared.
	if n, ok := msg.(conversionNotifiedMsg); ok {
		m.status = successMessage(string(n))
		m.notified = true
		return m, nil
	}

	switch m.screen {
	case screenPicker:
		return m.updatePicker(msg)
	case screenFormat:
		return m.updateFormat(msg)
	case screenOutput:
		return m.updateOutput(msg)
	case screenConfirm:
		return m.updateConfirm(msg)
	case screenRunning:
		return m.updateRunning(msg)
	case screenError:
		if key, ok := msg.(tea.KeyMsg); ok {
			if key.Type == tea.KeyCtrlC {
				m.canceled = true
				return m, tea.Quit
			}
			// any key -> back to format selection to retry
			m.err = nil
			m.screen = screenFormat
		}
		return m, nil
	case screenDone:
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "enter":
				m.reset()
				return m, nil
			case "q", "esc", "ctrl+c":
				return m, tea.Quit
			}
		}
		return m, nil
	}
	return m, nil
}

func (m model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.canceled = true
			return m, tea.Quit
		}
	case clearErrorMsg:
		m.err = nil
	}

	var cmd tea.Cmd
	m.filepicker, cmd = m.filepicker.Update(msg)

	if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
		m.value = path
		m.status = ""
		m.screen = screenFormat
	}
	if didSelect, path := m.filepicker.DidSelectDisabledFile(msg); didSelect {
		m.err = errors.New(path + " is not a supported video file.")
		m.value = ""
		return m, tea.Batch(cmd, clearErrorAfter(2*time.Second))
	}
	return m, cmd
}

func (m model) updateFormat(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			if fi, ok := m.formatList.SelectedItem().(formatItem); ok {
				m.format = fi.id
			}
			m.dirInput.Placeholder = filepath.Dir(m.value)
			m.nameInput.Placeholder = filepath.Base(convert.DefaultOutputPath(m.value, m.format))
			m.focus = focusDir
			m.nameInput.Blur()
			m.err = nil
			m.screen = screenOutput
			return m, m.dirInput.Focus()
		case tea.KeyEsc:
			m.screen = screenPicker
			return m, nil
		case tea.KeyCtrlC:
			m.canceled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.formatList, cmd = m.formatList.Update(msg)
	return m, cmd
}

func (m model) updateOutput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
			if m.focus == focusDir {
				m.focus = focusName
				m.dirInput.Blur()
				return m, m.nameInput.Focus()
			}
			m.focus = focusDir
			m.nameInput.Blur()
			return m, m.dirInput.Focus()
		case tea.KeyEnter:
			req := convert.NewRequest(m.value, m.format, m.dirInput.Value(), m.nameInput.Value())
			if err := convert.Validate(req, m.sess.policy()); err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			m.req = req
			m.screen = screenConfirm
			return m, nil
		case tea.KeyEsc:
			m.screen = screenFormat
			return m, nil
		case tea.KeyCtrlC:
			m.canceled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	if m.focus == focusDir {
		m.dirInput, cmd = m.dirInput.Update(msg)
	} else {
		m.nameInput, cmd = m.nameInput.Update(msg)
	}
	return m, cmd
}

func (m model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			ctx, cancel := context.WithCancel(m.ctx)
			m.cancelFn = cancel
			m.notified = false
			m.status = fmt.Sprintf("Converting to %s...", m.req.Format)
			m.screen = screenRunning
			return m, tea.Batch(m.spinner.Tick, startConversionCmd(ctx, m.sess, m.req))
		case tea.KeyEsc:
			m.screen = screenOutput
			return m, nil
		case tea.KeyCtrlC:
			m.canceled = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) updateRunning(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case conversionDoneMsg:
		if m.cancelFn != nil {
			m.cancelFn()
			m.cancelFn = nil
		}
		m.outcome = msg.outcome
		if m.canceled {
			return m, tea.Quit
		}
		if msg.outcome.Succeeded() {
			if !m.notified {
				m.status = successMessage(msg.outcome.OutputPath)
			}
			m.screen = screenDone
			return m, nil
		}
		m.err = msg.outcome.Err
		m.status = failureMessage(msg.outcome.Err)
		m.screen = screenError
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			// the worker reports the canceled outcome via conversionDoneMsg
			if m.cancelFn != nil {
				m.cancelFn()
			}
			return m, nil
		case "ctrl+c":
			m.canceled = true
			if m.cancelFn == nil {
				return m, tea.Quit
			}
			// quit once the worker reports the encoder is gone
			m.cancelFn()
			m.status = "Canceling..."
			return m, nil
		}
	}
	return m, nil
}

func (m *model) reset() {
	m.screen = screenPicker
	m.value = ""
	m.req = convert.Request{}
	m.outcome = convert.Outcome{}
	m.err = nil
	m.dirInput.SetValue("")
	m.nameInput.SetValue("")
}

func startConversionCmd(ctx context.Context, sess *session, req convert.Request) tea.Cmd {
	return func() tea.Msg {
		return conversionDoneMsg{outcome: sess.run(ctx, req)}
	}
}

func (m model) View() string {
	switch m.screen {
	case screenPicker:
		if m.canceled {
			return ""
		}
		var s strings.Builder
		s.WriteString("\n  ")
		if m.err != nil {
			s.WriteString(m.filepicker.Styles.DisabledFile.Render(m.err.Error()))
		} else if m.value == "" {
			s.WriteString(titleStyle.Render("Pick a video file:"))
		} else {
			s.WriteString("Selected file: " + m.filepicker.Styles.Selected.Render(m.value))
		}
		s.WriteString("\n\n" + m.filepicker.View() + "\n")
		return s.String()

	case screenFormat:
		return fmt.Sprintf(
			"Selected input: %s\n\n%s\n\n%s\n",
			m.value,
			m.formatList.View(),
			hintStyle.Render("(Esc to go back, Enter to confirm selection)"),
		)

	case screenOutput:
		var s strings.Builder
		s.WriteString(titleStyle.Render("Output location") + "\n\n")
		s.WriteString(m.dirInput.View() + "\n")
		s.WriteString(m.nameInput.View() + "\n\n")
		if m.err != nil {
			s.WriteString(errorStyle.Render(m.err.Error()) + "\n\n")
		}
		s.WriteString(hintStyle.Render("Leave both empty to write next to the input. Tab switches fields, Enter continues, Esc goes back."))
		s.WriteString("\n")
		return s.String()

	case screenConfirm:
		return fmt.Sprintf(
			"%s\n\n  input:  %s\n  format: %s\n  output: %s\n\n%s\n",
			titleStyle.Render("Ready to convert"),
			m.req.InputPath, m.req.Format, m.req.OutputPath,
			hintStyle.Render("Press Enter to start conversion, Esc to go back, Ctrl+C to quit."),
		)

	case screenRunning:
		return fmt.Sprintf("\n  %s %s\n\n  %s\n", m.spinner.View(), m.status, hintStyle.Render("(Esc to cancel)"))

	case screenError:
		return fmt.Sprintf("%s\n\n%s\n", errorStyle.Render(m.status), hintStyle.Render("(press any key to go back)"))

	case screenDone:
		return fmt.Sprintf("%s\n\n%s\n", successStyle.Render(m.status), hintStyle.Render("(Enter to convert another file, q to quit)"))

	default:
		return "unknown state"
	}
}

// RunTUI runs the interactive picker until the user quits or ctx is done.
// Conversions started from the picker are canceled with ctx.
func RunTUI(ctx context.Context, sess *session) (model, error) {
	m := initialModel(sess)
	m.ctx = ctx
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	unsubscribe := sess.converter.Notifier().Subscribe(func(outputPath string) {
		p.Send(conversionNotifiedMsg(outputPath))
	})
	defer unsubscribe()

	final, err := p.Run()
	if err != nil {
		return model{}, err
	}
	if fm, ok := final.(model); ok {
		return fm, nil
	}
	return model{}, fmt.Errorf("unexpected final model type")
}
