// Package tui implements a Bubble Tea debugger front-end over a
// *debug.Program. It is a pure consumer of the Program's exported
// inspection/control surface, never of vm internals.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/avalonbits/cellvm/debug"
	"github.com/avalonbits/cellvm/vm"
)

const cellsPerRow = 8
const rowsShown = 8

type mode int

const (
	modeNormal mode = iota
	modeBreakpointPrompt
)

type model struct {
	prog *debug.Program

	offset uint32 // first address shown in the page table
	input  mode
	prompt string
	status string
}

// New returns the initial tea.Model for prog.
func New(prog *debug.Program) tea.Model {
	return model{prog: prog}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.input == modeBreakpointPrompt {
		return m.updateBreakpointPrompt(keyMsg)
	}

	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "s":
		m.prog.StepOver()
		m.status = ""
	case "r":
		m.prog.ContinueContext(context.Background())
		m.status = ""
	case "b":
		m.input = modeBreakpointPrompt
		m.prompt = ""
	case "c":
		for addr := m.offset; addr < m.offset+cellsPerRow*rowsShown; addr++ {
			m.prog.RemoveBreakpoint(addr)
		}
		m.status = "breakpoints in view cleared"
	case "down":
		m.offset += cellsPerRow
	case "up":
		if m.offset >= cellsPerRow {
			m.offset -= cellsPerRow
		}
	}
	return m, nil
}

func (m model) updateBreakpointPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		addr, err := strconv.ParseUint(strings.TrimSpace(m.prompt), 10, 32)
		if err != nil {
			m.status = fmt.Sprintf("invalid address %q", m.prompt)
		} else {
			m.prog.SetBreakpoint(uint32(addr))
			m.prog.EnableBreakpoints()
			m.status = fmt.Sprintf("breakpoint set at %d", addr)
		}
		m.input = modeNormal
	case "esc":
		m.input = modeNormal
	case "backspace":
		if len(m.prompt) > 0 {
			m.prompt = m.prompt[:len(m.prompt)-1]
		}
	default:
		m.prompt += msg.String()
	}
	return m, nil
}

// renderRow renders cellsPerRow cells starting at start, highlighting the
// current IP and marking breakpointed cells.
func (m model) renderRow(start uint32) string {
	ip := m.prog.GetInstructionPointer()
	s := fmt.Sprintf("%6d | ", start)
	for i := uint32(0); i < cellsPerRow; i++ {
		addr := start + i
		var v uint32
		if ptr := m.prog.GetMemoryPointer(addr); ptr != nil {
			v = *ptr
		}
		switch {
		case addr == ip:
			s += fmt.Sprintf("[%08x] ", v)
		case m.prog.GetIsBreakpoint(addr):
			s += fmt.Sprintf("*%08x  ", v)
		default:
			s += fmt.Sprintf(" %08x  ", v)
		}
	}
	return s
}

func (m model) pageTable() string {
	rows := []string{fmt.Sprintf("  addr  | %s", strings.Repeat("cell       ", cellsPerRow))}
	for r := 0; r < rowsShown; r++ {
		rows = append(rows, m.renderRow(m.offset+uint32(r*cellsPerRow)))
	}
	return strings.Join(rows, "\n")
}

func (m model) statusPanel() string {
	return fmt.Sprintf(`
ip:     %d
status: %s
bus:    %d
pages:  %d
`,
		m.prog.GetInstructionPointer(),
		m.prog.GetProcessorStatus(),
		m.prog.GetBus(),
		m.prog.GetPageCount(),
	)
}

func (m model) footer() string {
	if m.input == modeBreakpointPrompt {
		return fmt.Sprintf("breakpoint address> %s", m.prompt)
	}
	if m.status != "" {
		return m.status
	}
	return "s step  r run  b breakpoint  c clear  up/down scroll  q quit"
}

func (m model) View() string {
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.pageTable(), m.statusPanel())
	view := lipgloss.JoinVertical(lipgloss.Left, body, "", m.footer())

	if err := m.prog.LastError(); err != nil && m.prog.GetProcessorStatus() == vm.StatusHalted {
		view = lipgloss.JoinVertical(lipgloss.Left, view, fmt.Sprintf("halt reason: %s", spew.Sdump(err)))
	}
	return view
}

// Run starts the interactive TUI and blocks until the user quits.
func Run(ctx context.Context, prog *debug.Program) error {
	p := tea.NewProgram(New(prog))
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}
