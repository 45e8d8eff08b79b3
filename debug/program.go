// Package debug implements the stepwise execution controller: the one
// Program instance per VM that owns a *vm.Processor, the breakpoint set,
// and the run/step/continue state machine exposed to a host.
package debug

import (
	"context"

	"github.com/avalonbits/cellvm/vm"
)

// Program owns one Processor, a set of breakpoint addresses, and the
// breakpoints-enabled flag. Exactly one Program instance exists per VM.
type Program struct {
	proc *vm.Processor

	breakpoints map[uint32]struct{}
	bpsEnabled  bool
}

// New returns a Program in the Empty state: no processor image loaded yet.
func New(syscaller vm.Syscaller) *Program {
	p := vm.NewProcessor()
	p.Syscall = syscaller
	return &Program{
		proc:        p,
		breakpoints: make(map[uint32]struct{}),
	}
}

// Initialize requires Empty and loads cells into page 0, leaving status
// NotStarted. Calling it again once NotStarted/Running/Paused/Halted has
// been reached is a programmer error and is silently ignored rather than
// panicking on host misuse.
func (p *Program) Initialize(cells []uint32) {
	if p.proc.Status != vm.StatusEmpty {
		return
	}
	p.proc.Initialize(cells)
}

// atBreakpoint reports whether ip currently sits on an enabled breakpoint.
func (p *Program) atBreakpoint() bool {
	if !p.bpsEnabled {
		return false
	}
	_, hit := p.breakpoints[p.proc.IP]
	return hit
}

// Continue is ContinueContext with context.Background, for hosts that never
// need to interrupt a running VM from another goroutine.
func (p *Program) Continue() {
	p.ContinueContext(context.Background())
}

// ContinueContext steps the processor until HALT, PAUSE, an enabled
// breakpoint hit (checked before decode), a fatal VM error, or ctx is done.
// Halted and Empty are sticky: Continue on either is a no-op. Cancellation
// leaves status at Running — it is a suspension point, not a VM error; the
// host is expected to resume or tear the Program down.
func (p *Program) ContinueContext(ctx context.Context) {
	switch p.proc.Status {
	case vm.StatusHalted, vm.StatusEmpty:
		return
	}

	p.proc.Status = vm.StatusRunning
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if p.atBreakpoint() {
			p.proc.Status = vm.StatusPaused
			return
		}

		p.proc.Step()

		if p.proc.Status == vm.StatusHalted || p.proc.Status == vm.StatusPaused {
			return
		}
	}
}

// StepOver executes exactly one instruction. From Paused it steps once and
// stays Paused (unless that step itself halted or paused the processor).
// From NotStarted it steps once and forces status to Paused regardless of
// what the step did. Any other status is a no-op.
func (p *Program) StepOver() {
	switch p.proc.Status {
	case vm.StatusPaused:
		p.proc.Step()
		if p.proc.Status != vm.StatusHalted {
			p.proc.Status = vm.StatusPaused
		}
	case vm.StatusNotStarted:
		p.proc.Step()
		p.proc.Status = vm.StatusPaused
	}
}

// SetBreakpoint marks addr as a breakpoint. Setting one already set has no
// additional effect.
func (p *Program) SetBreakpoint(addr uint32) {
	p.breakpoints[addr] = struct{}{}
}

// RemoveBreakpoint clears addr's breakpoint, if any.
func (p *Program) RemoveBreakpoint(addr uint32) {
	delete(p.breakpoints, addr)
}

// GetIsBreakpoint reports whether addr currently has a breakpoint set,
// irrespective of whether breakpoints are enabled.
func (p *Program) GetIsBreakpoint(addr uint32) bool {
	_, ok := p.breakpoints[addr]
	return ok
}

// EnableBreakpoints turns on breakpoint checking for subsequent Continue
// calls.
func (p *Program) EnableBreakpoints() { p.bpsEnabled = true }

// DisableBreakpoints turns off breakpoint checking; the set itself is kept.
func (p *Program) DisableBreakpoints() { p.bpsEnabled = false }

// GetInstructionPointer is a pure inspector of the processor's ip.
func (p *Program) GetInstructionPointer() uint32 { return p.proc.IP }

// GetProcessorStatus is a pure inspector of the processor's status.
func (p *Program) GetProcessorStatus() vm.Status { return p.proc.Status }

// GetMemoryBlockSize returns the page size in cells (constant across every
// Program, but exposed as part of the host-facing inspection surface).
func (p *Program) GetMemoryBlockSize() uint32 { return vm.PageSize }

// GetMemoryPointer returns a host-addressable pointer to cell addr, or nil
// if addr's page has not been allocated yet.
func (p *Program) GetMemoryPointer(addr uint32) *uint32 {
	return p.proc.Mem.Pointer(addr)
}

// GetBus is a pure inspector of the processor's bus register, used by the
// front-ends (internal/tui, internal/scope) to render the current value
// without reaching into vm internals.
func (p *Program) GetBus() uint32 { return p.proc.Bus }

// GetPageCount is a pure inspector of how many pages have been allocated.
func (p *Program) GetPageCount() int { return p.proc.Mem.PageCount() }

// LastError reports the reason the processor last transitioned to Halted
// via an error (as opposed to the HALT opcode), or nil.
func (p *Program) LastError() error { return p.proc.LastErr }
