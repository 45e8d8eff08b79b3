package vm

import "fmt"

// Status is the debugger-visible lifecycle state of a Processor.
type Status int

// The numeric values match the host-facing GetProcessorStatus encoding from
// the host-facing GetProcessorStatus encoding: 0:Paused, 1:Halted,
// 2:NotStarted, 3:Running, 4:Empty.
const (
	StatusPaused Status = iota
	StatusHalted
	StatusNotStarted
	StatusRunning
	StatusEmpty
)

func (s Status) String() string {
	switch s {
	case StatusPaused:
		return "paused"
	case StatusHalted:
		return "halted"
	case StatusNotStarted:
		return "not-started"
	case StatusRunning:
		return "running"
	case StatusEmpty:
		return "empty"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Syscaller is the narrow host boundary invoked by opcode 21 (SYSCALL). It
// a small interface owned by the core, implemented by whatever the
// embedding host provides.
type Syscaller interface {
	Syscall(code, arg int32) int32
}

// Opcodes, named per the canonical instruction set. Values 8 and 10 are
// intentionally absent: they are reserved in the bytecode but never
// dispatched, so an attempt to execute them falls through to the
// unknown-opcode branch.
const (
	OpNOP         = 0
	OpLoadAbs     = 1
	OpStoreAbs    = 2
	OpLoadRel     = 3
	OpStoreRel    = 4
	OpLoadOffK    = 5
	OpStoreOffK   = 6
	OpLoadRelBus  = 7
	OpALUAdd      = 9
	OpALUMul      = 11
	OpALUDiv      = 12
	OpJump        = 13
	OpJumpIf      = 14
	OpLinkIf      = 15
	OpGetHi       = 16
	OpGetLo       = 17
	OpALUInt      = 18
	OpALUFloat    = 19
	OpNewPage     = 20
	OpSyscall     = 21
	OpHalt        = 22
	OpPause       = 23
	OpLoadImm     = 24
	OpPushALU     = 25
	OpLoadOffV    = 26
	OpStoreOffV   = 27
	OpGetIP       = 28
	OpALUCmp      = 29
	OpALUOr       = 30
	OpALUAnd      = 31
	OpALUShl      = 32
	OpALUShr      = 33
)

// Processor is the fetch/decode/execute engine: instruction pointer, bus
// register, ALU, paged memory, and the per-step parameter cursor.
type Processor struct {
	IP     uint32
	Bus    uint32
	ALU    *ALU
	Mem    AddressSpace
	Status Status

	// Syscall is consulted by opcode 21. A nil Syscaller makes SYSCALL a
	// no-op that leaves the bus at zero — embedding hosts that never use
	// SYSCALL need not supply one.
	Syscall Syscaller

	// LastErr records the reason the processor last transitioned to
	// Halted via an error (as opposed to the HALT opcode), or nil.
	LastErr error

	paramIndex uint32
	holdIP     bool
}

// NewProcessor returns a Processor in its power-on state: ip=1 (address 0 is
// reserved), empty status, int-mode ALU, no pages allocated yet.
func NewProcessor() *Processor {
	return &Processor{
		IP:     1,
		ALU:    NewALU(),
		Status: StatusEmpty,
	}
}

// nextParam returns the cell immediately after the opcode at opcodeAddr,
// advancing the per-step parameter cursor. Parameters live in consecutive
// cells following the opcode cell.
func (p *Processor) nextParam(opcodeAddr uint32) uint32 {
	p.paramIndex++
	return p.Mem.Read(opcodeAddr + p.paramIndex)
}

// addSigned adds a two's-complement signed offset to an unsigned address,
// wrapping modulo 2^32. Converting the int32 bit pattern to uint32 and
// letting unsigned addition wrap is exactly two's-complement arithmetic, so
// no explicit modulo is needed.
func addSigned(addr uint32, off int32) uint32 {
	return addr + uint32(off)
}

func (p *Processor) halt(err error) {
	p.Status = StatusHalted
	p.LastErr = err
	p.holdIP = true
}

// Step executes exactly one instruction: fetch the opcode at IP, dispatch,
// and advance IP by 1+paramIndex unless the opcode itself took over IP
// (JUMP/JUMP_IF) or a terminal condition left it pointing at the offending
// opcode (UnknownOpcode, MemoryFault).
func (p *Processor) Step() {
	opcodeAddr := p.IP
	p.paramIndex = 0
	p.holdIP = false

	op := p.Mem.Read(opcodeAddr)

	switch op {
	case OpNOP:
		// nothing

	case OpLoadAbs:
		addr := p.nextParam(opcodeAddr)
		p.Bus = p.Mem.Read(addr)

	case OpStoreAbs:
		addr := p.nextParam(opcodeAddr)
		if err := p.Mem.Write(addr, p.Bus); err != nil {
			p.halt(err)
		}

	case OpLoadRel:
		off := int32(p.nextParam(opcodeAddr))
		p.Bus = p.Mem.Read(addSigned(opcodeAddr, off))

	case OpStoreRel:
		off := int32(p.nextParam(opcodeAddr))
		if err := p.Mem.Write(addSigned(opcodeAddr, off), p.Bus); err != nil {
			p.halt(err)
		}

	case OpLoadOffK:
		base := p.nextParam(opcodeAddr)
		k := p.nextParam(opcodeAddr)
		p.Bus = p.Mem.Read(base + k)

	case OpStoreOffK:
		base := p.nextParam(opcodeAddr)
		k := p.nextParam(opcodeAddr)
		if err := p.Mem.Write(base+k, p.Bus); err != nil {
			p.halt(err)
		}

	case OpLoadRelBus:
		off := int32(p.Bus)
		p.Bus = p.Mem.Read(addSigned(opcodeAddr, off))

	case OpALUAdd:
		p.ALU.Push(p.Bus)
		p.ALU.Add()

	case OpALUMul:
		p.ALU.Push(p.Bus)
		p.ALU.Multiply()

	case OpALUDiv:
		p.ALU.Push(p.Bus)
		if err := p.ALU.Divide(); err != nil {
			p.halt(err)
		}

	case OpJump:
		p.IP = p.Bus
		p.holdIP = true

	case OpJumpIf:
		tgt := p.nextParam(opcodeAddr)
		if p.ALU.CompareFlag {
			p.IP = tgt
			p.holdIP = true
		}

	case OpLinkIf:
		if p.ALU.CompareFlag {
			p.Bus = opcodeAddr
		}

	case OpGetHi:
		p.Bus = p.ALU.Hi

	case OpGetLo:
		p.Bus = p.ALU.Lo

	case OpALUInt:
		p.ALU.SetMode(ModeInt, true)

	case OpALUFloat:
		p.ALU.SetMode(ModeFloat, true)

	case OpNewPage:
		// Bus is deliberately left unchanged: NEW_PAGE never exposes the new
		// page's base address.
		p.Mem.AppendPage()

	case OpSyscall:
		code := p.nextParam(opcodeAddr)
		if p.Syscall != nil {
			p.Bus = uint32(p.Syscall.Syscall(int32(code), int32(p.Bus)))
		} else {
			p.Bus = 0
		}

	case OpHalt:
		p.Status = StatusHalted

	case OpPause:
		p.Status = StatusPaused

	case OpLoadImm:
		p.Bus = p.nextParam(opcodeAddr)

	case OpPushALU:
		p.ALU.Push(p.Bus)

	case OpLoadOffV:
		base := p.nextParam(opcodeAddr)
		offPtr := p.nextParam(opcodeAddr)
		off := p.Mem.Read(offPtr)
		p.Bus = p.Mem.Read(base + off)

	case OpStoreOffV:
		base := p.nextParam(opcodeAddr)
		offPtr := p.nextParam(opcodeAddr)
		off := p.Mem.Read(offPtr)
		if err := p.Mem.Write(base+off, p.Bus); err != nil {
			p.halt(err)
		}

	case OpGetIP:
		p.Bus = opcodeAddr

	case OpALUCmp:
		mode := p.nextParam(opcodeAddr)
		if mode <= uint32(CompareLE) {
			p.ALU.Compare(CompareMode(mode))
		}

	case OpALUOr:
		p.ALU.Push(p.Bus)
		p.ALU.BitwiseOr()

	case OpALUAnd:
		p.ALU.Push(p.Bus)
		p.ALU.BitwiseAnd()

	case OpALUShl:
		p.ALU.Push(p.Bus)
		p.ALU.ShiftLeft()

	case OpALUShr:
		p.ALU.Push(p.Bus)
		p.ALU.ShiftRight()

	default:
		p.halt(fmt.Errorf("%w: opcode %d at address %d", ErrUnknownOpcode, op, opcodeAddr))
	}

	if !p.holdIP {
		p.IP = opcodeAddr + p.paramIndex + 1
	}
}

// Initialize writes cells into page 0 starting at address 0, allocating
// that page first, and resets IP/status to the power-on values. It does not
// itself enforce the Empty-only precondition — that belongs to
// debug.Program, which owns the overall lifecycle.
func (p *Processor) Initialize(cells []uint32) {
	p.Mem = AddressSpace{}
	p.Mem.AppendPage()
	for i, c := range cells {
		// Safe: a freshly appended page always covers at least
		// PageSize cells, and callers are expected to pass an initial
		// image that fits in one page.
		_ = p.Mem.Write(uint32(i), c)
	}
	p.IP = 1
	p.Bus = 0
	p.ALU = NewALU()
	p.LastErr = nil
	p.Status = StatusNotStarted
}
