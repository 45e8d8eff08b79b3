package vm

import "errors"

// The following sentinel errors distinguish the terminal conditions a step
// can hit. ErrUnknownOpcode and ErrMemoryFault are wrapped with %w so
// callers can match via errors.Is while still getting an address/opcode in
// the message; ErrDivideByZero is returned unwrapped.
var (
	// ErrUnknownOpcode indicates a decoded opcode outside the defined set.
	ErrUnknownOpcode = errors.New("vm: unknown opcode")

	// ErrMemoryFault indicates a write to a page that was never allocated.
	ErrMemoryFault = errors.New("vm: memory fault")

	// ErrDivideByZero indicates ALU_DIV with a zero divisor.
	ErrDivideByZero = errors.New("vm: divide by zero")

	// ErrIntegerOverflow indicates ALU_MUL overflowed the 64-bit
	// accumulator used to hold the double-width int product.
	ErrIntegerOverflow = errors.New("vm: integer overflow")
)
