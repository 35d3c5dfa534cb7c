package vm

import (
	"errors"
	"fmt"
)

// FaultKind classifies the terminal conditions the machine can hit.
type FaultKind int

const (
	FaultNone FaultKind = iota
	FaultPCOutOfBounds
	FaultFrameStackOverflow
	FaultFrameStackUnderflow
	FaultOperandStackOverflow
	FaultOperandStackUnderflow
	FaultInvalidSlotIndex
	FaultUnknownOpcode
)

var faultNames = map[FaultKind]string{
	FaultPCOutOfBounds:         "program counter out of bounds",
	FaultFrameStackOverflow:    "frame stack overflow",
	FaultFrameStackUnderflow:   "frame stack underflow",
	FaultOperandStackOverflow:  "operand stack overflow",
	FaultOperandStackUnderflow: "operand stack underflow",
	FaultInvalidSlotIndex:      "invalid slot index",
	FaultUnknownOpcode:         "unknown opcode",
}

// String names the fault kind.
func (k FaultKind) String() string {
	if s, ok := faultNames[k]; ok {
		return s
	}

	return "unknown fault"
}

// Fault is a terminal execution failure. No fault is recoverable: once a
// step returns one, the machine must be Reset and re-booted before any
// further execution.
type Fault struct {
	Kind FaultKind
	PC   int // position of the faulting instruction
}

// Error implements the error interface.
func (f *Fault) Error() string {
	return fmt.Sprintf("%s at pc=%d", f.Kind, f.PC)
}

// ErrMaxStepsExceeded is returned by Step when the configured step budget
// runs out. It is a host-side guard, not a machine fault.
var ErrMaxStepsExceeded = errors.New("maximum steps exceeded")
