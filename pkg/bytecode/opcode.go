package bytecode

import "fmt"

// Opcode identifies one VM instruction.
type Opcode int64

const (
	HALT  Opcode = iota // stop execution
	SET                 // push immediate operand
	ADD                 // pop b, pop a, push a+b
	SUB                 // pop b, pop a, push a-b
	MUL                 // pop b, pop a, push a*b
	EQ                  // pop b, pop a, push 1 if a==b else 0
	LT                  // pop b, pop a, push 1 if a<b else 0
	LD                  // push local slot (operand = slot index)
	ST                  // pop into local slot (operand = slot index)
	JMP                 // jump to operand address
	JZ                  // pop, jump to operand address if zero
	CALL                // operands {argc, target}: push frame, marshal args, jump
	RET                 // pop return value to caller, retire frame
	CRET                // push this frame's received return value
	PRINT               // pop and write one integer to the output sink
)

var names = map[Opcode]string{
	HALT:  "HALT",
	SET:   "SET",
	ADD:   "ADD",
	SUB:   "SUB",
	MUL:   "MUL",
	EQ:    "EQ",
	LT:    "LT",
	LD:    "LD",
	ST:    "ST",
	JMP:   "JMP",
	JZ:    "JZ",
	CALL:  "CALL",
	RET:   "RET",
	CRET:  "CRET",
	PRINT: "PRINT",
}

// arities maps each opcode to its inline operand count; opcodes not listed
// take none.
var arities = map[Opcode]int{
	SET:  1,
	LD:   1,
	ST:   1,
	JMP:  1,
	JZ:   1,
	CALL: 2,
}

// String returns the opcode mnemonic.
func (op Opcode) String() string {
	if s, ok := names[op]; ok {
		return s
	}

	return fmt.Sprintf("OP(%d)", int64(op))
}

// IsValid reports whether op is a known opcode.
func (op Opcode) IsValid() bool {
	_, ok := names[op]
	return ok
}

// Arity returns the number of inline operands op carries.
func Arity(op Opcode) int {
	return arities[op]
}
