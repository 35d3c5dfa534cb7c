package bytecode

// Program is a flat code stream plus the pc execution starts at.
// Opcodes and their inline operands are stored contiguously.
type Program struct {
	Start int     // initial program counter
	Code  []int64 // opcodes interleaved with operands
}
