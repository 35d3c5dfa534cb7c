package vm

// Frame is one activation record: the operand stack, local slots, and
// return bookkeeping owned by a single active call. Storage is allocated
// once when the VM is built; frames are recycled by index, never freed.
type Frame struct {
	operands    []int64 // operand stack, bounded
	sp          int     // top-of-stack index, -1 = empty
	locals      []int64 // argument/local slots, bounded
	returnAddr  int     // pc to resume in the caller
	returnValue int64   // value deposited by a callee's RET
}

// reset prepares a recycled arena slot for a fresh call.
func (f *Frame) reset() {
	f.sp = -1
	f.returnAddr = 0
	f.returnValue = 0
	for i := range f.locals {
		f.locals[i] = 0
	}
}

// push places v on the operand stack.
func (f *Frame) push(v int64) FaultKind {
	if f.sp+1 >= len(f.operands) {
		return FaultOperandStackOverflow
	}

	f.sp++
	f.operands[f.sp] = v
	return FaultNone
}

// pop removes and returns the top of the operand stack.
func (f *Frame) pop() (int64, FaultKind) {
	if f.sp < 0 {
		return 0, FaultOperandStackUnderflow
	}

	v := f.operands[f.sp]
	f.sp--
	return v, FaultNone
}

// load reads local slot idx.
func (f *Frame) load(idx int) (int64, FaultKind) {
	if idx < 0 || idx >= len(f.locals) {
		return 0, FaultInvalidSlotIndex
	}

	return f.locals[idx], FaultNone
}

// store writes local slot idx.
func (f *Frame) store(idx int, v int64) FaultKind {
	if idx < 0 || idx >= len(f.locals) {
		return FaultInvalidSlotIndex
	}

	f.locals[idx] = v
	return FaultNone
}

// depth returns the number of values on the operand stack.
func (f *Frame) depth() int {
	return f.sp + 1
}
