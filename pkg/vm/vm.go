package vm

import (
	"io"
	"os"

	"framevm/pkg/bytecode"
)

// Default capacities for the fixed storage allocated at construction.
const (
	DefaultFrameStackDepth  = 64
	DefaultOperandStackSize = 32
	DefaultLocalSlots       = 16
)

// VM executes a flat bytecode stream over a fixed-capacity frame arena.
// All storage is allocated by New; execution itself never allocates.
type VM struct {
	code  []int64 // read-only instruction stream
	start int     // initial pc
	pc    int     // next position to fetch

	frames []Frame // pre-allocated arena; frames[0..fp] are live
	fp     int     // index of the topmost active frame, -1 = none

	out io.Writer // sink for PRINT

	maxSteps int // 0 = unlimited
	steps    int // steps executed since boot

	frameDepth  int
	operandSize int
	localSlots  int
}

type Option func(*VM)

// WithWriter sets the output sink for PRINT.
func WithWriter(w io.Writer) Option {
	return func(v *VM) { v.out = w }
}

// WithMaxSteps caps execution at n steps before Step returns ErrMaxStepsExceeded.
func WithMaxSteps(n int) Option {
	return func(v *VM) { v.maxSteps = n }
}

// WithFrameStackDepth sets how many nested calls the frame arena holds.
func WithFrameStackDepth(n int) Option {
	return func(v *VM) { v.frameDepth = n }
}

// WithOperandStackSize sets each frame's operand stack capacity.
func WithOperandStackSize(n int) Option {
	return func(v *VM) { v.operandSize = n }
}

// WithLocalSlots sets each frame's local slot count.
func WithLocalSlots(n int) Option {
	return func(v *VM) { v.localSlots = n }
}

// New builds a VM over prog. The code stream is copied; the frame arena
// and every frame's operand stack and local slots are allocated up front.
func New(prog bytecode.Program, opts ...Option) *VM {
	v := &VM{
		code:        append([]int64(nil), prog.Code...),
		start:       prog.Start,
		pc:          prog.Start,
		fp:          -1,
		frameDepth:  DefaultFrameStackDepth,
		operandSize: DefaultOperandStackSize,
		localSlots:  DefaultLocalSlots,
	}

	for _, o := range opts {
		o(v)
	}

	if v.out == nil {
		v.out = os.Stdout
	}

	v.frames = make([]Frame, v.frameDepth)
	for i := range v.frames {
		v.frames[i].operands = make([]int64, v.operandSize)
		v.frames[i].locals = make([]int64, v.localSlots)
		v.frames[i].sp = -1
	}

	return v
}

// Boot pushes the outermost frame and positions the program counter at the
// program start. The embedding caller runs it once before Step or Run.
func (v *VM) Boot() error {
	if _, f := v.pushFrame(v.start); f != nil {
		return f
	}

	v.pc = v.start
	return nil
}

// Reset returns the VM to its pre-boot state so the same program can be
// executed again from scratch.
func (v *VM) Reset() {
	v.pc = v.start
	v.fp = -1
	v.steps = 0
}

// Step executes a single instruction, returning (halted, error).
func (v *VM) Step() (bool, error) {
	if v.maxSteps > 0 && v.steps >= v.maxSteps {
		return false, ErrMaxStepsExceeded
	}

	halted, err := coreStep(v)
	v.steps++

	return halted, err
}

// Run executes until halt or error.
func (v *VM) Run() error {
	for {
		halted, err := v.Step()
		if err != nil {
			return err
		}

		if halted {
			return nil
		}
	}
}

// PC returns the current program counter.
func (v *VM) PC() int {
	return v.pc
}

// Steps returns the number of steps executed since the last boot or reset.
func (v *VM) Steps() int {
	return v.steps
}

// FrameDepth returns the number of live frames on the frame stack.
func (v *VM) FrameDepth() int {
	return v.fp + 1
}

// OperandDepth returns the operand stack depth of the active frame,
// or 0 when no frame is live.
func (v *VM) OperandDepth() int {
	if f := v.currentFrame(); f != nil {
		return f.depth()
	}

	return 0
}

// Output returns the writer PRINT goes to.
func (v *VM) Output() io.Writer {
	return v.out
}

// currentFrame returns the active frame, or nil if none.
func (v *VM) currentFrame() *Frame {
	if v.fp < 0 {
		return nil
	}

	return &v.frames[v.fp]
}

// frame is currentFrame with the empty case surfaced as a fault at
// instruction position at.
func (v *VM) frame(at int) (*Frame, *Fault) {
	if v.fp < 0 {
		return nil, &Fault{Kind: FaultFrameStackUnderflow, PC: at}
	}

	return &v.frames[v.fp], nil
}

// pushFrame claims and initializes the next arena slot. O(1), no allocation.
func (v *VM) pushFrame(at int) (*Frame, *Fault) {
	if v.fp+1 >= len(v.frames) {
		return nil, &Fault{Kind: FaultFrameStackOverflow, PC: at}
	}

	v.fp++
	f := &v.frames[v.fp]
	f.reset()

	return f, nil
}

// popFrame retires the top frame, restoring pc to its return address.
func (v *VM) popFrame(at int) *Fault {
	if v.fp < 0 {
		return &Fault{Kind: FaultFrameStackUnderflow, PC: at}
	}

	v.pc = v.frames[v.fp].returnAddr
	v.fp--

	return nil
}

// fetch reads one value at pc and advances past it.
func (v *VM) fetch() (int64, *Fault) {
	if v.pc < 0 || v.pc >= len(v.code) {
		return 0, &Fault{Kind: FaultPCOutOfBounds, PC: v.pc}
	}

	val := v.code[v.pc]
	v.pc++

	return val, nil
}
