package runner

import (
	"fmt"
	"time"

	"framevm/pkg/bytecode"
	"framevm/pkg/color"
	"framevm/pkg/loader"
	"framevm/pkg/vm"

	"github.com/charmbracelet/log"
)

// Runner drives one program from file to finished VM.
type Runner struct {
	Help       bool   // Show help message
	Verbose    bool   // Enable verbose output
	NoColor    bool   // Disable colored output
	ListOnly   bool   // Decode and list the program without running it
	MaxSteps   int    // Step budget, 0 = unlimited
	FrameDepth int    // Frame stack depth, 0 = VM default
	StackSize  int    // Operand stack size per frame, 0 = VM default
	LocalSlots int    // Local slots per frame, 0 = VM default
	SourceFile string // Path to the program file
}

// Run loads the program, optionally lists it, then boots a VM and executes
// it to completion, reporting the elapsed time and any fault.
func (r *Runner) Run() error {
	log.Info("Loading program", "file", r.SourceFile)

	prog, err := loader.LoadFile(r.SourceFile)
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	if r.Verbose || r.ListOnly {
		r.list(prog)
		if r.ListOnly {
			return nil
		}
	}

	var opts []vm.Option
	if r.MaxSteps > 0 {
		opts = append(opts, vm.WithMaxSteps(r.MaxSteps))
	}
	if r.FrameDepth > 0 {
		opts = append(opts, vm.WithFrameStackDepth(r.FrameDepth))
	}
	if r.StackSize > 0 {
		opts = append(opts, vm.WithOperandStackSize(r.StackSize))
	}
	if r.LocalSlots > 0 {
		opts = append(opts, vm.WithLocalSlots(r.LocalSlots))
	}

	machine := vm.New(prog, opts...)
	if err := machine.Boot(); err != nil {
		return fmt.Errorf("boot failed: %w", err)
	}

	fmt.Println(color.GreenText("=== Program Output ==="))

	started := time.Now()
	err = machine.Run()
	elapsed := time.Since(started)

	if err != nil {
		return fmt.Errorf("execution failed after %d steps: %w", machine.Steps(), err)
	}

	log.Info("Execution finished", "steps", machine.Steps(), "elapsed", elapsed)
	return nil
}

// list prints a decoded one-instruction-per-line view of the program.
// Unknown opcodes and truncated operand tails are shown as raw values so
// corrupt programs can still be inspected.
func (r *Runner) list(prog bytecode.Program) {
	fmt.Println(color.GreenText("\n=== Program Listing ==="))
	fmt.Printf("%s %s\n", color.GrayText("start pc:"), color.CyanText(fmt.Sprintf("%d", prog.Start)))

	for pc := 0; pc < len(prog.Code); {
		op := bytecode.Opcode(prog.Code[pc])
		if !op.IsValid() {
			fmt.Printf("%s: %s\n",
				color.CyanText(fmt.Sprintf("%4d", pc)),
				color.RedText(fmt.Sprintf("%d", prog.Code[pc])))
			pc++
			continue
		}

		end := pc + 1 + bytecode.Arity(op)
		if end > len(prog.Code) {
			end = len(prog.Code)
		}

		operands := ""
		for _, val := range prog.Code[pc+1 : end] {
			operands += " " + color.BlueText(fmt.Sprintf("%d", val))
		}

		fmt.Printf("%s: %s%s\n",
			color.CyanText(fmt.Sprintf("%4d", pc)),
			color.YellowText(op.String()),
			operands)

		pc = end
	}
}
