package vm_test

import (
	"errors"
	"testing"

	"framevm/pkg/bytecode"
	"framevm/pkg/vm"
)

// factorialCode computes 5! recursively and prints it. The callee keeps n
// in locals[0]; each level calls itself with n-1 and multiplies the
// returned value by its own n.
var factorialCode = []int64{
	oSET, 5, // 0: argument
	oCALL, 1, 8, // 2: factorial(5)
	oCRET,  // 5: fetch the returned value
	oPRINT, // 6
	oHALT,  // 7
	// factorial:
	oLD, 0, // 8: n
	oSET, 1, // 10
	oEQ,     // 12: n == 1 ?
	oJZ, 18, // 13: no -> recurse
	oSET, 1, // 15: base case
	oRET, // 17
	oLD, 0, // 18: n
	oSET, 1, // 20
	oSUB,         // 22: n-1
	oCALL, 1, 8, // 23: factorial(n-1)
	oCRET,  // 26
	oLD, 0, // 27: n
	oMUL, // 29
	oRET, // 30
}

func TestFactorial(t *testing.T) {
	got, err := runCode(t, factorialCode)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got != "120\n" {
		t.Errorf("expected %q, got %q", "120\n", got)
	}
}

func TestCallReturnSymmetry(t *testing.T) {
	code := []int64{
		oCALL, 0, 6, // 0: resume at 3 after the callee returns
		oCRET,  // 3
		oPRINT, // 4
		oHALT,  // 5
		oSET, 7, // 6: callee
		oRET, // 8
	}

	machine, out := newVM(t, code)
	if err := machine.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := out.String(); got != "7\n" {
		t.Errorf("expected %q, got %q", "7\n", got)
	}

	if depth := machine.FrameDepth(); depth != 1 {
		t.Errorf("expected only the bootstrap frame after return, depth %d", depth)
	}
}

func TestCallArgumentOrder(t *testing.T) {
	// arguments pushed 1 then 2: the last-pushed value lands in locals[0]
	code := []int64{
		oSET, 1, // 0
		oSET, 2, // 2
		oCALL, 2, 8, // 4
		oHALT,  // 7
		oLD, 0, // 8: callee
		oPRINT, // 10
		oLD, 1, // 11
		oPRINT,  // 13
		oSET, 0, // 14
		oRET, // 16
	}

	got, err := runCode(t, code)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got != "2\n1\n" {
		t.Errorf("expected %q, got %q", "2\n1\n", got)
	}
}

func TestOutermostReturnHalts(t *testing.T) {
	code := []int64{
		oSET, 5,
		oPRINT,
		oRET,
	}

	got, err := runCode(t, code)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got != "5\n" {
		t.Errorf("expected %q, got %q", "5\n", got)
	}
}

func TestFrameStackOverflow(t *testing.T) {
	code := []int64{oCALL, 0, 0} // calls itself forever

	got, err := runCode(t, code, vm.WithFrameStackDepth(8))

	var fault *vm.Fault
	if !errors.As(err, &fault) {
		t.Fatalf("expected a fault, got %v", err)
	}

	if fault.Kind != vm.FaultFrameStackOverflow {
		t.Errorf("expected frame stack overflow, got %v", fault.Kind)
	}

	if got != "" {
		t.Errorf("expected no output, got %q", got)
	}
}

func TestReturnWithoutFrame(t *testing.T) {
	// no Boot: the frame stack is empty when RET decodes
	machine := vm.New(bytecode.Program{Start: 0, Code: []int64{oRET}})

	err := machine.Run()

	var fault *vm.Fault
	if !errors.As(err, &fault) {
		t.Fatalf("expected a fault, got %v", err)
	}

	if fault.Kind != vm.FaultFrameStackUnderflow {
		t.Errorf("expected frame stack underflow, got %v", fault.Kind)
	}

	if fault.PC != 0 {
		t.Errorf("expected fault at pc 0, got %d", fault.PC)
	}
}

func TestCallArgcBeyondLocalSlots(t *testing.T) {
	code := []int64{
		oSET, 1,
		oSET, 2,
		oSET, 3,
		oCALL, 3, 12,
	}

	_, err := runCode(t, code, vm.WithLocalSlots(2))

	var fault *vm.Fault
	if !errors.As(err, &fault) {
		t.Fatalf("expected a fault, got %v", err)
	}

	if fault.Kind != vm.FaultInvalidSlotIndex {
		t.Errorf("expected invalid slot index, got %v", fault.Kind)
	}

	if fault.PC != 6 {
		t.Errorf("expected fault at pc 6, got %d", fault.PC)
	}
}
