package loader_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"framevm/pkg/bytecode"
	"framevm/pkg/loader"
	"framevm/pkg/vm"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input       string
		start       int
		code        []int64
		description string
	}{
		{"0,1,5,0", 0, []int64{1, 5, 0}, "single line"},
		{"2,14,0,1,5", 2, []int64{14, 0, 1, 5}, "nonzero start pc"},
		{" 0 , 1 , 5 , 0 ", 0, []int64{1, 5, 0}, "spaces around values"},
		{"0,\n1,5,\n0\n", 0, []int64{1, 5, 0}, "newlines between values"},
		{"0,1,5,0,", 0, []int64{1, 5, 0}, "trailing comma"},
		{"0,-3,0", 0, []int64{-3, 0}, "negative value"},
	}

	for _, test := range tests {
		prog, err := loader.Parse(test.input)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.description, err)
			continue
		}

		if prog.Start != test.start {
			t.Errorf("%s: expected start %d, got %d", test.description, test.start, prog.Start)
		}

		if len(prog.Code) != len(test.code) {
			t.Errorf("%s: expected %d code values, got %d", test.description, len(test.code), len(prog.Code))
			continue
		}

		for i, v := range test.code {
			if prog.Code[i] != v {
				t.Errorf("%s: code[%d]: expected %d, got %d", test.description, i, v, prog.Code[i])
			}
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input       string
		description string
	}{
		{"", "empty input"},
		{"0", "start pc only"},
		{"0,abc,1", "non-integer value"},
		{"0,,1", "empty middle field"},
		{"5,1,5,0", "start pc beyond code"},
		{"-1,1,5,0", "negative start pc"},
	}

	for _, test := range tests {
		if _, err := loader.Parse(test.input); err == nil {
			t.Errorf("%s: expected error, got none", test.description)
		}
	}
}

func TestLoadFileAndRun(t *testing.T) {
	prog, err := loader.LoadFile(filepath.Join("testdata", "factorial.fvm"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if prog.Start != 0 {
		t.Errorf("expected start pc 0, got %d", prog.Start)
	}

	if len(prog.Code) != 31 {
		t.Errorf("expected 31 code values, got %d", len(prog.Code))
	}

	if bytecode.Opcode(prog.Code[0]) != bytecode.SET {
		t.Errorf("expected program to open with SET, got %s", bytecode.Opcode(prog.Code[0]))
	}

	var out bytes.Buffer
	machine := vm.New(prog, vm.WithWriter(&out))
	if err := machine.Boot(); err != nil {
		t.Fatalf("Boot: %v", err)
	}

	if err := machine.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := out.String(); got != "120\n" {
		t.Errorf("expected output %q, got %q", "120\n", got)
	}
}
