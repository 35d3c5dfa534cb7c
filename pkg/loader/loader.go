package loader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"framevm/pkg/bytecode"
)

// Parse decodes the textual program format: comma-separated decimal
// integers, the first being the start pc and the rest the code stream.
// Whitespace and newlines around values are ignored; a single trailing
// comma is tolerated.
func Parse(src string) (bytecode.Program, error) {
	fields := strings.Split(src, ",")

	values := make([]int64, 0, len(fields))
	for i, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			if i == len(fields)-1 {
				continue
			}
			return bytecode.Program{}, fmt.Errorf("empty value at field %d", i+1)
		}

		n, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return bytecode.Program{}, fmt.Errorf("field %d: bad integer %q", i+1, field)
		}

		values = append(values, n)
	}

	if len(values) < 2 {
		return bytecode.Program{}, fmt.Errorf("program needs a start pc and at least one code value, got %d", len(values))
	}

	start := int(values[0])
	code := values[1:]
	if start < 0 || start >= len(code) {
		return bytecode.Program{}, fmt.Errorf("start pc %d outside code of length %d", start, len(code))
	}

	return bytecode.Program{Start: start, Code: code}, nil
}

// LoadFile reads and parses a program file.
func LoadFile(path string) (bytecode.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return bytecode.Program{}, fmt.Errorf("read program: %w", err)
	}

	prog, err := Parse(string(data))
	if err != nil {
		return bytecode.Program{}, fmt.Errorf("%s: %w", path, err)
	}

	return prog, nil
}
