package vm

import (
	"fmt"

	"framevm/pkg/bytecode"
)

// coreStep is the fetch-decode-execute cycle for a single instruction.
// It returns (halted, error); any *Fault is terminal.
func coreStep(v *VM) (bool, error) {
	at := v.pc

	word, flt := v.fetch()
	if flt != nil {
		return false, flt
	}

	op := bytecode.Opcode(word)

	switch op {
	case bytecode.HALT:
		return true, nil

	case bytecode.SET:
		imm, flt := v.fetch()
		if flt != nil {
			return false, flt
		}

		fr, flt := v.frame(at)
		if flt != nil {
			return false, flt
		}

		if k := fr.push(imm); k != FaultNone {
			return false, &Fault{Kind: k, PC: at}
		}
		return false, nil

	case bytecode.ADD, bytecode.SUB, bytecode.MUL, bytecode.EQ, bytecode.LT:
		fr, flt := v.frame(at)
		if flt != nil {
			return false, flt
		}

		b, k := fr.pop()
		if k != FaultNone {
			return false, &Fault{Kind: k, PC: at}
		}
		a, k := fr.pop()
		if k != FaultNone {
			return false, &Fault{Kind: k, PC: at}
		}

		var res int64
		switch op {
		case bytecode.ADD:
			res = a + b
		case bytecode.SUB:
			res = a - b
		case bytecode.MUL:
			res = a * b
		case bytecode.EQ:
			if a == b {
				res = 1
			}
		case bytecode.LT:
			if a < b {
				res = 1
			}
		}

		if k := fr.push(res); k != FaultNone {
			return false, &Fault{Kind: k, PC: at}
		}
		return false, nil

	case bytecode.LD:
		idx, flt := v.fetch()
		if flt != nil {
			return false, flt
		}

		fr, flt := v.frame(at)
		if flt != nil {
			return false, flt
		}

		val, k := fr.load(int(idx))
		if k != FaultNone {
			return false, &Fault{Kind: k, PC: at}
		}

		if k := fr.push(val); k != FaultNone {
			return false, &Fault{Kind: k, PC: at}
		}
		return false, nil

	case bytecode.ST:
		idx, flt := v.fetch()
		if flt != nil {
			return false, flt
		}

		fr, flt := v.frame(at)
		if flt != nil {
			return false, flt
		}

		val, k := fr.pop()
		if k != FaultNone {
			return false, &Fault{Kind: k, PC: at}
		}

		if k := fr.store(int(idx), val); k != FaultNone {
			return false, &Fault{Kind: k, PC: at}
		}
		return false, nil

	case bytecode.JMP:
		addr, flt := v.fetch()
		if flt != nil {
			return false, flt
		}

		v.pc = int(addr)
		return false, nil

	case bytecode.JZ:
		addr, flt := v.fetch()
		if flt != nil {
			return false, flt
		}

		fr, flt := v.frame(at)
		if flt != nil {
			return false, flt
		}

		cond, k := fr.pop()
		if k != FaultNone {
			return false, &Fault{Kind: k, PC: at}
		}

		if cond == 0 {
			v.pc = int(addr)
		}
		return false, nil

	case bytecode.CALL:
		argc64, flt := v.fetch()
		if flt != nil {
			return false, flt
		}
		addr, flt := v.fetch()
		if flt != nil {
			return false, flt
		}

		caller, flt := v.frame(at)
		if flt != nil {
			return false, flt
		}

		argc := int(argc64)
		if argc < 0 || argc > v.localSlots {
			return false, &Fault{Kind: FaultInvalidSlotIndex, PC: at}
		}

		callee, flt := v.pushFrame(at)
		if flt != nil {
			return false, flt
		}

		// resume the caller at the instruction after CALL's operands
		callee.returnAddr = v.pc

		// the caller's stack top lands in locals[0], the value beneath it
		// in locals[1], and so on
		for i := 0; i < argc; i++ {
			val, k := caller.pop()
			if k != FaultNone {
				return false, &Fault{Kind: k, PC: at}
			}
			callee.locals[i] = val
		}

		v.pc = int(addr)
		return false, nil

	case bytecode.RET:
		fr, flt := v.frame(at)
		if flt != nil {
			return false, flt
		}

		if v.fp == 0 {
			// retiring the outermost frame ends the run
			v.popFrame(at)
			return true, nil
		}

		val, k := fr.pop()
		if k != FaultNone {
			return false, &Fault{Kind: k, PC: at}
		}
		v.frames[v.fp-1].returnValue = val

		if flt := v.popFrame(at); flt != nil {
			return false, flt
		}
		return false, nil

	case bytecode.CRET:
		fr, flt := v.frame(at)
		if flt != nil {
			return false, flt
		}

		if k := fr.push(fr.returnValue); k != FaultNone {
			return false, &Fault{Kind: k, PC: at}
		}
		return false, nil

	case bytecode.PRINT:
		fr, flt := v.frame(at)
		if flt != nil {
			return false, flt
		}

		val, k := fr.pop()
		if k != FaultNone {
			return false, &Fault{Kind: k, PC: at}
		}

		fmt.Fprintf(v.out, "%d\n", val)
		return false, nil

	default:
		return false, &Fault{Kind: FaultUnknownOpcode, PC: at}
	}
}
