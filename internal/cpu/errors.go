package cpu

import (
	"errors"
	"fmt"
)

// ErrUnknownOpcode is matched by every UnknownOpcodeError.
var ErrUnknownOpcode = errors.New("unknown opcode")

// UnknownOpcodeError reports an opcode key with no handler. Opcode carries the
// prefix bytes in its high bytes (0xED77, 0xDDCB06...). Execution cannot
// continue; the caller has to reset the CPU.
type UnknownOpcodeError struct {
	Opcode uint32
	PC     uint16
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode %04X at %04X", e.Opcode, e.PC)
}

func (e *UnknownOpcodeError) Is(target error) bool { return target == ErrUnknownOpcode }
