package compiler

import "strings"

// OperandKind tells how an instruction's operand was produced.
type OperandKind int

const (
	Literal     OperandKind = iota // operand is final hex text
	VariableRef                    // operand names a variable until resolved
	LabelRef                       // operand names a label until resolved
)

func (k OperandKind) String() string {
	switch k {
	case Literal:
		return "literal"
	case VariableRef:
		return "variable"
	case LabelRef:
		return "label"
	}
	return "unknown"
}

// Instruction is one cell of the emitted program.
//
// After Translate returns, Opcode and Operand are hex text at least two
// digits wide; Ref keeps the symbol a VariableRef or LabelRef operand named.
// Storage cells (Data) carry the variable name as Mnemonic and its value as
// Operand with an empty opcode.
type Instruction struct {
	Opcode   string
	Mnemonic string
	Operand  string
	Kind     OperandKind
	Ref      string
	Data     bool
	Line     int // source line that produced it; 0 for generated cells
}

// Word returns the opcode and operand concatenated as hex digits.
func (in Instruction) Word() string {
	return in.Opcode + in.Operand
}

func padHex(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
