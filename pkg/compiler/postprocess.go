package compiler

import "fmt"

// postProcess appends one storage cell per variable, resolves every
// symbolic operand to an address and pads opcode and operand fields.
func (t *Translator) postProcess() error {
	if _, ok := t.syms.Lookup(scratchVar); !ok {
		t.syms.Implicit(scratchVar, "00")
	}

	t.line = 0
	for i, v := range t.syms.variables {
		t.syms.place(i, len(t.instructions))
		t.push(Instruction{Mnemonic: v.Name, Operand: v.Value, Kind: Literal, Data: true})
	}

	if len(t.instructions) > MemorySize {
		return t.fail(Token{}, "program needs %d cells, the machine has %d", len(t.instructions), MemorySize)
	}

	for i := range t.instructions {
		in := &t.instructions[i]
		switch in.Kind {
		case VariableRef:
			v, ok := t.syms.Lookup(in.Ref)
			if !ok {
				return t.fail(Token{Lexeme: in.Ref, Line: in.Line}, "undefined variable %q", in.Ref)
			}
			in.Operand = fmt.Sprintf("%0*x", addressWidth, v.Address)
		case LabelRef:
			l, ok := t.syms.LookupLabel(in.Ref)
			if !ok {
				return t.fail(Token{Lexeme: in.Ref, Line: in.Line}, "undefined label %q", in.Ref)
			}
			in.Operand = fmt.Sprintf("%0*x", addressWidth, l.Address)
		}

		in.Opcode = padHex(in.Opcode, fieldWidth)
		in.Operand = padHex(in.Operand, fieldWidth)
	}
	return nil
}
