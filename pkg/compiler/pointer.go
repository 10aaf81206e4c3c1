package compiler

import (
	"fmt"
	"strings"
)

// indirect emits instruction against the cell whose address is stored in
// arg's variable. The machine only has direct addressing, so the bundle
// builds the instruction word at run time and writes it into a placeholder
// two cells after the computed store:
//
//	STORE $tmp          spill the accumulator
//	LOAD  ptr           address held by the pointer
//	ADD   $inst_<name>  opcode in the high nibble
//	STORE <slot>        overwrite the placeholder
//	LOAD  $tmp          restore the accumulator
//	NULL                slot, replaced before it executes
func (t *Translator) indirect(arg operand, instruction string) {
	constant := opcodeConstant(instruction)
	t.syms.Implicit(constant, opcodeWord(instruction))

	t.emitVar("store", scratchVar)
	t.emitVar("load", arg.name)
	t.emitVar("add", constant)
	t.emitLiteral("store", fmt.Sprintf("%0*x", addressWidth, len(t.instructions)+2))
	t.emitVar("load", scratchVar)
	t.push(Instruction{Opcode: "00", Mnemonic: "NULL", Operand: "00", Kind: Literal})
}

func opcodeConstant(instruction string) string {
	return "$inst_" + instruction
}

// opcodeWord returns the opcode of instruction right-padded to a full word,
// so adding an address to it yields the encoded instruction.
func opcodeWord(instruction string) string {
	code := instructionSet[instruction].Code
	return strings.ToLower(code) + strings.Repeat("0", wordWidth-len(code))
}
