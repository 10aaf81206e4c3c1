// Package asm encodes resolved DeComp instructions into 16-bit machine words
// and renders them as a listing or as a binary-grouped dump.
package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"decomp/pkg/compiler"
)

const (
	// pcBits is the width of a program counter in the dump.
	pcBits = 12
	// wordBits is the width of an encoded instruction.
	wordBits = 16
)

// EncodeInstruction parses the opcode and operand fields of in as one word.
func EncodeInstruction(in compiler.Instruction) (uint16, error) {
	word := in.Word()
	value, err := strconv.ParseUint(word, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid instruction word %q for %s: %v", word, in.Mnemonic, err)
	}
	if value > 1<<wordBits-1 {
		return 0, fmt.Errorf("instruction %s %s does not fit in %d bits: %s", in.Mnemonic, in.Operand, wordBits, word)
	}
	return uint16(value), nil
}

// Encode returns the machine words of a whole program.
func Encode(instructions []compiler.Instruction) ([]uint16, error) {
	if len(instructions) > 1<<pcBits {
		return nil, fmt.Errorf("program too large: %d cells > %d", len(instructions), 1<<pcBits)
	}

	words := make([]uint16, 0, len(instructions))
	for pc, in := range instructions {
		w, err := EncodeInstruction(in)
		if err != nil {
			return nil, fmt.Errorf("cell %03x: %w", pc, err)
		}
		words = append(words, w)
	}
	return words, nil
}

// Listing renders one line per instruction: a hex line number padded to the
// width of the last one, the mnemonic and the operand.
func Listing(instructions []compiler.Instruction) string {
	if len(instructions) == 0 {
		return ""
	}
	width := len(strconv.FormatInt(int64(len(instructions)-1), 16))

	lines := make([]string, 0, len(instructions))
	for pc, in := range instructions {
		lines = append(lines, fmt.Sprintf("%0*x. %s %s", width, pc, in.Mnemonic, in.Operand))
	}
	return strings.Join(lines, "\n")
}

// Dump renders every instruction as its program counter and its word in
// binary, both split into 4-bit groups:
//
//	 0000 0000 0001  0000 0000 0000 0101
func Dump(instructions []compiler.Instruction) (string, error) {
	words, err := Encode(instructions)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for pc, w := range words {
		sb.WriteString(" ")
		sb.WriteString(nibbles(uint64(pc), pcBits))
		sb.WriteString("  ")
		sb.WriteString(nibbles(uint64(w), wordBits))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// nibbles formats the low bits of v in binary, space separated every 4 bits.
func nibbles(v uint64, bits int) string {
	s := fmt.Sprintf("%0*b", bits, v)
	groups := make([]string, 0, bits/4)
	for i := 0; i < len(s); i += 4 {
		groups = append(groups, s[i:i+4])
	}
	return strings.Join(groups, " ")
}

// Table renders the listing with the encoded word of each cell.
func Table(instructions []compiler.Instruction) (string, error) {
	words, err := Encode(instructions)
	if err != nil {
		return "", err
	}

	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Addr", "Mnemonic", "Operand", "Word", "Line"})
	for pc, in := range instructions {
		line := ""
		if in.Line > 0 {
			line = strconv.Itoa(in.Line)
		}
		tw.AppendRow(table.Row{fmt.Sprintf("%03x", pc), in.Mnemonic, in.Operand, fmt.Sprintf("%04x", words[pc]), line})
	}
	return tw.Render(), nil
}
