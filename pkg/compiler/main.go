// Package compiler provides the DeCompLanguage lexer and translator that
// target the DeComp single-accumulator, direct-addressed machine.
//
// Pipeline: source text → Lex → Translate → resolved []Instruction
//
// The translator lowers pointer operands (&name) into self-modifying code,
// lowers if/while condition chains into conditional jumps, appends variable
// storage after the program and resolves every symbolic operand to a
// 3-digit hexadecimal address.
package compiler
