// Package cpu models the DeComp target: a single-accumulator machine with
// 4096 16-bit cells and direct addressing only. It is used to check the
// behaviour of translated programs.
package cpu

import (
	"errors"
	"fmt"
)

// Addressed opcodes occupy the high nibble; the low 12 bits are an address.
const (
	OpLOAD  uint16 = 0x0
	OpSTORE uint16 = 0x1
	OpADD   uint16 = 0x2
	OpSUB   uint16 = 0x3
	OpAND   uint16 = 0x4
	OpOR    uint16 = 0x5
	OpXOR   uint16 = 0x6
	OpMISC  uint16 = 0x7
	OpJNZ   uint16 = 0x8
	OpJZ    uint16 = 0x9
	OpJNS   uint16 = 0xA
	OpJS    uint16 = 0xB
	OpJNC   uint16 = 0xC
	OpJC    uint16 = 0xD
	OpJMP   uint16 = 0xE
	OpSHIFT uint16 = 0xF
)

// Function codes of OpMISC, held in bits 8-11.
const (
	FnNOT    uint16 = 0x0
	FnINPUT  uint16 = 0x4
	FnOUTPUT uint16 = 0x8
	FnHALT   uint16 = 0xC
)

// Function codes of OpSHIFT, held in bits 8-11.
const (
	FnLSL uint16 = 0x0
	FnLSR uint16 = 0x2
	FnASL uint16 = 0x4
	FnASR uint16 = 0x6
	FnROL uint16 = 0x8
	FnROR uint16 = 0xA
	FnRCL uint16 = 0xC
	FnRCR uint16 = 0xE
)

const MemorySize = 0x1000

// ErrInputExhausted is returned when INPUT executes with an empty input queue.
var ErrInputExhausted = errors.New("input exhausted")

type CPU struct {
	Memory [MemorySize]uint16

	ACC uint16
	PC  uint16

	Z bool // accumulator is zero
	S bool // accumulator bit 15 is set
	C bool // carry / borrow

	Halted bool

	// Input is consumed front to back by INPUT.
	Input []uint16
	// Output collects every value written by OUTPUT.
	Output []uint16

	Steps int
}

func NewCPU() *CPU {
	return &CPU{}
}

// EncodeInstruction builds an addressed instruction word.
func EncodeInstruction(opcode, address uint16) uint16 {
	return opcode<<12 | address&0x0FFF
}

// EncodeFunction builds a word of the OpMISC or OpSHIFT groups.
func EncodeFunction(opcode, fn uint16) uint16 {
	return opcode<<12 | (fn&0xF)<<8
}

// Load copies program into memory starting at address 0 and resets the
// registers.
func (c *CPU) Load(program []uint16) error {
	if len(program) > MemorySize {
		return fmt.Errorf("program too large for memory: %d cells > %d cells", len(program), MemorySize)
	}
	c.Memory = [MemorySize]uint16{}
	copy(c.Memory[:], program)
	c.ACC, c.PC = 0, 0
	c.Z, c.S, c.C = false, false, false
	c.Halted = false
	c.Steps = 0
	return nil
}

func (c *CPU) updateFlags() {
	c.Z = c.ACC == 0
	c.S = c.ACC&0x8000 != 0
}

// Step executes one instruction.
func (c *CPU) Step() error {
	if c.Halted {
		return nil
	}

	word := c.Memory[c.PC&0x0FFF]
	op := word >> 12
	addr := word & 0x0FFF
	fn := (word >> 8) & 0xF
	c.PC = (c.PC + 1) & 0x0FFF
	c.Steps++

	switch op {
	case OpLOAD:
		c.ACC = c.Memory[addr]
		c.updateFlags()
	case OpSTORE:
		c.Memory[addr] = c.ACC
	case OpADD:
		sum := uint32(c.ACC) + uint32(c.Memory[addr])
		c.C = sum > 0xFFFF
		c.ACC = uint16(sum)
		c.updateFlags()
	case OpSUB:
		v := c.Memory[addr]
		c.C = c.ACC < v
		c.ACC -= v
		c.updateFlags()
	case OpAND:
		c.ACC &= c.Memory[addr]
		c.updateFlags()
	case OpOR:
		c.ACC |= c.Memory[addr]
		c.updateFlags()
	case OpXOR:
		c.ACC ^= c.Memory[addr]
		c.updateFlags()
	case OpMISC:
		return c.misc(fn)
	case OpJNZ:
		c.jumpIf(!c.Z, addr)
	case OpJZ:
		c.jumpIf(c.Z, addr)
	case OpJNS:
		c.jumpIf(!c.S, addr)
	case OpJS:
		c.jumpIf(c.S, addr)
	case OpJNC:
		c.jumpIf(!c.C, addr)
	case OpJC:
		c.jumpIf(c.C, addr)
	case OpJMP:
		c.PC = addr
	case OpSHIFT:
		c.shift(fn)
	}
	return nil
}

func (c *CPU) jumpIf(cond bool, addr uint16) {
	if cond {
		c.PC = addr
	}
}

func (c *CPU) misc(fn uint16) error {
	switch fn {
	case FnNOT:
		c.ACC = ^c.ACC
		c.updateFlags()
	case FnINPUT:
		if len(c.Input) == 0 {
			return fmt.Errorf("INPUT at 0x%03X: %w", (c.PC-1)&0x0FFF, ErrInputExhausted)
		}
		c.ACC = c.Input[0]
		c.Input = c.Input[1:]
		c.updateFlags()
	case FnOUTPUT:
		c.Output = append(c.Output, c.ACC)
	case FnHALT:
		c.Halted = true
	default:
		return fmt.Errorf("unknown function 0x%X of opcode 0x7 at 0x%03X", fn, (c.PC-1)&0x0FFF)
	}
	return nil
}

func (c *CPU) shift(fn uint16) {
	high := c.ACC&0x8000 != 0
	low := c.ACC&0x0001 != 0

	switch fn {
	case FnLSL, FnASL:
		c.C = high
		c.ACC <<= 1
	case FnLSR:
		c.C = low
		c.ACC >>= 1
	case FnASR:
		c.C = low
		c.ACC = uint16(int16(c.ACC) >> 1)
	case FnROL:
		c.C = high
		c.ACC = c.ACC<<1 | c.ACC>>15
	case FnROR:
		c.C = low
		c.ACC = c.ACC>>1 | c.ACC<<15
	case FnRCL:
		carry := c.C
		c.C = high
		c.ACC <<= 1
		if carry {
			c.ACC |= 0x0001
		}
	case FnRCR:
		carry := c.C
		c.C = low
		c.ACC >>= 1
		if carry {
			c.ACC |= 0x8000
		}
	}
	c.updateFlags()
}

// Run executes until HALT, an error, or maxSteps instructions.
func (c *CPU) Run(maxSteps int) error {
	for !c.Halted {
		if c.Steps >= maxSteps {
			return fmt.Errorf("no HALT after %d steps (PC=0x%03X)", c.Steps, c.PC)
		}
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}
