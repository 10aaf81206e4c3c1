package compiler

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Variable is one storage cell appended after the program.
type Variable struct {
	Name     string
	Value    string // hex digits
	Address  int    // assigned by post-processing; -1 until then
	Implicit bool   // created for a literal, the scratch cell or an opcode constant
}

// LabelEntry is a named instruction position.
type LabelEntry struct {
	Name    string
	Address int
}

// SymbolTable holds the variables and labels of one translation.
// Both tables keep insertion order; the maps index into the slices.
type SymbolTable struct {
	variables []Variable
	varIndex  map[string]int

	labels     []LabelEntry
	labelIndex map[string]int
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		varIndex:   make(map[string]int),
		labelIndex: make(map[string]int),
	}
}

// Declare adds an explicit variable. If name is already present the existing
// variable is returned with true and the table is unchanged.
func (s *SymbolTable) Declare(name, value string) (Variable, bool) {
	if i, ok := s.varIndex[name]; ok {
		return s.variables[i], true
	}
	v := Variable{Name: name, Value: value, Address: -1}
	s.varIndex[name] = len(s.variables)
	s.variables = append(s.variables, v)
	return v, false
}

// Implicit creates or overwrites a compiler-generated variable.
func (s *SymbolTable) Implicit(name, value string) Variable {
	if i, ok := s.varIndex[name]; ok {
		s.variables[i].Value = value
		return s.variables[i]
	}
	v := Variable{Name: name, Value: value, Address: -1, Implicit: true}
	s.varIndex[name] = len(s.variables)
	s.variables = append(s.variables, v)
	return v
}

// Lookup returns the variable and whether it was found.
func (s *SymbolTable) Lookup(name string) (Variable, bool) {
	i, ok := s.varIndex[name]
	if !ok {
		return Variable{}, false
	}
	return s.variables[i], true
}

// place records address as the storage cell of the variable at index i.
func (s *SymbolTable) place(i, address int) {
	s.variables[i].Address = address
}

// DefineLabel records a label. It returns false, leaving the first
// definition in place, if name is already defined.
func (s *SymbolTable) DefineLabel(name string, address int) bool {
	if _, ok := s.labelIndex[name]; ok {
		return false
	}
	s.labelIndex[name] = len(s.labels)
	s.labels = append(s.labels, LabelEntry{Name: name, Address: address})
	return true
}

// LookupLabel returns the label and whether it was defined.
func (s *SymbolTable) LookupLabel(name string) (LabelEntry, bool) {
	i, ok := s.labelIndex[name]
	if !ok {
		return LabelEntry{}, false
	}
	return s.labels[i], true
}

// Variables returns a copy of the variable table in insertion order.
func (s *SymbolTable) Variables() []Variable {
	return append([]Variable(nil), s.variables...)
}

// Labels returns a copy of the label table in definition order.
func (s *SymbolTable) Labels() []LabelEntry {
	return append([]LabelEntry(nil), s.labels...)
}

func formatAddress(address int) string {
	if address < 0 {
		return "---"
	}
	return fmt.Sprintf("%0*x", addressWidth, address)
}

// String returns a deterministically ordered dump of the table.
func (s *SymbolTable) String() string {
	var sb strings.Builder
	if len(s.variables) > 0 {
		sb.WriteString("Variables:\n")
		for _, v := range s.variables {
			fmt.Fprintf(&sb, "  %-20s  Address: %s (Value: %s, Implicit: %t)\n", v.Name, formatAddress(v.Address), v.Value, v.Implicit)
		}
	} else {
		sb.WriteString("Variables: (empty)\n")
	}

	if len(s.labels) > 0 {
		sb.WriteString("Labels:\n")
		for _, l := range s.labels {
			fmt.Fprintf(&sb, "  %-20s  Address: %s\n", l.Name, formatAddress(l.Address))
		}
	}
	return sb.String()
}

// Render draws both tables as text tables.
func (s *SymbolTable) Render() string {
	vars := table.NewWriter()
	vars.SetTitle("Variables")
	vars.AppendHeader(table.Row{"Name", "Address", "Value", "Implicit"})
	for _, v := range s.variables {
		vars.AppendRow(table.Row{v.Name, formatAddress(v.Address), v.Value, v.Implicit})
	}

	labels := table.NewWriter()
	labels.SetTitle("Labels")
	labels.AppendHeader(table.Row{"Name", "Address"})
	for _, l := range s.labels {
		labels.AppendRow(table.Row{l.Name, formatAddress(l.Address)})
	}

	return vars.Render() + "\n" + labels.Render()
}
