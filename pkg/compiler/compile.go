package compiler

// Compile lexes and translates src, reporting diagnostics to log.
// The returned SymbolTable is nil when lexing fails.
func Compile(src string, log Logger) ([]Instruction, *SymbolTable, error) {
	tokens, err := NewLexer(log).Parse(src)
	if err != nil {
		return nil, nil, err
	}

	tr := NewTranslator(log)
	instructions, err := tr.Translate(tokens)
	if err != nil {
		return nil, tr.Symbols(), err
	}

	return instructions, tr.Symbols(), nil
}
