package compiler

import "fmt"

// Translator turns a token sequence into resolved DeComp instructions.
//
// A Translator owns its tables and counters and resets them on every call
// to Translate; it must not be used from two goroutines at once.
type Translator struct {
	log Logger

	tokens       []Token
	instructions []Instruction
	syms         *SymbolTable

	mainDefined bool
	mainToken   Token
	mainStart   int
	mainEnd     int

	// end bounds command translation to the main segment.
	end int
	// line is the source line attached to emitted instructions.
	line int

	ifCount    int
	whileCount int
}

func NewTranslator(log Logger) *Translator {
	if log == nil {
		log = NopLogger{}
	}
	t := &Translator{log: log}
	t.reset(nil)
	return t
}

// Translate translates tokens with a translator that reports nowhere.
func Translate(tokens []Token) ([]Instruction, error) {
	return NewTranslator(nil).Translate(tokens)
}

// Translate parses the segments of tokens, translates the main segment and
// resolves every symbolic operand. On failure it logs the diagnostic and
// returns a nil slice with a *TranslateError.
func (t *Translator) Translate(tokens []Token) ([]Instruction, error) {
	t.reset(tokens)

	if err := t.parseSegments(); err != nil {
		return nil, err
	}
	if err := t.translateMain(); err != nil {
		return nil, err
	}
	if err := t.postProcess(); err != nil {
		return nil, err
	}

	return append([]Instruction(nil), t.instructions...), nil
}

// Symbols returns the tables built by the last Translate call.
func (t *Translator) Symbols() *SymbolTable {
	return t.syms
}

func (t *Translator) reset(tokens []Token) {
	t.tokens = tokens
	t.instructions = nil
	t.syms = NewSymbolTable()
	t.mainDefined = false
	t.mainToken = Token{}
	t.mainStart, t.mainEnd, t.end = 0, 0, 0
	t.line = 0
	t.ifCount = 0
	t.whileCount = 0
}

// fail logs and returns a TranslateError located at tok.
func (t *Translator) fail(tok Token, format string, args ...any) error {
	err := &TranslateError{Message: fmt.Sprintf(format, args...), Token: tok}
	t.log.Error(err.Error())
	return err
}

func (t *Translator) parseSegments() error {
	pos := 0
	for pos < len(t.tokens) {
		next, err := t.parseSegment(pos)
		if err != nil {
			return err
		}
		pos = next
	}
	return nil
}

func (t *Translator) parseSegment(pos int) (int, error) {
	dot := t.tokens[pos]
	if dot.Type != OPERATOR || dot.Lexeme != "." {
		return pos, t.fail(dot, "operator \".\" expected, got %q", dot.Lexeme)
	}
	pos++
	if pos >= len(t.tokens) {
		return pos, t.fail(dot, "segment name expected")
	}

	name := t.tokens[pos]
	pos++
	if name.Type == IDENTIFIER {
		switch name.Lexeme {
		case "data":
			return t.parseData(pos)
		case "main":
			return t.parseMain(pos, name)
		}
	}

	return t.segmentEnd(pos), nil
}

// segmentEnd returns the index of the next "." operator at or after pos.
func (t *Translator) segmentEnd(pos int) int {
	for pos < len(t.tokens) && !t.tokens[pos].is(".") {
		pos++
	}
	return pos
}

func (t *Translator) parseData(pos int) (int, error) {
	for pos < len(t.tokens) && !t.tokens[pos].is(".") {
		name := t.tokens[pos]
		if name.Type != IDENTIFIER {
			return pos, t.fail(name, "variable name expected, got %q", name.Lexeme)
		}
		if name.Lexeme == accumulator {
			return pos, t.fail(name, "%q is reserved for the accumulator", name.Lexeme)
		}
		pos++
		if pos >= len(t.tokens) {
			return pos, t.fail(name, "unexpected end of input: value expected for variable %q", name.Lexeme)
		}

		value := t.tokens[pos]
		switch value.Type {
		case NUMBER:
		case HEXDIGITS:
			return pos, t.fail(value, "malformed numeric literal %q: hex digits need a 0x prefix", value.Lexeme)
		default:
			return pos, t.fail(value, "numeric value expected for variable %q, got %q", name.Lexeme, value.Lexeme)
		}
		if _, exists := t.syms.Declare(name.Lexeme, value.Lexeme); exists {
			return pos, t.fail(name, "variable %q already defined", name.Lexeme)
		}
		pos++
	}
	return pos, nil
}

func (t *Translator) parseMain(pos int, name Token) (int, error) {
	if t.mainDefined {
		return pos, t.fail(name, "main segment was already defined at line %d", t.mainToken.Line)
	}
	t.mainDefined = true
	t.mainToken = name
	t.mainStart = pos
	t.mainEnd = t.segmentEnd(pos)
	return t.mainEnd, nil
}

func (t *Translator) translateMain() error {
	if !t.mainDefined {
		return t.fail(Token{}, "main segment is undefined")
	}

	t.end = t.mainEnd
	for pos := t.mainStart; pos < t.end; {
		next, err := t.command(pos)
		if err != nil {
			return err
		}
		pos = next
	}

	t.line = 0
	t.emit("halt")
	return nil
}

func (t *Translator) push(in Instruction) {
	in.Line = t.line
	t.instructions = append(t.instructions, in)
}

// emit appends an instruction without an operand.
func (t *Translator) emit(name string) {
	op := instructionSet[name]
	t.push(Instruction{Opcode: op.Code, Mnemonic: op.Name})
}

// emitLiteral appends an instruction whose operand is final hex text.
func (t *Translator) emitLiteral(name, operand string) {
	op := instructionSet[name]
	t.push(Instruction{Opcode: op.Code, Mnemonic: op.Name, Operand: operand, Kind: Literal})
}

// emitVar appends an instruction addressing the variable named ref.
func (t *Translator) emitVar(name, ref string) {
	op := instructionSet[name]
	t.push(Instruction{Opcode: op.Code, Mnemonic: op.Name, Kind: VariableRef, Ref: ref})
}

// emitJump appends a jump to the label named ref.
func (t *Translator) emitJump(name, ref string) {
	op := instructionSet[name]
	t.push(Instruction{Opcode: op.Code, Mnemonic: op.Name, Kind: LabelRef, Ref: ref})
}

// mark defines label at the current end of the instruction stream.
func (t *Translator) mark(tok Token, label string) error {
	if !t.syms.DefineLabel(label, len(t.instructions)) {
		return t.fail(tok, "label %q already defined", label)
	}
	return nil
}
