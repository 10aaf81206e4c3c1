package compiler

// operand is one resolved command argument.
type operand struct {
	tok     Token
	name    string // variable name; "$<hex>" for literals
	pointer bool   // prefixed by &
	literal bool
}

func (o operand) isAccumulator() bool {
	return !o.pointer && o.name == accumulator
}

// command translates the statement starting at pos and returns the index
// of the first token after it.
func (t *Translator) command(pos int) (int, error) {
	tok := t.tokens[pos]
	if tok.Type != IDENTIFIER {
		return pos, t.fail(tok, "expected a command, got %q", tok.Lexeme)
	}
	cmd, ok := commands[tok.Lexeme]
	if !ok {
		return pos, t.fail(tok, "unknown command: %s", tok.Lexeme)
	}
	t.line = tok.Line

	if !cmd.special {
		switch cmd.args {
		case 0:
			t.emit(cmd.instruction)
			return pos + 1, nil
		case 1:
			return t.unary(pos, cmd)
		default:
			return t.binary(pos, cmd)
		}
	}

	switch tok.Lexeme {
	case "goto":
		return t.gotoStmt(pos)
	case "label":
		return t.labelStmt(pos)
	case "input":
		return t.inputStmt(pos)
	case "mov":
		return t.movStmt(pos)
	case "load":
		return t.loadStmt(pos)
	case "store":
		return t.storeStmt(pos)
	case "if":
		return t.ifStmt(pos)
	default:
		return t.whileStmt(pos)
	}
}

// operand parses the argument at pos for the command token cmd.
func (t *Translator) operand(cmd Token, pos int) (operand, int, error) {
	if pos >= t.end {
		return operand{}, pos, t.fail(cmd, "unexpected end of input: an argument expected for command %s", cmd.Lexeme)
	}

	var arg operand
	if t.tokens[pos].is("&") {
		arg.pointer = true
		pos++
		if pos >= t.end {
			return operand{}, pos, t.fail(t.tokens[pos-1], "unexpected end of input: a pointer name expected after \"&\"")
		}
	}

	tok := t.tokens[pos]
	arg.tok = tok
	switch tok.Type {
	case NUMBER:
		arg.name = t.literal(tok.Lexeme)
		arg.literal = true
	case IDENTIFIER:
		arg.name = tok.Lexeme
		if arg.pointer && tok.Lexeme == accumulator {
			return operand{}, pos, t.fail(tok, "the accumulator cannot be dereferenced")
		}
	case HEXDIGITS:
		return operand{}, pos, t.fail(tok, "malformed numeric literal %q: hex digits need a 0x prefix", tok.Lexeme)
	default:
		return operand{}, pos, t.fail(tok, "unexpected token %q, expected an argument", tok.Lexeme)
	}

	return arg, pos + 1, nil
}

// literal registers the implicit variable holding value and returns its name.
func (t *Translator) literal(value string) string {
	name := "$" + value
	t.syms.Implicit(name, value)
	return name
}

func (t *Translator) load(arg operand) {
	if arg.pointer {
		t.indirect(arg, "load")
		return
	}
	t.emitVar("load", arg.name)
}

func (t *Translator) store(arg operand) {
	if arg.pointer {
		t.indirect(arg, "store")
		return
	}
	t.emitVar("store", arg.name)
}

// apply emits instruction against arg's storage cell.
func (t *Translator) apply(instruction string, arg operand) {
	if arg.pointer {
		t.indirect(arg, instruction)
		return
	}
	t.emitVar(instruction, arg.name)
}

func (t *Translator) unary(pos int, cmd command) (int, error) {
	arg, next, err := t.operand(t.tokens[pos], pos+1)
	if err != nil {
		return next, err
	}

	if !arg.isAccumulator() {
		t.load(arg)
	}
	t.emit(cmd.instruction)
	return next, nil
}

func (t *Translator) binary(pos int, cmd command) (int, error) {
	cmdTok := t.tokens[pos]
	left, next, err := t.operand(cmdTok, pos+1)
	if err != nil {
		return next, err
	}
	right, next, err := t.operand(cmdTok, next)
	if err != nil {
		return next, err
	}

	switch {
	case left.isAccumulator() && right.isAccumulator():
		t.emitVar("store", scratchVar)
		t.emitVar(cmd.instruction, scratchVar)
	case !left.isAccumulator() && !right.isAccumulator():
		t.load(left)
		t.apply(cmd.instruction, right)
	case left.isAccumulator():
		t.apply(cmd.instruction, right)
	default:
		// The accumulator is the right-hand side: keep it in scratch while
		// the left operand is loaded.
		t.emitVar("store", scratchVar)
		t.load(left)
		t.emitVar(cmd.instruction, scratchVar)
	}
	return next, nil
}

func (t *Translator) movStmt(pos int) (int, error) {
	cmdTok := t.tokens[pos]
	dst, next, err := t.operand(cmdTok, pos+1)
	if err != nil {
		return next, err
	}
	src, next, err := t.operand(cmdTok, next)
	if err != nil {
		return next, err
	}

	if dst.literal && !dst.pointer {
		return next, t.fail(dst.tok, "cannot move data into the literal %s", dst.tok.Lexeme)
	}

	switch {
	case dst.isAccumulator() && src.isAccumulator():
		return next, t.fail(cmdTok, "cannot move data from acm to acm")
	case src.isAccumulator():
		t.store(dst)
	case dst.isAccumulator():
		t.load(src)
	default:
		t.load(src)
		t.store(dst)
	}
	return next, nil
}

// loadStmt translates "load src", the same as "mov acm src".
func (t *Translator) loadStmt(pos int) (int, error) {
	cmdTok := t.tokens[pos]
	src, next, err := t.operand(cmdTok, pos+1)
	if err != nil {
		return next, err
	}
	if src.isAccumulator() {
		return next, t.fail(cmdTok, "cannot move data from acm to acm")
	}
	t.load(src)
	return next, nil
}

// storeStmt translates "store dst", the same as "mov dst acm".
func (t *Translator) storeStmt(pos int) (int, error) {
	cmdTok := t.tokens[pos]
	dst, next, err := t.operand(cmdTok, pos+1)
	if err != nil {
		return next, err
	}
	switch {
	case dst.isAccumulator():
		return next, t.fail(cmdTok, "cannot move data from acm to acm")
	case dst.literal && !dst.pointer:
		return next, t.fail(dst.tok, "cannot move data into the literal %s", dst.tok.Lexeme)
	}
	t.store(dst)
	return next, nil
}

func (t *Translator) inputStmt(pos int) (int, error) {
	cmdTok := t.tokens[pos]
	dst, next, err := t.operand(cmdTok, pos+1)
	if err != nil {
		return next, err
	}
	if dst.literal && !dst.pointer {
		return next, t.fail(dst.tok, "invalid argument for input: %s", dst.tok.Lexeme)
	}

	t.emit("input")
	if !dst.isAccumulator() {
		t.store(dst)
	}
	return next, nil
}

// labelName returns the identifier following the command at pos.
func (t *Translator) labelName(pos int) (Token, error) {
	cmdTok := t.tokens[pos]
	if pos+1 >= t.end {
		return Token{}, t.fail(cmdTok, "unexpected end of input: expected a label name")
	}
	name := t.tokens[pos+1]
	if name.Type != IDENTIFIER {
		return Token{}, t.fail(name, "label name expected, got %q", name.Lexeme)
	}
	return name, nil
}

func (t *Translator) gotoStmt(pos int) (int, error) {
	name, err := t.labelName(pos)
	if err != nil {
		return pos + 1, err
	}
	t.emitJump("jmp", name.Lexeme)
	return pos + 2, nil
}

func (t *Translator) labelStmt(pos int) (int, error) {
	name, err := t.labelName(pos)
	if err != nil {
		return pos + 1, err
	}
	if err := t.mark(name, name.Lexeme); err != nil {
		return pos + 2, err
	}
	return pos + 2, nil
}
