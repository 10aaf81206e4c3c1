package compiler

import "fmt"

// ifStmt lowers
//
//	if <condition> do <body> [else <body>] end
//
// The condition falls through into the body on success and jumps to the
// else label otherwise.
func (t *Translator) ifStmt(pos int) (int, error) {
	t.ifCount++
	ifTok := t.tokens[pos]
	prefix := fmt.Sprintf("$if_%d", t.ifCount)
	elseLabel := prefix + "_else"
	endLabel := prefix + "_end"

	pos, err := t.condition(ifTok, pos+1, prefix, elseLabel)
	if err != nil {
		return pos, err
	}

	elseSeen := false
	for {
		if pos >= t.end {
			return pos, t.fail(ifTok, "unexpected end of input: \"end\" expected for the \"if\" statement")
		}
		tok := t.tokens[pos]
		switch {
		case tok.is("else"):
			if elseSeen {
				return pos, t.fail(tok, "unexpected \"else\": the \"if\" statement already has an else branch")
			}
			elseSeen = true
			t.line = tok.Line
			t.emitJump("jmp", endLabel)
			if err := t.mark(tok, elseLabel); err != nil {
				return pos, err
			}
			pos++
		case tok.is("end"):
			if !elseSeen {
				if err := t.mark(tok, elseLabel); err != nil {
					return pos, err
				}
			}
			if err := t.mark(tok, endLabel); err != nil {
				return pos, err
			}
			return pos + 1, nil
		default:
			if pos, err = t.command(pos); err != nil {
				return pos, err
			}
		}
	}
}

// whileStmt lowers
//
//	while <condition> do <body> end
//
// The condition is re-evaluated from its label after every pass of the body.
func (t *Translator) whileStmt(pos int) (int, error) {
	t.whileCount++
	whileTok := t.tokens[pos]
	prefix := fmt.Sprintf("$while_%d", t.whileCount)
	condLabel := prefix + "_condition"
	endLabel := prefix + "_end"

	if err := t.mark(whileTok, condLabel); err != nil {
		return pos, err
	}
	pos, err := t.condition(whileTok, pos+1, prefix, endLabel)
	if err != nil {
		return pos, err
	}
	if err := t.mark(whileTok, prefix+"_body"); err != nil {
		return pos, err
	}

	for {
		if pos >= t.end {
			return pos, t.fail(whileTok, "unexpected end of input: \"end\" expected for the \"while\" statement")
		}
		tok := t.tokens[pos]
		if tok.is("end") {
			t.line = tok.Line
			t.emitJump("jmp", condLabel)
			if err := t.mark(tok, endLabel); err != nil {
				return pos, err
			}
			return pos + 1, nil
		}
		if pos, err = t.command(pos); err != nil {
			return pos, err
		}
	}
}

// condition lowers a chain of single conditions joined by "and"/"or" up to
// and including "do". Conditions within one and-group jump to the group's
// checkpoint when they hold; a group where none holds falls through to a
// jump to fail. The last checkpoint is the instruction after that jump,
// which is where the construct's body starts.
//
// Every "and" emits that jump to fail before its checkpoint, so the stream
// is not the checkpoint-only form where a checkpoint directly follows the
// previous group's conditional jumps. In that form a failing group falls
// into the next one and the chain always succeeds.
func (t *Translator) condition(start Token, pos int, prefix, fail string) (int, error) {
	group := 1
	checkpoint := func() string { return fmt.Sprintf("%s_%d", prefix, group) }

	expectCondition := true
	for {
		if pos >= t.end {
			return pos, t.fail(start, "unexpected end of input: \"do\" expected for %q", start.Lexeme)
		}
		tok := t.tokens[pos]

		switch {
		case tok.is("do"):
			if expectCondition {
				return pos, t.fail(tok, "unexpected token \"do\": expected a condition")
			}
			t.line = tok.Line
			t.emitJump("jmp", fail)
			if err := t.mark(tok, checkpoint()); err != nil {
				return pos, err
			}
			return pos + 1, nil

		case tok.is("and"), tok.is("or"):
			if expectCondition {
				return pos, t.fail(tok, "unexpected token %q: expected a condition", tok.Lexeme)
			}
			if tok.Lexeme == "and" {
				t.line = tok.Line
				t.emitJump("jmp", fail)
				if err := t.mark(tok, checkpoint()); err != nil {
					return pos, err
				}
				group++
			}
			expectCondition = true
			pos++

		default:
			if !expectCondition {
				return pos, t.fail(tok, "unexpected token %q: expected \"and\", \"or\" or \"do\"", tok.Lexeme)
			}
			var err error
			if pos, err = t.singleCondition(pos, checkpoint()); err != nil {
				return pos, err
			}
			expectCondition = false
		}
	}
}

// singleCondition lowers an optional "[ commands ]" block followed by a flag
// test, emitting a conditional jump to target.
func (t *Translator) singleCondition(pos int, target string) (int, error) {
	start := t.tokens[pos]
	if start.is("[") {
		var err error
		if pos, err = t.block(pos); err != nil {
			return pos, err
		}
		if pos >= t.end {
			return pos, t.fail(start, "unexpected end of input: condition expected after the block")
		}
	}

	tok := t.tokens[pos]
	if tok.Type != IDENTIFIER || !conditions[tok.Lexeme] {
		return pos, t.fail(tok, "unexpected token %q: unknown condition", tok.Lexeme)
	}
	t.line = tok.Line
	t.emitJump("j"+tok.Lexeme, target)
	return pos + 1, nil
}

// block translates "[ commands ]" and returns the index after "]".
func (t *Translator) block(pos int) (int, error) {
	open := t.tokens[pos]
	pos++
	for {
		if pos >= t.end {
			return pos, t.fail(open, "unexpected end of input: \"]\" expected for the block of commands")
		}
		if t.tokens[pos].is("]") {
			return pos + 1, nil
		}
		var err error
		if pos, err = t.command(pos); err != nil {
			return pos, err
		}
	}
}
