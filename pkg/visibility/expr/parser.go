package expr

import (
	"errors"
	"fmt"
	"strings"
)

// parser is a recursive-descent parser over:
//
//	or      := and ("||" and)*
//	and     := unary ("&&" unary)*
//	unary   := "!" unary | primary
//	primary := "(" or ")" | ident (cmp literal)?
//	cmp     := "==" | "!=" | "<" | "<=" | ">" | ">="
type parser struct {
	tokens []token
	pos    int
	deps   []string
	seen   map[string]bool
}

func (p *parser) parse() (node, error) {
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("visibility/expr: unexpected token %q", p.tokens[p.pos].raw)
	}
	return root, nil
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.match(tokenOr) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = join(true, left, right)
	}
	return left, nil
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.match(tokenAnd) {
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = join(false, left, right)
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.match(tokenNot) {
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return negation{inner: inner}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	if p.match(tokenLParen) {
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.match(tokenRParen) {
			return nil, errors.New("visibility/expr: missing closing ')'")
		}
		return inner, nil
	}

	ident, ok := p.consume(tokenIdentifier)
	if !ok {
		if p.pos >= len(p.tokens) {
			return nil, errors.New("visibility/expr: empty expression")
		}
		return nil, fmt.Errorf("visibility/expr: expected identifier, got %q", p.tokens[p.pos].raw)
	}
	p.addDep(ident.raw)

	for _, op := range []tokenKind{tokenEq, tokenNeq, tokenLt, tokenLte, tokenGt, tokenGte} {
		if !p.match(op) {
			continue
		}
		rhs, err := p.literal()
		if err != nil {
			return nil, err
		}
		if op != tokenEq && op != tokenNeq && !rhs.isNum {
			return nil, fmt.Errorf("visibility/expr: %s needs a number on the right", ident.raw)
		}
		return test{ref: ident.raw, op: op, rhs: rhs, cmp: true}, nil
	}
	return test{ref: ident.raw}, nil
}

func (p *parser) addDep(identifier string) {
	name := strings.TrimPrefix(identifier, "item.")
	if strings.HasPrefix(name, "extras.") {
		return
	}
	if p.seen == nil {
		p.seen = make(map[string]bool)
	}
	if p.seen[name] {
		return
	}
	p.seen[name] = true
	p.deps = append(p.deps, name)
}

func (p *parser) match(kind tokenKind) bool {
	_, ok := p.consume(kind)
	return ok
}

func (p *parser) consume(kind tokenKind) (token, bool) {
	if p.pos >= len(p.tokens) || p.tokens[p.pos].kind != kind {
		return token{}, false
	}
	out := p.tokens[p.pos]
	p.pos++
	return out, true
}

func (p *parser) literal() (operand, error) {
	if p.pos >= len(p.tokens) {
		return operand{}, errors.New("visibility/expr: missing literal")
	}
	tok := p.tokens[p.pos]
	p.pos++
	switch tok.kind {
	case tokenString, tokenIdentifier:
		// Bare words compare as strings: `priority == high`.
		return operand{text: tok.raw}, nil
	case tokenNumber:
		return numberOperand(tok.raw)
	case tokenBool:
		return operand{isBool: true, flag: tok.raw == "true", text: tok.raw}, nil
	case tokenNull:
		return operand{null: true, text: "null"}, nil
	default:
		return operand{}, fmt.Errorf("visibility/expr: expected literal, got %q", tok.raw)
	}
}
