package typesystem

import (
	"strings"
	"unicode"
)

// Parse reads a type written as Name or Name<Arg, ...>.
func Parse(input string) (Type, error) {
	p := &typeParser{input: input}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpaces()
	if p.pos != len(p.input) {
		return nil, newParseError(input, "unexpected trailing input")
	}
	return t, nil
}

type typeParser struct {
	input string
	pos   int
}

func (p *typeParser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) parseType() (Type, error) {
	p.skipSpaces()
	start := p.pos
	for p.pos < len(p.input) {
		r := rune(p.input[p.pos])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '.' {
			break
		}
		p.pos++
	}
	name := p.input[start:p.pos]
	if name == "" {
		return nil, newParseError(p.input, "expected type name")
	}
	p.skipSpaces()
	if p.pos >= len(p.input) || p.input[p.pos] != '<' {
		return TCon{Name: name}, nil
	}
	p.pos++ // '<'

	var args []Type
	for {
		arg, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		p.skipSpaces()
		if p.pos >= len(p.input) {
			return nil, newParseError(p.input, "unterminated type arguments")
		}
		switch p.input[p.pos] {
		case ',':
			p.pos++
		case '>':
			p.pos++
			return TCon{Name: name, Args: args}, nil
		default:
			return nil, newParseError(p.input, "unexpected "+strings.TrimSpace(string(p.input[p.pos])))
		}
	}
}
