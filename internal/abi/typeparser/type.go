// Package typeparser is a hand-written recursive-descent parser for
// the Solidity ABI type grammar used by the meta-call method-signature
// string (spec §4.2 "Method-definition grammar"). Nothing in the
// example pack ships a general Solidity type-string parser (go-ethereum's
// accounts/abi only accepts pre-structured JSON descriptors), so this
// is written from scratch in the teacher's idiom: small, allocation
// light, depth-bounded.
package typeparser

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind enumerates the base ABI type categories.
type Kind int

const (
	KindAddress Kind = iota
	KindBool
	KindString
	KindBytes  // dynamic bytes
	KindBytesN // fixed bytesN, 1..32
	KindUint
	KindInt
	KindTuple // named struct reference, resolved against a type table
	KindArray // fixed- or dynamic-length array of Elem
)

// Type is one parsed ABI type, arbitrarily nested for arrays and
// struct references.
type Type struct {
	Kind     Kind
	Bits     int    // for Uint/Int: 8..256 step 8
	Size     int    // for BytesN: 1..32
	TupleName string // for Tuple: the referenced struct name
	Elem     *Type  // for Array: element type
	ArrayLen int    // for Array: >=0 fixed length, -1 for dynamic "[]"
}

// String renders the canonical Solidity type string, used to build
// method selectors (spec §4.2: "argument names stripped, used as the
// ABI selector domain").
func (t Type) String() string {
	switch t.Kind {
	case KindAddress:
		return "address"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindBytesN:
		return fmt.Sprintf("bytes%d", t.Size)
	case KindUint:
		return fmt.Sprintf("uint%d", t.Bits)
	case KindInt:
		return fmt.Sprintf("int%d", t.Bits)
	case KindTuple:
		return t.TupleName
	case KindArray:
		if t.ArrayLen < 0 {
			return t.Elem.String() + "[]"
		}
		return fmt.Sprintf("%s[%d]", t.Elem.String(), t.ArrayLen)
	default:
		return "?"
	}
}

// Arg is one named, typed argument in an argument list.
type Arg struct {
	Type Type
	Name string
}

// Method is a single parsed `ident(argList)` production: either the
// top-level method definition or one of its struct typeDefs.
type Method struct {
	Name string
	Args []Arg
}

// Signature renders `name(type1,type2,...)` with argument names
// stripped (spec §4.2 "Signature").
func (m Method) Signature() string {
	var sb strings.Builder
	sb.WriteString(m.Name)
	sb.WriteByte('(')
	for i, a := range m.Args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(a.Type.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// MethodAndTypes is the parse result of a full method-definition
// string: the top-level method plus every named struct typeDef it
// references, keyed by struct name (spec §4.2 "MethodAndTypes").
type MethodAndTypes struct {
	Method Method
	Types  map[string]Method
}

// maxDepth bounds recursive array/struct nesting to defend against
// stack blow-ups from an attacker-controlled method-definition string
// (spec §9: "keep the parser allocation-bounded (reject depth > 10)").
const maxDepth = 10

// Parse parses a full `methodDef = ident "(" argList ")" typeDef*`
// grammar string into a MethodAndTypes.
func Parse(def string) (MethodAndTypes, error) {
	p := &parser{input: def}
	method, err := p.parseMethod(0)
	if err != nil {
		return MethodAndTypes{}, err
	}
	types := make(map[string]Method)
	for {
		p.skipSpace()
		if p.atEnd() {
			break
		}
		td, err := p.parseMethod(0)
		if err != nil {
			return MethodAndTypes{}, err
		}
		types[td.Name] = td
	}

	if err := validateRefs(method, types, 0); err != nil {
		return MethodAndTypes{}, err
	}
	for _, td := range types {
		if err := validateRefs(td, types, 0); err != nil {
			return MethodAndTypes{}, err
		}
	}

	return MethodAndTypes{Method: method, Types: types}, nil
}

func validateRefs(m Method, types map[string]Method, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("typeparser: struct nesting exceeds max depth %d", maxDepth)
	}
	for _, a := range m.Args {
		if err := validateTypeRefs(a.Type, types, depth); err != nil {
			return err
		}
	}
	return nil
}

func validateTypeRefs(t Type, types map[string]Method, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("typeparser: type nesting exceeds max depth %d", maxDepth)
	}
	switch t.Kind {
	case KindTuple:
		ref, ok := types[t.TupleName]
		if !ok {
			return fmt.Errorf("typeparser: unknown struct type %q", t.TupleName)
		}
		return validateRefs(ref, types, depth+1)
	case KindArray:
		return validateTypeRefs(*t.Elem, types, depth+1)
	default:
		return nil
	}
}

type parser struct {
	input string
	pos   int
}

func (p *parser) atEnd() bool { return p.pos >= len(p.input) }

func (p *parser) skipSpace() {
	for !p.atEnd() && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t' || p.input[p.pos] == '\n') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.atEnd() {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) expect(c byte) error {
	p.skipSpace()
	if p.atEnd() || p.input[p.pos] != c {
		return fmt.Errorf("typeparser: expected %q at position %d in %q", c, p.pos, p.input)
	}
	p.pos++
	return nil
}

func (p *parser) parseIdent() (string, error) {
	p.skipSpace()
	start := p.pos
	for !p.atEnd() && isIdentChar(p.input[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return "", fmt.Errorf("typeparser: expected identifier at position %d in %q", p.pos, p.input)
	}
	return p.input[start:p.pos], nil
}

func isIdentChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// parseMethod parses `ident "(" argList ")"`.
func (p *parser) parseMethod(depth int) (Method, error) {
	if depth > maxDepth {
		return Method{}, fmt.Errorf("typeparser: nesting exceeds max depth %d", maxDepth)
	}
	name, err := p.parseIdent()
	if err != nil {
		return Method{}, err
	}
	if err := p.expect('('); err != nil {
		return Method{}, err
	}
	var args []Arg
	p.skipSpace()
	if p.peek() != ')' {
		for {
			arg, err := p.parseArg(depth + 1)
			if err != nil {
				return Method{}, err
			}
			args = append(args, arg)
			p.skipSpace()
			if p.peek() == ',' {
				p.pos++
				continue
			}
			break
		}
	}
	if err := p.expect(')'); err != nil {
		return Method{}, err
	}
	return Method{Name: name, Args: args}, nil
}

// parseArg parses `type " " ident`.
func (p *parser) parseArg(depth int) (Arg, error) {
	t, err := p.parseType(depth)
	if err != nil {
		return Arg{}, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return Arg{}, err
	}
	return Arg{Type: t, Name: name}, nil
}

// parseType parses the Solidity ABI type grammar:
//
//	type = base ("[" digits? "]")*
//	base = "address" | "bool" | "string" | "bytes" | bytesN | (u)intN | identifier
func (p *parser) parseType(depth int) (Type, error) {
	if depth > maxDepth {
		return Type{}, fmt.Errorf("typeparser: type nesting exceeds max depth %d", maxDepth)
	}
	ident, err := p.parseIdent()
	if err != nil {
		return Type{}, err
	}
	base, err := baseType(ident)
	if err != nil {
		return Type{}, err
	}

	for {
		p.skipSpace()
		if p.peek() != '[' {
			break
		}
		p.pos++
		p.skipSpace()
		arrLen := -1
		if p.peek() != ']' {
			start := p.pos
			for !p.atEnd() && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
				p.pos++
			}
			if p.pos == start {
				return Type{}, fmt.Errorf("typeparser: expected digits or ']' at position %d", p.pos)
			}
			n, convErr := strconv.Atoi(p.input[start:p.pos])
			if convErr != nil {
				return Type{}, fmt.Errorf("typeparser: invalid array length: %w", convErr)
			}
			arrLen = n
		}
		if err := p.expect(']'); err != nil {
			return Type{}, err
		}
		elem := base
		base = Type{Kind: KindArray, Elem: &elem, ArrayLen: arrLen}
	}

	return base, nil
}

func baseType(ident string) (Type, error) {
	switch {
	case ident == "address":
		return Type{Kind: KindAddress}, nil
	case ident == "bool":
		return Type{Kind: KindBool}, nil
	case ident == "string":
		return Type{Kind: KindString}, nil
	case ident == "bytes":
		return Type{Kind: KindBytes}, nil
	case strings.HasPrefix(ident, "bytes") && len(ident) > len("bytes"):
		n, err := strconv.Atoi(ident[len("bytes"):])
		if err != nil || n < 1 || n > 32 {
			return Type{}, fmt.Errorf("typeparser: invalid fixed bytes type %q", ident)
		}
		return Type{Kind: KindBytesN, Size: n}, nil
	case strings.HasPrefix(ident, "uint"):
		bits, err := parseIntBits(ident, "uint")
		if err != nil {
			return Type{}, err
		}
		return Type{Kind: KindUint, Bits: bits}, nil
	case strings.HasPrefix(ident, "int"):
		bits, err := parseIntBits(ident, "int")
		if err != nil {
			return Type{}, err
		}
		return Type{Kind: KindInt, Bits: bits}, nil
	default:
		return Type{Kind: KindTuple, TupleName: ident}, nil
	}
}

func parseIntBits(ident, prefix string) (int, error) {
	suffix := ident[len(prefix):]
	if suffix == "" {
		return 256, nil
	}
	bits, err := strconv.Atoi(suffix)
	if err != nil || bits < 8 || bits > 256 || bits%8 != 0 {
		return 0, fmt.Errorf("typeparser: invalid %s width in %q", prefix, ident)
	}
	return bits, nil
}
