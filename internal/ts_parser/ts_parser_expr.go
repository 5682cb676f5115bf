package ts_parser

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/tserase/tserase/internal/js_ast"
)

var unaryOps = map[string]js_ast.OpCode{
	"+":      js_ast.UnOpPos,
	"-":      js_ast.UnOpNeg,
	"~":      js_ast.UnOpCpl,
	"!":      js_ast.UnOpNot,
	"void":   js_ast.UnOpVoid,
	"typeof": js_ast.UnOpTypeof,
	"delete": js_ast.UnOpDelete,
}

var binaryOps = map[string]js_ast.OpCode{
	"+":          js_ast.BinOpAdd,
	"-":          js_ast.BinOpSub,
	"*":          js_ast.BinOpMul,
	"/":          js_ast.BinOpDiv,
	"%":          js_ast.BinOpRem,
	"**":         js_ast.BinOpPow,
	"<":          js_ast.BinOpLt,
	"<=":         js_ast.BinOpLe,
	">":          js_ast.BinOpGt,
	">=":         js_ast.BinOpGe,
	"in":         js_ast.BinOpIn,
	"instanceof": js_ast.BinOpInstanceof,
	"<<":         js_ast.BinOpShl,
	">>":         js_ast.BinOpShr,
	">>>":        js_ast.BinOpUShr,
	"==":         js_ast.BinOpLooseEq,
	"!=":         js_ast.BinOpLooseNe,
	"===":        js_ast.BinOpStrictEq,
	"!==":        js_ast.BinOpStrictNe,
	"??":         js_ast.BinOpNullishCoalescing,
	"||":         js_ast.BinOpLogicalOr,
	"&&":         js_ast.BinOpLogicalAnd,
	"|":          js_ast.BinOpBitwiseOr,
	"&":          js_ast.BinOpBitwiseAnd,
	"^":          js_ast.BinOpBitwiseXor,
}

// Enum initializers are parsed into real expressions where possible.
// Anything else is kept as source text.
func (p *parser) parseExpr(node *sitter.Node) js_ast.Expr {
	loc := p.loc(node)

	switch node.Type() {
	case "number":
		text := p.text(node)
		if strings.HasSuffix(text, "n") {
			return js_ast.Expr{Loc: loc, Data: &js_ast.EBigInt{Value: strings.ReplaceAll(text[:len(text)-1], "_", "")}}
		}
		if value, ok := parseNumber(text); ok {
			return js_ast.Expr{Loc: loc, Data: &js_ast.ENumber{Value: value}}
		}

	case "string":
		return js_ast.Expr{Loc: loc, Data: &js_ast.EString{Value: p.parseStringLiteral(node)}}

	case "template_string":
		// Only templates without substitutions are plain strings
		if childOfType(node, "template_substitution") == nil {
			text := p.text(node)
			return js_ast.Expr{Loc: loc, Data: &js_ast.EString{Value: decodeEscapes(normalizeNewlines(text[1 : len(text)-1]))}}
		}

	case "true":
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBoolean{Value: true}}

	case "false":
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBoolean{Value: false}}

	case "null":
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENull{}}

	case "undefined":
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUndefined{}}

	case "this":
		return js_ast.Expr{Loc: loc, Data: &js_ast.EThis{}}

	case "identifier":
		if member, ok := p.namespaceMembers[node.StartByte()]; ok {
			return js_ast.Expr{Loc: loc, Data: &js_ast.EVerbatim{Code: js_ast.Verbatim{
				Parts: []js_ast.VerbatimPart{{MemberOrNil: &member}},
			}}}
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Name: p.text(node)}}

	case "parenthesized_expression":
		if inner := namedChildren(node); len(inner) == 1 && inner[0].Type() != "sequence_expression" {
			return p.parseExpr(inner[0])
		}

	case "as_expression", "satisfies_expression", "non_null_expression":
		return p.parseExpr(firstNamedChild(node))

	case "type_assertion":
		named := namedChildren(node)
		return p.parseExpr(named[len(named)-1])

	case "unary_expression":
		op, ok := unaryOps[node.ChildByFieldName("operator").Type()]
		if ok {
			return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: op, Value: p.parseExpr(node.ChildByFieldName("argument"))}}
		}

	case "binary_expression":
		op, ok := binaryOps[node.ChildByFieldName("operator").Type()]
		if ok {
			return js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{
				Op:    op,
				Left:  p.parseExpr(node.ChildByFieldName("left")),
				Right: p.parseExpr(node.ChildByFieldName("right")),
			}}
		}

	case "member_expression":
		property := node.ChildByFieldName("property")
		if !hasToken(node, "?.") && property.Type() == "property_identifier" {
			return js_ast.Expr{Loc: loc, Data: &js_ast.EDot{
				Target:  p.parseExpr(node.ChildByFieldName("object")),
				Name:    p.text(property),
				NameLoc: p.loc(property),
			}}
		}

	case "subscript_expression":
		if !hasToken(node, "?.") {
			return js_ast.Expr{Loc: loc, Data: &js_ast.EIndex{
				Target: p.parseExpr(node.ChildByFieldName("object")),
				Index:  p.parseExpr(node.ChildByFieldName("index")),
			}}
		}

	case "call_expression":
		args := node.ChildByFieldName("arguments")
		if !hasToken(node, "?.") && args != nil && args.Type() == "arguments" && childOfType(args, "spread_element") == nil {
			call := &js_ast.ECall{Target: p.parseExpr(node.ChildByFieldName("function"))}
			for _, arg := range namedChildren(args) {
				call.Args = append(call.Args, p.parseExpr(arg))
			}
			return js_ast.Expr{Loc: loc, Data: call}
		}
	}

	return js_ast.Expr{Loc: loc, Data: &js_ast.EVerbatim{Code: p.erase(node)}}
}

// The value of a string literal with all escapes decoded
func (p *parser) parseStringLiteral(node *sitter.Node) string {
	text := p.text(node)
	if len(text) < 2 {
		return text
	}
	return decodeEscapes(text[1 : len(text)-1])
}

// "0x10", "1_000", and ".5e3" are all numbers. This returns false for legacy
// octal literals, which aren't allowed in modules.
func parseNumber(text string) (float64, bool) {
	text = strings.ReplaceAll(text, "_", "")

	if len(text) > 1 && text[0] == '0' {
		switch text[1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			value, err := strconv.ParseUint(text, 0, 64)
			if err != nil {
				return 0, false
			}
			return float64(value), true

		case '.', 'e', 'E':

		default:
			return 0, false
		}
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func normalizeNewlines(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	return strings.ReplaceAll(strings.ReplaceAll(text, "\r\n", "\n"), "\r", "\n")
}

// This decodes the escape sequences in the contents of a string literal.
// UTF-16 surrogate pairs written as two escapes are combined into one code
// point, and unpaired surrogates become U+FFFD.
func decodeEscapes(text string) string {
	if !strings.Contains(text, "\\") {
		return text
	}

	var sb strings.Builder
	var pendingHigh rune = -1

	flushHigh := func() {
		if pendingHigh != -1 {
			sb.WriteRune(utf8.RuneError)
			pendingHigh = -1
		}
	}

	writeCodeUnit := func(c rune) {
		if utf16.IsSurrogate(c) {
			if c < 0xDC00 {
				flushHigh()
				pendingHigh = c
				return
			}
			if pendingHigh != -1 {
				sb.WriteRune(utf16.DecodeRune(pendingHigh, c))
				pendingHigh = -1
				return
			}
			sb.WriteRune(utf8.RuneError)
			return
		}
		flushHigh()
		sb.WriteRune(c)
	}

	for i := 0; i < len(text); {
		c := text[i]
		if c != '\\' || i+1 == len(text) {
			flushHigh()
			r, size := utf8.DecodeRuneInString(text[i:])
			sb.WriteRune(r)
			i += size
			continue
		}

		i++
		c = text[i]
		i++

		switch c {
		case 'n':
			writeCodeUnit('\n')
		case 't':
			writeCodeUnit('\t')
		case 'r':
			writeCodeUnit('\r')
		case 'b':
			writeCodeUnit('\b')
		case 'f':
			writeCodeUnit('\f')
		case 'v':
			writeCodeUnit('\v')

		case '0':
			writeCodeUnit(0)

		case 'x':
			if i+2 <= len(text) {
				if value, err := strconv.ParseUint(text[i:i+2], 16, 8); err == nil {
					writeCodeUnit(rune(value))
					i += 2
					continue
				}
			}
			writeCodeUnit('x')

		case 'u':
			if i < len(text) && text[i] == '{' {
				if end := strings.IndexByte(text[i:], '}'); end != -1 {
					if value, err := strconv.ParseUint(text[i+1:i+end], 16, 32); err == nil && value <= utf8.MaxRune {
						writeCodeUnit(rune(value))
						i += end + 1
						continue
					}
				}
			} else if i+4 <= len(text) {
				if value, err := strconv.ParseUint(text[i:i+4], 16, 16); err == nil {
					writeCodeUnit(rune(value))
					i += 4
					continue
				}
			}
			writeCodeUnit('u')

		case '\r':
			// Line continuation
			if i < len(text) && text[i] == '\n' {
				i++
			}

		case '\n':

		default:
			// U+2028 and U+2029 are also line continuations
			i--
			r, size := utf8.DecodeRuneInString(text[i:])
			i += size
			if r != '\u2028' && r != '\u2029' {
				writeCodeUnit(r)
			}
		}
	}

	flushHigh()
	return sb.String()
}
