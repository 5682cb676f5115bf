package js_printer

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tserase/tserase/internal/js_ast"
)

var positiveInfinity = math.Inf(1)
var negativeInfinity = math.Inf(-1)

const lastASCII = 0x7E

func (p *printer) printUnquotedString(text string, quote rune) {
	js := p.js
	n := len(text)

	for i, c := range text {
		switch c {
		// Special-case the null character since it may mess with code written in C
		// that treats null characters as the end of the string.
		case '\x00':
			// We don't want "\x001" to be written as "\01"
			if i+1 < n && text[i+1] >= '0' && text[i+1] <= '9' {
				js = append(js, "\\x00"...)
			} else {
				js = append(js, "\\0"...)
			}

		// Special-case the bell character since it may cause dumping this file to
		// the terminal to make a sound, which is undesirable. Note that we can't
		// use an octal literal to print this shorter since octal literals are not
		// allowed in strict mode (or in template strings).
		case '\x07':
			js = append(js, "\\x07"...)

		case '\b':
			js = append(js, "\\b"...)

		case '\f':
			js = append(js, "\\f"...)

		case '\n':
			if quote == '`' {
				js = append(js, '\n')
			} else {
				js = append(js, "\\n"...)
			}

		case '\r':
			js = append(js, "\\r"...)

		case '\v':
			js = append(js, "\\v"...)

		case '\x1B':
			js = append(js, "\\x1B"...)

		case '\\':
			js = append(js, "\\\\"...)

		case '/':
			// Avoid generating the sequence "</script" in JS code
			if i >= 1 && text[i-1] == '<' && strings.HasPrefix(strings.ToLower(text[i+1:]), "script") {
				js = append(js, '\\')
			}
			js = append(js, '/')

		case '\'':
			if quote == '\'' {
				js = append(js, '\\')
			}
			js = append(js, '\'')

		case '"':
			if quote == '"' {
				js = append(js, '\\')
			}
			js = append(js, '"')

		case '`':
			if quote == '`' {
				js = append(js, '\\')
			}
			js = append(js, '`')

		case '$':
			if quote == '`' && i+1 < n && text[i+1] == '{' {
				js = append(js, '\\')
			}
			js = append(js, '$')

		case '\u2028':
			js = append(js, "\\u2028"...)

		case '\u2029':
			js = append(js, "\\u2029"...)

		case '\uFEFF':
			js = append(js, "\\uFEFF"...)

		case utf8.RuneError:
			// Invalid UTF-8 can't be printed as is. Lone surrogates from the
			// source are decoded into this too, so this escapes the replacement
			// character itself instead of writing out the invalid bytes.
			js = append(js, "\\uFFFD"...)

		default:
			switch {
			// Common case: just append a single byte
			case c <= lastASCII:
				js = append(js, byte(c))

			// Otherwise, just encode to UTF-8
			default:
				js = utf8.AppendRune(js, c)
			}
		}
	}

	p.js = js
}

type printer struct {
	js               []byte
	options          Options
	needsSemicolon   bool
	stmtStart        int
	arrowExprStart   int
	prevOpEnd        int
	prevNumEnd       int
	intToBytesBuffer [64]byte
	prevOp           js_ast.OpCode
}

func (p *printer) print(text string) {
	p.js = append(p.js, text...)
}

// This is the same as "print(string(bytes))" without any unnecessary temporary
// allocations
func (p *printer) printBytes(bytes []byte) {
	p.js = append(p.js, bytes...)
}

func (p *printer) printIndent() {
	if !p.options.MinifyWhitespace {
		for i := 0; i < p.options.Indent; i++ {
			p.print("  ")
		}
	}
}

func (p *printer) printSymbol(name string) {
	p.printSpaceBeforeIdentifier()
	p.print(name)
}

func (p *printer) printClauseAlias(alias string) {
	if js_ast.IsIdentifier(alias) {
		p.printSpaceBeforeIdentifier()
		p.print(alias)
	} else {
		p.printQuotedString(alias, false /* allowBacktick */)
	}
}

func (p *printer) printNumber(value float64, level js_ast.L) {
	absValue := math.Abs(value)

	if value != value {
		p.printSpaceBeforeIdentifier()
		p.print("NaN")
	} else if value == positiveInfinity || value == negativeInfinity {
		wrap := value == negativeInfinity && level >= js_ast.LPrefix
		if wrap {
			p.print("(")
		}
		if value == negativeInfinity {
			p.printSpaceBeforeOperator(js_ast.UnOpNeg)
			p.print("-")
		} else {
			p.printSpaceBeforeIdentifier()
		}
		p.print("Infinity")
		if wrap {
			p.print(")")
		}
	} else {
		if !math.Signbit(value) {
			p.printSpaceBeforeIdentifier()
			p.printNonNegativeFloat(absValue)

			// Remember the end of the latest number
			p.prevNumEnd = len(p.js)
		} else if level >= js_ast.LPrefix {
			// Expressions such as "(-1).toString" need to wrap negative numbers.
			// Instead of testing for "value < 0" we test for "signbit(value)" and
			// "!isNaN(value)" because we need this to be true for "-0" and "-0 < 0"
			// is false.
			p.print("(-")
			p.printNonNegativeFloat(absValue)
			p.print(")")
		} else {
			p.printSpaceBeforeOperator(js_ast.UnOpNeg)
			p.print("-")
			p.printNonNegativeFloat(absValue)

			// Remember the end of the latest number
			p.prevNumEnd = len(p.js)
		}
	}
}

func (p *printer) printBinding(binding js_ast.Binding) {
	switch b := binding.Data.(type) {
	case *js_ast.BIdentifier:
		p.printSymbol(b.Name)

	case *js_ast.BVerbatim:
		p.printVerbatim(b.Code)

	default:
		panic(fmt.Sprintf("Unexpected binding of type %T", binding.Data))
	}
}

func (p *printer) printSpace() {
	if !p.options.MinifyWhitespace {
		p.print(" ")
	}
}

func (p *printer) printNewline() {
	if !p.options.MinifyWhitespace {
		p.print("\n")
	}
}

func (p *printer) printSpaceBeforeOperator(next js_ast.OpCode) {
	if p.prevOpEnd == len(p.js) {
		prev := p.prevOp

		// "+ + y" => "+ +y"
		// "+ ++ y" => "+ ++y"
		// "x + + y" => "x+ +y"
		// "x ++ + y" => "x+++y"
		// "x + ++ y" => "x+ ++y"
		// "-- >" => "-- >"
		// "< ! --" => "<! --"
		if ((prev == js_ast.BinOpAdd || prev == js_ast.UnOpPos) && (next == js_ast.BinOpAdd || next == js_ast.UnOpPos || next == js_ast.UnOpPreInc)) ||
			((prev == js_ast.BinOpSub || prev == js_ast.UnOpNeg) && (next == js_ast.BinOpSub || next == js_ast.UnOpNeg || next == js_ast.UnOpPreDec)) ||
			(prev == js_ast.UnOpPostDec && next == js_ast.BinOpGt) ||
			(prev == js_ast.UnOpNot && next == js_ast.UnOpPreDec && len(p.js) > 1 && p.js[len(p.js)-2] == '<') {
			p.print(" ")
		}
	}
}

func (p *printer) printSemicolonAfterStatement() {
	if !p.options.MinifyWhitespace {
		p.print(";\n")
	} else {
		p.needsSemicolon = true
	}
}

func (p *printer) printSemicolonIfNeeded() {
	if p.needsSemicolon {
		p.print(";")
		p.needsSemicolon = false
	}
}

func (p *printer) printSpaceBeforeIdentifier() {
	buffer := p.js
	n := len(buffer)
	if n > 0 && js_ast.IsIdentifierContinue(rune(buffer[n-1])) {
		p.print(" ")
	}
}

func (p *printer) printFnArgs(args []js_ast.Arg, isArrow bool) {
	wrap := true

	// Minify "(a) => {}" as "a=>{}"
	if p.options.MinifyWhitespace && isArrow && len(args) == 1 {
		if _, ok := args[0].Binding.Data.(*js_ast.BIdentifier); ok && args[0].Default == nil {
			wrap = false
		}
	}

	if wrap {
		p.print("(")
	}

	for i, arg := range args {
		if i != 0 {
			p.print(",")
			p.printSpace()
		}
		p.printBinding(arg.Binding)

		if arg.Default != nil {
			p.printSpace()
			p.print("=")
			p.printSpace()
			p.printExpr(*arg.Default, js_ast.LComma, 0)
		}
	}

	if wrap {
		p.print(")")
	}
}

func (p *printer) printQuotedString(text string, allowBacktick bool) {
	singleCost := 0
	doubleCost := 0
	backtickCost := 0

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\'':
			singleCost++
		case '"':
			doubleCost++
		case '`':
			backtickCost++
		case '$':
			// "${" sequences need to be escaped in template literals
			if i+1 < len(text) && text[i+1] == '{' {
				backtickCost++
			}
		}
	}

	c := "\""
	if doubleCost > singleCost {
		c = "'"
		if singleCost > backtickCost && allowBacktick {
			c = "`"
		}
	} else if doubleCost > backtickCost && allowBacktick {
		c = "`"
	}

	p.print(c)
	p.printUnquotedString(text, rune(c[0]))
	p.print(c)
}

func (p *printer) printUndefined(level js_ast.L) {
	if level >= js_ast.LPrefix {
		p.print("(void 0)")
	} else {
		p.printSpaceBeforeIdentifier()
		p.print("void 0")
		p.prevNumEnd = len(p.js)
	}
}

// Source text kept as is may have nested statements that were lowered
// separately. Those are printed on their own and then indented to line up
// with the source line they were found on.
func (p *printer) printVerbatim(code js_ast.Verbatim) {
	prevWasStmt := false

	for _, part := range code.Parts {
		if member := part.MemberOrNil; member != nil {
			// The transform rewrites these, so this is only reached when the
			// tree is printed without being transformed first
			p.printVerbatimText(member.Name)
			prevWasStmt = false
			continue
		}

		if part.Stmt == nil {
			p.printVerbatimText(part.Text)
			prevWasStmt = false
			continue
		}

		prefix := ""
		if !p.options.MinifyWhitespace {
			prefix = p.currentLineIndent()
		}

		// Several statements can replace a single nested statement
		if prevWasStmt {
			p.printNewline()
			p.print(prefix)
		}

		nested := printer{
			options:        p.options,
			stmtStart:      -1,
			arrowExprStart: -1,
			prevOpEnd:      -1,
			prevNumEnd:     -1,
		}
		nested.options.Indent = 0
		nested.printStmt(*part.Stmt)
		nested.printSemicolonIfNeeded()

		js := bytes.TrimSuffix(nested.js, []byte("\n"))
		if prefix != "" {
			js = bytes.ReplaceAll(js, []byte("\n"), []byte("\n"+prefix))
		}
		if len(js) > 0 {
			if js_ast.IsIdentifierStart(rune(js[0])) {
				p.printSpaceBeforeIdentifier()
			}
			p.printBytes(js)
			prevWasStmt = true
		}
	}
}

func (p *printer) printVerbatimText(text string) {
	if text == "" {
		return
	}
	if c := rune(text[0]); js_ast.IsIdentifierContinue(c) {
		p.printSpaceBeforeIdentifier()
	} else if n := len(p.js); n > 0 && (c == '+' || c == '-') && p.js[n-1] == byte(c) {
		// "a - -b" must not become "a--b"
		p.print(" ")
	}
	p.print(text)
}

// Returns the whitespace at the start of the line that is currently being
// printed
func (p *printer) currentLineIndent() string {
	start := bytes.LastIndexByte(p.js, '\n') + 1
	end := start
	for end < len(p.js) && (p.js[end] == ' ' || p.js[end] == '\t') {
		end++
	}
	return string(p.js[start:end])
}

type printExprFlags uint8

const (
	forbidCall printExprFlags = 1 << iota
)

func (p *printer) printExpr(expr js_ast.Expr, level js_ast.L, flags printExprFlags) {
	switch e := expr.Data.(type) {
	case *js_ast.EUndefined:
		p.printUndefined(level)

	case *js_ast.ENull:
		p.printSpaceBeforeIdentifier()
		p.print("null")

	case *js_ast.EThis:
		p.printSpaceBeforeIdentifier()
		p.print("this")

	case *js_ast.EVerbatim:
		// Source text may be any expression short of a comma expression, so it's
		// wrapped whenever it's the operand of an operator
		wrap := level >= js_ast.LAssign
		if wrap {
			p.print("(")
		}
		p.printVerbatim(e.Code)
		if wrap {
			p.print(")")
		}

	case *js_ast.ECall:
		wrap := level >= js_ast.LNew || (flags&forbidCall) != 0

		if wrap {
			p.print("(")
		}

		p.printExpr(e.Target, js_ast.LPostfix, 0)
		p.print("(")
		for i, arg := range e.Args {
			if i != 0 {
				p.print(",")
				p.printSpace()
			}
			p.printExpr(arg, js_ast.LComma, 0)
		}
		p.print(")")

		if wrap {
			p.print(")")
		}

	case *js_ast.EDot:
		p.printExpr(e.Target, js_ast.LPostfix, flags&forbidCall)
		if js_ast.IsIdentifier(e.Name) {
			if p.prevNumEnd == len(p.js) {
				// "1.toString" is a syntax error, so print "1 .toString" instead
				p.print(" ")
			}
			p.print(".")
			p.print(e.Name)
		} else {
			p.print("[")
			p.printQuotedString(e.Name, true /* allowBacktick */)
			p.print("]")
		}

	case *js_ast.EIndex:
		p.printExpr(e.Target, js_ast.LPostfix, flags&forbidCall)
		p.print("[")
		p.printExpr(e.Index, js_ast.LLowest, 0)
		p.print("]")

	case *js_ast.EArrow:
		wrap := level >= js_ast.LAssign

		if wrap {
			p.print("(")
		}

		p.printFnArgs(e.Args, true /* isArrow */)
		p.printSpace()
		p.print("=>")
		p.printSpace()

		wasPrinted := false
		if len(e.Body.Stmts) == 1 && e.PreferExpr {
			if s, ok := e.Body.Stmts[0].Data.(*js_ast.SReturn); ok && s.ValueOrNil != nil {
				p.arrowExprStart = len(p.js)
				p.printExpr(*s.ValueOrNil, js_ast.LComma, 0)
				wasPrinted = true
			}
		}
		if !wasPrinted {
			p.printBlock(e.Body.Stmts)
		}

		if wrap {
			p.print(")")
		}

	case *js_ast.EArray:
		p.print("[")
		for i, item := range e.Items {
			if i != 0 {
				p.print(",")
				p.printSpace()
			}
			p.printExpr(item, js_ast.LComma, 0)
		}
		p.print("]")

	case *js_ast.EObject:
		n := len(p.js)
		wrap := p.stmtStart == n || p.arrowExprStart == n
		if wrap {
			p.print("(")
		}
		p.print("{}")
		if wrap {
			p.print(")")
		}

	case *js_ast.EBoolean:
		p.printSpaceBeforeIdentifier()
		if e.Value {
			p.print("true")
		} else {
			p.print("false")
		}

	case *js_ast.EString:
		p.printQuotedString(e.Value, true /* allowBacktick */)

	case *js_ast.EBigInt:
		p.printSpaceBeforeIdentifier()
		p.print(e.Value)
		p.print("n")

	case *js_ast.ENumber:
		p.printNumber(e.Value, level)

	case *js_ast.EIdentifier:
		p.printSymbol(e.Name)

	case *js_ast.EUnary:
		entry := js_ast.OpTable[e.Op]
		wrap := level >= entry.Level

		if wrap {
			p.print("(")
		}

		if !e.Op.IsPrefix() {
			p.printExpr(e.Value, js_ast.LPostfix-1, 0)
		}

		if entry.IsKeyword {
			p.printSpaceBeforeIdentifier()
			p.print(entry.Text)
			p.printSpace()
		} else {
			p.printSpaceBeforeOperator(e.Op)
			p.print(entry.Text)
			p.prevOp = e.Op
			p.prevOpEnd = len(p.js)
		}

		if e.Op.IsPrefix() {
			p.printExpr(e.Value, js_ast.LPrefix-1, 0)
		}

		if wrap {
			p.print(")")
		}

	case *js_ast.EBinary:
		entry := js_ast.OpTable[e.Op]
		wrap := level >= entry.Level

		// Destructuring assignments must be parenthesized
		if n := len(p.js); p.stmtStart == n || p.arrowExprStart == n {
			if _, ok := e.Left.Data.(*js_ast.EObject); ok {
				wrap = true
			}
		}

		if wrap {
			p.print("(")
		}

		leftLevel := entry.Level - 1
		rightLevel := entry.Level - 1

		if e.Op.IsRightAssociative() {
			leftLevel = entry.Level
		}
		if e.Op.IsLeftAssociative() {
			rightLevel = entry.Level
		}

		switch e.Op {
		case js_ast.BinOpNullishCoalescing:
			// "??" can't directly contain "||" or "&&" without being wrapped in parentheses
			if left, ok := e.Left.Data.(*js_ast.EBinary); ok && (left.Op == js_ast.BinOpLogicalOr || left.Op == js_ast.BinOpLogicalAnd) {
				leftLevel = js_ast.LPrefix
			}
			if right, ok := e.Right.Data.(*js_ast.EBinary); ok && (right.Op == js_ast.BinOpLogicalOr || right.Op == js_ast.BinOpLogicalAnd) {
				rightLevel = js_ast.LPrefix
			}

		case js_ast.BinOpPow:
			// "**" can't contain certain unary expressions
			if _, ok := e.Left.Data.(*js_ast.EUnary); ok {
				leftLevel = js_ast.LCall
			} else if _, ok := e.Left.Data.(*js_ast.EUndefined); ok {
				// Undefined is printed as "void 0"
				leftLevel = js_ast.LCall
			} else if _, ok := e.Left.Data.(*js_ast.ENumber); ok {
				// Negative numbers are printed using a unary operator
				leftLevel = js_ast.LCall
			}
		}

		p.printExpr(e.Left, leftLevel, 0)

		if e.Op != js_ast.BinOpComma {
			p.printSpace()
		}

		if entry.IsKeyword {
			p.printSpaceBeforeIdentifier()
			p.print(entry.Text)
		} else {
			p.printSpaceBeforeOperator(e.Op)
			p.print(entry.Text)
			p.prevOp = e.Op
			p.prevOpEnd = len(p.js)
		}

		p.printSpace()
		p.printExpr(e.Right, rightLevel, 0)

		if wrap {
			p.print(")")
		}

	default:
		panic(fmt.Sprintf("Unexpected expression of type %T", expr.Data))
	}
}

func (p *printer) smallIntToBytes(n int) []byte {
	wasNegative := n < 0
	if wasNegative {
		// This assumes that -math.MinInt isn't a problem. This is fine because
		// these integers are floating-point exponents which never go up that high.
		n = -n
	}

	bytes := p.intToBytesBuffer[:]
	start := len(bytes)

	// Write out the number from the end to the front
	for {
		start--
		bytes[start] = '0' + byte(n%10)
		n /= 10
		if n == 0 {
			break
		}
	}

	// Stick a negative sign on the front if needed
	if wasNegative {
		start--
		bytes[start] = '-'
	}

	return bytes[start:]
}

func parseSmallInt(bytes []byte) int {
	wasNegative := bytes[0] == '-'
	if wasNegative {
		bytes = bytes[1:]
	}

	// Parse the integer without any error checking. This doesn't need to handle
	// integer overflow because these integers are floating-point exponents which
	// never go up that high.
	n := 0
	for _, c := range bytes {
		n = n*10 + int(c-'0')
	}

	if wasNegative {
		return -n
	}
	return n
}

func (p *printer) printNonNegativeFloat(absValue float64) {
	// We can avoid the slow call to strconv.FormatFloat() for integers less than
	// 1000 because we know that exponential notation will always be longer than
	// the integer representation. This is not the case for 1000 which is "1e3".
	if absValue < 1000 {
		if asInt := int64(absValue); absValue == float64(asInt) {
			p.printBytes(p.smallIntToBytes(int(asInt)))
			return
		}
	}

	// Format this number into a byte slice so we can mutate it in place without
	// further reallocation
	result := []byte(strconv.FormatFloat(absValue, 'g', -1, 64))

	// Simplify the exponent
	// "e+05" => "e5"
	// "e-05" => "e-5"
	if e := bytes.LastIndexByte(result, 'e'); e != -1 {
		from := e + 1
		to := from

		switch result[from] {
		case '+':
			// Strip off the leading "+"
			from++

		case '-':
			// Skip past the leading "-"
			to++
			from++
		}

		// Strip off leading zeros
		for from < len(result) && result[from] == '0' {
			from++
		}

		result = append(result[:to], result[from:]...)
	}

	dot := bytes.IndexByte(result, '.')

	if dot == 1 && result[0] == '0' {
		// Simplify numbers starting with "0."
		afterDot := 2

		// Strip off the leading zero when minifying
		// "0.5" => ".5"
		if p.options.MinifyWhitespace {
			result = result[1:]
			afterDot--
		}

		// Try using an exponent
		// "0.001" => "1e-3"
		if result[afterDot] == '0' {
			i := afterDot + 1
			for result[i] == '0' {
				i++
			}
			remaining := result[i:]
			exponent := p.smallIntToBytes(afterDot - i - len(remaining))

			// Only switch if it's actually shorter
			if len(result) > len(remaining)+1+len(exponent) {
				result = append(append(remaining, 'e'), exponent...)
			}
		}
	} else if dot != -1 {
		// Try to get rid of a "." and maybe also an "e"
		if e := bytes.LastIndexByte(result, 'e'); e != -1 {
			integer := result[:dot]
			fraction := result[dot+1 : e]
			exponent := parseSmallInt(result[e+1:]) - len(fraction)

			// Handle small exponents by appending zeros instead
			if exponent >= 0 && exponent <= 2 {
				// "1.2e1" => "12"
				// "1.2e2" => "120"
				// "1.2e3" => "1200"
				if len(result) >= len(integer)+len(fraction)+exponent {
					result = append(integer, fraction...)
					for i := 0; i < exponent; i++ {
						result = append(result, '0')
					}
				}
			} else {
				// "1.2e4" => "12e3"
				exponent := p.smallIntToBytes(exponent)
				if len(result) >= len(integer)+len(fraction)+1+len(exponent) {
					result = append(append(append(integer, fraction...), 'e'), exponent...)
				}
			}
		}
	} else if result[len(result)-1] == '0' {
		// Simplify numbers ending with "0" by trying to use an exponent
		// "1000" => "1e3"
		i := len(result) - 1
		for i > 0 && result[i-1] == '0' {
			i--
		}
		remaining := result[:i]
		exponent := p.smallIntToBytes(len(result) - i)

		// Only switch if it's actually shorter
		if len(result) > len(remaining)+1+len(exponent) {
			result = append(append(remaining, 'e'), exponent...)
		}
	}

	p.printBytes(result)
}

func (p *printer) printDeclStmt(isExport bool, keyword string, decls []js_ast.Decl) {
	p.printIndent()
	p.printSpaceBeforeIdentifier()
	if isExport {
		p.print("export ")
	}
	p.printDecls(keyword, decls)
	p.printSemicolonAfterStatement()
}

func (p *printer) printDecls(keyword string, decls []js_ast.Decl) {
	p.print(keyword)
	p.printSpace()

	for i, decl := range decls {
		if i != 0 {
			p.print(",")
			p.printSpace()
		}
		p.printBinding(decl.Binding)

		if decl.ValueOrNil != nil {
			p.printSpace()
			p.print("=")
			p.printSpace()
			p.printExpr(*decl.ValueOrNil, js_ast.LComma, 0)
		}
	}
}

func (p *printer) printBlock(stmts []js_ast.Stmt) {
	p.print("{")
	p.printNewline()

	p.options.Indent++
	for _, stmt := range stmts {
		p.printSemicolonIfNeeded()
		p.printStmt(stmt)
	}
	p.options.Indent--
	p.needsSemicolon = false

	p.printIndent()
	p.print("}")
}

func (p *printer) printPath(path js_ast.ImportPath) {
	p.printQuotedString(path.Text, false /* allowBacktick */)
}

// Verbatim statements carry their own terminator if they had one in the
// source. When minifying, the next statement may end up on the same line, so
// anything that wasn't obviously terminated still needs a semicolon.
func (p *printer) printVerbatimStmt(code js_ast.Verbatim) {
	p.printVerbatim(code)
	if p.options.MinifyWhitespace {
		if n := len(p.js); n > 0 && p.js[n-1] != ';' && p.js[n-1] != '}' {
			p.needsSemicolon = true
		}
	} else {
		p.printNewline()
	}
}

func (p *printer) printExportDecl(decl js_ast.Stmt) {
	switch s := decl.Data.(type) {
	case *js_ast.SLocal:
		switch s.Kind {
		case js_ast.LocalConst:
			p.printDeclStmt(true, "const", s.Decls)
		case js_ast.LocalLet:
			p.printDeclStmt(true, "let", s.Decls)
		case js_ast.LocalVar:
			p.printDeclStmt(true, "var", s.Decls)
		}

	case *js_ast.SFunction:
		p.printIndent()
		p.printSpaceBeforeIdentifier()
		p.print("export ")
		p.printVerbatimStmt(s.Code)

	case *js_ast.SClass:
		p.printIndent()
		p.printSpaceBeforeIdentifier()
		p.print("export ")
		p.printVerbatimStmt(s.Code)

	default:
		panic(fmt.Sprintf("Internal error: unexpected exported statement of type %T", decl.Data))
	}
}

func (p *printer) printStmt(stmt js_ast.Stmt) {
	switch s := stmt.Data.(type) {
	case *js_ast.STypeScript, *js_ast.SInterface, *js_ast.STypeAlias:
		// These have no runtime representation

	case *js_ast.SEnum:
		if !s.IsDeclare {
			panic(fmt.Sprintf("Internal error: enum %q was not lowered", s.Name.Name))
		}

	case *js_ast.SNamespace:
		if !s.IsDeclare && !s.IsStringName {
			panic(fmt.Sprintf("Internal error: namespace %q was not lowered", s.Name.Name))
		}

	case *js_ast.STSImportEquals:
		if s.Kind.IsValue() {
			panic(fmt.Sprintf("Internal error: import %q was not lowered", s.Name.Name))
		}

	case *js_ast.SFunction:
		if !s.IsDeclare {
			p.printIndent()
			p.printSpaceBeforeIdentifier()
			p.printVerbatimStmt(s.Code)
		}

	case *js_ast.SClass:
		if !s.IsDeclare {
			p.printIndent()
			p.printSpaceBeforeIdentifier()
			p.printVerbatimStmt(s.Code)
		}

	case *js_ast.SVerbatim:
		p.printIndent()
		p.printSpaceBeforeIdentifier()
		p.printVerbatimStmt(s.Code)

	case *js_ast.SEmpty:
		p.printIndent()
		p.print(";")
		p.printNewline()

	case *js_ast.SExportDefault:
		p.printIndent()
		p.printSpaceBeforeIdentifier()
		p.print("export default")
		p.printSpace()

		if s.Value.Expr != nil {
			p.printExpr(*s.Value.Expr, js_ast.LComma, 0)
			p.printSemicolonAfterStatement()
			return
		}

		switch s2 := s.Value.Stmt.Data.(type) {
		case *js_ast.SFunction:
			p.printSpaceBeforeIdentifier()
			p.printVerbatimStmt(s2.Code)

		case *js_ast.SClass:
			p.printSpaceBeforeIdentifier()
			p.printVerbatimStmt(s2.Code)

		default:
			panic("Internal error")
		}

	case *js_ast.SExportStar:
		p.printIndent()
		p.printSpaceBeforeIdentifier()
		p.print("export")
		p.printSpace()
		p.print("*")
		p.printSpace()
		if s.Alias != nil {
			p.print("as")
			p.printSpace()
			p.printClauseAlias(s.Alias.Name)
			p.printSpace()
			p.printSpaceBeforeIdentifier()
		}
		p.print("from")
		p.printSpace()
		p.printPath(s.Path)
		p.printSemicolonAfterStatement()

	case *js_ast.SExportClause:
		if s.DeclOrNil != nil {
			if !js_ast.IsTypeScriptOnly(*s.DeclOrNil) {
				p.printExportDecl(*s.DeclOrNil)
			}
			return
		}

		p.printIndent()
		p.printSpaceBeforeIdentifier()
		p.print("export")
		p.printSpace()
		p.print("{")

		if !s.IsSingleLine {
			p.options.Indent++
		}

		for i, item := range s.Items {
			if i != 0 {
				p.print(",")
			}

			if s.IsSingleLine {
				p.printSpace()
			} else {
				p.printNewline()
				p.printIndent()
			}

			if s.PathOrNil != nil {
				p.printClauseAlias(item.Name.Name)
			} else {
				p.printSymbol(item.Name.Name)
			}
			if item.Name.Name != item.Alias {
				p.printSpace()
				p.printSpaceBeforeIdentifier()
				p.print("as")
				p.printSpace()
				p.printClauseAlias(item.Alias)
			}
		}

		if !s.IsSingleLine {
			p.options.Indent--
			p.printNewline()
			p.printIndent()
		} else if len(s.Items) > 0 {
			p.printSpace()
		}

		p.print("}")
		if s.PathOrNil != nil {
			p.printSpace()
			p.print("from")
			p.printSpace()
			p.printPath(*s.PathOrNil)
		}
		p.printSemicolonAfterStatement()

	case *js_ast.SLocal:
		if s.IsDeclare {
			return
		}
		switch s.Kind {
		case js_ast.LocalConst:
			p.printDeclStmt(false, "const", s.Decls)
		case js_ast.LocalLet:
			p.printDeclStmt(false, "let", s.Decls)
		case js_ast.LocalVar:
			p.printDeclStmt(false, "var", s.Decls)
		}

	case *js_ast.SImport:
		itemCount := 0

		p.printIndent()
		p.printSpaceBeforeIdentifier()
		p.print("import")
		p.printSpace()

		if s.Items != nil {
			var named []js_ast.ImportItem
			hasNamed := len(*s.Items) == 0

			for _, item := range *s.Items {
				switch item.Kind {
				case js_ast.ImportDefault:
					if itemCount > 0 {
						p.print(",")
						p.printSpace()
					}
					p.printSymbol(item.Name.Name)
					itemCount++

				case js_ast.ImportStar:
					if itemCount > 0 {
						p.print(",")
						p.printSpace()
					}
					p.print("*")
					p.printSpace()
					p.print("as ")
					p.printSymbol(item.Name.Name)
					itemCount++

				default:
					named = append(named, item)
					hasNamed = true
				}
			}

			if hasNamed {
				if itemCount > 0 {
					p.print(",")
					p.printSpace()
				}

				p.print("{")
				if !s.IsSingleLine {
					p.options.Indent++
				}

				for i, item := range named {
					if i != 0 {
						p.print(",")
					}

					if s.IsSingleLine {
						p.printSpace()
					} else {
						p.printNewline()
						p.printIndent()
					}

					p.printClauseAlias(item.Alias)
					if item.Name.Name != item.Alias {
						p.printSpace()
						p.printSpaceBeforeIdentifier()
						p.print("as ")
						p.print(item.Name.Name)
					}
				}

				if !s.IsSingleLine {
					p.options.Indent--
					p.printNewline()
					p.printIndent()
				} else if len(named) > 0 {
					p.printSpace()
				}

				p.print("}")
				itemCount++
			}
		}

		if itemCount > 0 {
			p.printSpace()
			p.printSpaceBeforeIdentifier()
			p.print("from")
			p.printSpace()
		}

		p.printPath(s.Path)
		p.printSemicolonAfterStatement()

	case *js_ast.SReturn:
		p.printIndent()
		p.printSpaceBeforeIdentifier()
		p.print("return")
		if s.ValueOrNil != nil {
			p.printSpace()
			p.printExpr(*s.ValueOrNil, js_ast.LLowest, 0)
		}
		p.printSemicolonAfterStatement()

	case *js_ast.SExpr:
		p.printIndent()
		p.stmtStart = len(p.js)
		p.printExpr(s.Value, js_ast.LLowest, 0)
		p.printSemicolonAfterStatement()

	default:
		panic(fmt.Sprintf("Unexpected statement of type %T", stmt.Data))
	}
}

type Options struct {
	Indent           int
	MinifyWhitespace bool
}

type PrintResult struct {
	JS []byte
}

func Print(tree js_ast.AST, options Options) PrintResult {
	p := &printer{
		options:        options,
		stmtStart:      -1,
		arrowExprStart: -1,
		prevOpEnd:      -1,
		prevNumEnd:     -1,
	}

	if tree.Hashbang != "" {
		p.print(tree.Hashbang + "\n")
	}

	for _, stmt := range tree.Stmts {
		p.printStmt(stmt)
		p.printSemicolonIfNeeded()
	}

	return PrintResult{JS: p.js}
}
