package js_ast

import (
	"github.com/tserase/tserase/internal/logger"
)

// Every file is parsed into a separate AST. The tree uses plain names instead
// of symbol references. Scopes and symbols are resolved by the front end and
// live in a separate table that the TypeScript transform only reads.
//
// Unlike a bundler AST, this tree is mutated in place. The TypeScript
// transform replaces and deletes top-level statements and appends new ones,
// and the printer then serializes whatever is left.
//
// Only the parts of the language that the TypeScript transform needs to
// inspect or synthesize are modeled as nodes. Everything else is kept as
// verbatim source text that has already had its type-only syntax removed.

type L int

// https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Operators/Operator_Precedence
const (
	LLowest L = iota
	LComma
	LSpread
	LYield
	LAssign
	LConditional
	LNullishCoalescing
	LLogicalOr
	LLogicalAnd
	LBitwiseOr
	LBitwiseXor
	LBitwiseAnd
	LEquals
	LCompare
	LShift
	LAdd
	LMultiply
	LExponentiation
	LPrefix
	LPostfix
	LNew
	LCall
	LMember
)

type OpCode int

func (op OpCode) IsPrefix() bool {
	return op < UnOpPostDec
}

func (op OpCode) IsLeftAssociative() bool {
	return op >= BinOpAdd && op < BinOpComma && op != BinOpPow
}

func (op OpCode) IsRightAssociative() bool {
	return op >= BinOpAssign || op == BinOpPow
}

// If you add a new token, remember to add it to "OpTable" too
const (
	// Prefix
	UnOpPos OpCode = iota
	UnOpNeg
	UnOpCpl
	UnOpNot
	UnOpVoid
	UnOpTypeof
	UnOpDelete

	// Prefix update
	UnOpPreDec
	UnOpPreInc

	// Postfix update
	UnOpPostDec
	UnOpPostInc

	// Left-associative
	BinOpAdd
	BinOpSub
	BinOpMul
	BinOpDiv
	BinOpRem
	BinOpPow
	BinOpLt
	BinOpLe
	BinOpGt
	BinOpGe
	BinOpIn
	BinOpInstanceof
	BinOpShl
	BinOpShr
	BinOpUShr
	BinOpLooseEq
	BinOpLooseNe
	BinOpStrictEq
	BinOpStrictNe
	BinOpNullishCoalescing
	BinOpLogicalOr
	BinOpLogicalAnd
	BinOpBitwiseOr
	BinOpBitwiseAnd
	BinOpBitwiseXor

	// Non-associative
	BinOpComma

	// Right-associative
	BinOpAssign
	BinOpAddAssign
	BinOpSubAssign
	BinOpMulAssign
	BinOpDivAssign
	BinOpRemAssign
	BinOpPowAssign
	BinOpShlAssign
	BinOpShrAssign
	BinOpUShrAssign
	BinOpBitwiseOrAssign
	BinOpBitwiseAndAssign
	BinOpBitwiseXorAssign
	BinOpNullishCoalescingAssign
	BinOpLogicalOrAssign
	BinOpLogicalAndAssign
)

type opTableEntry struct {
	Text      string
	Level     L
	IsKeyword bool
}

var OpTable = []opTableEntry{
	// Prefix
	{"+", LPrefix, false},
	{"-", LPrefix, false},
	{"~", LPrefix, false},
	{"!", LPrefix, false},
	{"void", LPrefix, true},
	{"typeof", LPrefix, true},
	{"delete", LPrefix, true},

	// Prefix update
	{"--", LPrefix, false},
	{"++", LPrefix, false},

	// Postfix update
	{"--", LPostfix, false},
	{"++", LPostfix, false},

	// Left-associative
	{"+", LAdd, false},
	{"-", LAdd, false},
	{"*", LMultiply, false},
	{"/", LMultiply, false},
	{"%", LMultiply, false},
	{"**", LExponentiation, false}, // Right-associative
	{"<", LCompare, false},
	{"<=", LCompare, false},
	{">", LCompare, false},
	{">=", LCompare, false},
	{"in", LCompare, true},
	{"instanceof", LCompare, true},
	{"<<", LShift, false},
	{">>", LShift, false},
	{">>>", LShift, false},
	{"==", LEquals, false},
	{"!=", LEquals, false},
	{"===", LEquals, false},
	{"!==", LEquals, false},
	{"??", LNullishCoalescing, false},
	{"||", LLogicalOr, false},
	{"&&", LLogicalAnd, false},
	{"|", LBitwiseOr, false},
	{"&", LBitwiseAnd, false},
	{"^", LBitwiseXor, false},

	// Non-associative
	{",", LComma, false},

	// Right-associative
	{"=", LAssign, false},
	{"+=", LAssign, false},
	{"-=", LAssign, false},
	{"*=", LAssign, false},
	{"/=", LAssign, false},
	{"%=", LAssign, false},
	{"**=", LAssign, false},
	{"<<=", LAssign, false},
	{">>=", LAssign, false},
	{">>>=", LAssign, false},
	{"|=", LAssign, false},
	{"&=", LAssign, false},
	{"^=", LAssign, false},
	{"??=", LAssign, false},
	{"||=", LAssign, false},
	{"&&=", LAssign, false},
}

type LocRef struct {
	Loc  logger.Loc
	Name string
}

// This is the "type" marker that TypeScript allows on import and export
// declarations and on their individual specifiers:
//
//	import type { A } from 'path'
//	import { type A } from 'path'
//	export type { A }
//	export { type A }
type ImportOrExportKind uint8

const (
	KindValue ImportOrExportKind = iota
	KindType
)

func (kind ImportOrExportKind) IsType() bool {
	return kind == KindType
}

func (kind ImportOrExportKind) IsValue() bool {
	return kind == KindValue
}

type ImportPath struct {
	Loc  logger.Loc
	Text string
}

// Source text with all type-only syntax already removed. TypeScript
// declarations nested inside the text that need to be lowered (enums and
// import-equals declarations in function bodies, for example) are broken out
// into statements so the transform can visit them.
type Verbatim struct {
	Parts []VerbatimPart
}

type VerbatimPart struct {
	Text string

	// If non-nil, this part is a statement and "Text" is ignored
	Stmt *Stmt

	// If non-nil, this part is a use of a namespace member and "Text" is
	// ignored
	MemberOrNil *NamespaceMember
}

// A use of a name exported from a namespace, from inside a body of that
// namespace. Exported variables and members exported from another body of
// the same namespace only exist as properties on the namespace object:
//
//	namespace ns { export let x = 1 }
//	namespace ns { console.log(x) } // This is "ns.x"
//
// "Namespace" is the location of the namespace name in the body that the use
// appears in, which identifies the closure argument to read the property from.
type NamespaceMember struct {
	Namespace logger.Loc
	Name      string

	// This is "{ x }" in an object literal, which must become "{ x: ns.x }"
	IsShorthand bool
}

func VerbatimText(text string) Verbatim {
	return Verbatim{Parts: []VerbatimPart{{Text: text}}}
}

type Arg struct {
	Binding Binding
	Default *Expr
}

type FnBody struct {
	Loc   logger.Loc
	Stmts []Stmt
}

type Binding struct {
	Loc  logger.Loc
	Data B
}

// This interface is never called. Its purpose is to encode a variant type in
// Go's type system.
type B interface{ isBinding() }

type BIdentifier struct{ Name string }

// An object or array pattern kept as source text. "Names" lists every
// identifier the pattern binds, in source order.
type BVerbatim struct {
	Code  Verbatim
	Names []string
}

func (*BIdentifier) isBinding() {}
func (*BVerbatim) isBinding()   {}

type Expr struct {
	Loc  logger.Loc
	Data E
}

// This interface is never called. Its purpose is to encode a variant type in
// Go's type system.
type E interface{ isExpr() }

type EArray struct {
	Items []Expr
}

type EUnary struct {
	Op    OpCode
	Value Expr
}

type EBinary struct {
	Op    OpCode
	Left  Expr
	Right Expr
}

type EBoolean struct{ Value bool }

type ENull struct{}

type EUndefined struct{}

type EThis struct{}

type ECall struct {
	Target Expr
	Args   []Expr
}

type EDot struct {
	Target  Expr
	Name    string
	NameLoc logger.Loc
}

type EIndex struct {
	Target Expr
	Index  Expr
}

type EArrow struct {
	Args []Arg
	Body FnBody

	PreferExpr bool // Use shorthand if true and "Body" is a single return statement
}

type EIdentifier struct {
	Name string
}

type ENumber struct{ Value float64 }

type EBigInt struct{ Value string }

// Only empty object literals are ever synthesized. Anything else the front
// end sees in an expression position is kept as an EVerbatim.
type EObject struct{}

type EString struct {
	Value string
}

// An expression kept as source text. It is parenthesized when printed in any
// position that binds tighter than an assignment.
type EVerbatim struct {
	Code Verbatim
}

func (*EArray) isExpr()      {}
func (*EUnary) isExpr()      {}
func (*EBinary) isExpr()     {}
func (*EBoolean) isExpr()    {}
func (*ENull) isExpr()       {}
func (*EUndefined) isExpr()  {}
func (*EThis) isExpr()       {}
func (*ECall) isExpr()       {}
func (*EDot) isExpr()        {}
func (*EIndex) isExpr()      {}
func (*EArrow) isExpr()      {}
func (*EIdentifier) isExpr() {}
func (*ENumber) isExpr()     {}
func (*EBigInt) isExpr()     {}
func (*EObject) isExpr()     {}
func (*EString) isExpr()     {}
func (*EVerbatim) isExpr()   {}

type ExprOrStmt struct {
	Expr *Expr
	Stmt *Stmt
}

type Stmt struct {
	Loc  logger.Loc
	Data S
}

// This interface is never called. Its purpose is to encode a variant type in
// Go's type system.
type S interface{ isStmt() }

// This is a stand-in for a TypeScript type declaration
type STypeScript struct{}

type SEmpty struct{}

// This object represents all of these types of export statements:
//
//	export {item1, item2}
//	export {item1, item2} from 'path'
//	export type {item1, item2}
//	export var foo = 123
//	export enum Foo { A }
//	export import Foo = Bar.Baz
//
// There is never both a declaration and a clause.
type SExportClause struct {
	DeclOrNil    *Stmt
	Items        []ClauseItem
	PathOrNil    *ImportPath
	Kind         ImportOrExportKind
	IsSingleLine bool
}

type SExportDefault struct {
	Value ExprOrStmt // May be a SFunction or SClass
}

type SExportStar struct {
	Alias *LocRef
	Path  ImportPath
	Kind  ImportOrExportKind
}

type SExpr struct {
	Value Expr
}

type EnumNameKind uint8

const (
	EnumNameIdentifier EnumNameKind = iota
	EnumNameString

	// These are rejected by the compiler but the parser still accepts them
	EnumNameComputed
	EnumNameNumber
)

type EnumValue struct {
	Loc        logger.Loc
	NameKind   EnumNameKind
	Name       string
	ValueOrNil *Expr
}

type SEnum struct {
	Name      LocRef
	Values    []EnumValue
	IsConst   bool
	IsDeclare bool
}

type SNamespace struct {
	Name LocRef

	// This is "declare module 'path' {}"
	IsStringName bool

	Stmts     []Stmt
	IsDeclare bool
}

type SInterface struct {
	Name LocRef
}

type STypeAlias struct {
	Name LocRef
}

// The right-hand side of "import Foo = ..." in TypeScript
type TSModuleReference struct {
	Loc  logger.Loc
	Data TSModuleReferenceData
}

// This interface is never called. Its purpose is to encode a variant type in
// Go's type system.
type TSModuleReferenceData interface{ isTSModuleReference() }

// import Foo = require('path')
type TSExternalModuleReference struct {
	Path ImportPath
}

// import Foo = Bar
type TSIdentifierName struct {
	Name string
}

// import Foo = Bar.Baz
type TSQualifiedName struct {
	Left     TSModuleReference
	Right    string
	RightLoc logger.Loc
}

func (*TSExternalModuleReference) isTSModuleReference() {}
func (*TSIdentifierName) isTSModuleReference()          {}
func (*TSQualifiedName) isTSModuleReference()           {}

// This is an "import Foo = ..." statement in TypeScript
type STSImportEquals struct {
	Name  LocRef
	Value TSModuleReference
	Kind  ImportOrExportKind
}

type SFunction struct {
	Name      *LocRef
	Code      Verbatim
	IsDeclare bool
}

type SClass struct {
	Name      *LocRef
	Code      Verbatim
	IsDeclare bool
}

// Any other statement, kept as source text
type SVerbatim struct {
	Code Verbatim
}

type ImportItemKind uint8

const (
	ImportNamed ImportItemKind = iota
	ImportDefault
	ImportStar
)

type ImportItem struct {
	Kind ImportItemKind

	// This is the imported name for named imports and is empty otherwise
	Alias    string
	AliasLoc logger.Loc

	// The local binding
	Name LocRef

	ImportKind ImportOrExportKind
}

// This object represents all of these types of import statements:
//
//	import 'path'
//	import {} from 'path'
//	import {item1, item2} from 'path'
//	import * as ns from 'path'
//	import defaultItem, {item1, item2} from 'path'
//	import defaultItem, * as ns from 'path'
//	import type {item1} from 'path'
//
// "Items" is nil for a bare "import 'path'" and a non-nil empty slice for
// "import {} from 'path'". A default item always comes first.
type SImport struct {
	Items        *[]ImportItem
	Path         ImportPath
	Kind         ImportOrExportKind
	IsSingleLine bool
}

type SReturn struct {
	ValueOrNil *Expr
}

type LocalKind uint8

const (
	LocalVar LocalKind = iota
	LocalLet
	LocalConst
)

type SLocal struct {
	Decls     []Decl
	Kind      LocalKind
	IsDeclare bool
}

func (*STypeScript) isStmt()     {}
func (*SEmpty) isStmt()          {}
func (*SExportClause) isStmt()   {}
func (*SExportDefault) isStmt()  {}
func (*SExportStar) isStmt()     {}
func (*SExpr) isStmt()           {}
func (*SEnum) isStmt()           {}
func (*SNamespace) isStmt()      {}
func (*SInterface) isStmt()      {}
func (*STypeAlias) isStmt()      {}
func (*STSImportEquals) isStmt() {}
func (*SFunction) isStmt()       {}
func (*SClass) isStmt()          {}
func (*SVerbatim) isStmt()       {}
func (*SImport) isStmt()         {}
func (*SReturn) isStmt()         {}
func (*SLocal) isStmt()          {}

type ClauseItem struct {
	// This is the exported name
	Alias    string
	AliasLoc logger.Loc

	// This is the local name, or the imported name for re-exports
	Name LocRef

	Kind ImportOrExportKind
}

type Decl struct {
	Binding    Binding
	ValueOrNil *Expr
}

type AST struct {
	Hashbang string
	Stmts    []Stmt
}

type ScopeID uint32

type SymbolID uint32

type SymbolFlags uint16

const (
	SymbolImportBinding SymbolFlags = 1 << iota
	SymbolFunctionScopedVariable
	SymbolBlockScopedVariable
	SymbolFunction
	SymbolClass
	SymbolEnum
	SymbolNamespace
	SymbolInterface
	SymbolTypeAlias

	SymbolValue = SymbolFunctionScopedVariable | SymbolBlockScopedVariable |
		SymbolFunction | SymbolClass | SymbolEnum | SymbolNamespace
)

func (flags SymbolFlags) Has(flag SymbolFlags) bool {
	return (flags & flag) != 0
}

// Each use of a name that resolved to a symbol
type Reference struct {
	Loc logger.Loc

	// True if this use only appears in a type position such as an annotation
	// or an "export type" clause
	IsType bool
}
