package js_ast

import (
	"github.com/tserase/tserase/internal/logger"
)

func Assign(a Expr, b Expr) Expr {
	return Expr{a.Loc, &EBinary{BinOpAssign, a, b}}
}

func AssignStmt(a Expr, b Expr) Stmt {
	return Stmt{a.Loc, &SExpr{Expr{a.Loc, &EBinary{BinOpAssign, a, b}}}}
}

func JoinWithComma(a Expr, b Expr) Expr {
	return Expr{a.Loc, &EBinary{BinOpComma, a, b}}
}

// Returns the name of the identifier in "export default foo" if there is one
func (s *SExportDefault) IdentifierName() (string, bool) {
	if s.Value.Expr != nil {
		if id, ok := s.Value.Expr.Data.(*EIdentifier); ok {
			return id.Name, true
		}
	}
	return "", false
}

// Returns true for statements that have no runtime representation at all
func IsTypeScriptOnly(stmt Stmt) bool {
	switch s := stmt.Data.(type) {
	case *STypeScript, *SInterface, *STypeAlias:
		return true
	case *SEnum:
		return s.IsDeclare
	case *SNamespace:
		return s.IsDeclare
	case *SLocal:
		return s.IsDeclare
	case *SFunction:
		return s.IsDeclare
	case *SClass:
		return s.IsDeclare
	case *STSImportEquals:
		return s.Kind.IsType()
	}
	return false
}

// Returns true for declarations written with a "declare" modifier
func IsDeclare(stmt Stmt) bool {
	switch s := stmt.Data.(type) {
	case *SEnum:
		return s.IsDeclare
	case *SNamespace:
		return s.IsDeclare
	case *SLocal:
		return s.IsDeclare
	case *SFunction:
		return s.IsDeclare
	case *SClass:
		return s.IsDeclare
	}
	return false
}

// Returns the runtime names bound by a declaration statement in source order
func DeclaredNames(stmt Stmt) (names []LocRef) {
	switch s := stmt.Data.(type) {
	case *SLocal:
		for _, decl := range s.Decls {
			switch b := decl.Binding.Data.(type) {
			case *BIdentifier:
				names = append(names, LocRef{Loc: decl.Binding.Loc, Name: b.Name})
			case *BVerbatim:
				for _, name := range b.Names {
					names = append(names, LocRef{Loc: decl.Binding.Loc, Name: name})
				}
			}
		}
	case *SFunction:
		if s.Name != nil {
			names = append(names, *s.Name)
		}
	case *SClass:
		if s.Name != nil {
			names = append(names, *s.Name)
		}
	case *SEnum:
		names = append(names, s.Name)
	case *SNamespace:
		if !s.IsStringName {
			names = append(names, s.Name)
		}
	case *STSImportEquals:
		names = append(names, s.Name)
	}
	return
}

func StringExpr(loc logger.Loc, text string) Expr {
	return Expr{loc, &EString{Value: text}}
}

func IdentifierExpr(loc logger.Loc, name string) Expr {
	return Expr{loc, &EIdentifier{Name: name}}
}
