package checker

import (
	"github.com/cloudcmds/minicc/ast"
	"github.com/cloudcmds/minicc/types"
)

// Func pairs a function symbol with its declaration and the frame layout
// discovered while checking its body. Locals holds every variable defined
// anywhere in the function, parameters first, ordered by slot index.
type Func struct {
	Sym    *Symbol
	Decl   *ast.FuncDecl
	Locals []*Symbol
}

// NumParams returns the number of declared parameters.
func (f *Func) NumParams() int { return len(f.Decl.Params) }

// NumLocals returns the frame size in slots, parameters included.
func (f *Func) NumLocals() int { return len(f.Locals) }

// Info records the facts established during semantic analysis. The maps
// are keyed by syntax nodes, so later stages can look up the type of any
// expression and the symbol behind any identifier without re-resolving
// names.
type Info struct {

	// Types maps each checked expression to its type.
	Types map[ast.Expr]types.Type

	// Defs maps declaring identifiers to the symbols they introduce.
	Defs map[*ast.Ident]*Symbol

	// Uses maps referencing identifiers to the symbols they denote.
	Uses map[*ast.Ident]*Symbol

	// Functions holds every declared function in declaration order. A
	// function symbol's Index is its position here.
	Functions []*Func

	// Globals holds every global variable in slot order.
	Globals []*Symbol
}

// TypeOf returns the type recorded for an expression, or Invalid if the
// expression was never checked.
func (info *Info) TypeOf(e ast.Expr) types.Type {
	if t, ok := info.Types[e]; ok {
		return t
	}
	return types.Invalid
}

// SymbolOf returns the symbol behind an identifier, whether the identifier
// declares it or references it. Returns nil if the identifier was never
// resolved.
func (info *Info) SymbolOf(ident *ast.Ident) *Symbol {
	if sym, ok := info.Defs[ident]; ok {
		return sym
	}
	if sym, ok := info.Uses[ident]; ok {
		return sym
	}
	return nil
}

// FuncOf returns the Func for a function declaration, or nil if the
// declaration was never registered.
func (info *Info) FuncOf(decl *ast.FuncDecl) *Func {
	sym, ok := info.Defs[decl.Name]
	if !ok || sym.Kind() != FunctionSymbol {
		return nil
	}
	return info.Functions[sym.Index()]
}
