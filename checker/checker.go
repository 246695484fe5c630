// Package checker implements semantic analysis. It resolves every
// identifier to a symbol, assigns a type to every expression, and enforces
// the language's declaration and type rules.
//
// Analysis runs in two passes over the top level. The first pass registers
// every function signature in the global scope so that calls may appear
// before the function they name. The second pass checks statements and
// function bodies in order. Checking stops at the first error, which is
// returned as a *errz.StructuredError carrying the offending source
// position.
package checker

import (
	"strings"

	"github.com/cloudcmds/minicc/ast"
	"github.com/cloudcmds/minicc/errz"
	"github.com/cloudcmds/minicc/token"
	"github.com/cloudcmds/minicc/types"
)

// Option is a configuration function used to customize a check.
type Option func(*Checker)

// WithFilename sets the filename reported in error locations.
func WithFilename(filename string) Option {
	return func(c *Checker) {
		c.filename = filename
	}
}

// WithSource provides the program source so that errors can carry the
// offending line of text.
func WithSource(source string) Option {
	return func(c *Checker) {
		c.lines = strings.Split(source, "\n")
	}
}

// Check analyzes a parsed program. On success it returns the collected
// semantic facts and the symbol table describing every scope the program
// declared. On failure it returns the first error found.
func Check(program *ast.Program, opts ...Option) (*Info, *SymbolTable, error) {
	c := &Checker{
		info: &Info{
			Types: map[ast.Expr]types.Type{},
			Defs:  map[*ast.Ident]*Symbol{},
			Uses:  map[*ast.Ident]*Symbol{},
		},
		symtab: NewSymbolTable(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.symtab.Push(GlobalScope)
	// Register every top level function signature before checking any
	// statement, so calls may precede the declaration they refer to and
	// functions may recurse.
	for _, stmt := range program.Stmts {
		if decl, ok := stmt.(*ast.FuncDecl); ok {
			c.declareFunction(decl)
			if c.err != nil {
				break
			}
		}
	}
	if c.err == nil {
		for _, stmt := range program.Stmts {
			if decl, ok := stmt.(*ast.FuncDecl); ok {
				c.checkFuncDecl(decl)
			} else {
				c.checkStmt(stmt)
			}
			if c.err != nil {
				break
			}
		}
	}
	c.symtab.Pop()
	if c.err != nil {
		return nil, nil, c.err
	}
	return c.info, c.symtab, nil
}

// Checker holds the state for one semantic analysis pass.
type Checker struct {
	info     *Info
	symtab   *SymbolTable
	fn       *Func // function being checked; nil at the top level
	err      error
	filename string
	lines    []string
}

// errorAt records the first semantic error. Later calls are ignored.
func (c *Checker) errorAt(pos token.Position, format string, args ...interface{}) {
	if c.err != nil {
		return
	}
	loc := errz.SourceLocation{
		Filename: c.filename,
		Line:     pos.LineNumber(),
		Column:   pos.ColumnNumber(),
	}
	if pos.Line >= 0 && pos.Line < len(c.lines) {
		loc.Source = c.lines[pos.Line]
	}
	c.err = errz.Newf(errz.SemanticError, loc, format, args...)
}

// define adds a symbol to the innermost scope and tracks it in the
// enclosing function's frame layout or in the global slot order.
func (c *Checker) define(sym *Symbol) bool {
	if !c.symtab.Define(sym) {
		return false
	}
	if sym.Kind() == VariableSymbol {
		if c.fn != nil {
			c.fn.Locals = append(c.fn.Locals, sym)
		} else {
			c.info.Globals = append(c.info.Globals, sym)
		}
	}
	return true
}

func (c *Checker) declareFunction(decl *ast.FuncDecl) {
	params := make([]types.Type, 0, len(decl.Params))
	for _, p := range decl.Params {
		params = append(params, p.Type)
	}
	sym := NewFunction(decl.Name.Name, decl.ReturnType, params)
	sym.index = len(c.info.Functions)
	if !c.symtab.Define(sym) {
		c.errorAt(decl.Name.Pos(), "Redeclaration of function '%s'", decl.Name.Name)
		return
	}
	c.info.Defs[decl.Name] = sym
	c.info.Functions = append(c.info.Functions, &Func{Sym: sym, Decl: decl})
}

func (c *Checker) checkFuncDecl(decl *ast.FuncDecl) {
	c.fn = c.info.FuncOf(decl)
	c.symtab.Push(FunctionScope)
	for _, param := range decl.Params {
		sym := NewVariable(param.Name.Name, param.Type)
		if !c.define(sym) {
			c.errorAt(param.Name.Pos(), "Redeclaration of parameter '%s'", param.Name.Name)
			break
		}
		c.info.Defs[param.Name] = sym
	}
	if c.err == nil {
		c.checkStmt(decl.Body)
	}
	c.symtab.Pop()
	c.fn = nil
}

func (c *Checker) checkStmt(stmt ast.Stmt) {
	if c.err != nil {
		return
	}
	switch s := stmt.(type) {
	case *ast.Block:
		c.checkBlock(s)
	case *ast.VarDecl:
		c.checkVarDecl(s)
	case *ast.ExprStmt:
		c.checkExpr(s.X)
	case *ast.Print:
		c.checkPrint(s)
	case *ast.If:
		c.checkIf(s)
	case *ast.While:
		c.checkWhile(s)
	case *ast.For:
		c.checkFor(s)
	case *ast.Return:
		c.checkReturn(s)
	case *ast.FuncDecl:
		c.errorAt(s.Pos(), "Nested function declarations not allowed")
	default:
		c.errorAt(stmt.Pos(), "Unsupported statement")
	}
}

func (c *Checker) checkBlock(block *ast.Block) {
	c.symtab.Push(BlockScope)
	for _, stmt := range block.Stmts {
		c.checkStmt(stmt)
		if c.err != nil {
			break
		}
	}
	c.symtab.Pop()
}

// checkVarDecl checks the initializer before defining the name, so a
// declaration cannot refer to itself.
func (c *Checker) checkVarDecl(decl *ast.VarDecl) {
	if decl.Type == types.Void {
		c.errorAt(decl.Pos(), "'void' is not allowed for variable declarations")
		return
	}
	var valueType types.Type
	if decl.Value != nil {
		valueType = c.checkExpr(decl.Value)
		if c.err != nil {
			return
		}
	}
	sym := NewVariable(decl.Name.Name, decl.Type)
	if !c.define(sym) {
		c.errorAt(decl.Name.Pos(), "Redeclaration of '%s'", decl.Name.Name)
		return
	}
	c.info.Defs[decl.Name] = sym
	if decl.Value != nil && !types.Assignable(decl.Type, valueType) {
		c.errorAt(decl.Value.Pos(), "Cannot assign %s to %s in declaration '%s'",
			valueType, decl.Type, decl.Name.Name)
	}
}

func (c *Checker) checkPrint(s *ast.Print) {
	t := c.checkExpr(s.X)
	if c.err == nil && t == types.Void {
		c.errorAt(s.X.Pos(), "Cannot print a void value")
	}
}

func (c *Checker) checkIf(s *ast.If) {
	if t := c.checkExpr(s.Cond); c.err == nil && t != types.Bool {
		c.errorAt(s.Cond.Pos(), "if condition must be bool")
	}
	c.checkStmt(s.Consequence)
	if s.Alternative != nil {
		c.checkStmt(s.Alternative)
	}
}

func (c *Checker) checkWhile(s *ast.While) {
	if t := c.checkExpr(s.Cond); c.err == nil && t != types.Bool {
		c.errorAt(s.Cond.Pos(), "while condition must be bool")
	}
	c.checkStmt(s.Body)
}

// checkFor opens one scope around the whole loop, so a variable declared
// in the init clause is visible to the condition, the post expression and
// the body, and goes out of scope when the loop ends.
func (c *Checker) checkFor(s *ast.For) {
	c.symtab.Push(LoopScope)
	if s.Init != nil {
		c.checkStmt(s.Init)
	}
	if s.Cond != nil {
		if t := c.checkExpr(s.Cond); c.err == nil && t != types.Bool {
			c.errorAt(s.Cond.Pos(), "for condition must be bool")
		}
	}
	if s.Post != nil {
		c.checkStmt(s.Post)
	}
	c.checkStmt(s.Body)
	c.symtab.Pop()
}

func (c *Checker) checkReturn(s *ast.Return) {
	if c.err != nil {
		return
	}
	if c.fn == nil {
		// A return at the top level halts the program. The value, if
		// present, only needs to type check.
		if s.Value != nil {
			c.checkExpr(s.Value)
		}
		return
	}
	ret := c.fn.Sym.Type()
	if s.Value == nil {
		if ret != types.Void {
			c.errorAt(s.Pos(), "Return value required for function returning %s", ret)
		}
		return
	}
	if ret == types.Void {
		c.errorAt(s.Pos(), "Cannot return a value from function returning void")
		return
	}
	t := c.checkExpr(s.Value)
	if c.err == nil && !types.Assignable(ret, t) {
		c.errorAt(s.Value.Pos(), "Cannot return %s from function returning %s", t, ret)
	}
}

// checkExpr types an expression, recording the result in Info.Types. It
// returns Invalid after the first error.
func (c *Checker) checkExpr(expr ast.Expr) types.Type {
	if c.err != nil {
		return types.Invalid
	}
	var t types.Type
	switch x := expr.(type) {
	case *ast.Int:
		t = types.Int
	case *ast.Float:
		t = types.Float
	case *ast.Bool:
		t = types.Bool
	case *ast.Ident:
		t = c.checkIdent(x)
	case *ast.Prefix:
		t = c.checkPrefix(x)
	case *ast.Infix:
		t = c.checkInfix(x)
	case *ast.Assign:
		t = c.checkAssign(x)
	case *ast.Call:
		t = c.checkCall(x)
	default:
		c.errorAt(expr.Pos(), "Unsupported expression")
	}
	if c.err != nil {
		return types.Invalid
	}
	c.info.Types[expr] = t
	return t
}

func (c *Checker) checkIdent(x *ast.Ident) types.Type {
	sym, ok := c.symtab.Resolve(x.Name)
	if !ok {
		c.errorAt(x.Pos(), "Undeclared variable '%s'", x.Name)
		return types.Invalid
	}
	if sym.Kind() == FunctionSymbol {
		c.errorAt(x.Pos(), "Cannot use function '%s' as a variable", x.Name)
		return types.Invalid
	}
	c.info.Uses[x] = sym
	return sym.Type()
}

func (c *Checker) checkPrefix(x *ast.Prefix) types.Type {
	t := c.checkExpr(x.X)
	if c.err != nil {
		return types.Invalid
	}
	if x.Op == "!" {
		if t != types.Bool {
			c.errorAt(x.Pos(), "'!' requires bool")
			return types.Invalid
		}
		return types.Bool
	}
	if !t.Numeric() {
		c.errorAt(x.Pos(), "Unary '%s' requires numeric operand", x.Op)
		return types.Invalid
	}
	return t
}

func (c *Checker) checkInfix(x *ast.Infix) types.Type {
	lt := c.checkExpr(x.X)
	rt := c.checkExpr(x.Y)
	if c.err != nil {
		return types.Invalid
	}
	switch x.Op {
	case "+", "-", "*", "/":
		if lt.Numeric() && rt.Numeric() {
			return types.Promote(lt, rt)
		}
		c.errorAt(x.OpPos, "Operator '%s' requires numeric operands", x.Op)
	case "%":
		if lt == types.Int && rt == types.Int {
			return types.Int
		}
		c.errorAt(x.OpPos, "'%%' requires int operands")
	case "<", "<=", ">", ">=":
		if lt.Numeric() && rt.Numeric() {
			return types.Bool
		}
		c.errorAt(x.OpPos, "Operator '%s' requires numeric operands", x.Op)
	case "==", "!=":
		if lt != rt {
			c.errorAt(x.OpPos, "'=='/'!=' require operands of the same type")
		} else if lt == types.Void {
			c.errorAt(x.OpPos, "'=='/'!=' cannot compare void values")
		} else {
			return types.Bool
		}
	case "&&", "||":
		if lt == types.Bool && rt == types.Bool {
			return types.Bool
		}
		c.errorAt(x.OpPos, "'&&'/'||' require bool operands")
	default:
		c.errorAt(x.OpPos, "Unknown operator '%s'", x.Op)
	}
	return types.Invalid
}

func (c *Checker) checkAssign(x *ast.Assign) types.Type {
	sym, ok := c.symtab.Resolve(x.Name.Name)
	if !ok {
		c.errorAt(x.Name.Pos(), "Undeclared variable '%s'", x.Name.Name)
		return types.Invalid
	}
	if sym.Kind() == FunctionSymbol {
		c.errorAt(x.Name.Pos(), "Cannot assign to function '%s'", x.Name.Name)
		return types.Invalid
	}
	t := c.checkExpr(x.Value)
	if c.err != nil {
		return types.Invalid
	}
	if !types.Assignable(sym.Type(), t) {
		c.errorAt(x.OpPos, "Cannot assign %s to %s variable '%s'",
			t, sym.Type(), x.Name.Name)
		return types.Invalid
	}
	c.info.Uses[x.Name] = sym
	return sym.Type()
}

func (c *Checker) checkCall(x *ast.Call) types.Type {
	sym, ok := c.symtab.Resolve(x.Name.Name)
	if !ok {
		c.errorAt(x.Name.Pos(), "Call to undefined function '%s'", x.Name.Name)
		return types.Invalid
	}
	if sym.Kind() != FunctionSymbol {
		c.errorAt(x.Name.Pos(), "'%s' is not a function", x.Name.Name)
		return types.Invalid
	}
	params := sym.ParamTypes()
	if len(x.Args) != len(params) {
		c.errorAt(x.Name.Pos(), "Function '%s' expects %d arg(s), got %d",
			x.Name.Name, len(params), len(x.Args))
		return types.Invalid
	}
	for i, arg := range x.Args {
		at := c.checkExpr(arg)
		if c.err != nil {
			return types.Invalid
		}
		if !types.Assignable(params[i], at) {
			c.errorAt(arg.Pos(), "Argument type %s incompatible with parameter %s in call to '%s'",
				at, params[i], x.Name.Name)
			return types.Invalid
		}
	}
	c.info.Uses[x.Name] = sym
	return sym.Type()
}
