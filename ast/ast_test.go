package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cloudcmds/minicc/token"
	"github.com/cloudcmds/minicc/types"
)

func TestProgramString(t *testing.T) {
	program := &Program{
		Stmts: []Stmt{
			&VarDecl{
				TypePos: token.Position{Line: 0, Column: 0},
				Type:    types.Int,
				Name:    &Ident{NamePos: token.Position{Line: 0, Column: 4}, Name: "x"},
				Value:   &Int{ValuePos: token.Position{Line: 0, Column: 8}, Literal: "5", Value: 5},
			},
		},
	}
	assert.Equal(t, "int x = 5;", program.String())
}

func TestInfixString(t *testing.T) {
	expr := &Infix{
		X:  &Ident{Name: "a"},
		Op: "+",
		Y: &Infix{
			X:  &Ident{Name: "b"},
			Op: "*",
			Y:  &Int{Literal: "2", Value: 2},
		},
	}
	assert.Equal(t, "(a + (b * 2))", expr.String())
}

func TestIfString(t *testing.T) {
	stmt := &If{
		Cond:        &Infix{X: &Ident{Name: "x"}, Op: "<", Y: &Int{Literal: "10", Value: 10}},
		Consequence: &Block{Stmts: []Stmt{&Print{X: &Ident{Name: "x"}}}},
		Alternative: &Block{Stmts: []Stmt{&Return{}}},
	}
	assert.Equal(t, "if ((x < 10)) { print(x); } else { return; }", stmt.String())
}

func TestForString(t *testing.T) {
	stmt := &For{
		Init: &VarDecl{
			Type:  types.Int,
			Name:  &Ident{Name: "i"},
			Value: &Int{Literal: "0", Value: 0},
		},
		Cond: &Infix{X: &Ident{Name: "i"}, Op: "<", Y: &Int{Literal: "5", Value: 5}},
		Post: &ExprStmt{X: &Assign{
			Name:  &Ident{Name: "i"},
			Value: &Infix{X: &Ident{Name: "i"}, Op: "+", Y: &Int{Literal: "1", Value: 1}},
		}},
		Body: &Block{Stmts: []Stmt{&Print{X: &Ident{Name: "i"}}}},
	}
	assert.Equal(t, "for (int i = 0; (i < 5); i = (i + 1)) { print(i); }", stmt.String())
}

func TestForStringEmptyClauses(t *testing.T) {
	stmt := &For{Body: &Block{}}
	assert.Equal(t, "for (; ; ) {  }", stmt.String())
}

func TestFuncDeclString(t *testing.T) {
	decl := &FuncDecl{
		ReturnType: types.Int,
		Name:       &Ident{Name: "add"},
		Params: []*Param{
			{Type: types.Int, Name: &Ident{Name: "a"}},
			{Type: types.Int, Name: &Ident{Name: "b"}},
		},
		Body: &Block{Stmts: []Stmt{
			&Return{Value: &Infix{X: &Ident{Name: "a"}, Op: "+", Y: &Ident{Name: "b"}}},
		}},
	}
	assert.Equal(t, "int add(int a, int b) { return (a + b); }", decl.String())
}

func TestPositions(t *testing.T) {
	ident := &Ident{NamePos: token.Position{Line: 2, Column: 4}, Name: "count"}
	assert.Equal(t, token.Position{Line: 2, Column: 4}, ident.Pos())
	assert.Equal(t, token.Position{Line: 2, Column: 9}, ident.End())

	lit := &Float{ValuePos: token.Position{Line: 0, Column: 0}, Literal: "3.14", Value: 3.14}
	assert.Equal(t, token.Position{Line: 0, Column: 4}, lit.End())
}

func TestInspect(t *testing.T) {
	program := &Program{
		Stmts: []Stmt{
			&ExprStmt{X: &Assign{
				Name:  &Ident{Name: "x"},
				Value: &Infix{X: &Int{Literal: "1", Value: 1}, Op: "+", Y: &Int{Literal: "2", Value: 2}},
			}},
		},
	}
	var count int
	var idents []string
	Inspect(program, func(n Node) bool {
		count++
		if ident, ok := n.(*Ident); ok {
			idents = append(idents, ident.Name)
		}
		return true
	})
	// Program, ExprStmt, Assign, Ident, Infix, Int, Int
	assert.Equal(t, 7, count)
	assert.Equal(t, []string{"x"}, idents)
}

func TestInspectPrune(t *testing.T) {
	program := &Program{
		Stmts: []Stmt{
			&Print{X: &Infix{X: &Int{Literal: "1"}, Op: "+", Y: &Int{Literal: "2"}}},
		},
	}
	var count int
	Inspect(program, func(n Node) bool {
		count++
		_, isPrint := n.(*Print)
		return !isPrint
	})
	// Pruning at Print skips the whole expression subtree.
	assert.Equal(t, 2, count)
}

func TestDump(t *testing.T) {
	program := &Program{
		Stmts: []Stmt{
			&VarDecl{
				Type:  types.Int,
				Name:  &Ident{Name: "x"},
				Value: &Infix{X: &Int{Literal: "2", Value: 2}, Op: "*", Y: &Int{Literal: "3", Value: 3}},
			},
			&Print{X: &Ident{Name: "x"}},
		},
	}
	expected := `Program
  VarDecl int x
    Infix *
      Int 2
      Int 3
  Print
    Ident x`
	assert.Equal(t, expected, Dump(program))
}

func TestDumpTyped(t *testing.T) {
	lhs := &Int{Literal: "2", Value: 2}
	rhs := &Float{Literal: "1.5", Value: 1.5}
	sum := &Infix{X: lhs, Op: "+", Y: rhs}
	program := &Program{Stmts: []Stmt{&Print{X: sum}}}

	typeOf := func(e Expr) types.Type {
		switch e {
		case Expr(lhs):
			return types.Int
		case Expr(rhs), Expr(sum):
			return types.Float
		}
		return types.Invalid
	}
	expected := `Program
  Print
    Infix + : float
      Int 2 : int
      Float 1.5 : float`
	assert.Equal(t, expected, DumpTyped(program, typeOf))
}
