package ast

import (
	"bytes"
	"strings"

	"github.com/cloudcmds/minicc/token"
	"github.com/cloudcmds/minicc/types"
)

// Block is a statement node that holds a brace-delimited sequence of
// statements. Blocks introduce a new lexical scope.
type Block struct {
	Lbrace token.Position // position of "{"
	Stmts  []Stmt         // statements in the block
	Rbrace token.Position // position of "}"
}

func (s *Block) stmtNode() {}

func (s *Block) Pos() token.Position { return s.Lbrace }
func (s *Block) End() token.Position { return s.Rbrace.Advance(1) }

func (s *Block) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for i, stmt := range s.Stmts {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(stmt.String())
	}
	out.WriteString(" }")
	return out.String()
}

// VarDecl is a statement node that declares a variable with an optional
// initializer. Without an initializer the variable starts at the zero
// value of its type.
type VarDecl struct {
	TypePos token.Position // position of the type keyword
	Type    types.Type     // declared type
	Name    *Ident         // variable name
	Value   Expr           // initializer; nil if omitted
}

func (s *VarDecl) stmtNode() {}

func (s *VarDecl) Pos() token.Position { return s.TypePos }
func (s *VarDecl) End() token.Position {
	if s.Value != nil {
		return s.Value.End()
	}
	return s.Name.End()
}

func (s *VarDecl) String() string {
	var out bytes.Buffer
	out.WriteString(s.Type.String())
	out.WriteString(" ")
	out.WriteString(s.Name.String())
	if s.Value != nil {
		out.WriteString(" = ")
		out.WriteString(s.Value.String())
	}
	out.WriteString(";")
	return out.String()
}

// ExprStmt is a statement node that evaluates an expression and discards
// its value. Assignments and function calls commonly appear here.
type ExprStmt struct {
	X Expr // expression
}

func (s *ExprStmt) stmtNode() {}

func (s *ExprStmt) Pos() token.Position { return s.X.Pos() }
func (s *ExprStmt) End() token.Position { return s.X.End() }

func (s *ExprStmt) String() string { return s.X.String() + ";" }

// Print is a statement node that evaluates an expression and appends its
// textual form to the program output.
type Print struct {
	PrintPos token.Position // position of "print" keyword
	Lparen   token.Position // position of "("
	X        Expr           // expression to print
	Rparen   token.Position // position of ")"
}

func (s *Print) stmtNode() {}

func (s *Print) Pos() token.Position { return s.PrintPos }
func (s *Print) End() token.Position { return s.Rparen.Advance(1) }

func (s *Print) String() string {
	return "print(" + s.X.String() + ");"
}

// If is a statement node that executes one of two branches based on a
// bool condition. The else branch may be another If, which forms an
// "else if" chain.
type If struct {
	IfPos       token.Position // position of "if" keyword
	Lparen      token.Position // position of "("
	Cond        Expr           // condition
	Rparen      token.Position // position of ")"
	Consequence Stmt           // then branch
	Alternative Stmt           // else branch; nil if no else
}

func (s *If) stmtNode() {}

func (s *If) Pos() token.Position { return s.IfPos }
func (s *If) End() token.Position {
	if s.Alternative != nil {
		return s.Alternative.End()
	}
	return s.Consequence.End()
}

func (s *If) String() string {
	var out bytes.Buffer
	out.WriteString("if (")
	out.WriteString(s.Cond.String())
	out.WriteString(") ")
	out.WriteString(s.Consequence.String())
	if s.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(s.Alternative.String())
	}
	return out.String()
}

// While is a statement node that executes its body repeatedly while a
// bool condition holds.
type While struct {
	WhilePos token.Position // position of "while" keyword
	Lparen   token.Position // position of "("
	Cond     Expr           // condition
	Rparen   token.Position // position of ")"
	Body     Stmt           // loop body
}

func (s *While) stmtNode() {}

func (s *While) Pos() token.Position { return s.WhilePos }
func (s *While) End() token.Position { return s.Body.End() }

func (s *While) String() string {
	var out bytes.Buffer
	out.WriteString("while (")
	out.WriteString(s.Cond.String())
	out.WriteString(") ")
	out.WriteString(s.Body.String())
	return out.String()
}

// For is a statement node for C-style counted loops. All three clauses
// are optional; "for (;;)" loops forever. The init clause may declare a
// variable scoped to the loop.
type For struct {
	ForPos token.Position // position of "for" keyword
	Lparen token.Position // position of "("
	Init   Stmt           // init clause; nil if omitted
	Cond   Expr           // condition; nil if omitted
	Post   *ExprStmt      // post clause; nil if omitted
	Rparen token.Position // position of ")"
	Body   Stmt           // loop body
}

func (s *For) stmtNode() {}

func (s *For) Pos() token.Position { return s.ForPos }
func (s *For) End() token.Position { return s.Body.End() }

func (s *For) String() string {
	var out bytes.Buffer
	out.WriteString("for (")
	if s.Init != nil {
		out.WriteString(s.Init.String())
	} else {
		out.WriteString(";")
	}
	out.WriteString(" ")
	if s.Cond != nil {
		out.WriteString(s.Cond.String())
	}
	out.WriteString("; ")
	if s.Post != nil {
		out.WriteString(s.Post.X.String())
	}
	out.WriteString(") ")
	out.WriteString(s.Body.String())
	return out.String()
}

// Return is a statement node that exits the enclosing function with an
// optional value. At the top level it halts the program.
type Return struct {
	ReturnPos token.Position // position of "return" keyword
	Value     Expr           // return value; nil for bare return
}

func (s *Return) stmtNode() {}

func (s *Return) Pos() token.Position { return s.ReturnPos }
func (s *Return) End() token.Position {
	if s.Value != nil {
		return s.Value.End()
	}
	return s.ReturnPos.Advance(6) // len("return")
}

func (s *Return) String() string {
	if s.Value != nil {
		return "return " + s.Value.String() + ";"
	}
	return "return;"
}

// Param describes a single function parameter.
type Param struct {
	TypePos token.Position // position of the type keyword
	Type    types.Type     // parameter type
	Name    *Ident         // parameter name
}

func (p *Param) Pos() token.Position { return p.TypePos }
func (p *Param) End() token.Position { return p.Name.End() }

func (p *Param) String() string {
	return p.Type.String() + " " + p.Name.String()
}

// FuncDecl is a statement node that declares a function. Function
// declarations are only legal at the top level, which the semantic
// analyzer enforces.
type FuncDecl struct {
	TypePos    token.Position // position of the return type keyword
	ReturnType types.Type     // declared return type
	Name       *Ident         // function name
	Lparen     token.Position // position of "("
	Params     []*Param       // parameters
	Rparen     token.Position // position of ")"
	Body       *Block         // function body
}

func (s *FuncDecl) stmtNode() {}

func (s *FuncDecl) Pos() token.Position { return s.TypePos }
func (s *FuncDecl) End() token.Position { return s.Body.End() }

func (s *FuncDecl) String() string {
	var out bytes.Buffer
	out.WriteString(s.ReturnType.String())
	out.WriteString(" ")
	out.WriteString(s.Name.String())
	out.WriteString("(")
	params := make([]string, 0, len(s.Params))
	for _, p := range s.Params {
		params = append(params, p.String())
	}
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") ")
	out.WriteString(s.Body.String())
	return out.String()
}
