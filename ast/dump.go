package ast

import (
	"bytes"
	"strings"

	"github.com/cloudcmds/minicc/types"
)

// Dump renders the tree rooted at node as an indented listing with one
// node per line. Children are indented two spaces below their parent.
func Dump(node Node) string {
	d := &dumper{}
	d.node(node, 0)
	return strings.TrimRight(d.buf.String(), "\n")
}

// DumpTyped renders the tree like Dump and annotates each expression with
// the type that semantic analysis resolved for it. Expressions with no
// recorded type are rendered without an annotation.
func DumpTyped(node Node, typeOf func(Expr) types.Type) string {
	d := &dumper{typeOf: typeOf}
	d.node(node, 0)
	return strings.TrimRight(d.buf.String(), "\n")
}

type dumper struct {
	buf    bytes.Buffer
	typeOf func(Expr) types.Type
}

func (d *dumper) line(depth int, text string, node Node) {
	d.buf.WriteString(strings.Repeat("  ", depth))
	d.buf.WriteString(text)
	if d.typeOf != nil {
		if expr, ok := node.(Expr); ok {
			if t := d.typeOf(expr); t != types.Invalid {
				d.buf.WriteString(" : ")
				d.buf.WriteString(t.String())
			}
		}
	}
	d.buf.WriteString("\n")
}

func (d *dumper) label(depth int, text string) {
	d.buf.WriteString(strings.Repeat("  ", depth))
	d.buf.WriteString(text)
	d.buf.WriteString("\n")
}

func (d *dumper) node(node Node, depth int) {
	switch n := node.(type) {
	case *Program:
		d.line(depth, "Program", n)
		for _, stmt := range n.Stmts {
			d.node(stmt, depth+1)
		}
	case *FuncDecl:
		params := make([]string, 0, len(n.Params))
		for _, p := range n.Params {
			params = append(params, p.String())
		}
		d.line(depth, "FuncDecl "+n.ReturnType.String()+" "+n.Name.Name+
			"("+strings.Join(params, ", ")+")", n)
		d.node(n.Body, depth+1)
	case *VarDecl:
		d.line(depth, "VarDecl "+n.Type.String()+" "+n.Name.Name, n)
		if n.Value != nil {
			d.node(n.Value, depth+1)
		}
	case *Block:
		d.line(depth, "Block", n)
		for _, stmt := range n.Stmts {
			d.node(stmt, depth+1)
		}
	case *ExprStmt:
		d.line(depth, "ExprStmt", n)
		d.node(n.X, depth+1)
	case *Print:
		d.line(depth, "Print", n)
		d.node(n.X, depth+1)
	case *If:
		d.line(depth, "If", n)
		d.label(depth+1, "Cond")
		d.node(n.Cond, depth+2)
		d.label(depth+1, "Then")
		d.node(n.Consequence, depth+2)
		if n.Alternative != nil {
			d.label(depth+1, "Else")
			d.node(n.Alternative, depth+2)
		}
	case *While:
		d.line(depth, "While", n)
		d.label(depth+1, "Cond")
		d.node(n.Cond, depth+2)
		d.label(depth+1, "Body")
		d.node(n.Body, depth+2)
	case *For:
		d.line(depth, "For", n)
		if n.Init != nil {
			d.label(depth+1, "Init")
			d.node(n.Init, depth+2)
		}
		if n.Cond != nil {
			d.label(depth+1, "Cond")
			d.node(n.Cond, depth+2)
		}
		if n.Post != nil {
			d.label(depth+1, "Post")
			d.node(n.Post.X, depth+2)
		}
		d.label(depth+1, "Body")
		d.node(n.Body, depth+2)
	case *Return:
		d.line(depth, "Return", n)
		if n.Value != nil {
			d.node(n.Value, depth+1)
		}
	case *Ident:
		d.line(depth, "Ident "+n.Name, n)
	case *Int:
		d.line(depth, "Int "+n.Literal, n)
	case *Float:
		d.line(depth, "Float "+n.Literal, n)
	case *Bool:
		d.line(depth, "Bool "+n.Literal, n)
	case *Prefix:
		d.line(depth, "Prefix "+n.Op, n)
		d.node(n.X, depth+1)
	case *Infix:
		d.line(depth, "Infix "+n.Op, n)
		d.node(n.X, depth+1)
		d.node(n.Y, depth+1)
	case *Assign:
		d.line(depth, "Assign "+n.Name.Name, n)
		d.node(n.Value, depth+1)
	case *Call:
		d.line(depth, "Call "+n.Name.Name, n)
		for _, arg := range n.Args {
			d.node(arg, depth+1)
		}
	}
}
