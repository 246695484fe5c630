package checker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudcmds/minicc/types"
)

// SymbolKind distinguishes variables from functions.
type SymbolKind int

const (
	VariableSymbol SymbolKind = iota
	FunctionSymbol
)

func (k SymbolKind) String() string {
	if k == FunctionSymbol {
		return "function"
	}
	return "variable"
}

// Symbol describes one declared name: a variable or a function signature.
// Variables carry the storage slot index claimed at declaration time, so
// two variables that shadow each other by name still occupy distinct slots.
type Symbol struct {
	name   string
	kind   SymbolKind
	typ    types.Type
	params []types.Type
	index  int
	global bool
}

// NewVariable creates a variable symbol. Its slot index is claimed when the
// symbol is defined in a SymbolTable.
func NewVariable(name string, typ types.Type) *Symbol {
	return &Symbol{name: name, kind: VariableSymbol, typ: typ}
}

// NewFunction creates a function symbol with the given return type and
// ordered parameter types.
func NewFunction(name string, ret types.Type, params []types.Type) *Symbol {
	return &Symbol{name: name, kind: FunctionSymbol, typ: ret, params: params}
}

// Name returns the declared name.
func (s *Symbol) Name() string { return s.name }

// Kind returns the symbol kind.
func (s *Symbol) Kind() SymbolKind { return s.kind }

// Type returns the variable type, or the return type for functions.
func (s *Symbol) Type() types.Type { return s.typ }

// ParamTypes returns the ordered parameter types of a function symbol.
func (s *Symbol) ParamTypes() []types.Type { return s.params }

// Index returns the resolved storage slot for variables, or the function
// table index for functions.
func (s *Symbol) Index() int { return s.index }

// IsGlobal returns true if the symbol lives in global storage.
func (s *Symbol) IsGlobal() bool { return s.global }

func (s *Symbol) String() string {
	if s.kind == FunctionSymbol {
		params := make([]string, 0, len(s.params))
		for _, p := range s.params {
			params = append(params, p.String())
		}
		return fmt.Sprintf("function %s(%s) %s", s.name, strings.Join(params, ", "), s.typ)
	}
	return fmt.Sprintf("%s %s", s.typ, s.name)
}

// ScopeKind describes why a scope was opened.
type ScopeKind int

const (
	GlobalScope ScopeKind = iota
	FunctionScope
	BlockScope
	LoopScope
)

func (k ScopeKind) String() string {
	switch k {
	case GlobalScope:
		return "global"
	case FunctionScope:
		return "function"
	case BlockScope:
		return "block"
	case LoopScope:
		return "for"
	default:
		return "scope"
	}
}

// Scope holds the symbols declared in one lexical scope, in declaration
// order.
type Scope struct {
	kind    ScopeKind
	level   int
	symbols map[string]*Symbol
	order   []*Symbol
}

// Kind returns the scope kind.
func (s *Scope) Kind() ScopeKind { return s.kind }

// Level returns the nesting depth at which the scope was pushed, with the
// global scope at level 0.
func (s *Scope) Level() int { return s.level }

// Symbols returns the scope's symbols in declaration order.
func (s *Scope) Symbols() []*Symbol { return s.order }

func (s *Scope) String() string {
	var out bytes.Buffer
	fmt.Fprintf(&out, "scope %d (%s):", s.level, s.kind)
	for i, sym := range s.order {
		if i > 0 {
			out.WriteString(",")
		}
		out.WriteString(" ")
		out.WriteString(sym.String())
	}
	return out.String()
}

// MarshalJSON renders the scope with the stable keys used by the
// compilation result payload.
func (s *Scope) MarshalJSON() ([]byte, error) {
	symbols := make([]string, 0, len(s.order))
	for _, sym := range s.order {
		symbols = append(symbols, sym.String())
	}
	return json.Marshal(struct {
		Level   int      `json:"level"`
		Kind    string   `json:"kind"`
		Symbols []string `json:"symbols"`
	}{
		Level:   s.level,
		Kind:    s.kind.String(),
		Symbols: symbols,
	})
}

// SymbolTable is an explicit stack of scopes. Scope entry and exit are
// Push and Pop calls, and lookups walk innermost to outermost. Popped
// scopes are retained in an archive so the final table still describes
// every scope the program declared.
//
// Variables claim storage slots as they are defined: from the enclosing
// function's frame when a function scope is active, otherwise from global
// storage. Block scopes nested in a function allocate from the same frame,
// so shadowed names keep distinct slots.
type SymbolTable struct {
	stack   []*Scope
	archive []*Scope
	globals int
	locals  int
}

// NewSymbolTable returns an empty symbol table with no scopes pushed.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{}
}

// Push opens a new innermost scope of the given kind.
func (t *SymbolTable) Push(kind ScopeKind) {
	if kind == FunctionScope {
		t.locals = 0
	}
	scope := &Scope{
		kind:    kind,
		level:   len(t.stack),
		symbols: map[string]*Symbol{},
	}
	t.stack = append(t.stack, scope)
	t.archive = append(t.archive, scope)
}

// Pop closes the innermost scope.
func (t *SymbolTable) Pop() {
	if len(t.stack) > 0 {
		t.stack = t.stack[:len(t.stack)-1]
	}
}

// Depth returns the number of open scopes.
func (t *SymbolTable) Depth() int { return len(t.stack) }

// Define adds a symbol to the innermost scope, claiming a storage slot for
// variables. Returns false if the name is already defined in that scope.
func (t *SymbolTable) Define(sym *Symbol) bool {
	scope := t.stack[len(t.stack)-1]
	if _, exists := scope.symbols[sym.name]; exists {
		return false
	}
	if sym.kind == VariableSymbol {
		if t.inFunction() {
			sym.index = t.locals
			t.locals++
		} else {
			sym.index = t.globals
			sym.global = true
			t.globals++
		}
	}
	scope.symbols[sym.name] = sym
	scope.order = append(scope.order, sym)
	return true
}

// Resolve looks a name up through the open scopes, innermost first.
func (t *SymbolTable) Resolve(name string) (*Symbol, bool) {
	for i := len(t.stack) - 1; i >= 0; i-- {
		if sym, ok := t.stack[i].symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// Snapshot returns every scope ever pushed, in push order, including
// scopes that have since been popped.
func (t *SymbolTable) Snapshot() []*Scope { return t.archive }

// GlobalCount returns the number of global storage slots claimed.
func (t *SymbolTable) GlobalCount() int { return t.globals }

func (t *SymbolTable) inFunction() bool {
	for _, scope := range t.stack {
		if scope.kind == FunctionScope {
			return true
		}
	}
	return false
}

func (t *SymbolTable) String() string {
	lines := make([]string, 0, len(t.archive))
	for _, scope := range t.archive {
		lines = append(lines, scope.String())
	}
	return strings.Join(lines, "\n")
}
