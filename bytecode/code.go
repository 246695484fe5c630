package bytecode

import (
	"github.com/cloudcmds/minicc/object"
	"github.com/cloudcmds/minicc/op"
)

// Code represents one compiled code block: the top-level program or a
// function body. It is immutable after creation and safe for concurrent
// use, so one compiled program can be executed by any number of virtual
// machines.
type Code struct {
	name         string
	instructions []op.Code
	constants    []object.Object
	functions    []*Function

	numParams   int
	numLocals   int
	globalCount int

	// Variable names for disassembly, indexed by slot
	globalNames []string
	localNames  []string

	source   string
	filename string
}

// CodeParams contains parameters for creating a new Code.
type CodeParams struct {
	Name         string
	Instructions []op.Code
	Constants    []object.Object
	Functions    []*Function
	NumParams    int
	NumLocals    int
	GlobalCount  int
	GlobalNames  []string
	LocalNames   []string
	Source       string
	Filename     string
}

// NewCode creates a new immutable Code from the given parameters. Input
// slices are copied, and no mutation methods exist, so the result is
// fully immutable after construction.
func NewCode(params CodeParams) *Code {
	return &Code{
		name:         params.Name,
		instructions: copyInstructions(params.Instructions),
		constants:    copyObjects(params.Constants),
		functions:    copyFunctions(params.Functions),
		numParams:    params.NumParams,
		numLocals:    params.NumLocals,
		globalCount:  params.GlobalCount,
		globalNames:  copyStrings(params.GlobalNames),
		localNames:   copyStrings(params.LocalNames),
		source:       params.Source,
		filename:     params.Filename,
	}
}

// Name returns the name of this code block: the function name, or "main"
// for the top-level program.
func (c *Code) Name() string {
	return c.name
}

// InstructionCount returns the length of the instruction stream,
// operands included.
func (c *Code) InstructionCount() int {
	return len(c.instructions)
}

// InstructionAt returns the instruction stream entry at the given offset.
func (c *Code) InstructionAt(offset int) op.Code {
	return c.instructions[offset]
}

// ConstantCount returns the number of constants.
func (c *Code) ConstantCount() int {
	return len(c.constants)
}

// ConstantAt returns the constant at the given index.
func (c *Code) ConstantAt(index int) object.Object {
	return c.constants[index]
}

// FunctionCount returns the number of functions in the function table.
// Only the top-level code block carries a function table.
func (c *Code) FunctionCount() int {
	return len(c.functions)
}

// FunctionAt returns the function at the given table index.
func (c *Code) FunctionAt(index int) *Function {
	return c.functions[index]
}

// ParamCount returns the number of parameters a function body expects in
// the leading slots of its frame. It is zero for the top-level program.
func (c *Code) ParamCount() int {
	return c.numParams
}

// LocalCount returns the frame size in slots: named variables followed
// by the temporaries the code needs.
func (c *Code) LocalCount() int {
	return c.numLocals
}

// GlobalCount returns the number of global storage slots the program
// uses. It is only set on the top-level code block.
func (c *Code) GlobalCount() int {
	return c.globalCount
}

// GlobalNameCount returns the number of global variable names.
func (c *Code) GlobalNameCount() int {
	return len(c.globalNames)
}

// GlobalNameAt returns the global variable name for the given slot, or
// an empty string if the slot is out of range.
func (c *Code) GlobalNameAt(index int) string {
	if index < 0 || index >= len(c.globalNames) {
		return ""
	}
	return c.globalNames[index]
}

// LocalNameCount returns the number of local variable names.
func (c *Code) LocalNameCount() int {
	return len(c.localNames)
}

// LocalNameAt returns the local variable name for the given frame slot.
// Temporaries have no name, and out of range slots yield an empty string.
func (c *Code) LocalNameAt(index int) string {
	if index < 0 || index >= len(c.localNames) {
		return ""
	}
	return c.localNames[index]
}

// Source returns the source code this block was compiled from.
func (c *Code) Source() string {
	return c.source
}

// Filename returns the source filename, if one was supplied.
func (c *Code) Filename() string {
	return c.filename
}

// Flatten returns this code block followed by every function body in
// table order, as a newly allocated slice.
func (c *Code) Flatten() []*Code {
	codes := make([]*Code, 0, len(c.functions)+1)
	codes = append(codes, c)
	for _, fn := range c.functions {
		codes = append(codes, fn.Code())
	}
	return codes
}

// FunctionNames returns the names of the functions in the table, in
// table order.
func (c *Code) FunctionNames() []string {
	if len(c.functions) == 0 {
		return nil
	}
	names := make([]string, 0, len(c.functions))
	for _, fn := range c.functions {
		names = append(names, fn.Name())
	}
	return names
}

// GlobalNames returns a copy of all global variable names in slot order.
func (c *Code) GlobalNames() []string {
	return copyStrings(c.globalNames)
}

// Stats returns statistics describing the program, counting the
// instructions and constants of every function body as well.
func (c *Code) Stats() Stats {
	stats := Stats{
		GlobalCount:   c.globalCount,
		FunctionCount: len(c.functions),
		SourceBytes:   len(c.source),
	}
	for _, code := range c.Flatten() {
		stats.InstructionCount += code.InstructionCount()
		stats.ConstantCount += code.ConstantCount()
	}
	return stats
}
