package bytecode

import (
	"fmt"
	"strings"

	"github.com/cloudcmds/minicc/types"
)

// Function is a compiled function template: the signature facts the
// virtual machine needs to activate a call, plus the compiled body. It
// is immutable after creation.
type Function struct {
	name       string
	parameters []string
	returnType types.Type
	code       *Code
}

// FunctionParams contains parameters for creating a new Function.
type FunctionParams struct {
	Name       string
	Parameters []string
	ReturnType types.Type
	Code       *Code
}

// NewFunction creates a new immutable Function from the given
// parameters. Input slices are copied.
func NewFunction(params FunctionParams) *Function {
	return &Function{
		name:       params.Name,
		parameters: copyStrings(params.Parameters),
		returnType: params.ReturnType,
		code:       params.Code,
	}
}

// Name returns the function name.
func (f *Function) Name() string {
	return f.name
}

// Code returns the compiled bytecode for this function's body.
func (f *Function) Code() *Code {
	return f.code
}

// ParameterCount returns the number of parameters.
func (f *Function) ParameterCount() int {
	return len(f.parameters)
}

// Parameter returns the name of the parameter at the given index.
func (f *Function) Parameter(index int) string {
	return f.parameters[index]
}

// ReturnType returns the declared return type.
func (f *Function) ReturnType() types.Type {
	return f.returnType
}

// ReturnsValue reports whether callers receive a value from this
// function. A non-void function that reaches the end of its body
// without returning one is a runtime error.
func (f *Function) ReturnsValue() bool {
	return f.returnType != types.Void
}

// LocalCount returns the frame size of the function body.
func (f *Function) LocalCount() int {
	if f.code == nil {
		return 0
	}
	return f.code.LocalCount()
}

// String returns a short signature, such as "int add(a, b)".
func (f *Function) String() string {
	return fmt.Sprintf("%s %s(%s)", f.returnType, f.name, strings.Join(f.parameters, ", "))
}
