package bytecode

import (
	"testing"

	"github.com/cloudcmds/minicc/object"
	"github.com/cloudcmds/minicc/op"
	"github.com/cloudcmds/minicc/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodeImmutability(t *testing.T) {
	instructions := []op.Code{op.LoadConst, 0, op.Print, op.Halt}
	constants := []object.Object{object.NewInt(42)}
	globalNames := []string{"x"}
	localNames := []string{"a"}

	code := NewCode(CodeParams{
		Name:         "main",
		Instructions: instructions,
		Constants:    constants,
		GlobalNames:  globalNames,
		LocalNames:   localNames,
		GlobalCount:  1,
		NumLocals:    1,
	})

	// mutate the inputs after construction
	instructions[0] = op.Nop
	constants[0] = object.NewInt(99)
	globalNames[0] = "modified"
	localNames[0] = "modified"

	assert.Equal(t, op.LoadConst, code.InstructionAt(0))
	assert.Equal(t, int64(42), code.ConstantAt(0).(*object.Int).Value())
	assert.Equal(t, "x", code.GlobalNameAt(0))
	assert.Equal(t, "a", code.LocalNameAt(0))
}

func TestCodeAccessors(t *testing.T) {
	code := NewCode(CodeParams{
		Name:         "main",
		Instructions: []op.Code{op.LoadConst, 0, op.Print, op.Halt},
		Constants:    []object.Object{object.NewInt(42), object.NewBool(true)},
		NumLocals:    3,
		GlobalCount:  2,
		Source:       "print(42);",
		Filename:     "main.mc",
	})

	assert.Equal(t, "main", code.Name())
	assert.Equal(t, 4, code.InstructionCount())
	assert.Equal(t, 2, code.ConstantCount())
	assert.Equal(t, 3, code.LocalCount())
	assert.Equal(t, 0, code.ParamCount())
	assert.Equal(t, 2, code.GlobalCount())
	assert.Equal(t, "print(42);", code.Source())
	assert.Equal(t, "main.mc", code.Filename())
	assert.Equal(t, 0, code.FunctionCount())
}

func TestCodeNameLookupOutOfRange(t *testing.T) {
	code := NewCode(CodeParams{
		GlobalNames: []string{"x"},
		LocalNames:  []string{"a"},
	})
	assert.Equal(t, "", code.GlobalNameAt(-1))
	assert.Equal(t, "", code.GlobalNameAt(5))
	assert.Equal(t, "", code.LocalNameAt(-1))
	assert.Equal(t, "", code.LocalNameAt(5))
	assert.Equal(t, "x", code.GlobalNameAt(0))
}

func TestFunctionTable(t *testing.T) {
	body := NewCode(CodeParams{
		Name:         "add",
		Instructions: []op.Code{op.LoadFast, 0, op.LoadFast, 1, op.BinaryOp, op.Code(op.Add), op.ReturnValue},
		NumParams:    2,
		NumLocals:    3,
	})
	fn := NewFunction(FunctionParams{
		Name:       "add",
		Parameters: []string{"a", "b"},
		ReturnType: types.Int,
		Code:       body,
	})

	root := NewCode(CodeParams{
		Name:      "main",
		Functions: []*Function{fn},
	})

	require.Equal(t, 1, root.FunctionCount())
	assert.Same(t, fn, root.FunctionAt(0))
	assert.Equal(t, []string{"add"}, root.FunctionNames())

	flat := root.Flatten()
	require.Len(t, flat, 2)
	assert.Same(t, root, flat[0])
	assert.Same(t, body, flat[1])
}

func TestFunctionAccessors(t *testing.T) {
	body := NewCode(CodeParams{Name: "half", NumParams: 1, NumLocals: 2})
	fn := NewFunction(FunctionParams{
		Name:       "half",
		Parameters: []string{"v"},
		ReturnType: types.Float,
		Code:       body,
	})

	assert.Equal(t, "half", fn.Name())
	assert.Same(t, body, fn.Code())
	assert.Equal(t, 1, fn.ParameterCount())
	assert.Equal(t, "v", fn.Parameter(0))
	assert.Equal(t, types.Float, fn.ReturnType())
	assert.True(t, fn.ReturnsValue())
	assert.Equal(t, 2, fn.LocalCount())
	assert.Equal(t, "float half(v)", fn.String())

	void := NewFunction(FunctionParams{Name: "hello", ReturnType: types.Void})
	assert.False(t, void.ReturnsValue())
	assert.Equal(t, 0, void.LocalCount())
}

func TestCodeStats(t *testing.T) {
	body := NewCode(CodeParams{
		Name:         "f",
		Instructions: []op.Code{op.LoadConst, 0, op.ReturnValue},
		Constants:    []object.Object{object.NewInt(1)},
	})
	fn := NewFunction(FunctionParams{Name: "f", ReturnType: types.Int, Code: body})

	root := NewCode(CodeParams{
		Name:         "main",
		Instructions: []op.Code{op.Call, 0, 0, op.Print, op.Halt},
		Functions:    []*Function{fn},
		GlobalCount:  2,
		Source:       "test source",
	})

	stats := root.Stats()
	assert.Equal(t, 8, stats.InstructionCount)
	assert.Equal(t, 1, stats.ConstantCount)
	assert.Equal(t, 2, stats.GlobalCount)
	assert.Equal(t, 1, stats.FunctionCount)
	assert.Equal(t, 11, stats.SourceBytes)
}

func TestInstructionIter(t *testing.T) {
	code := NewCode(CodeParams{
		Instructions: []op.Code{
			op.LoadConst, 0,
			op.LoadFast, 1,
			op.BinaryOp, op.Code(op.Add),
			op.Print,
			op.Halt,
		},
	})

	iter := NewInstructionIter(code)
	all := iter.All()
	require.Equal(t, [][]op.Code{
		{op.LoadConst, 0},
		{op.LoadFast, 1},
		{op.BinaryOp, op.Code(op.Add)},
		{op.Print},
		{op.Halt},
	}, all)

	_, ok := iter.Next()
	assert.False(t, ok)
}
