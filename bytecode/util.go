package bytecode

import (
	"github.com/cloudcmds/minicc/object"
	"github.com/cloudcmds/minicc/op"
)

// copyStrings returns a copy of the given string slice.
func copyStrings(src []string) []string {
	if src == nil {
		return nil
	}
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}

// copyInstructions returns a copy of the given instruction slice.
func copyInstructions(src []op.Code) []op.Code {
	if src == nil {
		return nil
	}
	dst := make([]op.Code, len(src))
	copy(dst, src)
	return dst
}

// copyObjects returns a copy of the given constant slice. The objects
// themselves are immutable values.
func copyObjects(src []object.Object) []object.Object {
	if src == nil {
		return nil
	}
	dst := make([]object.Object, len(src))
	copy(dst, src)
	return dst
}

// copyFunctions returns a copy of the given function slice. Functions
// are immutable after construction.
func copyFunctions(src []*Function) []*Function {
	if src == nil {
		return nil
	}
	dst := make([]*Function, len(src))
	copy(dst, src)
	return dst
}
