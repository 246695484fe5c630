package bytecode

// Stats contains statistics about a compiled program. This is useful
// for inspecting programs before execution.
type Stats struct {
	// InstructionCount is the total length of all instruction streams,
	// the top-level program and every function body included.
	InstructionCount int

	// ConstantCount is the combined size of all constant pools.
	ConstantCount int

	// GlobalCount is the number of global variables.
	GlobalCount int

	// FunctionCount is the number of declared functions.
	FunctionCount int

	// SourceBytes is the size of the original source code in bytes.
	SourceBytes int
}
