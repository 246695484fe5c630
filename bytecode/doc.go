// Package bytecode provides immutable representations of compiled
// programs.
//
// This package defines the output of code generation: pure data
// structures that represent instruction streams, constant pools,
// function templates, and associated metadata. These types are created
// once during compilation and may be shared safely across goroutines
// and virtual machine instances.
//
// # Key Types
//
//   - [Code]: an immutable compiled code block (the top-level program
//     or one function body)
//   - [Function]: an immutable function template pairing a signature
//     with its body
//   - [InstructionIter]: walks an instruction stream opcode by opcode
//
// # Immutability
//
// All types in this package are immutable after construction:
//
//   - No mutation methods exist on any type
//   - All fields are unexported
//   - Constructors copy input slices to prevent caller mutation
//   - Collections are exposed through index-based accessors
//
// # Layout
//
// The top-level program compiles to one Code that carries the function
// table; each declared function compiles to its own Code wrapped in a
// Function. Instruction-stream entries are opcodes interleaved with
// their operands, and jump operands are absolute offsets into the
// stream that contains them. Frames are laid out with parameters first,
// then other named locals, then the temporaries the code generator
// assigned.
package bytecode
