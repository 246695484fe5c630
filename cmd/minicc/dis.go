package main

import (
	"fmt"
	"os"

	"github.com/cloudcmds/minicc"
	"github.com/cloudcmds/minicc/bytecode"
	"github.com/cloudcmds/minicc/dis"
	"github.com/spf13/cobra"
)

var disCmd = &cobra.Command{
	Use:   "dis [file]",
	Short: "Disassemble compiled minicc bytecode",
	Long: `Compile the given source code and print the peephole-optimized
bytecode as a table with resolved operand annotations.`,
	Args:          cobra.MaximumNArgs(1),
	RunE:          runDis,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	disCmd.Flags().String("func", "", "Disassemble only the named function")
}

func runDis(cmd *cobra.Command, args []string) error {
	processGlobalFlags()
	source, filename, err := getSourceCode(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := runContext()
	defer cancel()

	program, err := minicc.Build(ctx, source, buildOptions(filename)...)
	if err != nil {
		return err
	}
	code := program.Code()

	// If a function name was provided, disassemble its body only.
	if funcName, _ := cmd.Flags().GetString("func"); funcName != "" {
		var fn *bytecode.Function
		for i := 0; i < code.FunctionCount(); i++ {
			if code.FunctionAt(i).Name() == funcName {
				fn = code.FunctionAt(i)
				break
			}
		}
		if fn == nil {
			return fmt.Errorf("function %q not found", funcName)
		}
		instructions, err := dis.DisassembleFunction(code, fn)
		if err != nil {
			return err
		}
		dis.Print(instructions, os.Stdout)
		return nil
	}

	instructions, err := dis.Disassemble(code)
	if err != nil {
		return err
	}
	dis.Print(instructions, os.Stdout)

	stats := code.Stats()
	fmt.Printf("functions: %d  globals: %d  constants: %d  instructions: %d\n",
		stats.FunctionCount, stats.GlobalCount, stats.ConstantCount, stats.InstructionCount)
	return nil
}
