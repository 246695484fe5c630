// Command minicc compiles and runs minicc source code, printing either
// the per-stage section dump or the full result as JSON.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cloudcmds/minicc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "minicc [file]",
	Short: "Compile and run minicc source code",
	Long: `Compile and run minicc source code.

The compiler reports every stage it runs: tokens, syntax tree, typed
syntax tree, symbol table, IR before and after optimization, bytecode
before and after peephole optimization, and the program output. The
default output is a section dump; use --output json for the raw result.`,
	Example: `  minicc program.mc
  minicc -c 'print(1 + 2);'
  minicc --stdin < program.mc
  minicc --output json program.mc
  minicc dis program.mc
  minicc lint program.mc`,
	Args:          cobra.MaximumNArgs(1),
	RunE:          runCompile,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("code", "c", "", "Code to compile")
	flags.Bool("stdin", false, "Read code from stdin")
	flags.Bool("no-color", false, "Disable colored output")
	flags.Bool("verbose", false, "Log stage boundaries to stderr")
	flags.Int("max-call-depth", 0, "Limit on call nesting (0 uses the VM default)")
	flags.Int64("max-instructions", 0, "Limit on executed instructions (0 means unlimited)")
	flags.Int("context-check-interval", 0, "Instructions between cancellation checks (0 uses the VM default)")
	flags.Duration("timeout", 0, "Execution timeout (0 means none)")
	rootCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	if err := viper.BindPFlags(flags); err != nil {
		fatal(err)
	}
	if err := viper.BindPFlag("output", rootCmd.Flags().Lookup("output")); err != nil {
		fatal(err)
	}
	viper.SetEnvPrefix("MINICC")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(disCmd, lintCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fatal(err)
	}
}

func runCompile(cmd *cobra.Command, args []string) error {
	processGlobalFlags()
	source, filename, err := getSourceCode(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := runContext()
	defer cancel()

	result, err := minicc.Compile(ctx, source, buildOptions(filename)...)
	if result == nil {
		return err
	}

	switch format := strings.ToLower(viper.GetString("output")); format {
	case "", "text":
		printSections(os.Stdout, result)
	case "json":
		data, err := renderJSON(result)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}

	if !result.OK() {
		os.Exit(1)
	}
	return nil
}

// runContext applies the --timeout flag to the execution context.
func runContext() (context.Context, context.CancelFunc) {
	ctx := context.Background()
	if timeout := viper.GetDuration("timeout"); timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("minicc %s (commit %s, built %s)\n", version, commit, date)
	},
}
