package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cloudcmds/minicc/ast"
	"github.com/cloudcmds/minicc/errz"
	"github.com/cloudcmds/minicc/parser"
	"github.com/cloudcmds/minicc/token"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Lines longer than this trigger the line-too-long rule.
const maxLineLength = 120

// LintIssue is one problem found in minicc source code.
type LintIssue struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
	Level   string `json:"level"` // "warning" or "error"
}

var lintCmd = &cobra.Command{
	Use:   "lint [file]",
	Short: "Check minicc source code for suspicious constructs",
	Long: `Check minicc source code for constructs that are legal but usually
unintended: variable shadowing, self-comparisons, and empty if or else
branches, plus overlong lines and trailing whitespace. A parse failure
is reported as a single error-level issue.`,
	Args:          cobra.MaximumNArgs(1),
	RunE:          runLint,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	lintCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func runLint(cmd *cobra.Command, args []string) error {
	processGlobalFlags()
	source, filename, err := getSourceCode(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := runContext()
	defer cancel()

	var parserOpts []parser.Option
	if filename != "" {
		parserOpts = append(parserOpts, parser.WithFilename(filename))
	} else {
		filename = "<stdin>"
	}

	var issues []LintIssue
	program, err := parser.Parse(ctx, source, parserOpts...)
	if err != nil {
		issues = []LintIssue{parseIssue(err)}
	} else {
		issues = lintProgram(program, source)
	}

	format, _ := cmd.Flags().GetString("output")
	switch strings.ToLower(format) {
	case "", "text":
		printLintIssues(os.Stdout, filename, issues)
	case "json":
		data, err := lintReportJSON(filename, issues)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}

	for _, issue := range issues {
		if issue.Level == "error" {
			os.Exit(1)
		}
	}
	return nil
}

// parseIssue converts a parse failure into a single error-level issue
// carrying the failure's source position.
func parseIssue(err error) LintIssue {
	issue := LintIssue{
		Line:    1,
		Column:  1,
		Rule:    "parse-error",
		Message: err.Error(),
		Level:   "error",
	}
	var structured *errz.StructuredError
	if errors.As(err, &structured) {
		issue.Message = structured.Message
		if !structured.Location.IsZero() {
			issue.Line = structured.Location.Line
			issue.Column = structured.Location.Column
		}
	}
	return issue
}

// lintProgram reports suspicious constructs in a parsed program. The rules
// flag code that is legal but usually unintended; legality itself is the
// semantic analyzer's job.
func lintProgram(program *ast.Program, source string) []LintIssue {
	var issues []LintIssue
	ast.Walk(&linter{scope: &lintScope{names: map[string]int{}}, issues: &issues}, program)
	issues = append(issues, lintLines(source)...)
	return issues
}

// lintScope chains declaration sites through enclosing lexical scopes.
type lintScope struct {
	parent *lintScope
	names  map[string]int // name to 1-based declaration line
}

func (s *lintScope) lookup(name string) (int, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if line, ok := sc.names[name]; ok {
			return line, true
		}
	}
	return 0, false
}

// linter is the ast.Visitor behind lintProgram. Function declarations,
// blocks, and for statements open a scope for shadow tracking, mirroring
// the scoping the semantic analyzer applies.
type linter struct {
	scope  *lintScope
	issues *[]LintIssue
}

func (l *linter) child() *linter {
	return &linter{
		scope:  &lintScope{parent: l.scope, names: map[string]int{}},
		issues: l.issues,
	}
}

func (l *linter) report(pos token.Position, rule, format string, args ...interface{}) {
	*l.issues = append(*l.issues, LintIssue{
		Line:    pos.LineNumber(),
		Column:  pos.ColumnNumber(),
		Rule:    rule,
		Message: fmt.Sprintf(format, args...),
		Level:   "warning",
	})
}

func (l *linter) declare(name *ast.Ident) {
	if prev, ok := l.scope.lookup(name.Name); ok {
		l.report(name.Pos(), "variable-shadow",
			"%q shadows the declaration on line %d", name.Name, prev)
	}
	l.scope.names[name.Name] = name.Pos().LineNumber()
}

func (l *linter) Visit(node ast.Node) ast.Visitor {
	switch n := node.(type) {
	case *ast.VarDecl:
		l.declare(n.Name)
	case *ast.Param:
		l.declare(n.Name)
	case *ast.FuncDecl:
		// The function name lives in the enclosing scope; its parameters
		// and body share the inner scopes.
		l.scope.names[n.Name.Name] = n.Name.Pos().LineNumber()
		return l.child()
	case *ast.Block, *ast.For:
		return l.child()
	case *ast.If:
		if block, ok := n.Consequence.(*ast.Block); ok && len(block.Stmts) == 0 {
			l.report(block.Pos(), "empty-block", "empty if block")
		}
		if block, ok := n.Alternative.(*ast.Block); ok && len(block.Stmts) == 0 {
			l.report(block.Pos(), "empty-block", "empty else block")
		}
	case *ast.Infix:
		if isComparisonOp(n.Op) {
			left, okLeft := n.X.(*ast.Ident)
			right, okRight := n.Y.(*ast.Ident)
			if okLeft && okRight && left.Name == right.Name {
				l.report(n.Pos(), "self-compare", "comparing %q to itself", left.Name)
			}
		}
	}
	return l
}

func isComparisonOp(op string) bool {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=":
		return true
	}
	return false
}

// lintLines applies the rules that need raw source lines rather than a
// syntax tree.
func lintLines(source string) []LintIssue {
	var issues []LintIssue
	for i, line := range strings.Split(source, "\n") {
		num := i + 1
		if strings.HasSuffix(line, " ") || strings.HasSuffix(line, "\t") {
			issues = append(issues, LintIssue{
				Line:    num,
				Column:  len(line),
				Rule:    "trailing-whitespace",
				Message: "trailing whitespace",
				Level:   "warning",
			})
		}
		if len(line) > maxLineLength {
			issues = append(issues, LintIssue{
				Line:    num,
				Column:  maxLineLength + 1,
				Rule:    "line-too-long",
				Message: fmt.Sprintf("line exceeds %d characters (%d)", maxLineLength, len(line)),
				Level:   "warning",
			})
		}
	}
	return issues
}

// printLintIssues writes issues one per line with a trailing count summary.
func printLintIssues(w io.Writer, filename string, issues []LintIssue) {
	fileColor := color.New(color.FgCyan)
	if len(issues) == 0 {
		fmt.Fprintf(w, "%s: %s\n", fileColor.Sprint(filename), color.GreenString("OK"))
		return
	}
	var errs, warnings int
	for _, issue := range issues {
		level := color.YellowString("%s", issue.Level)
		if issue.Level == "error" {
			level = color.RedString("%s", issue.Level)
			errs++
		} else {
			warnings++
		}
		fmt.Fprintf(w, "%s %s [%s] %s\n",
			fileColor.Sprintf("%s:%d:%d:", filename, issue.Line, issue.Column),
			level, issue.Rule, issue.Message)
	}
	fmt.Fprintln(w)
	if errs > 0 {
		fmt.Fprintln(w, color.RedString("%d error(s), %d warning(s)", errs, warnings))
	} else {
		fmt.Fprintln(w, color.YellowString("%d warning(s)", warnings))
	}
}

// lintReportJSON renders the machine-readable report. Issues marshal as an
// empty array rather than null when the source is clean.
func lintReportJSON(filename string, issues []LintIssue) ([]byte, error) {
	report := struct {
		File     string      `json:"file"`
		Issues   []LintIssue `json:"issues"`
		Errors   int         `json:"errors"`
		Warnings int         `json:"warnings"`
	}{File: filename, Issues: issues}
	if report.Issues == nil {
		report.Issues = []LintIssue{}
	}
	for _, issue := range issues {
		if issue.Level == "error" {
			report.Errors++
		} else {
			report.Warnings++
		}
	}
	return json.MarshalIndent(report, "", "  ")
}
