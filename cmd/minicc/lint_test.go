package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/cloudcmds/minicc/parser"
	"github.com/stretchr/testify/require"
)

func lintSource(t *testing.T, source string) []LintIssue {
	t.Helper()
	program, err := parser.Parse(context.Background(), source)
	require.NoError(t, err)
	return lintProgram(program, source)
}

func TestLintCleanProgram(t *testing.T) {
	issues := lintSource(t, "int x = 1;\nprint(x);\n")
	require.Empty(t, issues)
}

func TestLintShadowedVariable(t *testing.T) {
	issues := lintSource(t, "int x = 1;\n{\n    int x = 2;\n}\n")
	require.Len(t, issues, 1)
	require.Equal(t, "variable-shadow", issues[0].Rule)
	require.Equal(t, "warning", issues[0].Level)
	require.Equal(t, 3, issues[0].Line)
	require.Equal(t, `"x" shadows the declaration on line 1`, issues[0].Message)
}

func TestLintSiblingScopes(t *testing.T) {
	// The same parameter name in two functions is not shadowing.
	issues := lintSource(t, "int f(int x) { return x; }\nint g(int x) { return x; }\nprint(f(1) + g(2));\n")
	require.Empty(t, issues)
}

func TestLintParamShadowsGlobal(t *testing.T) {
	issues := lintSource(t, "int total = 0;\nint add(int total) { return total + 1; }\nprint(add(total));\n")
	require.Len(t, issues, 1)
	require.Equal(t, "variable-shadow", issues[0].Rule)
	require.Equal(t, 2, issues[0].Line)
	require.Equal(t, `"total" shadows the declaration on line 1`, issues[0].Message)
}

func TestLintLoopScopes(t *testing.T) {
	// A loop counter goes out of scope with its loop, so reusing the name
	// in a later loop is clean.
	source := "for (int i = 0; i < 2; i = i + 1) {\n    print(i);\n}\nfor (int i = 5; i > 0; i = i - 1) {\n    print(i);\n}\n"
	require.Empty(t, lintSource(t, source))
}

func TestLintLoopShadow(t *testing.T) {
	source := "for (int i = 0; i < 2; i = i + 1) {\n    int i = 9;\n    print(i);\n}\n"
	issues := lintSource(t, source)
	require.Len(t, issues, 1)
	require.Equal(t, "variable-shadow", issues[0].Rule)
	require.Equal(t, 2, issues[0].Line)
}

func TestLintSelfCompare(t *testing.T) {
	issues := lintSource(t, "int x = 1;\nprint(x == x);\n")
	require.Len(t, issues, 1)
	require.Equal(t, "self-compare", issues[0].Rule)
	require.Equal(t, 2, issues[0].Line)
	require.Equal(t, `comparing "x" to itself`, issues[0].Message)
}

func TestLintSelfCompareArithmetic(t *testing.T) {
	// x + x is a doubling, not a comparison.
	issues := lintSource(t, "int x = 1;\nprint(x + x);\n")
	require.Empty(t, issues)
}

func TestLintEmptyBlocks(t *testing.T) {
	issues := lintSource(t, "int x = 1;\nif (x > 0) {\n} else {\n}\n")
	require.Len(t, issues, 2)
	require.Equal(t, "empty-block", issues[0].Rule)
	require.Equal(t, "empty if block", issues[0].Message)
	require.Equal(t, "empty else block", issues[1].Message)
}

func TestLintTrailingWhitespace(t *testing.T) {
	issues := lintSource(t, "int x = 1; \nprint(x);\n")
	require.Len(t, issues, 1)
	require.Equal(t, "trailing-whitespace", issues[0].Rule)
	require.Equal(t, 1, issues[0].Line)
}

func TestLintLineTooLong(t *testing.T) {
	source := "int extremelyDescriptiveAccumulatorName = 100000000 + 200000000 + 300000000 + 400000000 + 500000000 + 600000000 + 700000000;\n"
	require.Greater(t, len(source), maxLineLength)
	issues := lintSource(t, source)
	require.Len(t, issues, 1)
	require.Equal(t, "line-too-long", issues[0].Rule)
	require.Equal(t, maxLineLength+1, issues[0].Column)
}

func TestLintParseIssue(t *testing.T) {
	_, err := parser.Parse(context.Background(), "int x = ;")
	require.Error(t, err)

	issue := parseIssue(err)
	require.Equal(t, "parse-error", issue.Rule)
	require.Equal(t, "error", issue.Level)
	require.Equal(t, 1, issue.Line)
	require.Positive(t, issue.Column)
	require.Contains(t, issue.Message, "invalid syntax")
}

func TestPrintLintIssues(t *testing.T) {
	withoutColor(t)

	var buf bytes.Buffer
	printLintIssues(&buf, "prog.mc", nil)
	require.Equal(t, "prog.mc: OK\n", buf.String())

	buf.Reset()
	printLintIssues(&buf, "prog.mc", []LintIssue{
		{Line: 3, Column: 9, Rule: "variable-shadow", Message: `"x" shadows the declaration on line 1`, Level: "warning"},
	})
	out := buf.String()
	require.Contains(t, out, `prog.mc:3:9: warning [variable-shadow] "x" shadows the declaration on line 1`)
	require.Contains(t, out, "1 warning(s)")
}

func TestLintReportJSON(t *testing.T) {
	data, err := lintReportJSON("prog.mc", nil)
	require.NoError(t, err)
	require.Contains(t, string(data), `"issues": []`)

	data, err = lintReportJSON("prog.mc", []LintIssue{
		{Line: 1, Column: 9, Rule: "parse-error", Message: "invalid syntax", Level: "error"},
		{Line: 2, Column: 3, Rule: "self-compare", Message: `comparing "x" to itself`, Level: "warning"},
	})
	require.NoError(t, err)
	text := string(data)
	require.Contains(t, text, `"errors": 1`)
	require.Contains(t, text, `"warnings": 1`)
	require.Contains(t, text, `"rule": "parse-error"`)
}
