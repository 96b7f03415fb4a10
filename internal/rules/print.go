package rules

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	ruleStyle    = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
	captureStyle = color.New(color.FgGreen)
)

// Report writes a colored issue report followed by a per-rule summary.
func Report(w io.Writer, issues []Issue) {
	var builder strings.Builder
	for _, issue := range issues {
		builder.WriteString(formatIssue(issue))
	}
	builder.WriteString(formatSummary(issues))
	fmt.Fprint(w, builder.String())
}

func formatIssue(issue Issue) string {
	var result strings.Builder
	result.WriteString(ruleStyle.Sprint(issue.Rule))
	result.WriteString(lineStyle.Sprint(" --> "))
	result.WriteString(fileStyle.Sprint(issue.Filename))
	result.WriteString(lineStyle.Sprintf(":%d", issue.Line))
	result.WriteByte('\n')
	if issue.Message != "" {
		result.WriteString("  " + messageStyle.Sprint(issue.Message) + "\n")
	}
	for i, c := range issue.Captures {
		result.WriteString(captureStyle.Sprintf("  $%d = %v\n", i+1, c))
	}
	return result.String()
}

func formatSummary(issues []Issue) string {
	if len(issues) == 0 {
		return "no matches\n"
	}
	counts := make(map[string]int)
	for _, issue := range issues {
		counts[issue.Rule]++
	}
	names := maps.Keys(counts)
	slices.Sort(names)

	var result strings.Builder
	result.WriteString(fmt.Sprintf("\n%d match(es):\n", len(issues)))
	for _, name := range names {
		result.WriteString(fmt.Sprintf("  %s: %d\n", ruleStyle.Sprint(name), counts[name]))
	}
	return result.String()
}
