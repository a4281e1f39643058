// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintTailorResult outputs a human-readable summary of a tailoring run.
func (p *Printer) PrintTailorResult(result *types.TailorResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ATS Score: %d/100\n", result.ATSScore))

	writeKeywordLines(&sb, "Matched Keywords", result.MatchedKeywords)
	writeKeywordLines(&sb, "Missing Keywords", result.MissingKeywords)

	if len(result.Changes) > 0 {
		sb.WriteString("\nChanges:\n")
		count := min(len(result.Changes), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", result.Changes[i]))
		}
		if len(result.Changes) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Changes)-maxItemsToShow))
		}
	}

	if len(result.Suggestions) > 0 {
		sb.WriteString("\nSuggestions:\n")
		count := min(len(result.Suggestions), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", result.Suggestions[i]))
		}
		if len(result.Suggestions) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Suggestions)-3))
		}
	}

	p.printBox("TAILORING RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintKeywordAnalysis outputs the structured keyword extraction result.
func (p *Printer) PrintKeywordAnalysis(analysis *types.KeywordAnalysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	writeKeywordLines(&sb, "Technical Skills", analysis.TechnicalSkills)
	writeKeywordLines(&sb, "Soft Skills", analysis.SoftSkills)
	writeKeywordLines(&sb, "Qualifications", analysis.Qualifications)
	writeKeywordLines(&sb, "Experience", analysis.ExperienceRequirements)
	writeKeywordLines(&sb, "Responsibilities", analysis.KeyResponsibilities)

	p.printBox("JOB KEYWORDS", strings.TrimSuffix(sb.String(), "\n"))
}

func writeKeywordLines(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}

	sb.WriteString(fmt.Sprintf("\n%s (%d):\n", label, len(items)))
	line := strings.Join(items, ", ")
	if len(line) > boxWidth-8 {
		line = line[:boxWidth-11] + "..."
	}
	sb.WriteString(fmt.Sprintf("  %s\n", line))
}
