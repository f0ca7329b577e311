package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"formlens/internal/model"
)

// DisplayReport writes the report in the requested format
func DisplayReport(w io.Writer, report *model.FeedbackReport, format string) error {
	switch format {
	case "json":
		return displayJSON(w, report)
	case "yaml":
		return displayYAML(w, report)
	case "human":
		displayHuman(w, report)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want human, json or yaml)", format)
	}
}

func displayJSON(w io.Writer, report *model.FeedbackReport) error {
	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(output))
	return nil
}

func displayYAML(w io.Writer, report *model.FeedbackReport) error {
	output, err := yaml.Marshal(report)
	if err != nil {
		return err
	}
	fmt.Fprint(w, string(output))
	return nil
}

func displayHuman(w io.Writer, report *model.FeedbackReport) {
	yellow := color.New(color.FgYellow, color.Bold)
	green := color.New(color.FgGreen, color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)

	fmt.Fprintln(w)

	if report.FormQualityScore > 0 {
		scoreColor(report.FormQualityScore).Fprintf(w, "FORM QUALITY SCORE: %d/100\n\n", report.FormQualityScore)
	}

	if len(report.TimeConsumingQuestions) > 0 {
		yellow.Fprintln(w, "SLOWEST QUESTIONS:")
		for i, q := range report.TimeConsumingQuestions {
			fmt.Fprintf(w, "   %d. %s (%s)\n", i+1, q.Question, q.Time)
		}
		fmt.Fprintln(w)
	}

	if len(report.FrequentlySkippedQuestions) > 0 {
		yellow.Fprintln(w, "MOST SKIPPED QUESTIONS:")
		for i, q := range report.FrequentlySkippedQuestions {
			fmt.Fprintf(w, "   %d. %s (%d skips)\n", i+1, q.Question, q.SkippedCount)
		}
		fmt.Fprintln(w)
	}

	cyan.Fprintln(w, "FEEDBACK:")
	for _, item := range report.Feedback {
		fmt.Fprintf(w, "   - %s\n", strings.ReplaceAll(item, "\n", "\n     "))
	}
	fmt.Fprintln(w)

	if len(report.SuggestedQuestions) > 0 {
		green.Fprintln(w, "SUGGESTED QUESTIONS:")
		for i, q := range report.SuggestedQuestions {
			fmt.Fprintf(w, "   %d. %s\n", i+1, q)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("─", 80))
	fmt.Fprintf(w, "%s\n", color.HiBlackString("Run with -o json or -o yaml for machine-readable output"))
}

func scoreColor(score int) *color.Color {
	switch {
	case score >= 90:
		return color.New(color.FgGreen, color.Bold)
	case score >= 70:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func printSuccess(w io.Writer, message string) {
	fmt.Fprintf(w, "%s %s\n", color.GreenString("✓"), message)
}
