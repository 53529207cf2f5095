package main

import (
	"fmt"
	"io"
	"os"

	"github.com/kalambet/pathcraft/internal/career"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

func colorize(color, text string) string {
	if noColor {
		return text
	}
	return color + text + colorReset
}

func printSuccess(format string, args ...any) {
	fmt.Fprintln(os.Stderr, colorize(colorGreen, "✓ "+fmt.Sprintf(format, args...)))
}

func printError(format string, args ...any) {
	fmt.Fprintln(os.Stderr, colorize(colorRed, "✗ "+fmt.Sprintf(format, args...)))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(os.Stderr, colorize(colorYellow, "⚠ "+fmt.Sprintf(format, args...)))
}

func printStep(format string, args ...any) {
	fmt.Fprintln(os.Stderr, colorize(colorCyan, "→ "+fmt.Sprintf(format, args...)))
}

// printRecommendations renders recs as the four result groups, skipping
// the empty ones.
func printRecommendations(w io.Writer, recs career.Recommendations) {
	if recs.Empty() {
		fmt.Fprintln(w, "No recommendations returned.")
		return
	}

	heading := func(title string) {
		fmt.Fprintf(w, "\n%s\n", colorize(colorBold, title))
	}

	if len(recs.Courses) > 0 {
		heading("Recommended Courses")
		for _, c := range recs.Courses {
			fmt.Fprintf(w, "  • %s (%s)\n    %s\n", c.Name, c.Platform, colorize(colorCyan, c.Link))
		}
	}
	if len(recs.Videos) > 0 {
		heading("Video Resources")
		for _, v := range recs.Videos {
			fmt.Fprintf(w, "  • %s (%s)\n    %s\n", v.Name, v.Platform, colorize(colorCyan, v.Link))
		}
	}
	if len(recs.Jobs) > 0 {
		heading("Job Opportunities")
		for _, j := range recs.Jobs {
			fmt.Fprintf(w, "  • %s at %s\n    %s\n", j.Title, j.Company, colorize(colorCyan, j.Link))
		}
	}
	if len(recs.Roadmap) > 0 {
		heading("Your Career Roadmap")
		for _, s := range recs.Roadmap {
			fmt.Fprintf(w, "  %s. %s\n", s.Step, s.Description)
		}
	}
}
