package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

// PrettyFormatter formats output with colors and styling using lipgloss.
// It produces a visually appealing output suitable for terminal display.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Result) error {
	header := f.formatHeader(r)
	w.WriteString(header)
	w.WriteString("\n")

	groups := f.formatGroups(r)
	w.WriteString(groups)

	footer := f.formatFooter(r)
	w.WriteString(footer)

	if len(r.Report.Warnings) > 0 {
		warnings := f.formatWarnings(r.Report.Warnings)
		w.WriteString("\n")
		w.WriteString(warnings)
	}

	return nil
}

// formatHeader builds the header box with scan metadata.
func (f *PrettyFormatter) formatHeader(r *Result) string {
	var lines []string

	rootsLabel := LabelStyle.Render("Roots:")
	rootsValue := ValueStyle.Render(strings.Join(r.Report.Roots, ", "))
	lines = append(lines, fmt.Sprintf("%s %s", rootsLabel, rootsValue))

	var infoParts []string

	scannedLabel := LabelStyle.Render("Scanned:")
	scannedValue := ValueStyle.Render(fmt.Sprintf("%s files in %s",
		humanize.Comma(r.Report.Stats.FilesScanned),
		formatDuration(r.Report.Stats.Elapsed)))
	infoParts = append(infoParts, fmt.Sprintf("%s %s", scannedLabel, scannedValue))

	algLabel := LabelStyle.Render("Digest:")
	algValue := ValueStyle.Render(r.Report.Algorithm)
	infoParts = append(infoParts, fmt.Sprintf("%s %s", algLabel, algValue))

	lines = append(lines, strings.Join(infoParts, "  "))

	content := strings.Join(lines, "\n")
	return HeaderBox.Render(content)
}

// formatGroups renders every duplicate group as an indexed block with
// the member paths drawn under a tree connector.
func (f *PrettyFormatter) formatGroups(r *Result) string {
	groups := r.Report.Groups
	if len(groups) == 0 {
		return SuccessStyle.Render("No duplicates found.") + "\n"
	}

	var sb strings.Builder

	for idx := range groups {
		g := &groups[idx]

		index := TitleStyle.Render(fmt.Sprintf("#%d", idx+1))
		size := SizeStyle.Render(types.FormatSize(g.Size))
		count := ValueStyle.Render(fmt.Sprintf("%d files", g.Count()))
		dot := MutedStyle.Render("·")
		times := MutedStyle.Render("×")
		sb.WriteString(fmt.Sprintf("%s %s %s %s %s\n", index, dot, size, times, count))

		for i, path := range g.Files {
			connector := "  │"
			switch {
			case i == 0:
				connector = "  ├"
			case i == len(g.Files)-1:
				connector = "  └"
			}
			sb.WriteString(fmt.Sprintf("%s %s\n",
				MutedStyle.Render(connector),
				PathStyle.Render(f.renderPath(r, path))))
		}

		wastedLabel := MutedStyle.Render("wasted:")
		wastedValue := WastedStyle.Render(types.FormatSize(g.Reclaimable()))
		sb.WriteString(fmt.Sprintf("    %s %s\n\n", wastedLabel, wastedValue))
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

// renderPath wraps a path in an OSC 8 terminal hyperlink when enabled,
// so capable terminals make it clickable. The display text is unchanged.
func (f *PrettyFormatter) renderPath(r *Result, path string) string {
	if !r.Hyperlinks {
		return path
	}
	return fmt.Sprintf("\x1b]8;;file://%s\x07%s\x1b]8;;\x07", path, path)
}

// formatFooter builds the footer box with summary information.
func (f *PrettyFormatter) formatFooter(r *Result) string {
	var parts []string

	stats := r.Report.Stats

	groupsLabel := LabelStyle.Render("Groups:")
	groupsValue := ValueStyle.Render(fmt.Sprintf("%d", stats.DuplicateGroups))
	parts = append(parts, fmt.Sprintf("%s %s", groupsLabel, groupsValue))

	filesLabel := LabelStyle.Render("Duplicates:")
	filesValue := ValueStyle.Render(fmt.Sprintf("%d", stats.DuplicateFiles))
	parts = append(parts, fmt.Sprintf("%s %s", filesLabel, filesValue))

	reclaimLabel := LabelStyle.Render("Reclaimable:")
	reclaimValue := WastedStyle.Render(types.FormatSize(stats.ReclaimableBytes))
	parts = append(parts, fmt.Sprintf("%s %s", reclaimLabel, reclaimValue))

	hint := MutedStyle.Render("Use -o plain for unformatted output")
	parts = append(parts, hint)

	content := strings.Join(parts, "  ")
	return FooterBox.Render(content)
}

// formatWarnings builds a warning block.
func (f *PrettyFormatter) formatWarnings(warnings []types.Warning) string {
	var sb strings.Builder

	titleStyle := WarningStyle.Bold(true)
	sb.WriteString(titleStyle.Render("Warnings:"))
	sb.WriteString("\n")

	for _, warning := range warnings {
		sb.WriteString(WarningStyle.Render(fmt.Sprintf("  %s: %s", warning.Path, warning.Reason)))
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatDuration formats a time.Duration as a human-friendly string.
func formatDuration(d time.Duration) string {
	sec := d.Seconds()
	if sec < 1 {
		return fmt.Sprintf("%.0fms", sec*1000)
	}
	if sec < 60 {
		return fmt.Sprintf("%.1fs", sec)
	}
	minutes := int(sec) / 60
	seconds := int(sec) % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
