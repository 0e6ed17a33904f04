package cli

import (
	"fmt"
	"strings"

	"github.com/ledgersift/ledgersift/internal/model"
)

// RenderGroups formats emitted duplicate groups for terminal display.
func RenderGroups(groups []model.DuplicateGroup) string {
	if len(groups) == 0 {
		return SubtleStyle.Render("No duplicate groups found.") + "\n"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("Found %d duplicate group(s)", len(groups))))
	b.WriteString("\n")

	for i := range groups {
		b.WriteString(renderGroup(&groups[i]))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderValidatedGroups formats groups with their validation warnings.
func RenderValidatedGroups(validated []model.ValidatedGroup) string {
	if len(validated) == 0 {
		return SubtleStyle.Render("No duplicate groups found.") + "\n"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("Validated %d duplicate group(s)", len(validated))))
	b.WriteString("\n")

	for _, vg := range validated {
		b.WriteString(renderGroup(vg.Group))
		if len(vg.Warnings) == 0 {
			b.WriteString(SuccessStyle.Render("  no warnings"))
			b.WriteString("\n")
		}
		for _, w := range vg.Warnings {
			b.WriteString(WarningStyle.Render(fmt.Sprintf("  warning [%s]: %s", w.Code, w.Message)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderGroup(g *model.DuplicateGroup) string {
	var b strings.Builder

	header := fmt.Sprintf("%s  confidence %.2f  %d items  total $%.2f",
		strings.Join(g.Metadata.Merchants, ", "),
		g.Confidence,
		len(g.Items),
		g.Metadata.TotalAmount)
	b.WriteString(BoxStyle.Render(header))
	b.WriteString("\n")

	for i := range g.Items {
		item := &g.Items[i]
		b.WriteString(fmt.Sprintf("  %s  %10.2f  %s\n",
			item.Date.Format("2006-01-02"), item.Amount, item.Text()))
	}

	if len(g.Reasons) > 0 {
		b.WriteString(SubtleStyle.Render("  reasons: " + strings.Join(g.Reasons, "; ")))
		b.WriteString("\n")
	}
	if len(g.Metadata.Patterns) > 0 {
		b.WriteString(SuccessStyle.Render("  patterns: " + strings.Join(g.Metadata.Patterns, ", ")))
		b.WriteString("\n")
	}
	return b.String()
}
