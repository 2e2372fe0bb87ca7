// Package format renders Vercel records as chat and terminal text.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/vercel-bot/engine/internal/models"
)

// MaxCommitLength is the number of characters of a commit message kept in a
// status block.
const MaxCommitLength = 50

// UnknownGlyph is shown for states Vercel has not documented.
const UnknownGlyph = "❓"

// TimeLayout is used wherever a timestamp is shown to a person.
const TimeLayout = "2006-01-02 15:04:05 MST"

// StateGlyph maps a deployment state to its display glyph.
func StateGlyph(state models.DeploymentState) string {
	switch state {
	case models.StateReady:
		return "✅"
	case models.StateBuilding:
		return "🔨"
	case models.StateError:
		return "❌"
	case models.StateInitializing:
		return "⚡"
	case models.StateQueued:
		return "⏳"
	case models.StateCanceled:
		return "🚫"
	default:
		return UnknownGlyph
	}
}

// TruncateCommit cuts msg to MaxCommitLength characters and appends "..."
// when anything was removed.
func TruncateCommit(msg string) string {
	runes := []rune(msg)
	if len(runes) <= MaxCommitLength {
		return msg
	}
	return string(runes[:MaxCommitLength]) + "..."
}

// Timestamp renders t in the local time zone. A zero time renders as "-".
func Timestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(TimeLayout)
}

// DeploymentStatus renders the condensed Markdown status block used in chat.
// Text that comes from Vercel is escaped for legacy Markdown; the commit
// message is truncated before escaping.
func DeploymentStatus(d models.Deployment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s *%s*\n", StateGlyph(d.State), EscapeMarkdown(string(d.State)))
	fmt.Fprintf(&b, "🔗 [%s](https://%s)\n", EscapeMarkdown(d.Name), d.URL)
	fmt.Fprintf(&b, "👤 %s\n", EscapeMarkdown(d.Creator.Username))
	fmt.Fprintf(&b, "📅 %s", Timestamp(d.Created))
	if d.Meta != nil && d.Meta.CommitMessage != "" {
		fmt.Fprintf(&b, "\n📝 %s", EscapeMarkdown(TruncateCommit(d.Meta.CommitMessage)))
	}
	fmt.Fprintf(&b, "\n🆔 `%s`", d.UID)
	return b.String()
}

// DeploymentDetails is DeploymentStatus plus the target environment and the
// inspector link when Vercel reported them.
func DeploymentDetails(d models.Deployment) string {
	var b strings.Builder
	b.WriteString(DeploymentStatus(d))
	if d.Target != "" {
		fmt.Fprintf(&b, "\n🎯 %s", EscapeMarkdown(d.Target))
	}
	if d.InspectorURL != "" {
		fmt.Fprintf(&b, "\n🔍 [Inspector](%s)", d.InspectorURL)
	}
	return b.String()
}

// DeploymentList joins status blocks with a blank line between them.
func DeploymentList(ds []models.Deployment) string {
	blocks := make([]string, 0, len(ds))
	for _, d := range ds {
		blocks = append(blocks, DeploymentStatus(d))
	}
	return strings.Join(blocks, "\n\n")
}
