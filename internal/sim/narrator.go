package sim

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/ficworld/internal/services"
	"github.com/jwebster45206/ficworld/pkg/world"
)

const narratorSystemPrompt = `You are the narrator of FicWorld, a story simulation. You turn factual scene logs into vivid literary prose, told strictly from the assigned point-of-view character's perspective. You may only dramatize what the log states; never invent new events. Write in past tense.`

// Narrator renders a completed scene's factual log as prose from a
// chosen character's point of view.
type Narrator struct {
	llm    services.LLMService
	logger *slog.Logger
}

func NewNarrator(llm services.LLMService, logger *slog.Logger) *Narrator {
	return &Narrator{llm: llm, logger: logger}
}

// Render produces the scene's prose. On service failure it falls back
// to a plain transcript of the log so a run always yields a complete,
// readable story.
func (n *Narrator) Render(ctx context.Context, sceneLog []world.LogEntry, povName string, pov POVInfo, styleHint string) string {
	if len(sceneLog) == 0 {
		return ""
	}

	userPrompt := n.userPrompt(sceneLog, povName, pov, styleHint)
	resp, err := n.llm.CompleteText(ctx, narratorSystemPrompt, userPrompt, 0.8)
	if err == nil && strings.TrimSpace(resp) != "" {
		return strings.TrimSpace(resp)
	}
	if err != nil {
		n.logger.Warn("Prose rendering failed, falling back to transcript", "pov", povName, "error", err)
	}

	return transcript(sceneLog)
}

func (n *Narrator) userPrompt(sceneLog []world.LogEntry, povName string, pov POVInfo, styleHint string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Point of view: %s\nPersona: %s\n", povName, pov.Persona)
	if len(pov.Goals) > 0 {
		fmt.Fprintf(&sb, "Their goals: %s\n", strings.Join(pov.Goals, "; "))
	}
	fmt.Fprintf(&sb, "Their mood: %s\n", pov.Mood.Dominant())
	if styleHint != "" {
		fmt.Fprintf(&sb, "Style: %s\n", styleHint)
	}
	sb.WriteString("\nScene log, in order:\n")
	for i, entry := range sceneLog {
		if entry.IsWorldEvent {
			fmt.Fprintf(&sb, "%d. [World] %s\n", i+1, entry.Outcome)
			continue
		}
		fmt.Fprintf(&sb, "%d. [%s] %s\n", i+1, entry.Actor, entry.Outcome)
	}
	sb.WriteString("\nWrite the scene as flowing prose from the point-of-view character's perspective. Cover every log entry.")
	return sb.String()
}

// transcript is the deterministic fallback rendering.
func transcript(sceneLog []world.LogEntry) string {
	title := cases.Title(language.English)
	var sb strings.Builder
	for _, entry := range sceneLog {
		actor := entry.Actor
		if entry.IsWorldEvent {
			actor = "The World"
		} else {
			actor = title.String(actor)
		}
		fmt.Fprintf(&sb, "[%s]: %s\n\n", actor, entry.Outcome)
	}
	return strings.TrimSpace(sb.String())
}
