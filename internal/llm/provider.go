package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/RISKA667/Garmea-sub000/internal/model"
)

// Provider is an optional alternative mention source: it reads a page of
// register text and emits the same mention records the regex extraction
// layer produces. The core treats both sources identically.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Extract pulls person mentions and declared relations out of text.
	Extract(ctx context.Context, req ExtractRequest) (*ExtractResponse, error)

	// IsAvailable checks the provider is configured and reachable.
	IsAvailable(ctx context.Context) bool
}

// ExtractRequest is the input for one extraction call.
type ExtractRequest struct {
	// Text is the register page to read.
	Text string

	// Source is the citation attached to every extracted mention.
	Source string

	// Model overrides the configured model for this call.
	Model string

	// MaxTokens limits the response length.
	MaxTokens int
}

// ExtractResponse is the extraction outcome.
type ExtractResponse struct {
	// Dataset holds the extracted mentions and relations. A response the
	// model garbled parses to an empty dataset, never an error.
	Dataset model.Dataset

	// Model is the model that produced the response.
	Model string

	// TokensUsed tracks token consumption.
	TokensUsed int
}

// BuildPrompt renders the extraction instruction for one page of text.
func BuildPrompt(text string) string {
	var b strings.Builder
	b.WriteString("You read 17th-century French parish register text and extract person mentions.\n")
	b.WriteString("Reply with JSON only, no prose, in this shape:\n")
	b.WriteString(`{"mentions":[{"given":"Jean","family":"Le Boucher","attrs":{"professions":[],"title":"écuyer","lands":["Bréville"],"context":"..."}}],`)
	b.WriteString(`"relations":[{"kind":"parent","subject":{"given":"Jean","family":"Le Boucher"},"object":{"given":"Pierre","family":"Le Boucher"},"year":1651}]}`)
	b.WriteString("\nRelation kinds: parent, spouse, godparent. Copy names exactly as written.\n")
	b.WriteString("Put the surrounding sentence in attrs.context.\n\nText:\n")
	b.WriteString(text)
	return b.String()
}

// sanitizeDataset drops mentions with no family name and tags everything
// with the request source.
func sanitizeDataset(ds *model.Dataset, source string) {
	kept := ds.Mentions[:0]
	for _, m := range ds.Mentions {
		if strings.TrimSpace(m.Family) == "" {
			continue
		}
		if m.Attrs.Source == "" {
			m.Attrs.Source = source
		}
		kept = append(kept, m)
	}
	ds.Mentions = kept
	ds.Source = source
}

// extractJSON returns the outermost JSON object embedded in a model reply,
// tolerating prose or code fences around it.
func extractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON object in response")
	}
	return text[start : end+1], nil
}
