package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Subject is what a suggestion is written for.
type Subject struct {
	Kind        string // "painting", "review" or "page"
	Title       string
	Description string
	Details     string
	SiteName    string
}

// Suggestion is the generated SEO text. Fields the model did not fill are empty.
type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	AltText     string `json:"altText,omitempty"`
}

const seoSystemPrompt = `You write SEO metadata for the website of a painter.
Answer with a JSON object with the keys "title" (at most 60 characters),
"description" (at most 155 characters) and, for paintings, "altText"
(a literal description of the artwork for screen readers).
Write in the language of the input. Do not invent facts.`

// GenerateSeo asks the model for a title, description and alt text.
func (c *Client) GenerateSeo(ctx context.Context, s Subject) (Suggestion, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Site: %s\nKind: %s\nTitle: %s\n", s.SiteName, s.Kind, s.Title)
	if s.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", s.Description)
	}
	if s.Details != "" {
		fmt.Fprintf(&b, "Details:\n%s\n", truncate(s.Details, 2000))
	}

	reply, err := c.complete(ctx, seoSystemPrompt, b.String())
	if err != nil {
		return Suggestion{}, err
	}
	var out Suggestion
	if err := json.Unmarshal([]byte(stripFence(reply)), &out); err != nil {
		return Suggestion{}, fmt.Errorf("ai: parse suggestion: %w", err)
	}
	out.Title = truncate(strings.TrimSpace(out.Title), 70)
	out.Description = truncate(strings.TrimSpace(out.Description), 170)
	out.AltText = strings.TrimSpace(out.AltText)
	return out, nil
}

// stripFence removes a markdown code fence some models wrap JSON in.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
