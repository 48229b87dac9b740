package augment

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/ekslens/leadgen-cli/internal/config"
	"github.com/ekslens/leadgen-cli/internal/industry"
	"github.com/ekslens/leadgen-cli/pkg/anthropic"
)

// Drafter generates short outreach messages for leads. A nil client
// marks the drafter as unavailable; the orchestrator then skips the
// drafting phase.
type Drafter struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// New creates a Drafter.
func New(client anthropic.Client, cfg config.AnthropicConfig) *Drafter {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Drafter{
		client:    client,
		model:     cfg.Model,
		maxTokens: maxTokens,
	}
}

// Available reports whether drafting is configured.
func (d *Drafter) Available() bool { return d.client != nil }

// Draft produces one outreach message for the given lead context.
func (d *Drafter) Draft(ctx context.Context, ectx industry.EmailContext) (string, error) {
	if !d.Available() {
		return "", eris.New("augment: drafter not configured")
	}

	resp, err := d.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     d.model,
		MaxTokens: d.maxTokens,
		System:    "You write concise, professional B2B outreach emails.",
		Messages: []anthropic.Message{
			{Role: "user", Content: buildPrompt(ectx)},
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "augment: draft message")
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", eris.New("augment: empty draft")
	}
	return text, nil
}

func buildPrompt(ectx industry.EmailContext) string {
	return fmt.Sprintf(`Write a professional, personalized email to contact the company %q in the %s sector.

Industry context:
- Main products: %s
- Services: %s
- Target audience: %s
- Value proposition: %s

The email must:
1. Be professional but approachable
2. Mention specific %s products
3. Offer immediate value
4. Include a clear call to action
5. Be personalized for %q

Length: at most 150 words.
Tone: %s`,
		ectx.LeadName, ectx.Industry,
		strings.Join(ectx.Products, ", "),
		strings.Join(ectx.Services, ", "),
		ectx.TargetAudience,
		ectx.ValueProposition,
		ectx.Industry,
		ectx.LeadName,
		ectx.Tone,
	)
}
