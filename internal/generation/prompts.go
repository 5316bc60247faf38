// Package generation is the client side of AI text generation: it builds prompts,
// calls the AI proxy with bounded retry, cleans the returned text, and gates
// low-quality output behind a bounded number of regenerations.
package generation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/resume-builder/internal/prompts"
)

// Kind selects the prompt template for a request.
type Kind string

// Supported generation kinds.
const (
	KindSummary     Kind = "summary"
	KindExperience  Kind = "experience"
	KindCoverLetter Kind = "cover_letter"
)

// Request holds the structured prompt parameters.
type Request struct {
	Kind    Kind
	Name    string   // candidate name, required
	Role    string   // optional target or current role
	Company string   // optional; used by experience and cover letter prompts
	Bullets []string // optional skill or experience bullet strings
	Model   string   // optional model or tier passed through to the proxy
}

// Validate checks the required prompt parameters.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return &ValidationError{Field: "name", Message: "candidate name is required"}
	}
	switch r.Kind {
	case "", KindSummary, KindExperience, KindCoverLetter:
		return nil
	default:
		return &ValidationError{Field: "kind", Message: fmt.Sprintf("unknown generation kind %q", r.Kind)}
	}
}

// BuildPrompt renders the single prompt string sent to the proxy from the
// embedded templates.
func BuildPrompt(r Request) string {
	role := strings.TrimSpace(r.Role)
	company := strings.TrimSpace(r.Company)

	key, clause := string(KindSummary), ""
	switch r.Kind {
	case KindExperience:
		key = string(KindExperience)
		if role != "" {
			clause += " for the position of " + role
		}
		if company != "" {
			clause += " at " + company
		}
	case KindCoverLetter:
		key = string(KindCoverLetter)
		if role != "" {
			clause += " applying for the " + role + " role"
		}
		if company != "" {
			clause += " at " + company
		}
	default:
		if role != "" {
			clause = ", a " + role
		}
	}

	var sb strings.Builder
	sb.WriteString(prompts.Format(prompts.MustGet(prompts.GenerationFile, key), map[string]string{
		"Name":   strings.TrimSpace(r.Name),
		"Clause": clause,
	}))

	if bullets := nonBlank(r.Bullets); len(bullets) > 0 {
		sb.WriteString(" ")
		sb.WriteString(prompts.MustGet(prompts.GenerationFile, "bullets"))
		for _, b := range bullets {
			sb.WriteString("\n- ")
			sb.WriteString(b)
		}
		sb.WriteString("\n")
	}

	sb.WriteString(" ")
	sb.WriteString(prompts.Format(prompts.MustGet(prompts.GenerationFile, "rules"), map[string]string{
		"MaxWords": strconv.Itoa(MaxWords),
	}))
	return sb.String()
}

func nonBlank(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
