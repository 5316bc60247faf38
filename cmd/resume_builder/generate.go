package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/generation"
	"github.com/spf13/cobra"
)

var (
	genKind     string
	genName     string
	genRole     string
	genCompany  string
	genBullets  []string
	genModel    string
	genPrevious string
	genServer   string
	genToken    string
	genRegen    int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate resume text through the AI proxy",
	Long: `Generate a summary, an experience work summary, or a cover letter through a
running resume_builder server. Transient failures are retried with exponential
backoff. Experience text is checked for quality and regenerated up to twice;
when it is still weak, --previous is printed unchanged and the command fails.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genKind, "kind", "k", string(generation.KindSummary), "What to generate: summary, experience or cover_letter")
	generateCmd.Flags().StringVarP(&genName, "name", "n", "", "Candidate name (required)")
	generateCmd.Flags().StringVarP(&genRole, "role", "r", "", "Target or current role")
	generateCmd.Flags().StringVarP(&genCompany, "company", "c", "", "Company (experience and cover letters)")
	generateCmd.Flags().StringArrayVarP(&genBullets, "bullet", "b", nil, "Skill or experience bullet (repeatable)")
	generateCmd.Flags().StringVarP(&genModel, "model", "m", "", "Model or tier (lite, standard, advanced)")
	generateCmd.Flags().StringVar(&genPrevious, "previous", "", "Existing text kept when generation fails")
	generateCmd.Flags().StringVar(&genServer, "server", "", "Server base URL (default http://localhost:$PORT)")
	generateCmd.Flags().StringVar(&genToken, "token", os.Getenv("RESUME_BUILDER_TOKEN"), "Bearer token sent to the server")
	generateCmd.Flags().IntVar(&genRegen, "max-regenerations", generation.DefaultMaxRegenerations, "Extra attempts when experience text is rejected as low quality")
	_ = generateCmd.MarkFlagRequired("name")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	req := generation.Request{
		Kind:    generation.Kind(strings.ToLower(genKind)),
		Name:    genName,
		Role:    genRole,
		Company: genCompany,
		Bullets: genBullets,
		Model:   genModel,
	}

	text, err := generateText(cmd.Context(), newProxyClient(genServer, genToken), req, genPrevious, genRegen)
	fmt.Fprintln(cmd.OutOrStdout(), text)
	if err != nil {
		return errors.New(userMessage(err))
	}
	return nil
}

// newProxyClient builds the retrying client for the server at baseURL.
func newProxyClient(baseURL, token string) *generation.Client {
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%d", config.FromEnv().Port)
	}
	opts := generation.DefaultOptions()
	opts.Token = token
	return generation.NewClient(baseURL, opts)
}

// textGenerator is the previous-preserving generation signature shared by
// generation.QualityGate and generation.Ungated.
type textGenerator interface {
	Generate(ctx context.Context, req generation.Request, previous string) (string, error)
}

// generatorFor picks the gated generator for experience text.
func generatorFor(kind generation.Kind, gen generation.Generator, maxRegenerations int) textGenerator {
	if kind == generation.KindExperience {
		return generation.NewQualityGate(gen).WithMaxRegenerations(maxRegenerations)
	}
	return generation.Ungated{Gen: gen}
}

func generateText(ctx context.Context, gen generation.Generator, req generation.Request, previous string, maxRegenerations int) (string, error) {
	return generatorFor(req.Kind, gen, maxRegenerations).Generate(ctx, req, previous)
}

// userMessage returns the display text for a generation error.
func userMessage(err error) string {
	var msg interface{ UserMessage() string }
	if errors.As(err, &msg) {
		return msg.UserMessage()
	}
	return err.Error()
}
