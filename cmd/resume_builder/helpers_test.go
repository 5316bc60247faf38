package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/jonathan/resume-builder/internal/generation"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/require"
)

// getBinaryPath returns the path to the resume_builder binary for testing
func getBinaryPath(t *testing.T) string {
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", "resume_builder")
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'make build'", binaryPath)
	}
	return binaryPath
}

// fakeGenerator returns canned text per kind and counts calls.
type fakeGenerator struct {
	mu    sync.Mutex
	texts map[generation.Kind]string
	err   error
	calls map[generation.Kind]int
}

func (f *fakeGenerator) Generate(_ context.Context, req generation.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[generation.Kind]int)
	}
	f.calls[req.Kind]++
	if f.err != nil {
		return "", f.err
	}
	return f.texts[req.Kind], nil
}

func (f *fakeGenerator) count(kind generation.Kind) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[kind]
}

const (
	goodSummary    = "Engineer with a decade of experience building reliable distributed systems."
	goodExperience = "Led the migration of billing services to Go, cutting p99 latency by forty percent."
)

func newGoodGenerator() *fakeGenerator {
	return &fakeGenerator{texts: map[generation.Kind]string{
		generation.KindSummary:    goodSummary,
		generation.KindExperience: goodExperience,
	}}
}

// newTestEnv wires a build environment over an in-memory store. Input lines
// are joined with newlines.
func newTestEnv(t *testing.T, gen generation.Generator, lines ...string) (*buildEnv, *bytes.Buffer) {
	t.Helper()
	kv := store.NewMemoryKV()
	html, err := rendering.NewHTMLRenderer()
	require.NoError(t, err)

	out := &bytes.Buffer{}
	return &buildEnv{
		in:      strings.NewReader(strings.Join(lines, "\n") + "\n"),
		out:     out,
		repo:    store.NewResumeRepository(kv),
		session: store.NewSession(kv),
		gen:     gen,
		html:    html,
		outPath: filepath.Join(t.TempDir(), "resume.html"),
	}, out
}

func sampleDraft(title string) types.Draft {
	return types.Draft{
		Title: title,
		Personal: types.PersonalDetails{
			FirstName: "Ada",
			LastName:  "Lovelace",
			JobTitle:  "Engineer",
			Email:     "ada@example.com",
		},
		Summary:    "Analytical engine pioneer.",
		Experience: []types.Experience{{PositionTitle: "Engineer", CompanyName: "Analytical Co", WorkSummary: "Wrote the first program."}},
		Skills:     []types.Skill{{Name: "Mathematics", Level: types.SkillExpert}},
	}
}
