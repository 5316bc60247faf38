package generation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongText = "Led a team of five engineers to rebuild the billing platform, cutting invoice errors by 40 percent."

type scriptedGenerator struct {
	outputs []string
	errs    []error
	calls   int
}

func (g *scriptedGenerator) Generate(_ context.Context, _ Request) (string, error) {
	i := g.calls
	g.calls++
	if i < len(g.errs) && g.errs[i] != nil {
		return "", g.errs[i]
	}
	if i < len(g.outputs) {
		return g.outputs[i], nil
	}
	return g.outputs[len(g.outputs)-1], nil
}

func TestQualityGate_ShortTextRegeneratesTwiceThenPreservesPrevious(t *testing.T) {
	gen := &scriptedGenerator{outputs: []string{"Too short."}}
	gate := NewQualityGate(gen)

	text, err := gate.Generate(context.Background(), Request{Kind: KindExperience, Name: "Ada"}, "my old summary")

	var lqErr *LowQualityError
	require.ErrorAs(t, err, &lqErr)
	assert.Equal(t, 3, gen.calls, "one initial call plus two regenerations")
	assert.Equal(t, "my old summary", text)
	assert.Equal(t, 3, lqErr.Attempts)
	assert.Equal(t, "Too short.", lqErr.Last)
	assert.Equal(t, LowQualityMessage, lqErr.UserMessage())
}

func TestQualityGate_AcceptsOnRegeneration(t *testing.T) {
	gen := &scriptedGenerator{outputs: []string{"As an AI I cannot.", strongText}}
	gate := NewQualityGate(gen)

	text, err := gate.Generate(context.Background(), Request{Name: "Ada"}, "old")
	require.NoError(t, err)
	assert.Equal(t, strongText, text)
	assert.Equal(t, 2, gen.calls)
}

func TestQualityGate_AcceptsFirstGoodResult(t *testing.T) {
	gen := &scriptedGenerator{outputs: []string{strongText}}
	text, err := NewQualityGate(gen).Generate(context.Background(), Request{Name: "Ada"}, "")
	require.NoError(t, err)
	assert.Equal(t, strongText, text)
	assert.Equal(t, 1, gen.calls)
}

func TestQualityGate_RequestErrorPreservesPrevious(t *testing.T) {
	failure := &RequestError{Attempts: 3, StatusCode: 500, Message: "boom"}
	gen := &scriptedGenerator{errs: []error{failure}, outputs: []string{strongText}}

	text, err := NewQualityGate(gen).Generate(context.Background(), Request{Name: "Ada"}, "keep me")
	assert.True(t, errors.Is(err, failure))
	assert.Equal(t, "keep me", text)
	assert.Equal(t, 1, gen.calls)
}

func TestQualityGate_NoRegenerations(t *testing.T) {
	gen := &scriptedGenerator{outputs: []string{"short"}}
	_, err := NewQualityGate(gen).WithMaxRegenerations(0).Generate(context.Background(), Request{Name: "Ada"}, "")
	require.Error(t, err)
	assert.Equal(t, 1, gen.calls)
}

func TestUngated(t *testing.T) {
	gen := &scriptedGenerator{outputs: []string{"Short."}}
	text, err := Ungated{Gen: gen}.Generate(context.Background(), Request{Name: "Ada"}, "old")
	require.NoError(t, err)
	assert.Equal(t, "Short.", text)
	assert.Equal(t, 1, gen.calls)

	failing := &scriptedGenerator{outputs: []string{""}, errs: []error{errors.New("down")}}
	text, err = Ungated{Gen: failing}.Generate(context.Background(), Request{Name: "Ada"}, "old")
	assert.Error(t, err)
	assert.Equal(t, "old", text)
}
