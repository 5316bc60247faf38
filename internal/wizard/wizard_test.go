package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jonathan/resume-builder/internal/generation"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	text    string
	err     error
	block   chan struct{}
	started chan struct{}
	reqs    []generation.Request
}

func (g *stubGenerator) Generate(_ context.Context, req generation.Request, previous string) (string, error) {
	g.reqs = append(g.reqs, req)
	if g.started != nil {
		close(g.started)
	}
	if g.block != nil {
		<-g.block
	}
	if g.err != nil {
		return previous, g.err
	}
	return g.text, nil
}

type stubRenderer struct {
	got types.Draft
}

func (r *stubRenderer) RenderHTML(d types.Draft) ([]byte, error) {
	r.got = d
	return []byte("<html>" + d.Title + "</html>"), nil
}

func newRepo() *store.KVResumeRepository {
	return store.NewResumeRepository(store.NewMemoryKV())
}

func TestStart_SeedsFromSavedTitle(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()
	_, err := repo.Create(ctx, completeDraft())
	require.NoError(t, err)

	w, err := Start(ctx, repo, "complete")
	require.NoError(t, err)
	assert.Equal(t, StepPersonal, w.Step())
	assert.Equal(t, completeDraft().Personal, w.Draft().Personal)
	assert.Equal(t, "Complete", w.Draft().Title)

	w, err = Start(ctx, repo, "New One")
	require.NoError(t, err)
	assert.Equal(t, "New One", w.Draft().Title)
	assert.Empty(t, w.Draft().Personal.FirstName)
}

func TestWizard_NextBlockedUntilValid(t *testing.T) {
	w := New(types.Draft{})
	var se *StepError
	assert.ErrorAs(t, w.Next(), &se)
	assert.False(t, w.CanAdvance())

	w.Edit(func(d *types.Draft) {
		d.Personal = types.PersonalDetails{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	})
	assert.True(t, w.CanAdvance())
	require.NoError(t, w.Next())
	assert.Equal(t, StepSummary, w.Step())

	require.NoError(t, w.Back())
	assert.Equal(t, StepPersonal, w.Step())
}

func TestWizard_OnChangeReceivesSnapshots(t *testing.T) {
	w := New(types.Draft{})
	var got []string
	w.OnChange(func(d types.Draft) { got = append(got, d.Summary) })

	w.Edit(func(d *types.Draft) { d.Summary = "one" })
	w.Edit(func(d *types.Draft) { d.Summary = "two" })
	assert.Equal(t, []string{"one", "two"}, got)
}

func TestWizard_GenerateSummary(t *testing.T) {
	w := New(completeDraft())
	gen := &stubGenerator{text: "A thorough and well written professional summary for Ada Lovelace."}

	text, err := w.GenerateSummary(context.Background(), gen, "lite")
	require.NoError(t, err)
	assert.Equal(t, gen.text, text)
	assert.Equal(t, gen.text, w.Draft().Summary)

	require.Len(t, gen.reqs, 1)
	assert.Equal(t, generation.KindSummary, gen.reqs[0].Kind)
	assert.Equal(t, "Ada Lovelace", gen.reqs[0].Name)
	assert.Equal(t, []string{"Math"}, gen.reqs[0].Bullets)
	assert.Equal(t, "lite", gen.reqs[0].Model)
}

func TestWizard_GenerateFailurePreservesField(t *testing.T) {
	w := New(completeDraft())
	gen := &stubGenerator{err: &generation.LowQualityError{Attempts: 3}}

	text, err := w.GenerateExperience(context.Background(), gen, 0, "")
	var lq *generation.LowQualityError
	require.ErrorAs(t, err, &lq)
	assert.Empty(t, text)
	assert.Empty(t, w.Draft().Experience[0].WorkSummary)
	assert.False(t, w.Generating(ExperienceField(completeDraft().Experience[0])))
}

func TestWizard_GenerateExperienceRequiresTitle(t *testing.T) {
	w := New(types.Draft{Experience: []types.Experience{{CompanyName: "Acme", WorkSummary: "kept"}}})
	gen := &stubGenerator{text: "unused"}

	text, err := w.GenerateExperience(context.Background(), gen, 0, "")
	var se *StepError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "kept", text)
	assert.Empty(t, gen.reqs)

	_, err = w.GenerateExperience(context.Background(), gen, 3, "")
	assert.Error(t, err)
}

func TestWizard_RefusesConcurrentGenerationForSameField(t *testing.T) {
	w := New(completeDraft())
	gen := &stubGenerator{
		text:    "A thorough and well written professional summary for Ada Lovelace.",
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = w.GenerateSummary(context.Background(), gen, "")
	}()

	<-gen.started
	assert.True(t, w.Generating(FieldSummary))
	_, err := w.GenerateSummary(context.Background(), gen, "")
	assert.True(t, errors.Is(err, ErrGenerationInFlight))

	exp := ExperienceField(completeDraft().Experience[0])
	assert.NoError(t, w.BeginGeneration(exp), "other fields are independent")
	w.FinishGeneration(exp)

	close(gen.block)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.False(t, w.Generating(FieldSummary))
}

func twoEntryDraft() types.Draft {
	d := completeDraft()
	d.Experience = []types.Experience{
		{PositionTitle: "Engineer", CompanyName: "A"},
		{PositionTitle: "Manager", CompanyName: "B", WorkSummary: "hand-written B"},
	}
	return d
}

// generateBlocked starts an experience generation for entry i, runs edit
// while the request is outstanding, then lets the request finish.
func generateBlocked(t *testing.T, w *Wizard, i int, edit func(d *types.Draft)) {
	t.Helper()
	gen := &stubGenerator{
		text:    "generated work summary that is long enough to pass any quality check",
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := w.GenerateExperience(context.Background(), gen, i, "")
		assert.NoError(t, err)
	}()

	<-gen.started
	w.Edit(edit)
	close(gen.block)
	wg.Wait()
}

func TestWizard_GenerateExperienceDroppedWhenEntryRemoved(t *testing.T) {
	w := New(twoEntryDraft())

	generateBlocked(t, w, 0, func(d *types.Draft) { d.Experience = d.Experience[1:] })

	got := w.Draft().Experience
	require.Len(t, got, 1)
	assert.Equal(t, types.Experience{PositionTitle: "Manager", CompanyName: "B", WorkSummary: "hand-written B"}, got[0])
}

func TestWizard_GenerateExperienceFollowsMovedEntry(t *testing.T) {
	w := New(twoEntryDraft())

	generateBlocked(t, w, 1, func(d *types.Draft) { d.Experience = d.Experience[1:] })

	got := w.Draft().Experience
	require.Len(t, got, 1)
	assert.Equal(t, "generated work summary that is long enough to pass any quality check", got[0].WorkSummary)
}

func TestWizard_GenerateExperienceKeepsEditedText(t *testing.T) {
	w := New(twoEntryDraft())

	generateBlocked(t, w, 1, func(d *types.Draft) { d.Experience[1].WorkSummary = "typed while waiting" })

	assert.Equal(t, "typed while waiting", w.Draft().Experience[1].WorkSummary)
}

func TestExperienceField_IgnoresIndexAndCase(t *testing.T) {
	a := ExperienceField(types.Experience{PositionTitle: "Engineer", CompanyName: "Acme"})
	assert.Equal(t, a, ExperienceField(types.Experience{PositionTitle: " engineer ", CompanyName: "ACME", WorkSummary: "x"}))
	assert.NotEqual(t, a, ExperienceField(types.Experience{PositionTitle: "Engineer", CompanyName: "Other"}))
}

func TestWizard_FinalizeBlankTitleUpdatesOnSecondSave(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()

	d := completeDraft()
	d.Title = ""
	w := New(d)
	for w.Step() != StepFinal {
		require.NoError(t, w.Next())
	}

	first, _, err := w.Finalize(ctx, repo, &stubRenderer{})
	require.NoError(t, err)
	assert.Equal(t, first.Title, w.Draft().Title)

	second, _, err := w.Finalize(ctx, repo, &stubRenderer{})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestWizard_FinalizeCreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()
	renderer := &stubRenderer{}

	w := New(completeDraft())
	_, _, err := w.Finalize(ctx, repo, renderer)
	var se *StepError
	require.ErrorAs(t, err, &se)

	for w.Step() != StepFinal {
		require.NoError(t, w.Next())
	}
	rec, doc, err := w.Finalize(ctx, repo, renderer)
	require.NoError(t, err)
	assert.Equal(t, "<html>Complete</html>", string(doc))
	assert.Equal(t, DefaultThemeColor, renderer.got.ThemeColor)

	w.Edit(func(d *types.Draft) { d.Summary = "Revised." })
	again, _, err := w.Finalize(ctx, repo, renderer)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, again.ID)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Revised.", list[0].Content.Summary)
}
