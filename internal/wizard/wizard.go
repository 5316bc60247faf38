package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jonathan/resume-builder/internal/generation"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/internal/types"
)

// ErrGenerationInFlight is returned when a field already has an outstanding
// generation request.
var ErrGenerationInFlight = errors.New("generation already in progress for this field")

// Field names a generatable draft field.
type Field string

// FieldSummary is the professional summary.
const FieldSummary Field = "summary"

// ExperienceField names the work summary of an experience entry. Entries are
// identified by position title and company rather than index, so removing an
// earlier entry does not redirect an outstanding request.
func ExperienceField(e types.Experience) Field {
	return Field(fmt.Sprintf("experience[%s@%s].workSummary",
		strings.ToLower(strings.TrimSpace(e.PositionTitle)), strings.ToLower(strings.TrimSpace(e.CompanyName))))
}

// findExperience locates the entry a request was made for: same field key
// and a work summary still equal to the one at request time. hint is the
// index it had then. It returns -1 when the entry was removed or edited.
func findExperience(list []types.Experience, want types.Experience, hint int) int {
	matches := func(e types.Experience) bool {
		return ExperienceField(e) == ExperienceField(want) && e.WorkSummary == want.WorkSummary
	}
	if hint >= 0 && hint < len(list) && matches(list[hint]) {
		return hint
	}
	for i, e := range list {
		if matches(e) {
			return i
		}
	}
	return -1
}

// TextGenerator produces text for a request, returning previous unchanged on
// failure. *generation.QualityGate implements it.
type TextGenerator interface {
	Generate(ctx context.Context, req generation.Request, previous string) (string, error)
}

// Repository is the subset of store.ResumeRepository the wizard needs.
type Repository interface {
	FindByTitle(ctx context.Context, title string) (*types.SavedResume, error)
	Create(ctx context.Context, draft types.Draft) (*types.SavedResume, error)
	Update(ctx context.Context, resume types.SavedResume) error
}

// Renderer produces the print-ready document for a finalized draft.
type Renderer interface {
	RenderHTML(d types.Draft) ([]byte, error)
}

// Wizard owns the draft being edited, the current step, and the set of
// fields with outstanding generation requests.
type Wizard struct {
	mu       sync.Mutex
	draft    types.Draft
	step     Step
	inFlight map[Field]bool
	onChange func(types.Draft)
}

// New starts a wizard at the personal step with the given draft.
func New(d types.Draft) *Wizard {
	return &Wizard{
		draft:    d.Clone(),
		step:     StepPersonal,
		inFlight: make(map[Field]bool),
	}
}

// Start seeds a wizard from the saved resume with the given title. A blank
// title or one that is not found starts from an empty draft carrying that title.
func Start(ctx context.Context, repo Repository, title string) (*Wizard, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return New(types.Draft{}), nil
	}
	rec, err := repo.FindByTitle(ctx, title)
	if err != nil {
		var nf *store.NotFoundError
		if errors.As(err, &nf) {
			return New(types.Draft{Title: title}), nil
		}
		return nil, fmt.Errorf("failed to load resume %q: %w", title, err)
	}
	d := rec.Content.Clone()
	d.Title = rec.Title
	return New(d), nil
}

// OnChange registers fn to receive a copy of the draft after every change,
// typically to persist an in-progress snapshot. Only one callback is kept.
func (w *Wizard) OnChange(fn func(types.Draft)) {
	w.mu.Lock()
	w.onChange = fn
	w.mu.Unlock()
}

// Draft returns a copy of the current draft.
func (w *Wizard) Draft() types.Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft.Clone()
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Edit applies fn to the draft in place.
func (w *Wizard) Edit(fn func(d *types.Draft)) {
	w.mu.Lock()
	fn(&w.draft)
	snapshot, cb := w.draft.Clone(), w.onChange
	w.mu.Unlock()
	if cb != nil {
		cb(snapshot)
	}
}

// CanAdvance reports whether Next is currently enabled.
func (w *Wizard) CanAdvance() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return CanAdvance(w.draft, w.step)
}

// Next validates the current step and moves forward.
func (w *Wizard) Next() error {
	return w.apply(ActionNext)
}

// Back moves to the previous step without validating.
func (w *Wizard) Back() error {
	return w.apply(ActionBack)
}

func (w *Wizard) apply(action Action) error {
	w.mu.Lock()
	d, step, err := Transition(w.draft, w.step, action)
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.draft, w.step = Enter(step, &d), step
	snapshot, cb := w.draft.Clone(), w.onChange
	w.mu.Unlock()
	if cb != nil {
		cb(snapshot)
	}
	return nil
}

// BeginGeneration marks field as having an outstanding request. It fails
// with ErrGenerationInFlight if one is already running.
func (w *Wizard) BeginGeneration(field Field) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inFlight[field] {
		return ErrGenerationInFlight
	}
	w.inFlight[field] = true
	return nil
}

// FinishGeneration clears the outstanding mark for field.
func (w *Wizard) FinishGeneration(field Field) {
	w.mu.Lock()
	delete(w.inFlight, field)
	w.mu.Unlock()
}

// Generating reports whether field has an outstanding request.
func (w *Wizard) Generating(field Field) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inFlight[field]
}

// GenerateSummary requests a summary for the current draft and stores it.
// On failure the existing summary is left untouched.
func (w *Wizard) GenerateSummary(ctx context.Context, gen TextGenerator, model string) (string, error) {
	w.mu.Lock()
	d := w.draft.Clone()
	w.mu.Unlock()

	req := generation.Request{
		Kind:    generation.KindSummary,
		Name:    d.Personal.FullName(),
		Role:    d.Personal.JobTitle,
		Bullets: skillNames(d.Skills),
		Model:   model,
	}
	return w.generate(ctx, gen, FieldSummary, req, d.Summary, func(d *types.Draft, text string) bool {
		d.Summary = text
		return true
	})
}

// GenerateExperience requests a work summary for the experience entry at
// index i. The entry must already have a position title. The result follows
// the entry if earlier entries are removed meanwhile, and is dropped if the
// entry itself is removed or its work summary edited.
func (w *Wizard) GenerateExperience(ctx context.Context, gen TextGenerator, i int, model string) (string, error) {
	w.mu.Lock()
	d := w.draft.Clone()
	w.mu.Unlock()

	if i < 0 || i >= len(d.Experience) {
		return "", fmt.Errorf("experience entry %d does not exist", i)
	}
	entry := d.Experience[i]
	if blank(entry.PositionTitle) {
		return entry.WorkSummary, &StepError{Step: StepExperience, Field: fmt.Sprintf("experience[%d].positionTitle", i), Message: "add a position title before generating"}
	}

	req := generation.Request{
		Kind:    generation.KindExperience,
		Name:    d.Personal.FullName(),
		Role:    entry.PositionTitle,
		Company: entry.CompanyName,
		Model:   model,
	}
	return w.generate(ctx, gen, ExperienceField(entry), req, entry.WorkSummary, func(d *types.Draft, text string) bool {
		j := findExperience(d.Experience, entry, i)
		if j < 0 {
			return false
		}
		d.Experience[j].WorkSummary = text
		return true
	})
}

// generate runs one gated generation for field. The draft is only written on
// success, so edits made while the request was outstanding survive a failure.
func (w *Wizard) generate(ctx context.Context, gen TextGenerator, field Field, req generation.Request, previous string, assign func(*types.Draft, string) bool) (string, error) {
	if err := w.BeginGeneration(field); err != nil {
		return previous, err
	}
	defer w.FinishGeneration(field)

	text, err := gen.Generate(ctx, req, previous)
	if err != nil {
		return text, err
	}

	w.mu.Lock()
	applied := assign(&w.draft, text)
	snapshot, cb := w.draft.Clone(), w.onChange
	w.mu.Unlock()
	if applied && cb != nil {
		cb(snapshot)
	}
	return text, nil
}

// Finalize persists the draft, updating the saved resume with the same title
// or creating a new one, and renders the print-ready document. It is only
// allowed on the final step.
func (w *Wizard) Finalize(ctx context.Context, repo Repository, renderer Renderer) (*types.SavedResume, []byte, error) {
	w.mu.Lock()
	step := w.step
	d := Enter(StepFinal, &w.draft)
	w.mu.Unlock()

	if step != StepFinal {
		return nil, nil, &StepError{Step: step, Message: "finish the remaining steps before saving"}
	}

	rec, err := save(ctx, repo, d)
	if err != nil {
		return nil, nil, err
	}

	// a blank title is stored as a default; keep it so the next save updates
	w.mu.Lock()
	w.draft.Title = rec.Title
	w.mu.Unlock()

	doc, err := renderer.RenderHTML(rec.Content)
	if err != nil {
		return rec, nil, fmt.Errorf("failed to render resume %q: %w", rec.Title, err)
	}
	return rec, doc, nil
}

func save(ctx context.Context, repo Repository, d types.Draft) (*types.SavedResume, error) {
	existing, err := repo.FindByTitle(ctx, d.Title)
	if err != nil {
		var nf *store.NotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("failed to look up resume: %w", err)
		}
		rec, err := repo.Create(ctx, d)
		if err != nil {
			return nil, fmt.Errorf("failed to save resume: %w", err)
		}
		return rec, nil
	}

	updated := types.SavedResume{ID: existing.ID, Title: existing.Title, CreatedAt: existing.CreatedAt, Content: d}
	if err := repo.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to save resume: %w", err)
	}
	updated.Content.Title = updated.Title
	return &updated, nil
}

func skillNames(skills []types.Skill) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if !blank(s.Name) {
			out = append(out, s.Name)
		}
	}
	return out
}
