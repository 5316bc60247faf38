package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/jonathan/resume-builder/internal/generation"
	"github.com/jonathan/resume-builder/internal/objectstore"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/wizard"
	"github.com/spf13/cobra"
)

// errBuildAborted is returned when the user quits before saving. The draft
// snapshot is kept so the next build can resume it.
var errBuildAborted = errors.New("build aborted; draft kept for next time")

var (
	buildOut    string
	buildModel  string
	buildServer string
	buildToken  string
)

var buildCmd = &cobra.Command{
	Use:   "build [title]",
	Short: "Build or edit a resume step by step",
	Long: `Walk through the personal, summary, experience, education, skills and final
steps. An existing resume with the same title is loaded for editing. Press Enter
to keep the value in brackets, "-" to clear it, and "ai" on a summary prompt to
generate text through the server. Progress is saved after every change and
restored if the build is interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "Write the finished HTML here (default: derived from the title)")
	buildCmd.Flags().StringVarP(&buildModel, "model", "m", "", "Model or tier for AI generation")
	buildCmd.Flags().StringVar(&buildServer, "server", "", "Server base URL (default http://localhost:$PORT)")
	buildCmd.Flags().StringVar(&buildToken, "token", os.Getenv("RESUME_BUILDER_TOKEN"), "Bearer token sent to the server")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	kv, repo, err := openStore(dataDir)
	if err != nil {
		return err
	}
	html, err := rendering.NewHTMLRenderer()
	if err != nil {
		return err
	}

	title := ""
	if len(args) == 1 {
		title = args[0]
	}
	env := &buildEnv{
		in:      cmd.InOrStdin(),
		out:     cmd.OutOrStdout(),
		repo:    repo,
		session: store.NewSession(kv),
		gen:     newProxyClient(buildServer, buildToken),
		html:    html,
		model:   buildModel,
		outPath: buildOut,
	}
	_, err = buildResume(cmd.Context(), env, title)
	return err
}

// buildEnv carries everything an interactive build touches.
type buildEnv struct {
	in      io.Reader
	out     io.Writer
	repo    *store.KVResumeRepository
	session *store.Session
	gen     generation.Generator
	html    *rendering.HTMLRenderer
	model   string
	outPath string
}

// buildResume runs the wizard against env until the resume is saved or the
// user quits. The saved record is returned and its HTML written to disk.
func buildResume(ctx context.Context, env *buildEnv, title string) (*types.SavedResume, error) {
	p := newPrompter(env.in, env.out)

	w, err := startWizard(ctx, env, p, title)
	if err != nil {
		return nil, err
	}
	w.OnChange(func(d types.Draft) {
		if err := env.session.SaveDraft(d); err != nil {
			log.Printf("[build] failed to save draft snapshot: %v", err)
		}
	})

	b := &builder{env: env, p: p, w: w}
	for {
		step := w.Step()
		fmt.Fprintf(env.out, "\n== %s (%d/%d) ==\n", strings.ToUpper(step.String()), int(step)+1, len(wizard.Steps))

		if step == wizard.StepFinal {
			rec, done, err := b.final(ctx)
			if err != nil || done {
				return rec, err
			}
			continue
		}

		if err := b.editStep(ctx, step); err != nil {
			return nil, err
		}
		if err := b.navigate(); err != nil {
			return nil, err
		}
	}
}

// startWizard seeds the wizard from a saved resume, the interrupted draft, or
// a fresh draft carrying title.
func startWizard(ctx context.Context, env *buildEnv, p *prompter, title string) (*wizard.Wizard, error) {
	if strings.TrimSpace(title) == "" {
		snapshot, err := env.session.LoadDraft()
		if err != nil {
			log.Printf("[build] ignoring unreadable draft snapshot: %v", err)
		}
		if snapshot != nil {
			resume, err := p.confirm(fmt.Sprintf("Resume unsaved draft %q?", snapshot.Title), true)
			if err != nil {
				return nil, err
			}
			if resume {
				return wizard.New(*snapshot), nil
			}
		}
		title, err = p.ask("Resume title", "")
		if err != nil {
			return nil, err
		}
	}
	return wizard.Start(ctx, env.repo, title)
}

type builder struct {
	env *buildEnv
	p   *prompter
	w   *wizard.Wizard
}

func (b *builder) editStep(ctx context.Context, step wizard.Step) error {
	switch step {
	case wizard.StepPersonal:
		return b.editPersonal()
	case wizard.StepSummary:
		return b.editSummary(ctx)
	case wizard.StepExperience:
		return b.editExperience(ctx)
	case wizard.StepEducation:
		return b.editEducation()
	case wizard.StepSkills:
		return b.editSkills()
	default:
		return fmt.Errorf("no editor for step %s", step)
	}
}

// navigate asks where to go after a step's fields. Validation failures are
// printed and leave the wizard on the same step.
func (b *builder) navigate() error {
	answer, err := b.p.ask("[Enter] continue, b back, q quit", "")
	if err != nil {
		return err
	}
	switch strings.ToLower(answer) {
	case "q", "quit":
		return errBuildAborted
	case "b", "back":
		return b.w.Back()
	default:
		if err := b.w.Next(); err != nil {
			var se *wizard.StepError
			if !errors.As(err, &se) {
				return err
			}
			fmt.Fprintf(b.env.out, "Cannot continue: %v\n", se)
		}
		return nil
	}
}

func (b *builder) editPersonal() error {
	cur := b.w.Draft().Personal
	fields := []struct {
		label string
		value *string
	}{
		{"First name", &cur.FirstName},
		{"Last name", &cur.LastName},
		{"Job title", &cur.JobTitle},
		{"Address", &cur.Address},
		{"Phone", &cur.Phone},
		{"Email", &cur.Email},
	}
	for _, f := range fields {
		v, err := b.p.ask(f.label, *f.value)
		if err != nil {
			return err
		}
		*f.value = v
	}
	b.w.Edit(func(d *types.Draft) { d.Personal = cur })
	return nil
}

func (b *builder) editSummary(ctx context.Context) error {
	gen := generatorFor(generation.KindSummary, b.env.gen, generation.DefaultMaxRegenerations)
	for {
		answer, err := b.p.ask("Summary (ai to generate)", b.w.Draft().Summary)
		if err != nil {
			return err
		}
		if !strings.EqualFold(answer, "ai") {
			b.w.Edit(func(d *types.Draft) { d.Summary = answer })
			return nil
		}
		text, err := b.w.GenerateSummary(ctx, gen, b.env.model)
		b.reportGeneration(text, err)
	}
}

func (b *builder) editExperience(ctx context.Context) error {
	gen := generatorFor(generation.KindExperience, b.env.gen, generation.DefaultMaxRegenerations)
	for i := 0; ; i++ {
		if i >= len(b.w.Draft().Experience) {
			more, err := b.p.confirm(addLabel("experience", i), false)
			if err != nil || !more {
				return err
			}
			b.w.Edit(func(d *types.Draft) { d.Experience = append(d.Experience, types.Experience{}) })
		}

		cur := b.w.Draft().Experience[i]
		fmt.Fprintf(b.env.out, "-- Experience %d --\n", i+1)
		fields := []struct {
			label string
			value *string
		}{
			{"Position title", &cur.PositionTitle},
			{"Company", &cur.CompanyName},
			{"City", &cur.City},
			{"State", &cur.State},
			{"Start date", &cur.StartDate},
			{"End date (blank if current)", &cur.EndDate},
		}
		for _, f := range fields {
			v, err := b.p.ask(f.label, *f.value)
			if err != nil {
				return err
			}
			*f.value = v
		}
		b.w.Edit(func(d *types.Draft) {
			summary := d.Experience[i].WorkSummary
			d.Experience[i] = cur
			d.Experience[i].WorkSummary = summary
		})

		for {
			answer, err := b.p.ask("Work summary (ai to generate)", b.w.Draft().Experience[i].WorkSummary)
			if err != nil {
				return err
			}
			if !strings.EqualFold(answer, "ai") {
				b.w.Edit(func(d *types.Draft) { d.Experience[i].WorkSummary = answer })
				break
			}
			text, err := b.w.GenerateExperience(ctx, gen, i, b.env.model)
			b.reportGeneration(text, err)
		}
	}
}

func (b *builder) editEducation() error {
	for i := 0; ; i++ {
		if i >= len(b.w.Draft().Education) {
			more, err := b.p.confirm(addLabel("education", i), false)
			if err != nil || !more {
				return err
			}
			b.w.Edit(func(d *types.Draft) { d.Education = append(d.Education, types.Education{}) })
		}

		cur := b.w.Draft().Education[i]
		fmt.Fprintf(b.env.out, "-- Education %d --\n", i+1)
		fields := []struct {
			label string
			value *string
		}{
			{"University", &cur.UniversityName},
			{"Degree", &cur.Degree},
			{"Major", &cur.Major},
			{"Start date", &cur.StartDate},
			{"End date", &cur.EndDate},
			{"Description", &cur.Description},
		}
		for _, f := range fields {
			v, err := b.p.ask(f.label, *f.value)
			if err != nil {
				return err
			}
			*f.value = v
		}
		b.w.Edit(func(d *types.Draft) { d.Education[i] = cur })
	}
}

func (b *builder) editSkills() error {
	var skills []types.Skill
	if existing := b.w.Draft().Skills; len(existing) > 0 {
		names := make([]string, 0, len(existing))
		for _, s := range existing {
			names = append(names, formatSkill(s))
		}
		keep, err := b.p.confirm(fmt.Sprintf("Keep skills (%s)?", strings.Join(names, ", ")), true)
		if err != nil {
			return err
		}
		if keep {
			skills = existing
		}
	}

	for {
		answer, err := b.p.ask("Skill as name[:level] (blank to finish)", "")
		if err != nil {
			return err
		}
		if answer == "" {
			break
		}
		skills = append(skills, parseSkill(answer))
	}
	b.w.Edit(func(d *types.Draft) { d.Skills = skills })
	return nil
}

// final previews the draft and saves it. done is false when the user went back.
func (b *builder) final(ctx context.Context) (*types.SavedResume, bool, error) {
	d := b.w.Draft()
	doc, err := b.env.html.RenderHTML(d)
	if err != nil {
		return nil, false, err
	}
	if preview, err := rendering.PlainText(doc); err == nil {
		fmt.Fprintln(b.env.out, preview)
	}

	answer, err := b.p.ask("Save resume? [Y/n/b]", "")
	if err != nil {
		return nil, false, err
	}
	switch strings.ToLower(answer) {
	case "b", "back":
		return nil, false, b.w.Back()
	case "n", "no", "q":
		return nil, true, errBuildAborted
	}

	rec, doc, err := b.w.Finalize(ctx, b.env.repo, b.env.html)
	if err != nil {
		return rec, true, err
	}
	path := b.env.outPath
	if path == "" {
		path = objectstore.ObjectName(rec.Title, FormatHTML)
	}
	if err := os.WriteFile(path, doc, 0644); err != nil {
		return rec, true, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := b.env.session.ClearDraft(); err != nil {
		log.Printf("[build] failed to clear draft snapshot: %v", err)
	}
	fmt.Fprintf(b.env.out, "Saved %q (%s) and wrote %s\n", rec.Title, rec.ID, path)
	return rec, true, nil
}

func (b *builder) reportGeneration(text string, err error) {
	if err != nil {
		fmt.Fprintf(b.env.out, "Generation failed: %s\n", userMessage(err))
		return
	}
	fmt.Fprintf(b.env.out, "Generated:\n%s\n", text)
}

func addLabel(section string, existing int) string {
	if existing == 0 {
		return fmt.Sprintf("Add an %s entry?", section)
	}
	return fmt.Sprintf("Add another %s entry?", section)
}

// parseSkill reads "name[:level]"; unknown levels become Beginner.
func parseSkill(s string) types.Skill {
	name, level, _ := strings.Cut(s, ":")
	return types.Skill{Name: strings.TrimSpace(name), Level: types.ParseSkillLevel(level)}
}

func formatSkill(s types.Skill) string {
	return fmt.Sprintf("%s:%s", s.Name, s.Level)
}

// prompter reads one answer per line.
type prompter struct {
	sc  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{sc: bufio.NewScanner(in), out: out}
}

// ask prints label with the current value in brackets. An empty answer keeps
// current and "-" clears it.
func (p *prompter) ask(label, current string) (string, error) {
	if current != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", err
		}
		return "", errBuildAborted
	}
	answer := strings.TrimSpace(p.sc.Text())
	switch answer {
	case "":
		return current, nil
	case "-":
		return "", nil
	}
	return answer, nil
}

func (p *prompter) confirm(label string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	answer, err := p.ask(label+" "+hint, "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
