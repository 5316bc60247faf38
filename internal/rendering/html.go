// Package rendering turns a resume draft into print-ready documents: HTML from
// a template, PDF through headless Chrome (or a built-in fallback layout), and
// plain text extracted from the HTML.
package rendering

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"regexp"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

//go:embed templates/resume.html.tmpl
var templateFS embed.FS

const defaultTemplate = "templates/resume.html.tmpl"

// Presentation fallbacks applied when a draft carries missing or unsafe values.
const (
	FallbackThemeColor = "#ff6666"
	FallbackFontSize   = "14px"
	FallbackFontColor  = "#000000"
)

var (
	colorPattern    = regexp.MustCompile(`^(#[0-9a-fA-F]{3}|#[0-9a-fA-F]{6}|#[0-9a-fA-F]{8}|[a-zA-Z]{3,20})$`)
	fontSizePattern = regexp.MustCompile(`^\d{1,3}(\.\d{1,2})?(px|pt|em|rem)$`)
)

// TemplateData is the view model passed to the resume template.
type TemplateData struct {
	Title      string
	Name       string
	JobTitle   string
	Address    string
	Phone      string
	Email      string
	Summary    string
	Experience []ExperienceSection
	Education  []EducationSection
	Skills     []SkillSection
	ThemeColor template.CSS
	FontSize   template.CSS
	FontColor  template.CSS
}

// ExperienceSection is one rendered work entry.
type ExperienceSection struct {
	PositionTitle string
	CompanyName   string
	Location      string
	Dates         string
	WorkSummary   string
}

// EducationSection is one rendered education entry.
type EducationSection struct {
	UniversityName string
	Degree         string
	Major          string
	Dates          string
	Description    string
}

// SkillSection is one rendered skill with its rating bar width.
type SkillSection struct {
	Name    string
	Level   types.SkillLevel
	Percent int
}

// HTMLRenderer renders drafts with an html/template.
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer uses the built-in template.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	content, err := templateFS.ReadFile(defaultTemplate)
	if err != nil {
		return nil, &TemplateError{Message: "failed to read built-in template", Cause: err}
	}
	return newHTMLRenderer(string(content))
}

// NewHTMLRendererFromFile loads a custom template from disk.
func NewHTMLRendererFromFile(templatePath string) (*HTMLRenderer, error) {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &TemplateError{
				Message: fmt.Sprintf("template file not found: %s", templatePath),
				Cause:   err,
			}
		}
		return nil, &TemplateError{
			Message: fmt.Sprintf("failed to read template file: %s", templatePath),
			Cause:   err,
		}
	}
	return newHTMLRenderer(string(content))
}

func newHTMLRenderer(content string) (*HTMLRenderer, error) {
	tmpl, err := template.New("resume").Parse(content)
	if err != nil {
		return nil, &TemplateError{Message: "failed to parse template", Cause: err}
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

// RenderHTML renders the print-ready HTML document for d.
func (r *HTMLRenderer) RenderHTML(d types.Draft) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, BuildTemplateData(d)); err != nil {
		return nil, &TemplateError{Message: "failed to execute template", Cause: err}
	}
	return buf.Bytes(), nil
}

// BuildTemplateData converts a draft into the template view model. Blank list
// entries are skipped and presentation values are sanitized.
func BuildTemplateData(d types.Draft) *TemplateData {
	data := &TemplateData{
		Title:      displayTitle(d),
		Name:       d.Personal.FullName(),
		JobTitle:   strings.TrimSpace(d.Personal.JobTitle),
		Address:    strings.TrimSpace(d.Personal.Address),
		Phone:      strings.TrimSpace(d.Personal.Phone),
		Email:      strings.TrimSpace(d.Personal.Email),
		Summary:    strings.TrimSpace(d.Summary),
		ThemeColor: cssValue(d.ThemeColor, colorPattern, FallbackThemeColor),
		FontSize:   cssValue(d.FontSize, fontSizePattern, FallbackFontSize),
		FontColor:  cssValue(d.FontColor, colorPattern, FallbackFontColor),
	}

	for _, e := range d.Experience {
		if strings.TrimSpace(e.PositionTitle) == "" && strings.TrimSpace(e.CompanyName) == "" {
			continue
		}
		data.Experience = append(data.Experience, ExperienceSection{
			PositionTitle: strings.TrimSpace(e.PositionTitle),
			CompanyName:   strings.TrimSpace(e.CompanyName),
			Location:      joinNonBlank(", ", e.City, e.State),
			Dates:         formatDates(e.StartDate, e.EndDate),
			WorkSummary:   strings.TrimSpace(e.WorkSummary),
		})
	}

	for _, e := range d.Education {
		if strings.TrimSpace(e.UniversityName) == "" {
			continue
		}
		data.Education = append(data.Education, EducationSection{
			UniversityName: strings.TrimSpace(e.UniversityName),
			Degree:         strings.TrimSpace(e.Degree),
			Major:          strings.TrimSpace(e.Major),
			Dates:          formatDates(e.StartDate, e.EndDate),
			Description:    strings.TrimSpace(e.Description),
		})
	}

	for _, s := range d.Skills {
		if strings.TrimSpace(s.Name) == "" {
			continue
		}
		level := types.ParseSkillLevel(string(s.Level))
		data.Skills = append(data.Skills, SkillSection{
			Name:    strings.TrimSpace(s.Name),
			Level:   level,
			Percent: level.Rank() * 100 / len(types.SkillLevels),
		})
	}

	return data
}

func displayTitle(d types.Draft) string {
	if t := strings.TrimSpace(d.Title); t != "" {
		return t
	}
	if name := d.Personal.FullName(); name != "" {
		return name + " Resume"
	}
	return "Resume"
}

// formatDates renders "start - end", using "Present" for an open end.
func formatDates(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" && end == "" {
		return ""
	}
	if end == "" {
		end = "Present"
	}
	if start == "" {
		return end
	}
	return start + " - " + end
}

func joinNonBlank(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

func cssValue(v string, pattern *regexp.Regexp, fallback string) template.CSS {
	v = strings.TrimSpace(v)
	if !pattern.MatchString(v) {
		v = fallback
	}
	return template.CSS(v) //nolint:gosec // validated against pattern above
}
