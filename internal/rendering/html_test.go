package rendering

import (
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDraft() types.Draft {
	return types.Draft{
		Title: "Backend Resume",
		Personal: types.PersonalDetails{
			FirstName: "Ada",
			LastName:  "Lovelace",
			JobTitle:  "Software Engineer",
			Address:   "London",
			Phone:     "555-0100",
			Email:     "ada@example.com",
		},
		Summary: "Engineer with a taste for <analytical> engines.",
		Experience: []types.Experience{
			{PositionTitle: "Engineer", CompanyName: "Analytical Co", City: "London", State: "UK", StartDate: "2020-01", WorkSummary: "Built things."},
			{},
		},
		Education: []types.Education{
			{UniversityName: "University of London", Degree: "BSc", Major: "Mathematics", StartDate: "2015", EndDate: "2019"},
		},
		Skills: []types.Skill{
			{Name: "Go", Level: types.SkillExpert},
			{Name: "SQL", Level: types.SkillIntermediate},
			{Name: " "},
		},
		ThemeColor: "#123abc",
		FontSize:   "12px",
		FontColor:  "#333",
	}
}

func TestBuildTemplateData(t *testing.T) {
	data := BuildTemplateData(sampleDraft())

	assert.Equal(t, "Backend Resume", data.Title)
	assert.Equal(t, "Ada Lovelace", data.Name)
	require.Len(t, data.Experience, 1, "blank entries are skipped")
	assert.Equal(t, "London, UK", data.Experience[0].Location)
	assert.Equal(t, "2020-01 - Present", data.Experience[0].Dates)
	require.Len(t, data.Education, 1)
	assert.Equal(t, "2015 - 2019", data.Education[0].Dates)
	require.Len(t, data.Skills, 2)
	assert.Equal(t, 100, data.Skills[0].Percent)
	assert.Equal(t, 50, data.Skills[1].Percent)
	assert.Equal(t, template.CSS("#123abc"), data.ThemeColor)
	assert.Equal(t, template.CSS("12px"), data.FontSize)
}

func TestBuildTemplateData_SanitizesPresentation(t *testing.T) {
	d := sampleDraft()
	d.ThemeColor = "red; background: url(evil)"
	d.FontSize = "huge"
	d.FontColor = ""
	d.Title = ""

	data := BuildTemplateData(d)
	assert.Equal(t, template.CSS(FallbackThemeColor), data.ThemeColor)
	assert.Equal(t, template.CSS(FallbackFontSize), data.FontSize)
	assert.Equal(t, template.CSS(FallbackFontColor), data.FontColor)
	assert.Equal(t, "Ada Lovelace Resume", data.Title)
}

func TestFormatDates(t *testing.T) {
	tests := []struct {
		start, end, want string
	}{
		{"", "", ""},
		{"2020", "", "2020 - Present"},
		{"", "2021", "2021"},
		{"2020", "2021", "2020 - 2021"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDates(tt.start, tt.end))
	}
}

func TestHTMLRenderer_RenderHTML(t *testing.T) {
	r, err := NewHTMLRenderer()
	require.NoError(t, err)

	out, err := r.RenderHTML(sampleDraft())
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "<h1>Ada Lovelace</h1>")
	assert.Contains(t, html, "&lt;analytical&gt;", "content is escaped")
	assert.Contains(t, html, "border-top: 12px solid #123abc")
	assert.Contains(t, html, "font-size: 12px")
	assert.Contains(t, html, `title="Expert"`)
	assert.Contains(t, html, "Professional Experience")
	assert.NotContains(t, html, "ZgotmplZ")
}

func TestHTMLRenderer_OmitsEmptySections(t *testing.T) {
	r, err := NewHTMLRenderer()
	require.NoError(t, err)

	out, err := r.RenderHTML(types.Draft{Personal: types.PersonalDetails{FirstName: "Ada"}})
	require.NoError(t, err)
	html := string(out)
	assert.NotContains(t, html, "<h2>Summary</h2>")
	assert.NotContains(t, html, "<h2>Skills</h2>")
}

func TestNewHTMLRendererFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.html.tmpl")
	require.NoError(t, os.WriteFile(path, []byte(`<p>{{.Name}}</p>`), 0o644))

	r, err := NewHTMLRendererFromFile(path)
	require.NoError(t, err)
	out, err := r.RenderHTML(sampleDraft())
	require.NoError(t, err)
	assert.Equal(t, "<p>Ada Lovelace</p>", string(out))
}

func TestNewHTMLRendererFromFile_Errors(t *testing.T) {
	_, err := NewHTMLRendererFromFile("/nonexistent/template.html")
	var templateErr *TemplateError
	require.ErrorAs(t, err, &templateErr)
	assert.Contains(t, err.Error(), "template file not found")

	path := filepath.Join(t.TempDir(), "bad.tmpl")
	require.NoError(t, os.WriteFile(path, []byte(`{{.Name`), 0o644))
	_, err = NewHTMLRendererFromFile(path)
	require.ErrorAs(t, err, &templateErr)

	path = filepath.Join(t.TempDir(), "exec.tmpl")
	require.NoError(t, os.WriteFile(path, []byte(`{{.Missing.Field}}`), 0o644))
	r, err := NewHTMLRendererFromFile(path)
	require.NoError(t, err)
	_, err = r.RenderHTML(sampleDraft())
	require.ErrorAs(t, err, &templateErr)
	assert.True(t, strings.Contains(err.Error(), "execute"))
}
