package rendering

import (
	"embed"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultTemplate is used when the caller does not name one.
const DefaultTemplate = "modern"

// templateData is the flattened view passed to the HTML templates.
type templateData struct {
	Name           string
	Info           types.PersonalInfo
	Summary        string
	Skills         []string
	Experience     []types.Experience
	Education      []types.Education
	Projects       []types.Project
	Certifications []types.Certification
}

var templates = template.Must(
	template.New("resume").Funcs(template.FuncMap{
		"join": strings.Join,
	}).ParseFS(templateFS, "templates/*.html"),
)

// TemplateNames lists the embedded template identifiers, sorted.
func TemplateNames() []string {
	var names []string
	for _, t := range templates.Templates() {
		name, ok := strings.CutSuffix(t.Name(), ".html")
		if !ok {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RenderHTML renders the resume as a standalone HTML document using the
// named embedded template.
func RenderHTML(resume *types.Resume, templateName string) (string, error) {
	if templateName == "" {
		templateName = DefaultTemplate
	}
	tmpl := templates.Lookup(templateName + ".html")
	if tmpl == nil {
		return "", &TemplateError{
			Message: fmt.Sprintf("unknown template %q, available: %s", templateName, strings.Join(TemplateNames(), ", ")),
		}
	}

	name := resume.PersonalInfo.Name
	if name == "" {
		name = resume.Name
	}
	summary := ""
	if resume.PersonalInfo.Summary != nil {
		summary = *resume.PersonalInfo.Summary
	}

	data := &templateData{
		Name:           name,
		Info:           resume.PersonalInfo,
		Summary:        summary,
		Skills:         resume.Skills,
		Experience:     resume.Experience,
		Education:      resume.Education,
		Projects:       resume.Projects,
		Certifications: resume.Certifications,
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return "", &TemplateError{Message: "failed to execute template", Cause: err}
	}
	return result.String(), nil
}
