package rendering

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"strings"
	"text/template"

	"github.com/jonathan/resume-tailor/internal/types"
)

// The DOCX output is a minimal OOXML package: content types, the package
// relationship pointing at the document part, and word/document.xml. Word,
// LibreOffice, and Google Docs all open it.

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const docxDocumentTemplate = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:rPr><w:b/><w:sz w:val="44"/></w:rPr><w:t>{{esc .Name}}</w:t></w:r></w:p>
{{if .Contact}}<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:t>{{esc .Contact}}</w:t></w:r></w:p>{{end}}
{{if .Summary}}{{template "heading" "Summary"}}
<w:p><w:r><w:t>{{esc .Summary}}</w:t></w:r></w:p>{{end}}
{{if .Skills}}{{template "heading" "Skills"}}
<w:p><w:r><w:t>{{esc .SkillLine}}</w:t></w:r></w:p>{{end}}
{{if .Experience}}{{template "heading" "Experience"}}
{{range .Experience}}<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>{{esc .Position}} - {{esc .Company}}</w:t></w:r></w:p>
<w:p><w:r><w:rPr><w:i/></w:rPr><w:t>{{esc .Dates}}</w:t></w:r></w:p>
{{range .Bullets}}<w:p><w:r><w:t>{{esc (printf "• %s" .)}}</w:t></w:r></w:p>
{{end}}{{end}}{{end}}
{{if .Projects}}{{template "heading" "Projects"}}
{{range .Projects}}<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>{{esc .Name}}</w:t></w:r></w:p>
{{if .Description}}<w:p><w:r><w:t>{{esc .Description}}</w:t></w:r></w:p>{{end}}
{{range .Bullets}}<w:p><w:r><w:t>{{esc (printf "• %s" .)}}</w:t></w:r></w:p>
{{end}}{{end}}{{end}}
{{if .Education}}{{template "heading" "Education"}}
{{range .Education}}<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>{{esc .Title}}</w:t></w:r></w:p>
<w:p><w:r><w:t>{{esc .Detail}}</w:t></w:r></w:p>
{{end}}{{end}}
{{if .Certifications}}{{template "heading" "Certifications"}}
{{range .Certifications}}<w:p><w:r><w:t>{{esc (printf "• %s" .)}}</w:t></w:r></w:p>
{{end}}{{end}}
</w:body>
</w:document>
{{define "heading"}}<w:p><w:pPr><w:spacing w:before="200"/></w:pPr><w:r><w:rPr><w:b/><w:sz w:val="28"/></w:rPr><w:t>{{esc .}}</w:t></w:r></w:p>{{end}}`

var docxTemplate = template.Must(
	template.New("document").Funcs(template.FuncMap{"esc": xmlEscape}).Parse(docxDocumentTemplate),
)

type docxData struct {
	Name      string
	Contact   string
	Summary   string
	Skills    []string
	SkillLine string
	Experience []struct {
		Position string
		Company  string
		Dates    string
		Bullets  []string
	}
	Projects []struct {
		Name        string
		Description string
		Bullets     []string
	}
	Education []struct {
		Title  string
		Detail string
	}
	Certifications []string
}

// RenderDOCX builds a Word document for the resume.
func RenderDOCX(resume *types.Resume) ([]byte, error) {
	document, err := buildDocumentXML(resume)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, part := range []struct {
		name, body string
	}{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRels},
		{"word/document.xml", document},
	} {
		f, err := w.Create(part.name)
		if err != nil {
			return nil, &RenderError{Message: "failed to create docx part " + part.name, Cause: err}
		}
		if _, err := f.Write([]byte(part.body)); err != nil {
			return nil, &RenderError{Message: "failed to write docx part " + part.name, Cause: err}
		}
	}
	if err := w.Close(); err != nil {
		return nil, &RenderError{Message: "failed to finalize docx package", Cause: err}
	}
	return buf.Bytes(), nil
}

func buildDocumentXML(resume *types.Resume) (string, error) {
	data := docxData{
		Name:      resume.PersonalInfo.Name,
		Contact:   contactLine(resume.PersonalInfo),
		Skills:    resume.Skills,
		SkillLine: strings.Join(resume.Skills, ", "),
	}
	if data.Name == "" {
		data.Name = resume.Name
	}
	if resume.PersonalInfo.Summary != nil {
		data.Summary = *resume.PersonalInfo.Summary
	}

	for _, exp := range resume.Experience {
		dates := exp.StartDate
		if exp.EndDate != "" {
			dates += " - " + exp.EndDate
		} else if exp.StartDate != "" {
			dates += " - Present"
		}
		data.Experience = append(data.Experience, struct {
			Position string
			Company  string
			Dates    string
			Bullets  []string
		}{exp.Position, exp.Company, dates, exp.Description})
	}

	for _, proj := range resume.Projects {
		data.Projects = append(data.Projects, struct {
			Name        string
			Description string
			Bullets     []string
		}{proj.Name, proj.Description, proj.Highlights})
	}

	for _, edu := range resume.Education {
		title := edu.Degree
		if edu.Field != "" {
			title += ", " + edu.Field
		}
		detail := edu.Institution
		if edu.StartDate != "" {
			detail += " (" + edu.StartDate
			if edu.EndDate != "" {
				detail += " - " + edu.EndDate
			}
			detail += ")"
		}
		data.Education = append(data.Education, struct {
			Title  string
			Detail string
		}{title, detail})
	}

	for _, cert := range resume.Certifications {
		line := cert.Name
		if cert.Issuer != "" {
			line += ", " + cert.Issuer
		}
		if cert.Date != "" {
			line += " (" + cert.Date + ")"
		}
		data.Certifications = append(data.Certifications, line)
	}

	var out strings.Builder
	if err := docxTemplate.Execute(&out, &data); err != nil {
		return "", &TemplateError{Message: "failed to execute docx template", Cause: err}
	}
	return out.String(), nil
}

func contactLine(info types.PersonalInfo) string {
	var parts []string
	for _, part := range []string{info.Email, info.Phone, info.Location, info.LinkedIn, info.Website} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " | ")
}

// xmlEscape escapes text for embedding in OOXML element content.
func xmlEscape(text string) string {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(text)); err != nil {
		return text
	}
	return buf.String()
}
