package rendering

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-tailor/internal/types"
)

// Format identifies a document output format.
type Format string

const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// ContentType returns the MIME type for download responses.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// Render produces the resume document in the requested format. The template
// name only applies to HTML and PDF output; DOCX uses its own fixed layout.
func Render(ctx context.Context, resume *types.Resume, format Format, templateName string) ([]byte, error) {
	switch format {
	case FormatHTML:
		html, err := RenderHTML(resume, templateName)
		if err != nil {
			return nil, err
		}
		return []byte(html), nil
	case FormatPDF:
		return RenderPDF(ctx, resume, templateName)
	case FormatDOCX:
		return RenderDOCX(resume)
	default:
		return nil, &RenderError{Message: fmt.Sprintf("unsupported format %q", format)}
	}
}
