package artifacts

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// ArtifactFilename builds the download filename for a rendered resume:
// the candidate's name with spaces collapsed to underscores, a Resume
// marker, and the current date.
//
//	Jane Smith + "pdf" -> Jane_Smith_Resume_2026-08-29.pdf
func ArtifactFilename(name, ext string) string {
	return artifactFilenameAt(name, ext, time.Now())
}

func artifactFilenameAt(name, ext string, now time.Time) string {
	cleaned := sanitizeName(name)
	if cleaned == "" {
		cleaned = "Tailored"
	}
	ext = strings.TrimPrefix(ext, ".")
	return fmt.Sprintf("%s_Resume_%s.%s", cleaned, now.Format("2006-01-02"), ext)
}

// sanitizeName keeps letters, digits, hyphens, and underscores; runs of
// anything else collapse to a single underscore.
func sanitizeName(name string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
