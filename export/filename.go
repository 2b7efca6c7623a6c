package export

import (
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func sanitize(date string) string {
	date = unsafeChars.ReplaceAllString(strings.TrimSpace(date), "_")
	date = strings.Trim(date, "._")
	if date == "" {
		return "Today"
	}
	return date
}

func AudioFilename(date string) string {
	return "Gemini_Design_News_" + sanitize(date) + ".wav"
}

func PDFFilename(date string) string {
	return "Reporte_Diseno_" + sanitize(date) + ".pdf"
}
