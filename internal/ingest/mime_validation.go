package ingest

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	mimePNG  = "image/png"
	mimeJPEG = "image/jpeg"
	mimeWEBP = "image/webp"
	mimeSVG  = "image/svg+xml"
)

var allowedMimeTypes = []string{mimePNG, mimeJPEG, mimeWEBP, mimeSVG}

var mimeNames = map[string]string{
	mimePNG:  "PNG",
	mimeJPEG: "JPEG",
	mimeWEBP: "WEBP",
	mimeSVG:  "SVG",
}

// sniffMimeType detects the content type from the bytes and maps it onto
// the allow-list. The declared type of the upload is not trusted.
func sniffMimeType(data []byte) (string, bool) {
	detected := mimetype.Detect(data)
	for _, allowed := range allowedMimeTypes {
		if detected.Is(allowed) {
			return allowed, true
		}
	}
	return detected.String(), false
}

func allowedMimeDescription() string {
	names := make([]string, 0, len(allowedMimeTypes))
	for _, value := range allowedMimeTypes {
		names = append(names, mimeNames[value])
	}
	return humanReadableList(names)
}

func humanReadableList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return fmt.Sprintf("%s or %s", items[0], items[1])
	default:
		return fmt.Sprintf("%s, or %s", strings.Join(items[:len(items)-1], ", "), items[len(items)-1])
	}
}
