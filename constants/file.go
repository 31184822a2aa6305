package constants

import "strings"

// Format is the coarse input kind used when picking a text-extraction path.
type Format string

const (
	FormatTXT   Format = "TXT"
	FormatImage Format = "IMAGE"
	FormatPDF   Format = "PDF"
)

// SupportedExtensions holds the file extensions eligible for invoice extraction.
var SupportedExtensions = map[string]struct{}{
	"txt":  {},
	"text": {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"pdf":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// IsSupportedExt reports whether a file extension is eligible for extraction.
func IsSupportedExt(ext string) bool {
	_, ok := SupportedExtensions[NormalizeExt(ext)]
	return ok
}

// MapExtToFormat maps a file extension to its Format, or "" if unsupported.
func MapExtToFormat(ext string) Format {
	switch NormalizeExt(ext) {
	case "txt", "text":
		return FormatTXT
	case "jpg", "jpeg", "png":
		return FormatImage
	case "pdf":
		return FormatPDF
	default:
		return ""
	}
}
