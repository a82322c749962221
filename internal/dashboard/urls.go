package dashboard

import (
	"net/url"
	"strings"
)

// ResolveUploadURL builds the browser-facing URL for a stored photo,
// with the filename URL-escaped.
func ResolveUploadURL(base, filename string) string {
	if filename == "" {
		return ""
	}
	return strings.TrimSuffix(base, "/") + "/uploads/" + url.PathEscape(filename)
}

// FallbackUploadURL builds the unescaped variant. Some stores serve the
// raw filename and 404 the escaped path; callers try this on error.
func FallbackUploadURL(base, filename string) string {
	if filename == "" {
		return ""
	}
	return strings.TrimSuffix(base, "/") + "/uploads/" + filename
}
