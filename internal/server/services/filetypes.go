package services

import (
	"mime"
	"slices"
	"strings"
)

// supportedFileTypes maps accepted upload content types to the extension
// used for their storage keys.
var supportedFileTypes = map[string]string{
	"application/pdf":  "pdf",
	"image/png":        "png",
	"image/jpeg":       "jpeg",
	"image/gif":        "gif",
	"text/plain":       "txt",
	"text/csv":         "csv",
	"text/markdown":    "md",
	"application/json": "json",
	"application/zip":  "zip",

	"application/msword": "doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
	"application/vnd.ms-excel": "xls",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         "xlsx",
	"application/vnd.ms-powerpoint":                                             "ppt",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": "pptx",
}

// normalizeContentType drops parameters such as charset and lowercases the
// media type. It returns "" for input that does not parse.
func normalizeContentType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(mt)
}

// ExtensionFor returns the storage extension of a supported content type.
func ExtensionFor(contentType string) (string, bool) {
	ext, ok := supportedFileTypes[normalizeContentType(contentType)]
	return ext, ok
}

// ContentTypesFor resolves a search term to content types. The term may be
// an extension ("pdf", ".docx") or a full content type.
func ContentTypesFor(term string) []string {
	term = strings.ToLower(strings.TrimPrefix(term, "."))
	if _, ok := supportedFileTypes[term]; ok {
		return []string{term}
	}

	var out []string
	for ct, ext := range supportedFileTypes {
		if ext == term || (term == "jpg" && ext == "jpeg") {
			out = append(out, ct)
		}
	}
	slices.Sort(out)
	return out
}

// SupportedContentTypes lists every accepted content type, sorted.
func SupportedContentTypes() []string {
	out := make([]string, 0, len(supportedFileTypes))
	for ct := range supportedFileTypes {
		out = append(out, ct)
	}
	slices.Sort(out)
	return out
}
