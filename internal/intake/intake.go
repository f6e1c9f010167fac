// Package intake accepts uploaded documents and extracts text locally where
// that is possible.
package intake

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MIMEPlainText = "text/plain"
	MIMEPDF       = "application/pdf"
	MIMEDoc       = "application/msword"
	MIMEDocx      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	ErrUnsupportedType = errors.New("unsupported document type")
	ErrEmptyDocument   = errors.New("document is empty")
	ErrTooLarge        = errors.New("document exceeds the upload limit")
)

var acceptedMIMETypes = []string{MIMEPlainText, MIMEPDF, MIMEDoc, MIMEDocx}

var acceptedExtensions = map[string]string{
	".txt":  MIMEPlainText,
	".pdf":  MIMEPDF,
	".doc":  MIMEDoc,
	".docx": MIMEDocx,
}

// Document is an accepted upload.
type Document struct {
	Name     string
	Size     int64
	MIMEType string
	Content  []byte

	// PlainText documents carry their text in Text. Other types are extracted
	// by the assistant service and Text stays empty.
	PlainText bool
	Text      string
}

// Accept checks name, declared type and content against the whitelist. A
// document is accepted when its declared MIME type, its sniffed MIME type or
// its extension is one of PDF, DOC, DOCX or plain text.
func Accept(name, declaredType string, content []byte, maxBytes int64) (*Document, error) {
	if len(content) == 0 {
		return nil, ErrEmptyDocument
	}
	if maxBytes > 0 && int64(len(content)) > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(content), maxBytes)
	}

	declared := normalizeMIME(declaredType)
	ext := strings.ToLower(filepath.Ext(name))
	sniffed := mimetype.Detect(content)

	resolved, ok := resolveType(declared, ext, sniffed)
	if !ok {
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedType, name, sniffed.String())
	}

	doc := &Document{
		Name:     filepath.Base(name),
		Size:     int64(len(content)),
		MIMEType: resolved,
		Content:  content,
	}

	if declared == MIMEPlainText || ext == ".txt" {
		doc.PlainText = true
		doc.MIMEType = MIMEPlainText
		doc.Text = decodeText(content)
	}

	return doc, nil
}

func resolveType(declared, ext string, sniffed *mimetype.MIME) (string, bool) {
	for _, accepted := range acceptedMIMETypes {
		if declared == accepted {
			return accepted, true
		}
	}
	if mime, ok := acceptedExtensions[ext]; ok {
		return mime, true
	}
	for _, accepted := range acceptedMIMETypes {
		if sniffed.Is(accepted) {
			return accepted, true
		}
	}
	return "", false
}

func normalizeMIME(value string) string {
	if i := strings.IndexByte(value, ';'); i >= 0 {
		value = value[:i]
	}
	return strings.ToLower(strings.TrimSpace(value))
}

func decodeText(content []byte) string {
	content = trimBOM(content)
	if utf8.Valid(content) {
		return string(content)
	}
	return strings.ToValidUTF8(string(content), "�")
}

func trimBOM(content []byte) []byte {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:]
	}
	return content
}
