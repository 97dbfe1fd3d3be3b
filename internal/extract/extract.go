// Package extract turns uploaded resume files into plain text.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	MimePDF         = "application/pdf"
	MimeDOCX        = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeDOC         = "application/msword"
	MimeText        = "text/plain"
	MimeOctetStream = "application/octet-stream"
)

var ErrUnsupportedType = errors.New("unsupported file type")

var (
	xmlTags    = regexp.MustCompile(`<[^>]+>`)
	docxBreaks = strings.NewReplacer("</w:p>", "\n", "<w:br/>", "\n", "<w:tab/>", " ")
)

// Detect sniffs the media type of data and returns it without parameters.
func Detect(data []byte) string {
	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		switch {
		case m.Is(MimePDF):
			return MimePDF
		case m.Is(MimeDOCX):
			return MimeDOCX
		case m.Is(MimeDOC):
			return MimeDOC
		case m.Is(MimeText):
			return MimeText
		}
	}

	return baseType(detected.String())
}

// Text extracts plain text from data. An empty mime is sniffed from the content.
func Text(data []byte, mime string) (string, error) {
	mime = baseType(mime)
	if mime == "" {
		mime = Detect(data)
	}

	var (
		raw string
		err error
	)

	switch {
	case mime == MimePDF:
		raw, err = pdfText(data)
	case mime == MimeDOCX:
		raw, err = docxText(data)
	case mime == MimeDOC, mime == MimeOctetStream:
		raw = printableBytes(data)
	case strings.HasPrefix(mime, "text/"):
		raw = string(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mime)
	}

	if err != nil {
		return "", err
	}

	return Clean(raw), nil
}

// File reads path and extracts its text, sniffing the type from the content.
func File(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %q: %w", path, err)
	}

	text, err := Text(data, "")
	if err != nil {
		return "", fmt.Errorf("extracting text from %q: %w", path, err)
	}

	return text, nil
}

// Clean folds accents, replaces non-printable characters with spaces,
// trims every line and drops the empty ones.
func Clean(text string) string {
	// transform.Chain keeps state, so it is built per call.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, text)
	if err != nil {
		folded = text
	}

	printable := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || (r >= 0x20 && r <= 0x7e) {
			return r
		}
		return ' '
	}, folded)

	lines := strings.Split(strings.ReplaceAll(printable, "\r\n", "\n"), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(strings.ReplaceAll(line, "\r", " "))
		if line != "" {
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n")
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("reading pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("reading pdf page %d: %w", i, err)
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}

	return b.String(), nil
}

func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parsing docx: %w", err)
	}
	defer doc.Close()

	content := docxBreaks.Replace(doc.Editable().GetContent())
	content = xmlTags.ReplaceAllString(content, "")

	return html.UnescapeString(content), nil
}

// printableBytes keeps printable ASCII bytes and turns line breaks and tabs into spaces.
func printableBytes(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))

	for _, c := range data {
		switch {
		case c >= 32 && c <= 126:
			b.WriteByte(c)
		case c == '\n', c == '\r', c == '\t':
			b.WriteByte(' ')
		}
	}

	return b.String()
}

func baseType(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	return mime
}

// Reader extracts text from r using the declared mime.
func Reader(r io.Reader, mime string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}
	return Text(data, mime)
}
