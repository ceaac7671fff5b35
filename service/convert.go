package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/go-pdf/fpdf"
	"github.com/zlnvch/markwiki/models"
)

// Format is a supported conversion target.
type Format int

const (
	FormatPDF Format = iota
	FormatTXT
	FormatHTML
	FormatDOCX
)

func (f Format) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatTXT:
		return "txt"
	case FormatHTML:
		return "html"
	case FormatDOCX:
		return "docx"
	}
	return "unknown"
}

type UnknownFormatError struct {
	Format string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown conversion format: %q", e.Format)
}

// ParseFormat maps a file type string (case-insensitive) to a Format.
func ParseFormat(fileType string) (Format, error) {
	switch strings.ToLower(fileType) {
	case "pdf":
		return FormatPDF, nil
	case "txt":
		return FormatTXT, nil
	case "html":
		return FormatHTML, nil
	case "docx":
		return FormatDOCX, nil
	}
	return 0, &UnknownFormatError{Format: fileType}
}

// Converter renders a page's content into downloadable document formats.
// Each conversion returns the encoded payload as base64 text plus a size
// label computed over the unencoded bytes.
type Converter struct {
	page models.Page
}

func NewConverter(page models.Page) *Converter {
	return &Converter{page: page}
}

// Convert dispatches to the conversion for the given format.
func (c *Converter) Convert(format Format) (string, string, error) {
	switch format {
	case FormatPDF:
		return c.ToPDF()
	case FormatTXT:
		return c.ToTXT()
	case FormatHTML:
		return c.ToHTML()
	case FormatDOCX:
		return c.ToDOCX()
	}
	return "", "", &UnknownFormatError{Format: format.String()}
}

// ToPDF renders a PDF with the page title as a heading and the raw content
// as a single paragraph. The content is not interpreted as markdown.
func (c *Converter) ToPDF() (string, string, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, tr(c.page.Title), "", "L", false)
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 5, tr(c.page.Content), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return "", "", fmt.Errorf("pdf rendering failed: %w", err)
	}

	return encodePayload(buf.Bytes())
}

// ToTXT encodes the raw content as UTF-8 bytes.
func (c *Converter) ToTXT() (string, string, error) {
	return encodePayload([]byte(c.page.Content))
}

// ToHTML renders the content through the markdown transform.
func (c *Converter) ToHTML() (string, string, error) {
	return encodePayload([]byte(RenderHTML(c.page.Content)))
}

// ToDOCX produces a document container with a single paragraph holding the
// raw content. Like the PDF path, no markdown interpretation happens here.
func (c *Converter) ToDOCX() (string, string, error) {
	doc := docx.New().WithDefaultTheme()
	para := doc.AddParagraph()
	para.AddText(c.page.Content)

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return "", "", fmt.Errorf("docx rendering failed: %w", err)
	}

	return encodePayload(buf.Bytes())
}

func encodePayload(raw []byte) (string, string, error) {
	return base64.StdEncoding.EncodeToString(raw), FormatFileSize(int64(len(raw))), nil
}
