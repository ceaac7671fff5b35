package service_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zlnvch/markwiki/models"
	"github.com/zlnvch/markwiki/service"
)

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"pdf", "PDF", "txt", "html", "DocX"} {
		format, err := service.ParseFormat(name)
		assert.NoError(t, err, name)
		assert.NotEmpty(t, format.String())
	}

	_, err := service.ParseFormat("xlsx")
	assert.Error(t, err)
	var unknownErr *service.UnknownFormatError
	assert.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "xlsx", unknownErr.Format)
}

func TestConvert_TXT(t *testing.T) {
	page := models.Page{URL: "greeting", Title: "Greeting", Content: "hello"}

	payload, size, err := service.NewConverter(page).Convert(service.FormatTXT)
	assert.NoError(t, err)
	assert.Equal(t, "5 B", size)

	raw, err := base64.StdEncoding.DecodeString(payload)
	assert.NoError(t, err)
	assert.Equal(t, "hello", string(raw))
}

func TestConvert_HTML(t *testing.T) {
	page := models.Page{URL: "greeting", Title: "Greeting", Content: "# Hello\n\nSome *emphasis* here."}

	payload, size, err := service.NewConverter(page).Convert(service.FormatHTML)
	assert.NoError(t, err)
	assert.NotEmpty(t, size)

	raw, err := base64.StdEncoding.DecodeString(payload)
	assert.NoError(t, err)
	html := string(raw)
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "Hello")
	assert.Contains(t, html, "<em>emphasis</em>")
}

func TestConvert_PDF(t *testing.T) {
	page := models.Page{URL: "greeting", Title: "Greeting", Content: "hello"}

	payload, size, err := service.NewConverter(page).Convert(service.FormatPDF)
	assert.NoError(t, err)
	assert.NotEmpty(t, size)

	raw, err := base64.StdEncoding.DecodeString(payload)
	assert.NoError(t, err)
	assert.True(t, len(raw) > 4)
	assert.Equal(t, "%PDF", string(raw[:4]))
}

func TestConvert_DOCX(t *testing.T) {
	page := models.Page{URL: "greeting", Title: "Greeting", Content: "hello"}

	payload, size, err := service.NewConverter(page).Convert(service.FormatDOCX)
	assert.NoError(t, err)
	assert.NotEmpty(t, size)

	// DOCX is a zip container
	raw, err := base64.StdEncoding.DecodeString(payload)
	assert.NoError(t, err)
	assert.True(t, len(raw) > 2)
	assert.Equal(t, "PK", string(raw[:2]))
}

func TestConvert_UnknownFormat(t *testing.T) {
	page := models.Page{URL: "greeting", Title: "Greeting", Content: "hello"}

	_, _, err := service.NewConverter(page).Convert(service.Format(99))
	assert.Error(t, err)
}

func TestRenderHTML(t *testing.T) {
	html := service.RenderHTML("plain text")
	assert.Contains(t, html, "<p>plain text</p>")
}
