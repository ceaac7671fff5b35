package service

import "github.com/russross/blackfriday/v2"

// RenderHTML transforms markdown page content into HTML. Shared by the HTML
// conversion and the editor preview endpoints.
func RenderHTML(content string) string {
	return string(blackfriday.Run([]byte(content)))
}
