package analysis

import (
	"bytes"
	stdhtml "html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps()))

// HTML renders model markdown for the web UI. Raw HTML in the input is
// omitted. On failure the text is returned escaped in a paragraph.
func HTML(text string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		buf.Reset()
		buf.WriteString("<p>")
		buf.WriteString(stdhtml.EscapeString(text))
		buf.WriteString("</p>")
	}
	return buf.String()
}
