// Package ui renders the chat page from a transcript.
package ui

import (
	"embed"
	"html/template"
	"io"
	"strings"

	"github.com/carcare/carcarebot/internal"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	DefaultTitle    = "CarCareBot"
	DefaultSubtitle = "Ask me about car repair, maintenance, or towing services!"
)

// Page is the data behind the chat page.
type Page struct {
	Title    string
	Subtitle string
	Messages []internal.Message
}

// Funcs are the template helpers used by chat.html.
var Funcs = template.FuncMap{
	"nl2br":       nl2br,
	"bubbleClass": bubbleClass,
	"speaker":     speaker,
}

// Template is the parsed chat page.
var Template = template.Must(template.New("").Funcs(Funcs).ParseFS(templateFS, "templates/*.html"))

// Render writes the page for messages.
func Render(w io.Writer, p Page) error {
	if p.Title == "" {
		p.Title = DefaultTitle
	}
	if p.Subtitle == "" {
		p.Subtitle = DefaultSubtitle
	}
	return Template.ExecuteTemplate(w, "chat.html", p)
}

func nl2br(s string) template.HTML {
	return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(s), "\n", "<br>"))
}

func bubbleClass(r internal.Role) string {
	if r == internal.RoleUser {
		return "msg-user"
	}
	return "msg-ai"
}

func speaker(r internal.Role) string {
	if r == internal.RoleUser {
		return "You"
	}
	return "CarCareBot"
}
