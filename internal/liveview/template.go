package liveview

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/todolive/core/internal/domain/entities"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// StaticFS exposes the embedded client assets for the HTTP server
func StaticFS() embed.FS {
	return staticFS
}

// Renderer turns a ViewState into HTML
type Renderer struct {
	tmpl *template.Template
}

// appData is the input to one render pass. Visible is computed once and
// reused for both the todo iteration and the empty-state test.
type appData struct {
	State   *ViewState
	Visible []*entities.Todo
}

// LoginData is the input to the login page
type LoginData struct {
	AppName string
	Error   string
	Email   string
}

// ErrorData is the input to the error page
type ErrorData struct {
	Code    int
	Message string
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	tmpl := template.New("liveview").Funcs(template.FuncMap{
		"formatDate": func(date *time.Time) string {
			if date == nil {
				return ""
			}
			return FormatDate(*date)
		},
	})

	tmpl, err := tmpl.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Renderer{tmpl: tmpl}, nil
}

// RenderApp renders the application region pushed over the live connection
func (r *Renderer) RenderApp(state *ViewState) (string, error) {
	var sb strings.Builder
	data := appData{State: state, Visible: state.Visible()}
	if err := r.tmpl.ExecuteTemplate(&sb, "app", data); err != nil {
		return "", fmt.Errorf("failed to render app: %w", err)
	}
	return sb.String(), nil
}

// RenderPage renders the full HTML document around the application region
func (r *Renderer) RenderPage(w io.Writer, state *ViewState) error {
	data := appData{State: state, Visible: state.Visible()}
	if err := r.tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

// RenderError renders the standalone error page
func (r *Renderer) RenderError(w io.Writer, data ErrorData) error {
	if err := r.tmpl.ExecuteTemplate(w, "error", data); err != nil {
		return fmt.Errorf("failed to render error page: %w", err)
	}
	return nil
}

// RenderLogin renders the login page
func (r *Renderer) RenderLogin(w io.Writer, data LoginData) error {
	if err := r.tmpl.ExecuteTemplate(w, "login", data); err != nil {
		return fmt.Errorf("failed to render login: %w", err)
	}
	return nil
}
