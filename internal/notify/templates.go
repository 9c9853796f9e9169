package notify

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/django/v3"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names.
const (
	TemplateWelcome  = "welcome"
	TemplateJobHired = "job_hired"
)

// Renderer renders email bodies from the embedded templates.
type Renderer struct {
	engine *django.Engine
}

// NewRenderer loads the embedded email templates.
func NewRenderer() (*Renderer, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("email templates: %w", err)
	}
	engine := django.NewFileSystem(http.FS(sub), ".html")
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("load email templates: %w", err)
	}
	return &Renderer{engine: engine}, nil
}

// Render executes the named template with data.
func (r *Renderer) Render(name string, data fiber.Map) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Render(&buf, name, map[string]interface{}(data)); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
