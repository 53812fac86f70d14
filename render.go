package svcctl

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// Logical template ids shipped with the tool
const (
	// TemplateProcessPool renders the unit for process-pool services
	TemplateProcessPool = "process-pool-unit"

	// TemplateTaskQueue renders the unit for task-queue services
	TemplateTaskQueue = "task-queue-unit"
)

//go:embed templates/*.tmpl
var builtinTemplates embed.FS

// Renderer resolves logical template ids to unit file text. Rendering is
// strict: an undefined placeholder fails instead of substituting blank, so
// a unit file can never ship with missing fields.
type Renderer struct {
	// Dir optionally overrides the built-in templates with
	// <Dir>/<id>.tmpl files
	Dir string
}

// Render produces the unit definition text for a template id and resolved
// settings. It is a pure function: no side effects, failures wrap
// ErrTemplate.
func (r *Renderer) Render(id string, settings *Settings) (string, error) {
	text, err := r.source(id)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(id).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("%w: parsing %s: %v", ErrTemplate, id, err)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, settings.Context()); err != nil {
		return "", fmt.Errorf("%w: rendering %s: %v", ErrTemplate, id, err)
	}

	return b.String(), nil
}

func (r *Renderer) source(id string) (string, error) {
	name := id + ".tmpl"

	if r.Dir != "" {
		data, err := os.ReadFile(filepath.Join(r.Dir, name))
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: reading %s: %v", ErrTemplate, name, err)
		}
	}

	data, err := builtinTemplates.ReadFile(filepath.Join("templates", name))
	if err != nil {
		return "", fmt.Errorf("%w: unknown template %q", ErrTemplate, id)
	}
	return string(data), nil
}
