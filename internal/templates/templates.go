package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"sync"
)

//go:embed *.html
var templateFiles embed.FS

// Page names
const (
	ProfilePage      = "profile"
	SongPage         = "song_page"
	InterstitialPage = "interstitial"
	NotFoundPage     = "not_found"
)

// TemplateManager manages HTML templates
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager creates a new template manager
func NewTemplateManager() *TemplateManager {
	return &TemplateManager{
		templates: make(map[string]*template.Template),
	}
}

// LoadTemplate loads a template by name, caching it for future use
func (tm *TemplateManager) LoadTemplate(name string) (*template.Template, error) {
	tm.mutex.RLock()
	tmpl, exists := tm.templates[name]
	tm.mutex.RUnlock()

	if exists {
		return tmpl, nil
	}

	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	// Double-check after acquiring write lock
	if tmpl, exists := tm.templates[name]; exists {
		return tmpl, nil
	}

	content, err := templateFiles.ReadFile(name + ".html")
	if err != nil {
		return nil, fmt.Errorf("template %q not found: %w", name, err)
	}

	tmpl, err = template.New(name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %q: %w", name, err)
	}

	tm.templates[name] = tmpl
	return tmpl, nil
}

// Render executes the named template into w
func (tm *TemplateManager) Render(w io.Writer, name string, data interface{}) error {
	tmpl, err := tm.LoadTemplate(name)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, data)
}

// Preload parses every page so template errors surface at startup
func (tm *TemplateManager) Preload() error {
	for _, name := range []string{ProfilePage, SongPage, InterstitialPage, NotFoundPage} {
		if _, err := tm.LoadTemplate(name); err != nil {
			return err
		}
	}
	return nil
}

// Global template manager instance
var globalTemplateManager = NewTemplateManager()

// GetTemplate is a convenience function to get templates from the global manager
func GetTemplate(name string) (*template.Template, error) {
	return globalTemplateManager.LoadTemplate(name)
}

// Render executes a page from the global manager
func Render(w io.Writer, name string, data interface{}) error {
	return globalTemplateManager.Render(w, name, data)
}

// Preload parses every page in the global manager
func Preload() error {
	return globalTemplateManager.Preload()
}
