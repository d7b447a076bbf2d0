package generator

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"text/template"
	"unicode"
)

// Template delimiters. Angular templates use {{ }} for interpolation.
const (
	LeftDelim  = "<%"
	RightDelim = "%>"
)

// Renderer parses and renders templates, caching parsed templates by name.
type Renderer struct {
	funcMap template.FuncMap
	cache   map[string]*template.Template
	mu      sync.RWMutex
}

// NewRenderer creates a renderer with the Angular string helpers installed.
func NewRenderer() *Renderer {
	return &Renderer{
		funcMap: defaultFuncMap(),
		cache:   make(map[string]*template.Template),
	}
}

// RenderString renders a template from a string.
// The name is used for caching and error messages.
func (r *Renderer) RenderString(name, templateStr string, data any) ([]byte, error) {
	return r.render("string:"+name, data, func() (string, error) {
		return templateStr, nil
	})
}

// RenderFS renders a template read from fsys. A Renderer should only ever
// be used with one filesystem since the cache is keyed by path.
func (r *Renderer) RenderFS(fsys fs.FS, path string, data any) ([]byte, error) {
	return r.render("fs:"+path, data, func() (string, error) {
		b, err := fs.ReadFile(fsys, path)
		if err != nil {
			return "", fmt.Errorf("failed to read template from fs '%s': %w", path, err)
		}
		return string(b), nil
	})
}

// ClearCache clears the template cache (useful for testing)
func (r *Renderer) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]*template.Template)
}

func (r *Renderer) render(key string, data any, load func() (string, error)) ([]byte, error) {
	r.mu.RLock()
	tmpl, ok := r.cache[key]
	r.mu.RUnlock()

	if !ok {
		src, err := load()
		if err != nil {
			return nil, err
		}
		tmpl, err = template.New(key).Delims(LeftDelim, RightDelim).Funcs(r.funcMap).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template '%s': %w", key, err)
		}
		r.mu.Lock()
		r.cache[key] = tmpl
		r.mu.Unlock()
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template '%s': %w", key, err)
	}
	return buf.Bytes(), nil
}

func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"dasherize":  Dasherize,  // AuthService → auth-service
		"classify":   Classify,   // auth-service → AuthService
		"camelize":   Camelize,   // auth-service → authService
		"underscore": Underscore, // authService → auth_service
		"upper":      strings.ToUpper,
		"lower":      strings.ToLower,
		"quote":      Quote,
		"join":       strings.Join,
		"replace":    strings.ReplaceAll,
	}
}

// words splits identifiers on case changes, dashes, underscores, dots and spaces.
func words(s string) []string {
	var out []string
	var cur []rune
	runes := []rune(s)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}
	for i, r := range runes {
		switch {
		case r == '-' || r == '_' || r == ' ' || r == '.':
			flush()
		case unicode.IsUpper(r):
			// Split before an upper-case rune that follows a lower-case one,
			// or that starts a new word after an acronym (HTTPClient → HTTP Client).
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				flush()
			}
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return out
}

// Dasherize converts an identifier to kebab-case.
func Dasherize(s string) string {
	w := words(s)
	for i := range w {
		w[i] = strings.ToLower(w[i])
	}
	return strings.Join(w, "-")
}

// Underscore converts an identifier to snake_case.
func Underscore(s string) string {
	w := words(s)
	for i := range w {
		w[i] = strings.ToLower(w[i])
	}
	return strings.Join(w, "_")
}

// Classify converts an identifier to PascalCase.
func Classify(s string) string {
	w := words(s)
	for i := range w {
		w[i] = capitalize(strings.ToLower(w[i]))
	}
	return strings.Join(w, "")
}

// Camelize converts an identifier to camelCase.
func Camelize(s string) string {
	c := Classify(s)
	if c == "" {
		return ""
	}
	r := []rune(c)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// Quote wraps s in single quotes, the TypeScript string style roost emits.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "\\'") + "'"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
