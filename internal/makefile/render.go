package makefile

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"
	"text/template"

	"github.com/muurk/cube2make/internal/buildconfig"
)

//go:embed templates/Makefile.tmpl
var defaultSource string

// DefaultName is the name reported for the built-in template.
const DefaultName = "built-in Makefile.tmpl"

// Template is a loaded Makefile template.
//
// Two formats are accepted. Go templates reference the placeholders as
// {{.TARGET}}; legacy templates use $TARGET or ${TARGET} and "$$" for a
// literal dollar sign. A source without "{{" is treated as legacy.
type Template struct {
	Name   string
	Source string

	legacy bool
	tmpl   *template.Template
}

// Default returns the built-in template.
func Default() *Template {
	t, err := Parse(DefaultName, defaultSource)
	if err != nil {
		panic(fmt.Sprintf("built-in Makefile template is invalid: %v", err))
	}
	return t
}

// Load reads and parses a template file.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &TemplateError{Template: path, Err: err}
	}
	return Parse(path, string(data))
}

// Parse parses template source.
func Parse(name, source string) (*Template, error) {
	t := &Template{Name: name, Source: source}

	if !strings.Contains(source, "{{") {
		t.legacy = true
		if err := checkLegacy(source); err != nil {
			return nil, &TemplateError{Template: name, Err: err}
		}
		return t, nil
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(source)
	if err != nil {
		return nil, &TemplateError{Template: name, Err: err}
	}
	t.tmpl = tmpl
	return t, nil
}

// Legacy reports whether the template uses $NAME placeholders.
func (t *Template) Legacy() bool {
	return t.legacy
}

// Render substitutes cfg into the template.
func (t *Template) Render(cfg buildconfig.BuildConfig) (string, error) {
	values := cfg.Placeholders()

	if t.legacy {
		out, err := substitute(t.Source, values)
		if err != nil {
			return "", &TemplateError{Template: t.Name, Err: err}
		}
		return out, nil
	}

	var b strings.Builder
	if err := t.tmpl.Execute(&b, values); err != nil {
		return "", &TemplateError{Template: t.Name, Err: err}
	}
	return b.String(), nil
}

// legacyRe matches "$$", "$name", "${name}" or a stray "$".
var legacyRe = regexp.MustCompile(`\$(?:(\$)|([_a-zA-Z][_a-zA-Z0-9]*)|\{([_a-zA-Z][_a-zA-Z0-9]*)\}|)`)

func checkLegacy(source string) error {
	for _, m := range legacyRe.FindAllStringSubmatchIndex(source, -1) {
		if m[2] < 0 && m[4] < 0 && m[6] < 0 {
			line := strings.Count(source[:m[0]], "\n") + 1
			return fmt.Errorf("invalid placeholder at line %d", line)
		}
	}
	return nil
}

func substitute(source string, values map[string]string) (string, error) {
	var b strings.Builder
	last := 0

	for _, m := range legacyRe.FindAllStringSubmatchIndex(source, -1) {
		b.WriteString(source[last:m[0]])
		last = m[1]

		var name string
		switch {
		case m[2] >= 0:
			b.WriteString("$")
			continue
		case m[4] >= 0:
			name = source[m[4]:m[5]]
		case m[6] >= 0:
			name = source[m[6]:m[7]]
		default:
			line := strings.Count(source[:m[0]], "\n") + 1
			return "", fmt.Errorf("invalid placeholder at line %d", line)
		}

		v, ok := values[name]
		if !ok {
			return "", fmt.Errorf("unknown placeholder %q", name)
		}
		b.WriteString(v)
	}

	b.WriteString(source[last:])
	return b.String(), nil
}
