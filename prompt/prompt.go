package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/kbukum/agentflow/graph"
	"github.com/kbukum/agentflow/util"
)

// Input carries everything a scaffold needs to produce the text sent to a model.
type Input struct {
	// Kind selects the scaffold. Unknown kinds render the general scaffold.
	Kind graph.Kind
	// Task is the work item's instruction text.
	Task string
	// RunInput is the opaque input the whole run was started with. May be nil.
	RunInput any
	// Dependencies maps dependency node id to that node's recorded output.
	Dependencies map[string]any
}

// scaffold is the data handed to a template during rendering.
type scaffold struct {
	Task         string
	Input        string
	Dependencies []dependency
}

type dependency struct {
	ID    string
	Value string
}

// Catalog holds parsed scaffolds keyed by kind.
type Catalog struct {
	templates map[graph.Kind]*template.Template
}

// NewCatalog parses the given sources into a catalog. Kinds absent from the
// map fall back to the general scaffold at render time, so a partial map is
// valid as long as it covers general.
func NewCatalog(sources map[graph.Kind]string) (*Catalog, error) {
	c := &Catalog{templates: make(map[graph.Kind]*template.Template, len(sources))}
	for kind, src := range sources {
		tmpl, err := template.New(string(kind)).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("prompt: parsing %s scaffold: %w", kind, err)
		}
		c.templates[kind] = tmpl
	}
	return c, nil
}

var defaultCatalog = func() *Catalog {
	c, err := NewCatalog(DefaultSources())
	if err != nil {
		panic(err)
	}
	return c
}()

// Default returns the catalog of built-in scaffolds.
func Default() *Catalog { return defaultCatalog }

// Render produces the prompt text for the given input.
func (c *Catalog) Render(in Input) (string, error) {
	kind := in.Kind
	if !kind.Valid() {
		kind = graph.KindGeneral
	}
	tmpl, ok := c.templates[kind]
	if !ok {
		tmpl, ok = c.templates[graph.KindGeneral]
		if !ok {
			return "", fmt.Errorf("prompt: no scaffold for kind %q and no general fallback", in.Kind)
		}
	}

	data := scaffold{
		Task:         strings.TrimSpace(in.Task),
		Input:        formatValue(in.RunInput),
		Dependencies: formatDependencies(in.Dependencies),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("prompt: rendering %s scaffold: %w", kind, err)
	}
	return buf.String(), nil
}

// Render renders the input against the built-in catalog.
func Render(in Input) (string, error) {
	return defaultCatalog.Render(in)
}

// formatValue turns an arbitrary value into prompt text. Strings pass
// through, everything else is rendered as indented JSON.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// formatDependencies renders dependency values in id order so the same
// inputs always produce the same prompt.
func formatDependencies(deps map[string]any) []dependency {
	if len(deps) == 0 {
		return nil
	}
	ids := util.Keys(deps)
	sort.Strings(ids)
	out := make([]dependency, 0, len(ids))
	for _, id := range ids {
		out = append(out, dependency{ID: id, Value: formatValue(deps[id])})
	}
	return out
}
