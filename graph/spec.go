package graph

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/agentflow/validation"
)

// Spec is the YAML representation of a Graph.
type Spec struct {
	// Name is the graph identifier.
	Name string `yaml:"name" json:"name" validate:"required"`
	// Entry optionally names the entry node.
	Entry string `yaml:"entry,omitempty" json:"entry,omitempty"`
	// ResultKeys optionally names the output keys composing the final result.
	ResultKeys []string `yaml:"result_keys,omitempty" json:"result_keys,omitempty"`
	// Metadata carries descriptive key/value pairs.
	Metadata map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"`
	// Nodes defines the graph's node specifications.
	Nodes []NodeSpec `yaml:"nodes" json:"nodes" validate:"required,min=1,dive"`
}

// NodeSpec defines a node within a graph spec.
type NodeSpec struct {
	ID        string            `yaml:"id" json:"id" validate:"required"`
	Kind      string            `yaml:"kind,omitempty" json:"kind,omitempty" validate:"omitempty,oneof=explore plan analyze generate verify general"`
	Task      string            `yaml:"task" json:"task" validate:"required"`
	DependsOn []string          `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	Tier      string            `yaml:"tier,omitempty" json:"tier,omitempty" validate:"omitempty,oneof=lite standard premium"`
	OutputKey string            `yaml:"output_key,omitempty" json:"output_key,omitempty"`
	Metadata  map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// ToGraph converts the spec into a Graph. Structural validity (dependency
// resolution, cycles) is still checked later by ComputeOrder.
func (s *Spec) ToGraph() (*Graph, error) {
	g := &Graph{
		Name:       s.Name,
		Entry:      s.Entry,
		ResultKeys: s.ResultKeys,
		Metadata:   s.Metadata,
		Nodes:      make([]Node, 0, len(s.Nodes)),
	}
	for _, ns := range s.Nodes {
		kind, err := ParseKind(ns.Kind)
		if err != nil {
			return nil, fmt.Errorf("graph: node %q: %w", ns.ID, err)
		}
		g.Nodes = append(g.Nodes, Node{
			ID:        ns.ID,
			Kind:      kind,
			Task:      ns.Task,
			DependsOn: ns.DependsOn,
			Tier:      ns.Tier,
			OutputKey: ns.OutputKey,
			Metadata:  ns.Metadata,
		})
	}
	return g, nil
}

// Load parses a YAML graph definition.
func Load(data []byte) (*Graph, error) {
	var s Spec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("graph: parsing definition: %w", err)
	}
	return fromSpec(&s)
}

// LoadFile loads a graph definition from a YAML file.
func LoadFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Spec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("graph: parsing %s: %w", path, err)
	}
	return fromSpec(&s)
}

func fromSpec(s *Spec) (*Graph, error) {
	if err := validation.Validate(s); err != nil {
		return nil, err
	}
	return s.ToGraph()
}

// Loader loads graph definitions by name.
type Loader interface {
	Load(name string) (*Graph, error)
}

// FileLoader loads graph definitions from YAML files on disk.
type FileLoader struct {
	dirs []string
}

// NewFileLoader creates a loader that searches the given directories for
// graph YAML files.
func NewFileLoader(dirs ...string) Loader {
	return &FileLoader{dirs: dirs}
}

// Load searches for a graph definition by name across configured
// directories. It looks for {name}.yaml and {name}.yml in each directory
// and one level of subdirectories.
func (l *FileLoader) Load(name string) (*Graph, error) {
	for _, dir := range l.dirs {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, name+ext)
			if _, err := os.Stat(path); err == nil {
				return LoadFile(path)
			}
			matches, _ := filepath.Glob(filepath.Join(dir, "*", name+ext))
			if len(matches) > 0 {
				return LoadFile(matches[0])
			}
		}
	}
	return nil, fmt.Errorf("graph: definition %q not found in %v", name, l.dirs)
}
