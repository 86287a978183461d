package backend

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/kbukum/agentflow/llm"
)

// DefaultRegistry returns a registry with the built-in factories
// registered: "stub", "llm", and "subprocess".
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.RegisterFactory("stub", StubFactory)
	r.RegisterFactory("llm", LLMFactory)
	r.RegisterFactory("subprocess", SubprocessFactory)
	return r
}

// StubFactory builds a Stub from a config map. Recognized keys: "name"
// (string) and "outputs" (map of node id to canned output).
func StubFactory(cfg map[string]any) (Backend, error) {
	name, _ := cfg["name"].(string)
	stub := NewStub(name)
	if outputs, ok := cfg["outputs"].(map[string]any); ok {
		for nodeID, output := range outputs {
			stub.WithOutput(nodeID, output)
		}
	}
	return stub, nil
}

// LLMFactory builds an LLM backend from llm.Config keys.
func LLMFactory(cfg map[string]any) (Backend, error) {
	var c llm.Config
	if err := decode(cfg, &c); err != nil {
		return nil, fmt.Errorf("backend: decoding llm config: %w", err)
	}
	client, err := llm.New(c)
	if err != nil {
		return nil, err
	}
	return NewLLM(client), nil
}

// SubprocessFactory builds a worker-process backend from SubprocessConfig keys.
func SubprocessFactory(cfg map[string]any) (Backend, error) {
	var c SubprocessConfig
	if err := decode(cfg, &c); err != nil {
		return nil, fmt.Errorf("backend: decoding subprocess config: %w", err)
	}
	return NewSubprocess(c)
}

// decode maps loosely typed config onto a typed struct, converting
// duration strings along the way.
func decode(cfg map[string]any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		Result:     target,
	})
	if err != nil {
		return err
	}
	return dec.Decode(cfg)
}
