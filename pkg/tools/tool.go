package tools

import (
	"context"
	"fmt"
)

// ToolDefinition describes a tool's interface to the agent host
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Schema      map[string]interface{} `json:"input_schema"` // JSON Schema
}

// Tool represents a callable tool. Execute reports failures as typed errors
// (InputError, ConfigError, UpstreamError, PayloadError, ErrNoBackend); Invoke
// turns them into user-facing text.
type Tool interface {
	Definition() ToolDefinition
	Execute(ctx context.Context, args map[string]interface{}) (string, error)
}

// Registry manages the available tools
type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

func (r *Registry) Register(t Tool) {
	name := t.Definition().Name
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = t
}

func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// List returns definitions in registration order
func (r *Registry) List() []ToolDefinition {
	defs := make([]ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Call runs the named tool through Invoke. It always returns text.
func (r *Registry) Call(ctx context.Context, name string, args map[string]interface{}) string {
	t, ok := r.Get(name)
	if !ok {
		return fmt.Sprintf("%s Unknown tool: %s", FailureMarker, name)
	}
	return Invoke(ctx, t, args)
}

func objectSchema(required []string, props map[string]interface{}) map[string]interface{} {
	s := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}
