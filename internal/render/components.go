package render

import (
	"fmt"
	"html/template"
)

// Component is a named, parameterized renderable unit invocable from
// templates. It receives the merged render context and call-site parameters.
type Component func(params map[string]any) (template.HTML, error)

// Registry maps component names to renderers. It is constructed once per
// build from the built-in table merged with caller-supplied overrides and
// passed down explicitly, never read from global state.
type Registry map[string]Component

// NewRegistry merges caller overrides over the built-in component table.
func NewRegistry(overrides Registry) Registry {
	merged := Registry{}
	for name, c := range overrides {
		merged[name] = c
	}
	return merged
}

// render invokes a registered component with merged context+params. An
// unregistered name yields an empty string, not an error; the template keeps
// rendering.
func (r Registry) render(name string, ctx map[string]any, params map[string]any) (template.HTML, error) {
	c, ok := r[name]
	if !ok {
		return "", nil
	}
	merged := make(map[string]any, len(ctx)+len(params))
	for k, v := range ctx {
		merged[k] = v
	}
	for k, v := range params {
		merged[k] = v
	}
	out, err := c(merged)
	if err != nil {
		return "", fmt.Errorf("component %q: %w", name, err)
	}
	return out, nil
}

// pairsToMap converts a template call's trailing key/value arguments into a
// parameter map: {{ component "badge" "label" "new" "count" 3 }}.
func pairsToMap(args []any) (map[string]any, error) {
	if len(args)%2 != 0 {
		return nil, fmt.Errorf("component parameters must be key/value pairs, got %d arguments", len(args))
	}
	params := make(map[string]any, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			return nil, fmt.Errorf("component parameter key %v is not a string", args[i])
		}
		params[key] = args[i+1]
	}
	return params, nil
}
