package errors

import "maps"

// ErrorCategory represents the broad category of an error for classification
// and reporting.
type ErrorCategory string

const (
	// CategorySource covers a missing or unreadable content root.
	CategorySource ErrorCategory = "source"
	// CategoryParse covers front-matter and content parsing failures.
	CategoryParse ErrorCategory = "parse"
	// CategoryRender covers template evaluation failures.
	CategoryRender ErrorCategory = "render"
	// CategoryHook covers failures returned by extension hooks.
	CategoryHook ErrorCategory = "hook"

	CategoryConfig     ErrorCategory = "config"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the build completely
	SeverityError   ErrorSeverity = "error"   // Fails the current operation
	SeverityWarning ErrorSeverity = "warning" // Reported, build continues
)

// ErrorContext provides structured context for errors (file paths, template
// names, language codes).
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, exists := c[key]
	return value, exists
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	if value, exists := c.Get(key); exists {
		if str, ok := value.(string); ok {
			return str, true
		}
	}
	return "", false
}

// Merge combines this context with another, the other taking precedence.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	if len(other) == 0 {
		return c
	}
	merged := make(ErrorContext, len(c)+len(other))
	maps.Copy(merged, c)
	maps.Copy(merged, other)
	return merged
}
