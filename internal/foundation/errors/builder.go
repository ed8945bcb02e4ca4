package errors

// ErrorBuilder provides a fluent API for creating ClassifiedError instances so
// that error construction stays consistent across pipeline stages.
type ErrorBuilder struct {
	category ErrorCategory
	severity ErrorSeverity
	message  string
	cause    error
	context  ErrorContext
}

// NewError creates a new ErrorBuilder with the specified category and message.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{
		category: category,
		severity: SeverityError,
		message:  message,
		context:  make(ErrorContext),
	}
}

// WrapError creates a new ErrorBuilder that wraps an existing error.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	b := NewError(category, message)
	b.cause = err
	return b
}

// WithSeverity sets the error severity.
func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.severity = severity
	return b
}

// WithContext adds a context key-value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.context = b.context.Set(key, value)
	return b
}

// Fatal sets the severity to fatal.
func (b *ErrorBuilder) Fatal() *ErrorBuilder {
	return b.WithSeverity(SeverityFatal)
}

// Warning sets the severity to warning.
func (b *ErrorBuilder) Warning() *ErrorBuilder {
	return b.WithSeverity(SeverityWarning)
}

// Build creates the final ClassifiedError.
func (b *ErrorBuilder) Build() *ClassifiedError {
	return &ClassifiedError{
		category: b.category,
		severity: b.severity,
		message:  b.message,
		cause:    b.cause,
		context:  b.context,
	}
}

// Convenience constructors for the pipeline's error taxonomy.

// SourceError reports a missing or unreadable content root.
func SourceError(message string) *ErrorBuilder {
	return NewError(CategorySource, message).Fatal()
}

// ParseError reports a content parsing failure for the given file.
func ParseError(file, message string) *ErrorBuilder {
	return NewError(CategoryParse, message).Fatal().WithContext("file", file)
}

// RenderError reports a template evaluation failure for the given template.
func RenderError(template, message string) *ErrorBuilder {
	return NewError(CategoryRender, message).Fatal().WithContext("template", template)
}

// HookError reports an extension hook failure.
func HookError(hook string, cause error) *ErrorBuilder {
	return WrapError(cause, CategoryHook, "extension hook failed").Fatal().WithContext("hook", hook)
}

// ConfigError reports a configuration error.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal()
}

// FileSystemError reports a file system operation failure.
func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message).Fatal()
}
