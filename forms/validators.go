package forms

import (
	"context"
	"fmt"
	"strings"

	"github.com/kbukum/formkit/util"
)

// Default validator messages.
const (
	MessageFileNotAllowed = "File type not allowed"
	MessageFileRequired   = "This field is required."
)

// Validator checks a processed field.
type Validator interface {
	Validate(ctx context.Context, f *FileField) error
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(ctx context.Context, f *FileField) error

// Validate calls fn.
func (fn ValidatorFunc) Validate(ctx context.Context, f *FileField) error { return fn(ctx, f) }

// ValidationError is a user-facing validation failure. Stop ends the
// field's validator chain.
type ValidationError struct {
	Message string
	Stop    bool
}

func (e *ValidationError) Error() string { return e.Message }

// FileAllowed rejects files whose extension, compared case-insensitively,
// is not in extensions. Entries may carry a leading dot. Fields without a
// file pass.
func FileAllowed(extensions []string, message string) ValidatorFunc {
	allowed := util.NormalizeExtensions(extensions)
	if message == "" {
		message = MessageFileNotAllowed
	}
	return func(_ context.Context, f *FileField) error {
		if !f.HasFile() {
			return nil
		}
		name := strings.ToLower(f.File.Filename)
		ext := name[strings.LastIndex(name, ".")+1:]
		if _, ok := allowed[ext]; ok {
			return nil
		}
		return &ValidationError{Message: message}
	}
}

// FileRequired fails when no file was submitted and stops further checks.
func FileRequired(message string) ValidatorFunc {
	if message == "" {
		message = MessageFileRequired
	}
	return func(_ context.Context, f *FileField) error {
		if f.HasFile() {
			return nil
		}
		return &ValidationError{Message: message, Stop: true}
	}
}

// FileMaxSize rejects files larger than limit bytes. Fields without a file
// pass.
func FileMaxSize(limit int64, message string) ValidatorFunc {
	if message == "" {
		message = fmt.Sprintf("File must be at most %d bytes.", limit)
	}
	return func(_ context.Context, f *FileField) error {
		if !f.HasFile() || f.File.Size <= limit {
			return nil
		}
		return &ValidationError{Message: message}
	}
}
