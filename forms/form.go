package forms

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/kbukum/formkit/errors"
	"github.com/kbukum/formkit/logger"
	"github.com/kbukum/formkit/observability"
	"github.com/kbukum/formkit/validation"
)

// Form hosts a set of upload fields for one request.
type Form struct {
	env    Env
	fields []*FileField
	byName map[string]*FileField
	errs   *validation.Validator
}

// New creates a form over fields. Fields must not be shared between forms.
func New(env Env, fields ...*FileField) *Form {
	f := &Form{
		env:    env,
		fields: fields,
		byName: make(map[string]*FileField, len(fields)),
		errs:   validation.New(),
	}
	for _, field := range fields {
		field.env = env
		f.byName[field.Name()] = field
	}
	return f
}

// Field returns the field named name, or nil.
func (f *Form) Field(name string) *FileField { return f.byName[name] }

// Fields returns the fields in declaration order.
func (f *Form) Fields() []*FileField { return f.fields }

// ProcessRequest parses a multipart request and processes every field.
// A request that is not multipart is reported as invalid input.
func (f *Form) ProcessRequest(ctx context.Context, r *http.Request, maxMemory int64) error {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return apperrors.Validation("request must be multipart/form-data").WithCause(err)
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperrors.TooLarge(tooLarge.Limit).WithCause(err)
		}
		return apperrors.Validation("malformed multipart form").WithCause(err)
	}
	return f.ProcessMultipart(ctx, r.MultipartForm)
}

// ProcessMultipart feeds each field the values posted under its name. The
// first field error stops processing and is returned.
func (f *Form) ProcessMultipart(ctx context.Context, mf *multipart.Form) (err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanFormParse, trace.WithAttributes(
		attribute.Int("formkit.fields", len(f.fields)),
	))
	defer func() { observability.EndSpan(span, err) }()

	f.errs = validation.New()
	if mf == nil {
		return nil
	}
	for _, field := range f.fields {
		values := Values{Files: mf.File[field.Name()], Texts: mf.Value[field.Name()]}
		if err = field.ProcessFormData(ctx, f.env, values); err != nil {
			return fmt.Errorf("forms: field %s: %w", field.Name(), err)
		}
	}
	return nil
}

// Validate runs every field's validators. User-facing failures are
// collected into an INVALID_INPUT AppError; any other validator error is
// returned as is.
func (f *Form) Validate(ctx context.Context) error {
	f.errs = validation.New()
	for _, field := range f.fields {
		failed := false
		for _, v := range field.validators {
			err := v.Validate(ctx, field)
			if err == nil {
				continue
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				return err
			}
			failed = true
			f.errs.AddError(field.Name(), ve.Message)
			if ve.Stop {
				break
			}
		}
		if failed && field.HasFile() {
			observability.Uploads().RecordRejected(ctx, field.Name())
		}
	}
	if appErr := f.errs.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// Errors returns the messages recorded by the last Validate call for name.
func (f *Form) Errors(name string) []string { return f.errs.FieldErrors(name) }

// Discard deletes every auto-saved file. Failures are logged, not returned.
func (f *Form) Discard(ctx context.Context) {
	for _, field := range f.fields {
		if !field.Saved() {
			continue
		}
		if err := field.DeleteFile(ctx); err != nil {
			f.env.logger().Warn("failed to discard upload", logger.Fields(
				"field", field.Name(),
				logger.FieldPath, field.Data,
				logger.FieldError, err.Error(),
			))
		}
	}
}
