package forms

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/formkit/logger"
	"github.com/kbukum/formkit/observability"
	"github.com/kbukum/formkit/storage"
)

// unsetFilename is reported by some clients for an empty file input.
const unsetFilename = "<fdopen>"

// Values is everything posted under one field name.
type Values struct {
	Files []*multipart.FileHeader
	Texts []string
}

// IsEmpty reports whether nothing was posted.
func (v Values) IsEmpty() bool { return len(v.Files) == 0 && len(v.Texts) == 0 }

// FileField is an upload form field. Its state after ProcessFormData
// belongs to one submission.
type FileField struct {
	name       string
	label      string
	validators []Validator
	autoSave   bool
	uploadDir  string
	backendRef storage.Ref

	uuidPrefix   Toggle
	keepFilename Toggle
	subfolders   Toggle

	// File is the raw upload, nil when no file was posted.
	File *multipart.FileHeader
	// Data is the computed destination path, empty when there is no file.
	Data string

	env         Env
	saved       bool
	backend     storage.Backend
	backendName string
}

// FieldOption configures a FileField.
type FieldOption func(*FileField)

// WithLabel sets the display label.
func WithLabel(label string) FieldOption {
	return func(f *FileField) { f.label = label }
}

// WithValidators appends validators, run in order by Form.Validate.
func WithValidators(v ...Validator) FieldOption {
	return func(f *FileField) { f.validators = append(f.validators, v...) }
}

// WithAutoSave controls whether files are saved during processing.
// The default is true.
func WithAutoSave(on bool) FieldOption {
	return func(f *FileField) { f.autoSave = on }
}

// WithUploadDir prefixes computed paths with dir.
func WithUploadDir(dir string) FieldOption {
	return func(f *FileField) { f.uploadDir = dir }
}

// WithBackend pins the field to a backend instead of the configured default.
func WithBackend(ref storage.Ref) FieldOption {
	return func(f *FileField) { f.backendRef = ref }
}

// WithUUIDPrefix overrides the upload_uuid_prefixes option.
func WithUUIDPrefix(t Toggle) FieldOption {
	return func(f *FileField) { f.uuidPrefix = t }
}

// WithKeepFilename overrides the upload_keep_filenames option.
func WithKeepFilename(t Toggle) FieldOption {
	return func(f *FileField) { f.keepFilename = t }
}

// WithSubfolders overrides the upload_subfolders option.
func WithSubfolders(t Toggle) FieldOption {
	return func(f *FileField) { f.subfolders = t }
}

// NewFileField creates an upload field named name.
func NewFileField(name string, opts ...FieldOption) *FileField {
	f := &FileField{name: name, label: name, autoSave: true}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the form field name.
func (f *FileField) Name() string { return f.name }

// Label returns the display label.
func (f *FileField) Label() string { return f.label }

// Saved reports whether the current file was written to the backend.
func (f *FileField) Saved() bool { return f.saved }

// Policy resolves the field's toggles against opts.
func (f *FileField) Policy(opts Options) Policy {
	def := opts.Policy()
	return Policy{
		UUIDPrefix:   f.uuidPrefix.Resolve(def.UUIDPrefix),
		KeepFilename: f.keepFilename.Resolve(def.KeepFilename),
		Subfolders:   f.subfolders.Resolve(def.Subfolders),
	}
}

// HasFile reports whether a real file was submitted.
func (f *FileField) HasFile() bool {
	return f.File != nil && f.File.Filename != "" && f.File.Filename != unsetFilename
}

// Filename returns the client supplied name of the submitted file.
func (f *FileField) Filename() string {
	if f.File == nil {
		return ""
	}
	return f.File.Filename
}

// ProcessFormData takes the field's submission. Posting nothing leaves the
// previous state untouched. Otherwise the first posted value becomes the raw
// file (a plain text value counts as no file), the destination path is
// computed and, with auto-save, the file is stored.
func (f *FileField) ProcessFormData(ctx context.Context, env Env, values Values) error {
	if values.IsEmpty() {
		return nil
	}
	f.env = env
	f.File = nil
	if len(values.Files) > 0 {
		f.File = values.Files[0]
	}
	f.Data = ""
	f.saved = false

	if !f.HasFile() {
		return nil
	}

	f.Data = GenerateFilename(f.File.Filename, f.Policy(env.Options))
	if f.uploadDir != "" {
		f.Data = path.Join(f.uploadDir, f.Data)
	}

	if f.autoSave {
		return f.SaveFile(ctx)
	}
	return nil
}

// Backend resolves the field's backend: the explicit one, else
// env.Options.Backend, else the registry default. The result is cached.
func (f *FileField) Backend(env Env) (storage.Backend, error) {
	if f.backend != nil {
		return f.backend, nil
	}
	ref := f.backendRef
	if ref.IsZero() {
		ref = env.defaultRef()
	}
	b, err := env.resolve(ref)
	if err != nil {
		return nil, err
	}
	f.backend = b
	f.backendName = backendLabel(ref, env)
	return b, nil
}

func backendLabel(ref storage.Ref, env Env) string {
	if name, ok := ref.Name(); ok {
		return name
	}
	if ref.IsZero() && env.Backends != nil {
		return env.Backends.Config().Provider
	}
	return ref.String()
}

// SaveFile writes the raw file to Data through the field's backend.
func (f *FileField) SaveFile(ctx context.Context) (err error) {
	if !f.HasFile() || f.Data == "" {
		return fmt.Errorf("forms: field %s has no file to save", f.name)
	}
	b, err := f.Backend(f.env)
	if err != nil {
		return err
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanFileSave, trace.WithAttributes(
		attribute.String(observability.AttrField, f.name),
		attribute.String(observability.AttrBackend, f.backendName),
		attribute.String(observability.AttrPath, f.Data),
		attribute.Int64(observability.AttrSize, f.File.Size),
	))
	start := time.Now()
	defer func() {
		status := observability.StatusOK
		if err != nil {
			status = observability.StatusError
		}
		observability.Uploads().RecordSave(ctx, f.backendName, status, f.File.Size, time.Since(start))
		observability.EndSpan(span, err)
	}()

	src, err := f.File.Open()
	if err != nil {
		return fmt.Errorf("forms: open upload %q: %w", f.File.Filename, err)
	}
	defer src.Close()

	if err = b.Save(ctx, f.Data, src); err != nil {
		return err
	}
	f.saved = true

	f.env.logger().Debug("file saved", logger.Fields(
		"field", f.name,
		logger.FieldBackend, f.backendName,
		logger.FieldPath, f.Data,
		"size", f.File.Size,
	))
	return nil
}

// DeleteFile removes a file stored by SaveFile. Backends without delete
// support leave the file in place.
func (f *FileField) DeleteFile(ctx context.Context) (err error) {
	if !f.saved {
		return nil
	}
	b, err := f.Backend(f.env)
	if err != nil {
		return err
	}
	d, ok := b.(storage.Deleter)
	if !ok {
		f.env.logger().Warn("backend cannot delete files", logger.Fields(logger.FieldBackend, f.backendName, logger.FieldPath, f.Data))
		return nil
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanFileDelete, trace.WithAttributes(
		attribute.String(observability.AttrField, f.name),
		attribute.String(observability.AttrPath, f.Data),
	))
	defer func() { observability.EndSpan(span, err) }()

	if err = d.Delete(ctx, f.Data); err != nil {
		return err
	}
	f.saved = false
	return nil
}

// URL returns the URL of the current file through the field's backend.
func (f *FileField) URL(ctx context.Context, params map[string]string) (string, error) {
	if f.Data == "" {
		return "", fmt.Errorf("forms: field %s has no file", f.name)
	}
	b, err := f.Backend(f.env)
	if err != nil {
		return "", err
	}
	return b.URLFor(ctx, f.Data, params)
}
