package validation

import (
	"testing"

	"github.com/kbukum/formkit/errors"
)

func TestValidatorNoErrors(t *testing.T) {
	v := New()
	if v.HasErrors() {
		t.Error("expected no errors")
	}
	if err := v.Validate(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestValidatorAddError(t *testing.T) {
	v := New()
	v.AddError("file", "File type not allowed")
	v.AddError("file", "This field is required.")
	v.AddError("title", "is invalid")

	appErr := v.Validate()
	if appErr == nil {
		t.Fatal("expected error")
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	if appErr.HTTPStatus != 400 {
		t.Errorf("expected 400, got %d", appErr.HTTPStatus)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 3 {
		t.Fatalf("expected 3 field errors in details, got %v", appErr.Details["fields"])
	}
	if got := v.FieldErrors("file"); len(got) != 2 || got[0] != "File type not allowed" {
		t.Errorf("unexpected file errors %v", got)
	}
}

func TestValidatorByField(t *testing.T) {
	v := New()
	v.AddError("file", "too big")
	v.AddError("avatar", "File type not allowed")
	v.AddError("file", "File type not allowed")

	grouped := v.ByField()
	if len(grouped) != 2 || len(grouped["file"]) != 2 || grouped["file"][1] != "File type not allowed" {
		t.Errorf("unexpected grouping %v", grouped)
	}
	byField, ok := v.Validate().Details["by_field"].(map[string][]string)
	if !ok || len(byField["avatar"]) != 1 {
		t.Errorf("expected by_field details, got %v", byField)
	}
}

type sampleConfig struct {
	Provider string `mapstructure:"provider" validate:"required,oneof=local s3"`
	MaxSize  int    `mapstructure:"max_size" validate:"min=1"`
	Endpoint string `validate:"omitempty,url"`
}

func TestValidateStruct(t *testing.T) {
	if err := ValidateStruct(sampleConfig{Provider: "local", MaxSize: 1}); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	err := ValidateStruct(sampleConfig{Provider: "", MaxSize: 0, Endpoint: "not a url"})
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	fields := appErr.Details["fields"].([]FieldError)
	if len(fields) != 3 {
		t.Fatalf("expected 3 field errors, got %v", fields)
	}
	if fields[0].Field != "provider" || fields[0].Message != "is required" {
		t.Errorf("unexpected first error %+v", fields[0])
	}
	if fields[1].Field != "max_size" {
		t.Errorf("expected mapstructure name max_size, got %s", fields[1].Field)
	}
	if fields[2].Field != "endpoint" {
		t.Errorf("expected snake case fallback endpoint, got %s", fields[2].Field)
	}
}
