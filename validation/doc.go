// Package validation collects field-level validation failures and turns them
// into a single *errors.AppError with code INVALID_INPUT.
//
// Two styles are supported. Validator gathers messages imperatively, which is
// what form fields use:
//
//	v := validation.New()
//	v.AddError("file", "File type not allowed")
//	if err := v.Validate(); err != nil {
//	    return err
//	}
//
// ValidateStruct checks struct tags through go-playground/validator and is
// used for configuration structs.
package validation
