// Package forms provides an upload field for multipart forms.
//
// A FileField computes a destination path for the submitted file from a
// filename policy (UUID prefixing, filename preservation, subfolder
// sharding), optionally saves it right away through a storage backend, and
// keeps the computed path as its value. Form is a minimal host that feeds
// fields from an *http.Request and collects validator messages.
//
//	env := forms.Env{Options: cfg.Forms, Backends: registry}
//	form := forms.New(env,
//	    forms.NewFileField("avatar",
//	        forms.WithUploadDir("avatars"),
//	        forms.WithValidators(forms.FileRequired(""), forms.FileAllowed([]string{"png", "jpg"}, "")),
//	    ),
//	)
//	if err := form.ProcessRequest(ctx, r, 32<<20); err != nil {
//	    return err
//	}
//	if err := form.Validate(ctx); err != nil {
//	    form.Discard(ctx)
//	    return err
//	}
//	url, _ := forms.URLFor(ctx, env, form.Field("avatar").Data, storage.Ref{}, nil)
package forms
