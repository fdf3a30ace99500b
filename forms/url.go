package forms

import (
	"context"

	"github.com/kbukum/formkit/storage"
)

// URLFor returns the URL of a stored file. A zero ref uses
// env.Options.Backend. params are passed to the backend unchanged.
func URLFor(ctx context.Context, env Env, filename string, ref storage.Ref, params map[string]string) (string, error) {
	b, err := env.resolve(ref)
	if err != nil {
		return "", err
	}
	return b.URLFor(ctx, filename, params)
}
