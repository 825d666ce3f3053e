package ctxkey

import (
	"context"
	"os"
)

type contextKey string

func (c contextKey) String() string {
	return "go-filter " + string(c)
}

var (
	contextKeyCwd = contextKey("cwd")
)

// WithCwd returns a copy of ctx carrying cwd as the working directory
// patterns are resolved against.
func WithCwd(ctx context.Context, cwd string) context.Context {
	return context.WithValue(ctx, contextKeyCwd, cwd)
}

// Cwd gets the working directory from the context. If none
// is present then the process working directory is returned,
// and failing that "/".
func Cwd(ctx context.Context) string {
	cwd, ok := ctx.Value(contextKeyCwd).(string)
	if cwd == "" || !ok {
		wd, err := os.Getwd()
		if err != nil {
			return "/"
		}
		return wd
	}
	return cwd
}
