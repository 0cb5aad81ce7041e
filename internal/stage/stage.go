package stage

import (
	"context"
	"io"
)

// Stager spools image bytes to local disk before they are shipped to the
// external file-hosting API. The returned cleanup func removes the staged
// file; callers must run it on every exit path so staged images never
// accumulate.
type Stager interface {
	Stage(ctx context.Context, prefix, mimeType string, r io.Reader) (path string, cleanup func(), err error)
}
