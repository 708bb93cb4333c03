package parse

import "github.com/signadot/yaml-kit/go-yamlkit/token"

type parseOpts struct {
	resync    bool
	onComment func(*token.Token)
}

type ParseOption func(*parseOpts)

// Resync lets the parser recover at the next document boundary after
// an error, so one bad document in a multi-document stream does not
// abort the rest. Errors are still collected; see (*Parser).Errs. The
// default is strict: the first error ends the stream.
func Resync(v bool) ParseOption {
	return func(o *parseOpts) { o.resync = v }
}

// OnComment registers a callback invoked for each comment token as it
// is scanned. The event stream itself carries no comments.
func OnComment(fn func(*token.Token)) ParseOption {
	return func(o *parseOpts) { o.onComment = fn }
}
