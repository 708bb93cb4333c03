package compose

// DupPolicy selects what to do when a mapping repeats a key.
type DupPolicy int

const (
	// DupError rejects the document. This is the default.
	DupError DupPolicy = iota
	// DupFirstWins keeps the first pair and drops later ones.
	DupFirstWins
	// DupLastWins replaces the value of the earlier pair.
	DupLastWins
)

func (p DupPolicy) String() string {
	switch p {
	case DupError:
		return "error"
	case DupFirstWins:
		return "first-wins"
	case DupLastWins:
		return "last-wins"
	}
	return "<unknown policy>"
}

type composeOpts struct {
	maxNodes      int
	maxDepth      int
	maxAliasDepth int
	onDup         DupPolicy
}

const (
	defaultMaxNodes      = 1 << 20
	defaultMaxDepth      = 10000
	defaultMaxAliasDepth = 100
)

func defaultOpts() composeOpts {
	return composeOpts{
		maxNodes:      defaultMaxNodes,
		maxDepth:      defaultMaxDepth,
		maxAliasDepth: defaultMaxAliasDepth,
	}
}

type Option func(*composeOpts)

// MaxNodes bounds the total node count of a document, counting each
// alias as the full expansion of its target. Zero or negative means
// unlimited.
func MaxNodes(n int) Option {
	return func(o *composeOpts) { o.maxNodes = n }
}

// MaxDepth bounds container nesting. Zero or negative means
// unlimited.
func MaxDepth(n int) Option {
	return func(o *composeOpts) { o.maxDepth = n }
}

// MaxAliasDepth bounds how deeply aliases may nest through their
// targets. Zero or negative means unlimited.
func MaxAliasDepth(n int) Option {
	return func(o *composeOpts) { o.maxAliasDepth = n }
}

// OnDuplicateKey sets the duplicate key policy.
func OnDuplicateKey(p DupPolicy) Option {
	return func(o *composeOpts) { o.onDup = p }
}
