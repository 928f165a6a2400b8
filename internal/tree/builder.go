package tree

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/grabsdl/grabs/internal/model"
	"golang.org/x/sync/errgroup"
)

// ErrCycleDetected marks a child edge that points back to an ancestor on
// the current resolution path. The edge is recorded and not traversed;
// the condition is informational, never fatal.
var ErrCycleDetected = errors.New("cycle detected")

// Issue records one non-fatal condition hit while building a tree: a
// failed branch, a cyclic edge, or a suppressed duplicate.
type Issue struct {
	// URL is the entity URL of the affected branch.
	URL string

	// Err describes the condition. errors.Is(Err, ErrCycleDetected)
	// identifies cyclic edges.
	Err error
}

// Resolver is the metadata collaborator the builder depends on.
// *bsp.Resolver satisfies it; tests inject fakes.
type Resolver interface {
	ResolveDocument(ctx context.Context, url string) (*model.Document, error)
}

// Options controls how a tree is built.
type Options struct {
	// Recursive enables child resolution for collections. When false,
	// children are recorded as URLs only and the root is left unexpanded.
	Recursive bool

	// MaxDepth limits recursion depth when positive: children deeper than
	// MaxDepth levels below the root are left unexpanded. Zero means
	// unlimited.
	MaxDepth int

	// Concurrency bounds how many sibling branches resolve in parallel.
	// Values below one fall back to DefaultConcurrency.
	Concurrency int
}

// DefaultConcurrency is the sibling-resolution bound used when Options
// does not set one.
const DefaultConcurrency = 4

// Builder resolves a root entity URL into a Document tree.
//
// The builder guarantees termination on cyclic hierarchies by keeping the
// set of identifiers on the active resolution path (one copy per branch)
// and skipping any child already on it. Identifiers reachable through more
// than one path are resolved once: later encounters are suppressed, so
// every distinct identifier yields exactly one node.
//
// Failure of one branch never aborts its siblings: the branch is dropped,
// the failure is recorded as an Issue, and the build goes on. Only root
// resolution failure is fatal.
//
// A Builder is single-use: create one per Build call.
type Builder struct {
	resolver Resolver
	opts     Options

	mu     sync.Mutex
	seen   map[string]struct{}
	issues []Issue
}

// NewBuilder creates a Builder using the given metadata resolver.
func NewBuilder(resolver Resolver, opts Options) *Builder {
	if opts.Concurrency < 1 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Builder{
		resolver: resolver,
		opts:     opts,
		seen:     make(map[string]struct{}),
	}
}

// Build resolves rootURL into a Document tree according to the builder's
// Options. The returned error is non-nil only when the root itself cannot
// be resolved; partial failures below the root are reported via Issues.
func (b *Builder) Build(ctx context.Context, rootURL string) (*model.Document, error) {
	b.markSeen(rootURL)

	root, err := b.resolver.ResolveDocument(ctx, rootURL)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", rootURL, err)
	}

	if b.opts.Recursive && root.IsCollection() {
		path := map[string]struct{}{rootURL: {}}
		b.expand(ctx, root, path, 1)
	}

	return root, nil
}

// Issues returns the non-fatal conditions recorded during the last Build,
// in no particular order.
func (b *Builder) Issues() []Issue {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Issue, len(b.issues))
	copy(out, b.issues)
	return out
}

// expand resolves the children of doc in parallel and recurses into child
// collections. path holds the identifiers from the root to doc; each
// branch gets its own copy so sibling branches never share mutable state.
// depth is the tree depth of the children about to be resolved.
func (b *Builder) expand(ctx context.Context, doc *model.Document, path map[string]struct{}, depth int) {
	doc.Expanded = true

	// Index-addressed results keep children in service order despite
	// concurrent resolution.
	resolved := make([]*model.Document, len(doc.ChildURLs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Concurrency)

	for i, childURL := range doc.ChildURLs {
		i, childURL := i, childURL
		g.Go(func() error {
			if _, onPath := path[childURL]; onPath {
				b.record(childURL, fmt.Errorf("%w: %s is an ancestor of itself", ErrCycleDetected, childURL))
				return nil
			}
			if !b.markSeen(childURL) {
				// Already resolved through another path.
				return nil
			}

			child, err := b.resolver.ResolveDocument(ctx, childURL)
			if err != nil {
				b.record(childURL, err)
				return nil
			}
			resolved[i] = child

			if !child.IsCollection() {
				return nil
			}
			if b.opts.MaxDepth > 0 && depth >= b.opts.MaxDepth {
				// Depth guard: stop expanding this branch, keep the node.
				return nil
			}

			branchPath := make(map[string]struct{}, len(path)+1)
			for id := range path {
				branchPath[id] = struct{}{}
			}
			branchPath[childURL] = struct{}{}
			b.expand(ctx, child, branchPath, depth+1)
			return nil
		})
	}

	// Workers never return errors; Wait only observes ctx cancellation.
	_ = g.Wait()

	for _, child := range resolved {
		if child != nil {
			doc.Children = append(doc.Children, child)
		}
	}
}

// markSeen records url in the global seen set. It returns false when the
// url was already there.
func (b *Builder) markSeen(url string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.seen[url]; ok {
		return false
	}
	b.seen[url] = struct{}{}
	return true
}

func (b *Builder) record(url string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.issues = append(b.issues, Issue{URL: url, Err: err})
}
