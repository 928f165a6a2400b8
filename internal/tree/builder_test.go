package tree

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/grabsdl/grabs/internal/model"
)

// fakeResolver serves Documents from a canned hierarchy and counts how
// often each URL is resolved.
type fakeResolver struct {
	mu       sync.Mutex
	children map[string][]string
	fail     map[string]error
	resolves map[string]int
}

func newFakeResolver(children map[string][]string) *fakeResolver {
	return &fakeResolver{
		children: children,
		fail:     make(map[string]error),
		resolves: make(map[string]int),
	}
}

func (f *fakeResolver) ResolveDocument(_ context.Context, url string) (*model.Document, error) {
	f.mu.Lock()
	f.resolves[url]++
	f.mu.Unlock()

	if err, ok := f.fail[url]; ok {
		return nil, err
	}

	doc := &model.Document{URL: url, Ark: url}
	doc.ChildURLs = f.children[url]
	if len(doc.ChildURLs) > 0 {
		doc.Category = "CollectionIconography"
	}
	return doc, nil
}

func (f *fakeResolver) count(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resolves[url]
}

func countNodes(doc *model.Document) int {
	n := 1
	for _, child := range doc.Children {
		n += countNodes(child)
	}
	return n
}

func TestBuilder_NonRecursive(t *testing.T) {
	f := newFakeResolver(map[string][]string{
		"root": {"a", "b"},
	})

	b := NewBuilder(f, Options{Recursive: false})
	root, err := b.Build(context.Background(), "root")
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if root.Expanded {
		t.Error("root expanded despite non-recursive build")
	}
	if len(root.Children) != 0 {
		t.Errorf("got %d children, want 0", len(root.Children))
	}
	if len(root.ChildURLs) != 2 {
		t.Errorf("got %d child URLs, want 2", len(root.ChildURLs))
	}
	if f.count("a") != 0 || f.count("b") != 0 {
		t.Error("children resolved despite non-recursive build")
	}
}

func TestBuilder_Recursive(t *testing.T) {
	f := newFakeResolver(map[string][]string{
		"root": {"a", "b"},
		"a":    {"a1", "a2"},
	})

	b := NewBuilder(f, Options{Recursive: true})
	root, err := b.Build(context.Background(), "root")
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if countNodes(root) != 5 {
		t.Errorf("got %d nodes, want 5", countNodes(root))
	}
	if len(root.Children) != 2 {
		t.Fatalf("got %d children, want 2", len(root.Children))
	}

	// Children keep service order despite concurrent resolution.
	if root.Children[0].URL != "a" || root.Children[1].URL != "b" {
		t.Errorf("child order = [%s, %s], want [a, b]",
			root.Children[0].URL, root.Children[1].URL)
	}

	if len(b.Issues()) != 0 {
		t.Errorf("unexpected issues: %v", b.Issues())
	}
}

func TestBuilder_CycleRecordedNotTraversed(t *testing.T) {
	// a points back to root: the edge must be recorded, not followed.
	f := newFakeResolver(map[string][]string{
		"root": {"a"},
		"a":    {"root"},
	})

	b := NewBuilder(f, Options{Recursive: true})
	root, err := b.Build(context.Background(), "root")
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if countNodes(root) != 2 {
		t.Errorf("got %d nodes, want 2", countNodes(root))
	}
	if f.count("root") != 1 {
		t.Errorf("root resolved %d times, want 1", f.count("root"))
	}

	issues := b.Issues()
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(issues))
	}
	if !errors.Is(issues[0].Err, ErrCycleDetected) {
		t.Errorf("issue = %v, want ErrCycleDetected", issues[0].Err)
	}
	if issues[0].URL != "root" {
		t.Errorf("issue URL = %q, want %q", issues[0].URL, "root")
	}
}

func TestBuilder_DuplicateSuppressed(t *testing.T) {
	// "shared" is reachable through both a and b: it must resolve once and
	// appear once.
	f := newFakeResolver(map[string][]string{
		"root": {"a", "b"},
		"a":    {"shared"},
		"b":    {"shared"},
	})

	b := NewBuilder(f, Options{Recursive: true, Concurrency: 1})
	root, err := b.Build(context.Background(), "root")
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if f.count("shared") != 1 {
		t.Errorf("shared resolved %d times, want 1", f.count("shared"))
	}
	if countNodes(root) != 4 {
		t.Errorf("got %d nodes, want 4 (one per distinct identifier)", countNodes(root))
	}
	if len(b.Issues()) != 0 {
		t.Errorf("duplicates must be suppressed silently, got issues: %v", b.Issues())
	}
}

func TestBuilder_BranchFailureContinuesSiblings(t *testing.T) {
	f := newFakeResolver(map[string][]string{
		"root": {"bad", "good"},
	})
	f.fail["bad"] = fmt.Errorf("boom")

	b := NewBuilder(f, Options{Recursive: true})
	root, err := b.Build(context.Background(), "root")
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if len(root.Children) != 1 || root.Children[0].URL != "good" {
		t.Errorf("children = %v, want the surviving sibling only", root.Children)
	}

	issues := b.Issues()
	if len(issues) != 1 || issues[0].URL != "bad" {
		t.Fatalf("issues = %v, want one for the failed branch", issues)
	}
}

func TestBuilder_RootFailureFatal(t *testing.T) {
	f := newFakeResolver(nil)
	f.fail["root"] = fmt.Errorf("boom")

	b := NewBuilder(f, Options{Recursive: true})
	if _, err := b.Build(context.Background(), "root"); err == nil {
		t.Fatal("Build() succeeded on an unresolvable root")
	}
}

func TestBuilder_MaxDepth(t *testing.T) {
	f := newFakeResolver(map[string][]string{
		"root": {"a"},
		"a":    {"b"},
		"b":    {"c"},
	})

	b := NewBuilder(f, Options{Recursive: true, MaxDepth: 2})
	root, err := b.Build(context.Background(), "root")
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	// Depth 1 is a, depth 2 is b; b's child c stays unexpanded.
	if countNodes(root) != 3 {
		t.Errorf("got %d nodes, want 3", countNodes(root))
	}
	if f.count("c") != 0 {
		t.Error("node beyond max depth was resolved")
	}

	a := root.Children[0]
	if !a.Expanded {
		t.Error("a should be expanded")
	}
	bNode := a.Children[0]
	if bNode.Expanded {
		t.Error("b should be cut off by the depth guard")
	}
}
