// Package tree builds Document trees by recursively resolving collection
// children through a metadata Resolver.
//
// # Guarantees
//
//   - Termination on cyclic hierarchies: a child already on the active
//     resolution path is skipped and recorded as an Issue wrapping
//     ErrCycleDetected.
//   - One node per distinct identifier: re-encounters through other paths
//     are suppressed.
//   - Partial success: a failing branch is recorded and dropped, siblings
//     continue. Only root resolution failure aborts the build.
//
// # Usage
//
//	builder := tree.NewBuilder(resolver, tree.Options{Recursive: true})
//	root, err := builder.Build(ctx, rootURL)
//	if err != nil {
//	    return err // root failure is the only fatal case
//	}
//	for _, issue := range builder.Issues() {
//	    log.Printf("skipped %s: %v", issue.URL, issue.Err)
//	}
package tree
