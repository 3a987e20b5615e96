// Package textutil provides text processing utilities for filename
// sanitization and token cleanup.
//
// The primary use cases are:
//   - Replacing characters that are illegal in filenames
//   - Collapsing underscore runs left behind by token substitution
package textutil
