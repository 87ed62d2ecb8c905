package dataset

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/hupe1980/crossrank/blobstore"
	"github.com/hupe1980/crossrank/model"
)

// ErrNoIndices is returned when no index file could be resolved.
var ErrNoIndices = fmt.Errorf("%w: no indices", model.ErrConfiguration)

// SplitPatterns splits every pattern on commas, trims the parts and drops
// empty ones.
func SplitPatterns(patterns []string) []string {
	var out []string
	for _, p := range patterns {
		for _, part := range strings.Split(p, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Resolve expands patterns into the names of index files in store.
//
// Patterns use path.Match syntax per segment, plus "**" for any number of
// directories. Without patterns every recognized file at the store root is
// used. The result keeps the order of first match and holds no duplicates.
func Resolve(ctx context.Context, store blobstore.BlobStore, patterns []string) ([]string, error) {
	patterns = SplitPatterns(patterns)
	for i, pattern := range patterns {
		pattern = strings.TrimPrefix(path.Clean("/"+pattern), "/")
		if _, err := path.Match(strings.ReplaceAll(pattern, "**", "*"), ""); err != nil {
			return nil, fmt.Errorf("%w: pattern %q: %v", model.ErrConfiguration, pattern, err)
		}
		patterns[i] = pattern
	}

	listing, err := blobstore.ListDepth(ctx, store, "", searchDepth(patterns))
	if err != nil {
		return nil, fmt.Errorf("dataset: list: %w", err)
	}

	var files []string
	for _, name := range listing {
		if _, ok := DetectCompression(name); ok {
			files = append(files, name)
		}
	}

	if len(patterns) == 0 {
		var root []string
		for _, name := range files {
			if !strings.Contains(name, "/") {
				root = append(root, name)
			}
		}
		if len(root) == 0 {
			return nil, ErrNoIndices
		}
		return root, nil
	}

	seen := make(map[string]struct{}, len(files))
	var out []string
	for _, pattern := range patterns {
		for _, name := range files {
			if _, dup := seen[name]; dup {
				continue
			}
			if Match(pattern, name) {
				seen[name] = struct{}{}
				out = append(out, name)
			}
		}
	}

	if len(out) == 0 {
		return nil, ErrNoIndices
	}
	return out, nil
}

// searchDepth returns how many path segments a listing must cover so that
// every pattern can match: 1 for the root alone, 0 (unlimited) once a
// pattern contains "**".
func searchDepth(patterns []string) int {
	depth := 1
	for _, p := range patterns {
		if strings.Contains(p, "**") {
			return 0
		}
		depth = max(depth, strings.Count(p, "/")+1)
	}
	return depth
}

// Match reports whether the slash separated name matches pattern.
func Match(pattern, name string) bool {
	return matchSegments(strings.Split(pattern, "/"), strings.Split(name, "/"))
}

func matchSegments(pattern, name []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			for i := 0; i <= len(name); i++ {
				if matchSegments(rest, name[i:]) {
					return true
				}
			}
			return false
		}
		if len(name) == 0 {
			return false
		}
		if ok, _ := path.Match(pattern[0], name[0]); !ok {
			return false
		}
		pattern, name = pattern[1:], name[1:]
	}
	return len(name) == 0
}
