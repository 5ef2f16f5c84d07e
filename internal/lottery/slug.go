package lottery

import "strings"

// DefaultFileSlug names artifacts whose lottery name folds to nothing.
const DefaultFileSlug = "loteria"

// CanonicalSlug splits slug on "-", drops empty tokens and repeated tokens
// (keeping the first occurrence), and rejoins with "-".
func CanonicalSlug(slug string) string {
	parts := strings.Split(slug, "-")
	seen := make(map[string]struct{}, len(parts))
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		kept = append(kept, part)
	}
	return strings.Join(kept, "-")
}

// FileSlug derives the filename stem shared by the renderer and the output
// reconciler: the normalized key with spaces turned into dashes, deduplicated.
func FileSlug(name string) string {
	slug := CanonicalSlug(strings.ReplaceAll(NormalizeKey(name), " ", "-"))
	if slug == "" {
		return DefaultFileSlug
	}
	return slug
}
