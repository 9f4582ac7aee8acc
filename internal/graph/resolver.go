package graph

import (
	"os"
	"path"
	"path/filepath"
	"strings"
)

// resolveSuffixes is the fixed candidate list probed when mapping a relative
// specifier to a file: the specifier as written, common source extensions,
// then directory index files.
var resolveSuffixes = []string{
	"",
	".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs",
	"/index.ts", "/index.tsx", "/index.js", "/index.jsx",
}

// resolve maps an import specifier in the file at fromRel to a concrete
// repository-relative path. Package-style specifiers and candidates that
// would escape the repository root never resolve.
func (b *Builder) resolve(fromRel, specifier string) (string, bool) {
	if !isRelativeSpecifier(specifier) {
		return "", false
	}
	base := path.Join(path.Dir(fromRel), specifier)
	for _, suffix := range resolveSuffixes {
		cand := path.Clean(base + suffix)
		if cand == "." || cand == ".." || strings.HasPrefix(cand, "../") {
			continue
		}
		if b.fileExists(cand) {
			return cand, true
		}
	}
	return "", false
}

func isRelativeSpecifier(s string) bool {
	return strings.HasPrefix(s, "./") || strings.HasPrefix(s, "../")
}

// fileExists reports whether rel names a regular file under the root,
// memoized in the Builder's bounded cache.
func (b *Builder) fileExists(rel string) bool {
	if v, ok := b.exists.Get(rel); ok {
		return v
	}
	info, err := os.Stat(filepath.Join(b.root, filepath.FromSlash(rel)))
	ok := err == nil && info.Mode().IsRegular()
	b.exists.Add(rel, ok)
	return ok
}
