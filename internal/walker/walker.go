// Package walker implements the source walker: it enumerates the source
// files under a root that the call-site recognizer should look at, honoring
// a compiled set of exclusion globs. It addresses the filesystem through
// billy.Filesystem rather than bare os/filepath calls so it can run against
// an in-memory tree in tests and a real directory at runtime.
package walker

import (
	"fmt"
	"path"
	"sort"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/gobwas/glob"
)

// ExcludeSet is a compiled set of glob patterns (including "**" globstar
// patterns) checked against a path relative to the walk root.
type ExcludeSet struct {
	globs []glob.Glob
}

// CompileExcludes compiles a set of glob patterns into an ExcludeSet. It
// fails closed: a pattern that does not compile is an error, not a silent
// no-op.
func CompileExcludes(patterns []string) (*ExcludeSet, error) {
	set := &ExcludeSet{}
	for _, pat := range patterns {
		g, err := glob.Compile(pat, '/')
		if err != nil {
			return nil, fmt.Errorf("walker: invalid exclude pattern %q: %w", pat, err)
		}
		set.globs = append(set.globs, g)
	}
	return set, nil
}

// Match reports whether relPath (forward-slash separated, relative to the
// walk root) matches any compiled exclusion pattern. relPath is also tried
// with a leading "/", so a pattern such as "**/.venv/**" matches a ".venv"
// directly under the walk root as well as one nested deeper.
func (s *ExcludeSet) Match(relPath string) bool {
	if s == nil {
		return false
	}
	for _, g := range s.globs {
		if g.Match(relPath) || g.Match("/"+relPath) {
			return true
		}
	}
	return false
}

// File is one source file found under the walk root.
type File struct {
	// Path is the file's path relative to the walk root, forward-slash
	// separated, suitable for use as a code_path.
	Path string
	// AbsPath is the path to pass to fs.Open.
	AbsPath string
}

// Walk enumerates every file under root on fsys whose name matches suffix
// (e.g. ".py"), skipping any path that matches excludes. If root itself is
// a single file (not a directory), that file alone is returned, matching
// the Source Walker's single-file-root special case — exclusions are not
// applied to an explicitly named file. A directory that fails to read
// during traversal (permission denied, a broken symlink, ...) is logged
// through onWarn and skipped rather than aborting the whole walk; onWarn
// may be nil. Only a failure to stat root itself is fatal.
func Walk(fsys billy.Filesystem, root string, suffix string, excludes *ExcludeSet, onWarn func(path string, err error)) ([]File, error) {
	info, err := fsys.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("walker: stat root %s: %w", root, err)
	}
	if !info.IsDir() {
		return []File{{Path: path.Base(root), AbsPath: root}}, nil
	}

	var files []File
	var walkDir func(dir, relPrefix string)
	walkDir = func(dir, relPrefix string) {
		entries, err := fsys.ReadDir(dir)
		if err != nil {
			if onWarn != nil {
				onWarn(dir, fmt.Errorf("walker: read dir %s: %w", dir, err))
			}
			return
		}
		for _, entry := range entries {
			rel := entry.Name()
			if relPrefix != "" {
				rel = relPrefix + "/" + rel
			}
			abs := fsys.Join(dir, entry.Name())
			if excludes.Match(rel) {
				continue
			}
			if entry.IsDir() {
				walkDir(abs, rel)
				continue
			}
			if strings.HasSuffix(entry.Name(), suffix) {
				files = append(files, File{Path: rel, AbsPath: abs})
			}
		}
	}
	walkDir(root, "")
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// ReadFile reads one walked file's content.
func ReadFile(fsys billy.Filesystem, f File) ([]byte, error) {
	h, err := fsys.Open(f.AbsPath)
	if err != nil {
		return nil, fmt.Errorf("walker: open %s: %w", f.AbsPath, err)
	}
	defer h.Close()

	var buf []byte
	chunk := make([]byte, 32*1024)
	for {
		n, err := h.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if err != nil {
			break
		}
	}
	return buf, nil
}

// DefaultExcludeDirs is the built-in set of directory-name globs every walk
// skips unless overridden.
var DefaultExcludeDirs = []string{
	"**/.venv/**",
	"**/venv/**",
	"**/.git/**",
	"**/__pycache__/**",
	"**/.pytest_cache/**",
}
