// Package loaders selects a table loader by file extension and exposes the
// default set of supported input formats.
package loaders

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/codelime/codelime-cli/internal/core/domain"
	"github.com/codelime/codelime-cli/internal/core/ports/driven"
)

// Registry maps file extensions to loaders.
type Registry struct {
	byExt map[string]driven.TableLoader
}

// NewRegistry builds a registry from the given loaders. Later loaders win
// on extension conflicts.
func NewRegistry(tableLoaders ...driven.TableLoader) *Registry {
	r := &Registry{byExt: make(map[string]driven.TableLoader)}
	for _, l := range tableLoaders {
		for _, ext := range l.Extensions() {
			r.byExt[strings.ToLower(ext)] = l
		}
	}
	return r
}

// ForPath returns the loader responsible for the file's extension.
func (r *Registry) ForPath(path string) (driven.TableLoader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	l, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)",
			domain.ErrUnsupportedFormat, ext, strings.Join(r.SupportedExtensions(), ", "))
	}
	return l, nil
}

// Load selects a loader for path and parses it.
func (r *Registry) Load(ctx context.Context, path string, opts driven.LoadOptions) (*domain.Table, error) {
	l, err := r.ForPath(path)
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, path, opts)
}

// SupportedExtensions lists the registered extensions, sorted.
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
