package loaders

import (
	"github.com/codelime/codelime-cli/internal/loaders/csv"
	"github.com/codelime/codelime-cli/internal/loaders/jsonl"
	"github.com/codelime/codelime-cli/internal/loaders/xlsx"
)

// Defaults returns a registry with every built-in loader registered.
func Defaults() *Registry {
	return NewRegistry(
		csv.New(),
		xlsx.New(),
		jsonl.New(),
	)
}
