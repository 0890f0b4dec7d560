package domain

import "fmt"

// CodesFormat names the source encoding of per-row code assignments.
// It is a small closed set rather than free-form string matching.
type CodesFormat string

const (
	// CodesBinaryVendor: one column per code, headers encode
	// "Code ID n|Code Name 'x'|Code category 'Y'" triples, cells are
	// truthy markers. The platform's own export format.
	CodesBinaryVendor CodesFormat = "binary-vendor"

	// CodesBinaryGeneric: one column per code, the header is the code
	// label, ids are assigned by column position starting at 0.
	CodesBinaryGeneric CodesFormat = "binary-generic"

	// CodesListVendor: sparse "Code ID ..." columns each holding at most
	// one code id per row. The platform's list export format.
	CodesListVendor CodesFormat = "list-vendor"

	// CodesListGeneric: sparse columns matched by a configurable
	// substring, each holding at most one code id per row.
	CodesListGeneric CodesFormat = "list-generic"
)

// ParseCodesFormat validates a format name from a CLI flag.
func ParseCodesFormat(s string) (CodesFormat, error) {
	switch CodesFormat(s) {
	case CodesBinaryVendor, CodesBinaryGeneric, CodesListVendor, CodesListGeneric:
		return CodesFormat(s), nil
	default:
		return "", fmt.Errorf("%w: codes format %q (valid: %s, %s, %s, %s)",
			ErrInvalidInput, s,
			CodesBinaryVendor, CodesBinaryGeneric, CodesListVendor, CodesListGeneric)
	}
}

// IsBinary reports whether the format is a binary-indicator encoding.
func (f CodesFormat) IsBinary() bool {
	return f == CodesBinaryVendor || f == CodesBinaryGeneric
}
