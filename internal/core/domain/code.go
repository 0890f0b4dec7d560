package domain

// Code is one assignable classification label within a codebook.
type Code struct {
	ID       int    `json:"id"`
	Label    string `json:"label"`
	Category string `json:"category"`
}

// Codebook is the ordered set of codes applicable to one question.
// Code ids are unique within a codebook; order is significant because the
// binary code format maps column positions to codebook positions.
type Codebook []Code

// Validate checks the unique-id invariant.
func (cb Codebook) Validate() error {
	seen := make(map[int]struct{}, len(cb))
	for _, c := range cb {
		if _, dup := seen[c.ID]; dup {
			return &DuplicateCodeError{ID: c.ID}
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}

// IDs returns the code ids in codebook order.
func (cb Codebook) IDs() []int {
	ids := make([]int, len(cb))
	for i, c := range cb {
		ids[i] = c.ID
	}
	return ids
}

// Contains reports whether the codebook has a code with the given id.
func (cb Codebook) Contains(id int) bool {
	for _, c := range cb {
		if c.ID == id {
			return true
		}
	}
	return false
}
