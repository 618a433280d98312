package cyclonedx

// BomRef identifies a component for the purpose of dependency edges only.
// The zero value carries no string and can never be an edge endpoint.
type BomRef struct {
	value string
	set   bool
}

// NewBomRef returns a BomRef carrying value
func NewBomRef(value string) BomRef {
	return BomRef{value: value, set: true}
}

// Value returns the carried string and whether there is one
func (r BomRef) Value() (string, bool) {
	return r.value, r.set
}

// IsSet reports whether r carries a string
func (r BomRef) IsSet() bool {
	return r.set
}

// Equal reports whether r and other denote the same graph node. Unset
// refs are equal to nothing, not even to each other.
func (r BomRef) Equal(other BomRef) bool {
	return r.set && other.set && r.value == other.value
}

func (r BomRef) String() string {
	if !r.set {
		return "<unset>"
	}
	return r.value
}

// BomRefSet is an insertion-ordered set of BomRefs. Unset refs are never
// stored.
type BomRefSet struct {
	order []BomRef
	index map[string]bool
}

// NewBomRefSet returns a set holding refs
func NewBomRefSet(refs ...BomRef) *BomRefSet {
	s := &BomRefSet{index: make(map[string]bool)}
	s.Add(refs...)
	return s
}

// Add inserts refs that are set and not yet present
func (s *BomRefSet) Add(refs ...BomRef) {
	if s.index == nil {
		s.index = make(map[string]bool)
	}
	for _, ref := range refs {
		value, ok := ref.Value()
		if !ok || s.index[value] {
			continue
		}
		s.index[value] = true
		s.order = append(s.order, ref)
	}
}

// Contains reports whether ref is a member
func (s *BomRefSet) Contains(ref BomRef) bool {
	if s == nil {
		return false
	}
	value, ok := ref.Value()
	return ok && s.index[value]
}

// Refs returns the members in insertion order
func (s *BomRefSet) Refs() []BomRef {
	if s == nil {
		return nil
	}
	return s.order
}

// Len returns the number of members
func (s *BomRefSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}
