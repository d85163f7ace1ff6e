package vcell

// Conflict says why a CompareExchange lost.
type Conflict int

const (
	// ConflictABA: the value matches what the caller expected but the
	// version moved on. The value cycled back while the caller wasn't
	// looking; a value-only CAS would have been fooled.
	ConflictABA Conflict = iota

	// ConflictRaced: an ordinary concurrent write got there first and the
	// value no longer matches.
	ConflictRaced

	// ConflictInvariant: the actual pair equals the expected pair, which a
	// failed CompareExchange can never legitimately report. Seeing this
	// means the cell was written outside its entry points, or the version
	// counter wrapped.
	ConflictInvariant
)

func (k Conflict) String() string {
	switch k {
	case ConflictABA:
		return "aba"
	case ConflictRaced:
		return "raced"
	case ConflictInvariant:
		return "invariant-breach"
	default:
		return "unknown"
	}
}

// Classify compares the pair a failed CompareExchange expected against the
// actual pair it returned.
func Classify(expected, actual Pair) Conflict {
	switch {
	case actual == expected:
		return ConflictInvariant
	case actual.Value == expected.Value:
		return ConflictABA
	default:
		return ConflictRaced
	}
}
