// Package symbolic implements the shared constraint DAG and the generic
// expression evaluator consumed by the quotient constraint evaluator. It is
// the deduplicated, serializable, topologically ordered representation of
// an AIR's algebraic constraints, built once at keygen and walked by both
// prover and verifier.
package symbolic

// EntryKind tags which witness table a Variable refers to.
type EntryKind uint8

const (
	// EntryPreprocessed references a column of the preprocessed trace.
	EntryPreprocessed EntryKind = iota
	// EntryMain references a column of one of the main trace partitions.
	EntryMain
	// EntryPublic references the AIR's public-values vector.
	EntryPublic
	// EntryPermutation references an after-challenge (RAP) trace column.
	EntryPermutation
	// EntryChallenge references the sampled challenges vector.
	EntryChallenge
	// EntryExposed references the exposed-values vector from a RAP phase.
	EntryExposed
)

func (k EntryKind) String() string {
	switch k {
	case EntryPreprocessed:
		return "Preprocessed"
	case EntryMain:
		return "Main"
	case EntryPublic:
		return "Public"
	case EntryPermutation:
		return "Permutation"
	case EntryChallenge:
		return "Challenge"
	case EntryExposed:
		return "Exposed"
	default:
		return "Unknown"
	}
}

// Entry is a symbolic variable: a reference into one of the witness tables.
//
// Offset is the row shift (0 = local row, 1 = next row); only Preprocessed,
// Main and Permutation entries carry a meaningful offset. PartIndex selects
// among multiple main-trace partitions (only meaningful for EntryMain).
// Index is the column within the identified matrix, or the index into the
// public/challenge/exposed vector.
type Entry struct {
	Kind      EntryKind
	Offset    int
	PartIndex int
	Index     int
	Phase     int // challenge-phase index; only phase 0 is currently supported
}

// Preprocessed builds an Entry referencing the preprocessed trace.
func Preprocessed(offset, index int) Entry {
	return Entry{Kind: EntryPreprocessed, Offset: offset, Index: index}
}

// Main builds an Entry referencing a column of main trace partition part.
func Main(part, offset, index int) Entry {
	return Entry{Kind: EntryMain, PartIndex: part, Offset: offset, Index: index}
}

// Public builds an Entry referencing the public-values vector.
func Public(index int) Entry {
	return Entry{Kind: EntryPublic, Index: index}
}

// Permutation builds an Entry referencing the after-challenge trace.
func Permutation(offset, index int) Entry {
	return Entry{Kind: EntryPermutation, Offset: offset, Index: index}
}

// Challenge builds an Entry referencing the sampled challenges vector.
func Challenge(index int) Entry {
	return Entry{Kind: EntryChallenge, Index: index}
}

// Exposed builds an Entry referencing the exposed-values vector.
func Exposed(index int) Entry {
	return Entry{Kind: EntryExposed, Index: index}
}
