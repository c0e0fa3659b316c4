package menu

// Identified is anything kept in an ordered, id-keyed sequence: sections
// within a restaurant and items within a section.
type Identified interface {
	GetID() string
}

func IndexOf[T Identified](seq []T, id string) int {
	for i, e := range seq {
		if e.GetID() == id {
			return i
		}
	}
	return -1
}

func Find[T Identified](seq []T, id string) (T, bool) {
	if i := IndexOf(seq, id); i >= 0 {
		return seq[i], true
	}
	var zero T
	return zero, false
}

// Reorder moves the element with movedID to targetIndex, clamped to the
// valid range. The input slice is left untouched.
func Reorder[T Identified](seq []T, movedID string, targetIndex int) ([]T, error) {
	from := IndexOf(seq, movedID)
	if from < 0 {
		return nil, ErrNotFound
	}

	if targetIndex < 0 {
		targetIndex = 0
	}
	if targetIndex > len(seq)-1 {
		targetIndex = len(seq) - 1
	}

	out := make([]T, 0, len(seq))
	out = append(out, seq[:from]...)
	out = append(out, seq[from+1:]...)

	moved := seq[from]
	out = append(out, moved)
	copy(out[targetIndex+1:], out[targetIndex:len(out)-1])
	out[targetIndex] = moved
	return out, nil
}

// Upsert replaces the entity with the same id in place, or appends it.
func Upsert[T Identified](seq []T, entity T) []T {
	out := make([]T, len(seq), len(seq)+1)
	copy(out, seq)
	if i := IndexOf(out, entity.GetID()); i >= 0 {
		out[i] = entity
		return out
	}
	return append(out, entity)
}

// Remove drops the entity with the given id. When nothing matches the input
// is returned as is.
func Remove[T Identified](seq []T, id string) []T {
	i := IndexOf(seq, id)
	if i < 0 {
		return seq
	}
	out := make([]T, 0, len(seq)-1)
	out = append(out, seq[:i]...)
	return append(out, seq[i+1:]...)
}
