package shelf

type (
	// Ptrs are the scan destinations a field contributes to a row.
	Ptrs []any
	// Action runs after a row is scanned, e.g. to convert an intermediate value.
	Action         func()
	RowScan[T any] func(*T) (Ptrs, Action)

	FieldType[T any] struct {
		Mod     QueryMod
		RowScan RowScan[T]
	}
)

func Field[T any](mod QueryMod, scan RowScan[T]) FieldType[T] {
	return FieldType[T]{mod, scan}
}

func Ptr[T any](ptr func(t *T) any) RowScan[T] {
	return func(t *T) (Ptrs, Action) {
		return Ptrs{ptr(t)}, nil
	}
}

// Via scans the column into a temporary S and hands it to assign once the
// row is read.
func Via[T, S any](assign func(t *T, v S)) RowScan[T] {
	return func(t *T) (Ptrs, Action) {
		var v S
		return Ptrs{&v}, func() { assign(t, v) }
	}
}

func flattenRowScan[T any](rowScans []RowScan[T]) RowScan[T] {
	return func(t *T) (Ptrs, Action) {
		pointers := make(Ptrs, 0, len(rowScans))
		var actions []Action
		for _, rowScan := range rowScans {
			ptrs, action := rowScan(t)
			pointers = append(pointers, ptrs...)
			if action != nil {
				actions = append(actions, action)
			}
		}

		return pointers, func() {
			for _, action := range actions {
				action()
			}
		}
	}
}
