package canonical

import "slices"

// Sort returns a deep copy of v with every object's members ordered by
// Compare on their keys. Arrays keep their element order; their elements
// are sorted recursively.
func Sort(v Value) Value {
	switch val := v.(type) {
	case Object:
		out := make(Object, len(val))
		for i, m := range val {
			out[i] = Member{Key: m.Key, Value: Sort(m.Value)}
		}
		slices.SortStableFunc(out, func(a, b Member) int {
			return Compare(a.Key, b.Key)
		})
		return out
	case Array:
		out := make(Array, len(val))
		for i, elem := range val {
			out[i] = Sort(elem)
		}
		return out
	default:
		return v
	}
}

// SortObject is Sort for callers that hold an Object and want one back.
func SortObject(o Object) Object {
	return Sort(o).(Object)
}
