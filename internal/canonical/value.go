package canonical

// Value is a sealed interface over the JSON value kinds a dataset file may
// contain. Only Null, String, Number, Bool, Array and Object implement it.
type Value interface {
	canonicalValue()
}

// Null represents a JSON null.
type Null struct{}

func (Null) canonicalValue() {}

// String represents a JSON string.
type String string

func (String) canonicalValue() {}

// Number represents a JSON number. Point coordinates are the only numbers
// in the dataset, so float64 is sufficient.
type Number float64

func (Number) canonicalValue() {}

// Bool represents a JSON boolean.
type Bool bool

func (Bool) canonicalValue() {}

// Array represents a JSON array. Element order is significant.
type Array []Value

func (Array) canonicalValue() {}

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object represents a JSON object as an ordered member list.
// Keys are unique; Set replaces an existing member in place.
type Object []Member

func (Object) canonicalValue() {}

// Get returns the value stored under key.
func (o Object) Get(key string) (Value, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Set stores v under key, keeping the member's position if it already exists.
func (o *Object) Set(key string, v Value) {
	for i := range *o {
		if (*o)[i].Key == key {
			(*o)[i].Value = v
			return
		}
	}
	*o = append(*o, Member{Key: key, Value: v})
}

// Delete removes the member stored under key, if any.
func (o *Object) Delete(key string) {
	for i := range *o {
		if (*o)[i].Key == key {
			*o = append((*o)[:i], (*o)[i+1:]...)
			return
		}
	}
}

// Keys returns the member keys in their current order.
func (o Object) Keys() []string {
	keys := make([]string, len(o))
	for i, m := range o {
		keys[i] = m.Key
	}
	return keys
}

// Strings converts a string slice into an Array of String values.
func Strings(ss []string) Array {
	arr := make(Array, len(ss))
	for i, s := range ss {
		arr[i] = String(s)
	}
	return arr
}

// StringMap converts a string map into an Object. Member order follows map
// iteration and is therefore unspecified; pass the result through Sort
// before rendering it.
func StringMap(m map[string]string) Object {
	obj := make(Object, 0, len(m))
	for k, v := range m {
		obj = append(obj, Member{Key: k, Value: String(v)})
	}
	return obj
}
