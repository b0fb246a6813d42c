package contactops

// Values is an ordered attribute mapping. Keys keep their first insertion
// order; setting an existing key replaces its value in place.
type Values struct {
	keys []string
	m    map[string]any
}

// Len returns the number of attributes.
func (v Values) Len() int {
	return len(v.keys)
}

// Keys returns the attribute names in insertion order.
func (v Values) Keys() []string {
	return append([]string(nil), v.keys...)
}

// Get returns the raw value stored under key.
func (v Values) Get(key string) (any, bool) {
	value, ok := v.m[key]
	return value, ok
}

// String returns the string stored under key.
func (v Values) String(key string) (string, bool) {
	value, ok := v.m[key].(string)
	return value, ok
}

// Int returns the integer stored under key.
func (v Values) Int(key string) (int, bool) {
	value, ok := v.m[key].(int)
	return value, ok
}

// Bytes returns the byte slice stored under key.
func (v Values) Bytes(key string) ([]byte, bool) {
	value, ok := v.m[key].([]byte)
	return value, ok
}

func (v *Values) set(key string, value any) {
	if v.m == nil {
		v.m = make(map[string]any, 4)
	}
	if _, ok := v.m[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.m[key] = value
}

func (v *Values) remove(key string) (any, bool) {
	value, ok := v.m[key]
	if !ok {
		return nil, false
	}
	delete(v.m, key)
	for i, k := range v.keys {
		if k == key {
			v.keys = append(v.keys[:i:i], v.keys[i+1:]...)
			break
		}
	}
	return value, true
}

func (v Values) clone() Values {
	out := Values{keys: append([]string(nil), v.keys...), m: make(map[string]any, len(v.m))}
	for k, value := range v.m {
		out.m[k] = value
	}
	return out
}
