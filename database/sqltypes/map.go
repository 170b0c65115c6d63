package sqltypes

// Map is a key-ordered mapping.  Keys keep the position of their first Set,
// the way an associative array remembers insertion order.
type Map struct {
	keys   []string
	values []Value
	index  map[string]int
}

func (*Map) Type() ValueType { return MapType }

func NewMap() *Map {
	return &Map{index: make(map[string]int)}
}

// Set converts goval with BuildValue and stores it under key.
func (m *Map) Set(key string, goval interface{}) error {
	v, err := BuildValue(goval)
	if err != nil {
		return err
	}
	m.SetValue(key, v)
	return nil
}

// SetValue stores v under key.  Replacing an existing key keeps its position.
func (m *Map) SetValue(key string, v Value) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[key]; ok {
		m.values[i] = v
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.values = append(m.values, v)
}

// Get returns the value stored under key.  A nil Map holds no keys.
func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return NULL, false
	}
	i, ok := m.index[key]
	if !ok {
		return NULL, false
	}
	return m.values[i], true
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return []string{}
	}
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Range calls fn for every pair in insertion order until fn returns false.
func (m *Map) Range(fn func(i int, key string, v Value) bool) {
	if m == nil {
		return
	}
	for i, key := range m.keys {
		if !fn(i, key, m.values[i]) {
			return
		}
	}
}

// MakeMap makes a Map value.  A nil m makes NULL.
func MakeMap(m *Map) Value {
	if m == nil {
		return NULL
	}
	return Value{m}
}
