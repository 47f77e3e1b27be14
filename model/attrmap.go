package model

// AttrMap is an insertion-ordered map from qualified attribute names such as
// "fo:background-color" to their values.
//
// The zero value is an empty map ready to use.
type AttrMap struct {
	keys []string
	vals map[string]string
}

// NewAttrMap creates an empty AttrMap.
func NewAttrMap() *AttrMap {
	return &AttrMap{}
}

// Set stores value under name. An existing entry keeps its position.
func (m *AttrMap) Set(name, value string) {
	if m.vals == nil {
		m.vals = make(map[string]string)
	}
	if _, ok := m.vals[name]; !ok {
		m.keys = append(m.keys, name)
	}
	m.vals[name] = value
}

// Get returns the value stored under name.
func (m *AttrMap) Get(name string) (string, bool) {
	if m == nil || m.vals == nil {
		return "", false
	}
	v, ok := m.vals[name]
	return v, ok
}

// GetOr returns the value stored under name or def when it is absent.
func (m *AttrMap) GetOr(name, def string) string {
	if v, ok := m.Get(name); ok {
		return v
	}
	return def
}

// Delete removes name from the map.
func (m *AttrMap) Delete(name string) {
	if m == nil || m.vals == nil {
		return
	}
	if _, ok := m.vals[name]; !ok {
		return
	}
	delete(m.vals, name)
	for i, k := range m.keys {
		if k == name {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries.
func (m *AttrMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the attribute names in insertion order.
func (m *AttrMap) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Range calls fn for each entry in insertion order until fn returns false.
func (m *AttrMap) Range(fn func(name, value string) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.vals[k]) {
			return
		}
	}
}

// Clone returns a deep copy of the map.
func (m *AttrMap) Clone() *AttrMap {
	c := &AttrMap{}
	m.Range(func(k, v string) bool {
		c.Set(k, v)
		return true
	})
	return c
}

// Equal reports whether both maps hold the same entries. Order is ignored.
func (m *AttrMap) Equal(other *AttrMap) bool {
	if m.Len() != other.Len() {
		return false
	}
	eq := true
	m.Range(func(k, v string) bool {
		ov, ok := other.Get(k)
		if !ok || ov != v {
			eq = false
		}
		return eq
	})
	return eq
}
