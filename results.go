package gazette

// ResultSet is the mapping built incrementally as blocks are assembled,
// keyed by enrollment reference (else seat number). A later record under an
// existing key fully replaces the earlier one, keeping the earlier one's
// position in the ordering. Not safe for concurrent use; parallel assembly
// serializes its inserts in block order.
type ResultSet struct {
	order []string
	byKey map[string]*Student
}

// NewResultSet returns an empty ResultSet.
func NewResultSet() *ResultSet {
	return &ResultSet{byKey: make(map[string]*Student)}
}

// Put inserts or replaces the record stored under key.
func (rs *ResultSet) Put(key string, s *Student) {
	if _, seen := rs.byKey[key]; !seen {
		rs.order = append(rs.order, key)
	}
	rs.byKey[key] = s
}

// Get returns the record stored under key.
func (rs *ResultSet) Get(key string) (*Student, bool) {
	s, ok := rs.byKey[key]
	return s, ok
}

// Len returns the number of stored records.
func (rs *ResultSet) Len() int { return len(rs.order) }

// Keys returns the record keys in first-insertion order.
func (rs *ResultSet) Keys() []string {
	keys := make([]string, len(rs.order))
	copy(keys, rs.order)
	return keys
}

// Students returns the records in first-insertion order.
func (rs *ResultSet) Students() []*Student {
	students := make([]*Student, 0, len(rs.order))
	for _, k := range rs.order {
		students = append(students, rs.byKey[k])
	}
	return students
}

// Map returns a copy of the key-to-record mapping.
func (rs *ResultSet) Map() map[string]*Student {
	m := make(map[string]*Student, len(rs.byKey))
	for k, v := range rs.byKey {
		m[k] = v
	}
	return m
}
