package babel

// binding is a persistent list of named values.  Storing a name
// prepends a new binding and leaves the old list intact, so forking
// a table is just copying the head pointer.
type binding struct {
	key  string
	val  Values
	next *binding
}

func (b *binding) store(key string, val Values) *binding {
	return &binding{key: key, val: val, next: b}
}

func (b *binding) lookup(key string) (Values, bool) {
	for ; b != nil; b = b.next {
		if b.key == key {
			return b.val, true
		}
	}
	return nil, false
}

// toMap returns the latest value of each name
func (b *binding) toMap() map[string]Values {
	m := map[string]Values{}
	for ; b != nil; b = b.next {
		if _, ok := m[b.key]; !ok {
			m[b.key] = b.val
		}
	}
	return m
}

// state is everything a fork copies: the cursor, the named-value
// table and the output stack
type state struct {
	cursor *Cursor
	table  *binding
	stack  Values
}

func (s *state) fork() *state {
	n := len(s.stack)
	return &state{
		cursor: s.cursor.Fork(),
		table:  s.table,
		// capping the capacity makes appends on the fork
		// allocate instead of writing over the parent's array
		stack: s.stack[:n:n],
	}
}

func (s *state) join(f *state) {
	s.cursor.Join(f.cursor)
	s.table = f.table
	s.stack = f.stack
}
