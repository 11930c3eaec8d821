package mirror

// Meta carries model-level declaration options.
type Meta struct {
	Table          string
	Namespace      string
	UniqueTogether [][]string
}

// Model is a declared mirror model: the live form of a generated
// declaration, usable directly by the query layer.
type Model struct {
	Name   string
	Meta   Meta
	Fields []*Field
}

// Label renders the namespaced model label.
func (m *Model) Label() string {
	return m.Meta.Namespace + "." + m.Name
}

// Field returns the field with the given name, or nil.
func (m *Model) Field(name string) *Field {
	for _, f := range m.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// FieldNames returns the declared field names in order.
func (m *Model) FieldNames() []string {
	names := make([]string, 0, len(m.Fields))
	for _, f := range m.Fields {
		names = append(names, f.Name)
	}
	return names
}

// RemoveField drops the named field, reporting whether it was present.
func (m *Model) RemoveField(name string) bool {
	for i, f := range m.Fields {
		if f.Name == name {
			m.Fields = append(m.Fields[:i], m.Fields[i+1:]...)
			return true
		}
	}
	return false
}

// PrimaryKey returns the primary key field, or nil.
func (m *Model) PrimaryKey() *Field {
	for _, f := range m.Fields {
		if f.PrimaryKey {
			return f
		}
	}
	return nil
}

// FilterUniqueTogether keeps only the constraints whose every member field
// still exists in names. Partially satisfiable constraints are dropped
// whole rather than weakened.
func FilterUniqueTogether(constraints [][]string, names map[string]bool) (kept, dropped [][]string) {
	for _, group := range constraints {
		ok := true
		for _, name := range group {
			if !names[name] {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, group)
		} else {
			dropped = append(dropped, group)
		}
	}
	return kept, dropped
}
