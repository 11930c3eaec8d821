// Package introspect extracts a framework-neutral description of declared
// gorm models. The descriptions are consumed by the mirror and codegen
// packages to materialize equivalent declarations.
package introspect

import (
	"path"
	"reflect"
)

// Kind tags classify source fields independent of any target framework.
const (
	KindAuto       = "auto"
	KindBigAuto    = "bigauto"
	KindSmallAuto  = "smallauto"
	KindInt        = "int"
	KindBigInt     = "bigint"
	KindSmallInt   = "smallint"
	KindUint       = "uint"
	KindBigUint    = "biguint"
	KindSmallUint  = "smalluint"
	KindChar       = "char"
	KindText       = "text"
	KindBool       = "bool"
	KindDate       = "date"
	KindDateTime   = "datetime"
	KindDuration   = "duration"
	KindDecimal    = "decimal"
	KindFloat      = "float"
	KindBinary     = "binary"
	KindUUID       = "uuid"
	KindJSON       = "json"
	KindFile       = "file"
	KindSlug       = "slug"
	KindEmail      = "email"
	KindURL        = "url"
	KindIPAddr     = "ipaddr"
	KindForeignKey = "fk"
	KindOneToOne   = "o2o"
	KindManyToMany = "m2m"
)

// EnumValue is one member of an enumerated field type.
type EnumValue struct {
	Name  string
	Value interface{}
	Label string
}

// Enumerated is implemented by field value types that enumerate their
// members. Detection is driven by default values: a field whose default
// implements Enumerated is mirrored as an enum field. String or numeric
// defaults declared in tags are normalized to primitives before they reach
// the introspector, so the enumeration is lost for those fields.
type Enumerated interface {
	EnumValues() []EnumValue
}

// Defaulter supplies runtime default values per target attribute name.
// A key present with a nil value declares an explicit null default,
// distinct from the key being absent.
type Defaulter interface {
	FieldDefaults() map[string]interface{}
}

// Marker interfaces, checked on the pointer type of a model.
type (
	abstractModel  interface{ AbstractModel() }
	proxyModel     interface{ ProxyModel() }
	unmanagedModel interface{ UnmanagedModel() }
)

// FieldInfo is the neutral description of one source field.
type FieldInfo struct {
	Name    string // target attribute name, snake_case
	GoField string // declaring struct field name
	Kind    string
	Column  string // source column name, may differ from Name

	PrimaryKey bool
	Generated  bool // auto-incrementing
	Null       bool
	Unique     bool
	Index      bool

	HasDefault bool
	Default    interface{} // may be nil while HasDefault is true

	MaxLength     int
	MaxDigits     int
	DecimalPlaces int

	Choices  []EnumValue
	EnumType reflect.Type

	IsRelation        bool
	RelatedModel      reflect.Type
	RelatedModelLabel string
	OnDelete          string
	RelatedName       string // empty suppresses the reverse accessor
	IsSelfReferential bool
	ManyToMany        bool
	ThroughModel      string
	ThroughTable      string
}

// ModelInfo is the neutral description of one source model. It is built
// fresh for every generation pass and never mutated afterwards.
type ModelInfo struct {
	Identity  reflect.Type
	AppLabel  string
	ModelName string
	DBTable   string

	Fields         []*FieldInfo
	UniqueTogether [][]string

	IsAbstract bool
	IsProxy    bool
	IsManaged  bool

	PKName string
}

// Field returns the field with the given target name, or nil.
func (m *ModelInfo) Field(name string) *FieldInfo {
	for _, f := range m.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// NameMap resolves source model identities to target declaration names
// within a single generation run.
type NameMap map[reflect.Type]string

// Label renders the canonical "package.Model" label for a model type.
func Label(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return path.Base(t.PkgPath()) + "." + t.Name()
}
