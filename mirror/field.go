// Package mirror is the target modeling layer: declarative model and field
// descriptors produced from introspected source models, plus the converter
// registry that maps neutral field descriptions onto them.
package mirror

// FieldType identifies a target field declaration.
type FieldType string

const (
	Int        FieldType = "IntField"
	BigInt     FieldType = "BigIntField"
	SmallInt   FieldType = "SmallIntField"
	Char       FieldType = "CharField"
	Text       FieldType = "TextField"
	Bool       FieldType = "BoolField"
	Date       FieldType = "DateField"
	DateTime   FieldType = "DateTimeField"
	Duration   FieldType = "DurationField"
	Decimal    FieldType = "DecimalField"
	Float      FieldType = "FloatField"
	Binary     FieldType = "BinaryField"
	UUID       FieldType = "UUIDField"
	JSON       FieldType = "JSONField"
	IntEnum    FieldType = "IntEnumField"
	CharEnum   FieldType = "CharEnumField"
	ForeignKey FieldType = "ForeignKeyField"
	OneToOne   FieldType = "OneToOneField"
	ManyToMany FieldType = "ManyToManyField"
)

// OnDelete is the referential action attached to a relation field.
type OnDelete string

const (
	Cascade    OnDelete = "cascade"
	Restrict   OnDelete = "restrict"
	SetNull    OnDelete = "set-null"
	SetDefault OnDelete = "set-default"
	NoAction   OnDelete = "no-action"
)

// Choice is one member of an enum field.
type Choice struct {
	Name  string
	Value interface{}
	Label string
}

// Relation describes the target side of a relation field.
type Relation struct {
	// Target is the declaration name of the related mirror model within
	// the same generation run.
	Target       string
	OnDelete     OnDelete
	RelatedName  string // empty disables the reverse accessor
	SelfRef      bool
	Through      string
	ThroughTable string
}

// Field is one declared field of a mirror model.
type Field struct {
	Name string
	Type FieldType

	// Column is set only when the source column name differs from Name.
	Column string

	PrimaryKey bool
	Generated  bool
	Null       bool
	Unique     bool
	Index      bool

	HasDefault bool
	Default    interface{} // nil with HasDefault true is an explicit null default

	MaxLength     int
	MaxDigits     int
	DecimalPlaces int

	Choices  []Choice
	Relation *Relation
}
