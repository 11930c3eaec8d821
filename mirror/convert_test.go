package mirror

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ormbridge/ormbridge/introspect"
)

func TestMapOnDelete(t *testing.T) {
	tests := map[string]OnDelete{
		"CASCADE":     Cascade,
		"cascade":     Cascade,
		"SET NULL":    SetNull,
		"set_null":    SetNull,
		"set-null":    SetNull,
		"SET DEFAULT": SetDefault,
		"PROTECT":     Restrict,
		"RESTRICT":    Restrict,
		"DO NOTHING":  NoAction,
		"NO ACTION":   NoAction,
		"no_action":   NoAction,
		"":            Cascade,
		"SOMETHING":   Cascade,
	}

	for action, want := range tests {
		assert.Equal(t, want, MapOnDelete(action), "action %q", action)
	}
}

func TestConvertCommonParameters(t *testing.T) {
	fld := Convert(&introspect.FieldInfo{
		Name:   "title",
		Kind:   introspect.KindChar,
		Column: "title_col",
		Null:   true,
		Unique: true,

		MaxLength: 120,
	})

	require.NotNil(t, fld)
	assert.Equal(t, Char, fld.Type)
	assert.Equal(t, "title", fld.Name)
	assert.Equal(t, "title_col", fld.Column)
	assert.True(t, fld.Null)
	assert.Equal(t, 120, fld.MaxLength)

	// live declarations never carry unique or index markers
	assert.False(t, fld.Unique)
	assert.False(t, fld.Index)
}

func TestConvertColumnOmittedWhenMatching(t *testing.T) {
	fld := Convert(&introspect.FieldInfo{Name: "title", Kind: introspect.KindText, Column: "title"})

	require.NotNil(t, fld)
	assert.Empty(t, fld.Column)
}

func TestConvertDefaultPresence(t *testing.T) {
	withValue := Convert(&introspect.FieldInfo{
		Name: "active", Kind: introspect.KindBool, HasDefault: true, Default: true,
	})
	require.NotNil(t, withValue)
	assert.True(t, withValue.HasDefault)
	assert.Equal(t, true, withValue.Default)

	// explicit null default is distinct from no default at all
	explicitNull := Convert(&introspect.FieldInfo{
		Name: "note", Kind: introspect.KindText, HasDefault: true, Default: nil,
	})
	require.NotNil(t, explicitNull)
	assert.True(t, explicitNull.HasDefault)
	assert.Nil(t, explicitNull.Default)

	none := Convert(&introspect.FieldInfo{Name: "note", Kind: introspect.KindText})
	require.NotNil(t, none)
	assert.False(t, none.HasDefault)
}

func TestConvertDefaultCoercion(t *testing.T) {
	b := Convert(&introspect.FieldInfo{Name: "active", Kind: introspect.KindBool, HasDefault: true, Default: "true"})
	require.NotNil(t, b)
	assert.Equal(t, true, b.Default)

	n := Convert(&introspect.FieldInfo{Name: "rank", Kind: introspect.KindInt, HasDefault: true, Default: "42"})
	require.NotNil(t, n)
	assert.Equal(t, int64(42), n.Default)

	f := Convert(&introspect.FieldInfo{Name: "score", Kind: introspect.KindFloat, HasDefault: true, Default: "1.5"})
	require.NotNil(t, f)
	assert.Equal(t, 1.5, f.Default)

	d := Convert(&introspect.FieldInfo{Name: "expires", Kind: introspect.KindDuration, HasDefault: true, Default: "90s"})
	require.NotNil(t, d)
	assert.Equal(t, 90*time.Second, d.Default)

	ts := Convert(&introspect.FieldInfo{Name: "opens", Kind: introspect.KindDateTime, HasDefault: true, Default: "2024-03-01 10:00:00"})
	require.NotNil(t, ts)
	_, isTime := ts.Default.(time.Time)
	assert.True(t, isTime)

	// database expressions stay verbatim
	expr := Convert(&introspect.FieldInfo{Name: "created", Kind: introspect.KindDateTime, HasDefault: true, Default: "CURRENT_TIMESTAMP"})
	require.NotNil(t, expr)
	assert.Equal(t, "CURRENT_TIMESTAMP", expr.Default)
}

func TestConvertEnumBeforeGeneric(t *testing.T) {
	choices := []introspect.EnumValue{
		{Name: "StatusOpen", Value: 1, Label: "open"},
		{Name: "StatusClosed", Value: 2, Label: "closed"},
	}

	intEnum := Convert(&introspect.FieldInfo{
		Name: "status", Kind: introspect.KindInt, Choices: choices,
		HasDefault: true, Default: 1,
	})
	require.NotNil(t, intEnum)
	assert.Equal(t, IntEnum, intEnum.Type)
	assert.Len(t, intEnum.Choices, 2)
	assert.Equal(t, "StatusOpen", intEnum.Choices[0].Name)

	charEnum := Convert(&introspect.FieldInfo{
		Name: "priority", Kind: introspect.KindChar, Choices: choices, MaxLength: 10,
	})
	require.NotNil(t, charEnum)
	assert.Equal(t, CharEnum, charEnum.Type)
	assert.Equal(t, 10, charEnum.MaxLength)
}

func TestConvertDecimalCarriesPrecision(t *testing.T) {
	fld := Convert(&introspect.FieldInfo{
		Name: "amount", Kind: introspect.KindDecimal, MaxDigits: 12, DecimalPlaces: 4,
	})

	require.NotNil(t, fld)
	assert.Equal(t, Decimal, fld.Type)
	assert.Equal(t, 12, fld.MaxDigits)
	assert.Equal(t, 4, fld.DecimalPlaces)
}

func TestConvertBoundedStringDegradations(t *testing.T) {
	bounds := map[string]int{
		introspect.KindFile:   100,
		introspect.KindSlug:   50,
		introspect.KindEmail:  254,
		introspect.KindURL:    200,
		introspect.KindIPAddr: 39,
	}

	for kind, want := range bounds {
		fld := Convert(&introspect.FieldInfo{Name: "f", Kind: kind})
		require.NotNil(t, fld, "kind %s", kind)
		assert.Equal(t, Char, fld.Type, "kind %s", kind)
		assert.Equal(t, want, fld.MaxLength, "kind %s", kind)
	}

	// an explicit source bound wins over the degradation default
	fld := Convert(&introspect.FieldInfo{Name: "f", Kind: introspect.KindSlug, MaxLength: 80})
	require.NotNil(t, fld)
	assert.Equal(t, 80, fld.MaxLength)
}

func TestConvertCharFallbackLength(t *testing.T) {
	fld := Convert(&introspect.FieldInfo{Name: "f", Kind: introspect.KindChar})
	require.NotNil(t, fld)
	assert.Equal(t, 255, fld.MaxLength)
}

func TestConvertUnknownKind(t *testing.T) {
	assert.Nil(t, Convert(&introspect.FieldInfo{Name: "shape", Kind: "geometry"}))
}

func TestConvertRelation(t *testing.T) {
	fk := ConvertRelation(&introspect.FieldInfo{
		Name: "department", Kind: introspect.KindForeignKey,
		OnDelete: "SET NULL", RelatedName: "members", Null: true,
		Column: "department_id",
	}, "DepartmentMirror")

	assert.Equal(t, ForeignKey, fk.Type)
	assert.Equal(t, "DepartmentMirror", fk.Relation.Target)
	assert.Equal(t, SetNull, fk.Relation.OnDelete)
	assert.Equal(t, "members", fk.Relation.RelatedName)
	assert.True(t, fk.Null)
	// column matches the target convention, no override needed
	assert.Empty(t, fk.Column)

	o2o := ConvertRelation(&introspect.FieldInfo{
		Name: "profile", Kind: introspect.KindOneToOne, Column: "profile_ref",
	}, "ProfileMirror")
	assert.Equal(t, OneToOne, o2o.Type)
	assert.Equal(t, "profile_ref", o2o.Column)

	m2m := ConvertRelation(&introspect.FieldInfo{
		Name: "tags", Kind: introspect.KindManyToMany,
		ThroughModel: "PostTag", ThroughTable: "post_tags",
	}, "TagMirror")
	assert.Equal(t, ManyToMany, m2m.Type)
	assert.Equal(t, "PostTag", m2m.Relation.Through)
	assert.Equal(t, "post_tags", m2m.Relation.ThroughTable)
}

func TestConvertRelationSelfReferential(t *testing.T) {
	fld := ConvertRelation(&introspect.FieldInfo{
		Name: "parent", Kind: introspect.KindForeignKey, IsSelfReferential: true,
	}, "CategoryMirror")

	assert.True(t, fld.Relation.SelfRef)
}

func TestNamingStrategy(t *testing.T) {
	ns := NamingStrategy{}

	assert.Equal(t, "EmployeeMirror", ns.MirrorName("Employee"))
	assert.Equal(t, "created_at", ns.AttributeName("CreatedAt"))
	assert.Equal(t, "post_tags", ns.JoinTableName("Post", "Tag"))

	custom := NamingStrategy{Suffix: "Shadow"}
	assert.Equal(t, "EmployeeShadow", custom.MirrorName("Employee"))
}
