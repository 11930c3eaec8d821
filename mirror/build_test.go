package mirror

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ormbridge/ormbridge/introspect"
	"github.com/ormbridge/ormbridge/logger"
)

type buildOwner struct{}
type buildTarget struct{}

func ownerInfo() *introspect.ModelInfo {
	return &introspect.ModelInfo{
		Identity:  reflect.TypeOf(buildOwner{}),
		ModelName: "Owner",
		DBTable:   "owners",
		Fields: []*introspect.FieldInfo{
			{Name: "id", Kind: introspect.KindBigAuto, PrimaryKey: true, Generated: true},
			{Name: "name", Kind: introspect.KindChar, MaxLength: 50},
			{
				Name: "target", Kind: introspect.KindForeignKey, IsRelation: true,
				RelatedModel: reflect.TypeOf(buildTarget{}), RelatedModelLabel: "mirror.buildTarget",
			},
		},
	}
}

func TestBuildModel(t *testing.T) {
	rec := logger.NewRecorder()
	names := introspect.NameMap{
		reflect.TypeOf(buildOwner{}):  "OwnerMirror",
		reflect.TypeOf(buildTarget{}): "TargetMirror",
	}

	model := BuildModel(ownerInfo(), "app", names, rec)

	require.NotNil(t, model)
	assert.Equal(t, "OwnerMirror", model.Name)
	assert.Equal(t, "owners", model.Meta.Table)
	assert.Equal(t, "app", model.Meta.Namespace)
	assert.Equal(t, "app.OwnerMirror", model.Label())
	assert.Equal(t, []string{"id", "name", "target"}, model.FieldNames())
	assert.Equal(t, "TargetMirror", model.Field("target").Relation.Target)
	assert.Empty(t, rec.Messages(logger.Warn))
}

func TestBuildModelDropsUnresolvedRelation(t *testing.T) {
	rec := logger.NewRecorder()
	names := introspect.NameMap{
		reflect.TypeOf(buildOwner{}): "OwnerMirror",
		// target absent
	}

	model := BuildModel(ownerInfo(), "app", names, rec)

	require.NotNil(t, model)
	assert.Equal(t, []string{"id", "name"}, model.FieldNames())

	warnings := rec.Messages(logger.Warn)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "mirror.buildTarget")
}

func TestBuildModelNilWithoutDataFields(t *testing.T) {
	rec := logger.NewRecorder()
	info := &introspect.ModelInfo{
		Identity:  reflect.TypeOf(buildOwner{}),
		ModelName: "Owner",
		Fields: []*introspect.FieldInfo{
			{Name: "shape", Kind: "geometry"},
		},
	}

	model := BuildModel(info, "app", introspect.NameMap{reflect.TypeOf(buildOwner{}): "OwnerMirror"}, rec)

	assert.Nil(t, model)
	assert.NotEmpty(t, rec.Messages(logger.Warn))
}

func TestBuildModelUniqueTogether(t *testing.T) {
	rec := logger.NewRecorder()
	info := ownerInfo()
	info.UniqueTogether = [][]string{
		{"id", "name"},
		{"name", "shape"}, // shape never mirrored
	}

	names := introspect.NameMap{
		reflect.TypeOf(buildOwner{}):  "OwnerMirror",
		reflect.TypeOf(buildTarget{}): "TargetMirror",
	}
	model := BuildModel(info, "app", names, rec)

	require.NotNil(t, model)
	assert.Equal(t, [][]string{{"id", "name"}}, model.Meta.UniqueTogether)
	require.Len(t, rec.Messages(logger.Warn), 1)
	assert.Contains(t, rec.Messages(logger.Warn)[0], "unique constraint")
}

func TestRemoveField(t *testing.T) {
	model := &Model{Fields: []*Field{{Name: "a"}, {Name: "b"}}}

	assert.True(t, model.RemoveField("a"))
	assert.False(t, model.RemoveField("a"))
	assert.Equal(t, []string{"b"}, model.FieldNames())
}

func TestFilterUniqueTogether(t *testing.T) {
	kept, dropped := FilterUniqueTogether(
		[][]string{{"a", "b"}, {"b", "c"}},
		map[string]bool{"a": true, "b": true},
	)

	assert.Equal(t, [][]string{{"a", "b"}}, kept)
	assert.Equal(t, [][]string{{"b", "c"}}, dropped)
}
