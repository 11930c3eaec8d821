package ormbridge

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ormbridge/ormbridge/mirror"
)

type regSourceA struct{}
type regSourceB struct{}

func TestRegistryInverseLaw(t *testing.T) {
	r := NewRegistry()
	model := &mirror.Model{Name: "AMirror"}
	source := reflect.TypeOf(regSourceA{})

	r.Register(source, model, "ormbridge.regSourceA")

	assert.Same(t, model, r.GetTarget(source))

	back, ok := r.GetSource(model)
	require.True(t, ok)
	assert.Equal(t, source, back)

	assert.Same(t, model, r.GetByLabel("ormbridge.regSourceA"))
}

func TestRegistryOrderedTargets(t *testing.T) {
	r := NewRegistry()
	a := &mirror.Model{Name: "AMirror"}
	b := &mirror.Model{Name: "BMirror"}

	r.Register(reflect.TypeOf(regSourceA{}), a, "x.A")
	r.Register(reflect.TypeOf(regSourceB{}), b, "x.B")

	targets := r.AllTargets()
	require.Len(t, targets, 2)
	assert.Same(t, a, targets[0])
	assert.Same(t, b, targets[1])
	assert.Equal(t, 2, r.Len())
}

func TestRegistryReplace(t *testing.T) {
	r := NewRegistry()
	source := reflect.TypeOf(regSourceA{})
	old := &mirror.Model{Name: "OldMirror"}
	fresh := &mirror.Model{Name: "FreshMirror"}

	r.Register(source, old, "x.A")
	r.Register(source, fresh, "x.A")

	assert.Same(t, fresh, r.GetTarget(source))
	_, ok := r.GetSource(old)
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryReplaceDropsOldLabel(t *testing.T) {
	r := NewRegistry()
	source := reflect.TypeOf(regSourceA{})
	old := &mirror.Model{Name: "OldMirror"}
	fresh := &mirror.Model{Name: "FreshMirror"}

	r.Register(source, old, "x.Old")
	r.Register(source, fresh, "x.Fresh")

	assert.Nil(t, r.GetByLabel("x.Old"))
	assert.Same(t, fresh, r.GetByLabel("x.Fresh"))
	assert.Equal(t, 1, r.Len())
}

func TestRegistryClear(t *testing.T) {
	r := NewRegistry()
	model := &mirror.Model{Name: "AMirror"}
	source := reflect.TypeOf(regSourceA{})
	r.Register(source, model, "x.A")

	r.Clear()

	assert.Nil(t, r.GetTarget(source))
	assert.Nil(t, r.GetByLabel("x.A"))
	_, ok := r.GetSource(model)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.AllTargets())
}

func TestRegistryUnknownLookups(t *testing.T) {
	r := NewRegistry()

	assert.Nil(t, r.GetTarget(reflect.TypeOf(regSourceA{})))
	assert.Nil(t, r.GetByLabel("nope"))
	_, ok := r.GetSource(&mirror.Model{})
	assert.False(t, ok)
}
