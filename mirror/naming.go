package mirror

import (
	"github.com/jinzhu/inflection"

	"github.com/ormbridge/ormbridge/utils"
)

// Namer names the generated declarations.
type Namer interface {
	MirrorName(modelName string) string
	AttributeName(goField string) string
	JoinTableName(owner, related string) string
}

// NamingStrategy is the default Namer: "<Model>Mirror" declarations,
// snake_case attributes, pluralized join tables.
type NamingStrategy struct {
	Suffix string
}

// MirrorName returns the target declaration name for a source model name.
func (ns NamingStrategy) MirrorName(modelName string) string {
	suffix := ns.Suffix
	if suffix == "" {
		suffix = "Mirror"
	}
	return modelName + suffix
}

// AttributeName converts a struct field name to its target attribute name.
func (ns NamingStrategy) AttributeName(goField string) string {
	return utils.SnakeCase(goField)
}

// JoinTableName names the implicit table backing a many-to-many relation.
func (ns NamingStrategy) JoinTableName(owner, related string) string {
	return utils.SnakeCase(owner) + "_" + inflection.Plural(utils.SnakeCase(related))
}
