package mirror

import (
	"context"

	"github.com/ormbridge/ormbridge/introspect"
	"github.com/ormbridge/ormbridge/logger"
)

// BuildModel materializes a live mirror model from a neutral model
// description. Relation fields whose target is absent from names are
// dropped with a warning. A model with no convertible data fields at all
// yields nil.
func BuildModel(info *introspect.ModelInfo, namespace string, names introspect.NameMap, log logger.Interface) *Model {
	ctx := context.Background()

	model := &Model{
		Name: names[info.Identity],
		Meta: Meta{
			Table:     info.DBTable,
			Namespace: namespace,
		},
	}

	dataFields := 0
	for _, f := range info.Fields {
		if f.IsRelation {
			target, ok := names[f.RelatedModel]
			if !ok {
				log.Warn(ctx, "dropping relation field %s.%s: target %s is not mirrored",
					info.ModelName, f.Name, f.RelatedModelLabel)
				continue
			}
			model.Fields = append(model.Fields, ConvertRelation(f, target))
			continue
		}

		fld := Convert(f)
		if fld == nil {
			log.Warn(ctx, "skipping field %s.%s: unsupported kind %q",
				info.ModelName, f.Name, f.Kind)
			continue
		}
		model.Fields = append(model.Fields, fld)
		dataFields++
	}

	if dataFields == 0 {
		log.Warn(ctx, "model %s has no mappable data fields, skipping", info.ModelName)
		return nil
	}

	present := map[string]bool{}
	for _, f := range model.Fields {
		present[f.Name] = true
	}
	kept, dropped := FilterUniqueTogether(info.UniqueTogether, present)
	model.Meta.UniqueTogether = kept
	for _, group := range dropped {
		log.Warn(ctx, "dropping unique constraint %v on %s: not all fields were mirrored",
			group, info.ModelName)
	}

	return model
}
