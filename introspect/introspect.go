package introspect

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm/schema"

	"github.com/ormbridge/ormbridge/utils"
)

var (
	jsonType     = reflect.TypeOf(json.RawMessage{})
	uuidType     = reflect.TypeOf(uuid.UUID{})
	durationType = reflect.TypeOf(time.Duration(0))
)

// Model builds the neutral description of a parsed gorm schema. Reverse
// relation fields (has one, has many) and the scalar foreign key columns
// consumed by a belongs-to relation are not part of the result; they are
// represented by the owning side only.
func Model(sch *schema.Schema) *ModelInfo {
	ptr := reflect.New(sch.ModelType).Interface()

	info := &ModelInfo{
		Identity:  sch.ModelType,
		AppLabel:  pkgBase(sch.ModelType.PkgPath()),
		ModelName: sch.Name,
		DBTable:   sch.Table,
		IsManaged: true,
	}

	if _, ok := ptr.(abstractModel); ok {
		info.IsAbstract = true
	}
	if _, ok := ptr.(proxyModel); ok {
		info.IsProxy = true
	}
	if _, ok := ptr.(unmanagedModel); ok {
		info.IsManaged = false
	}

	var defaults map[string]interface{}
	if d, ok := ptr.(Defaulter); ok {
		defaults = d.FieldDefaults()
	}

	// Scalar columns that back a belongs-to relation are folded into the
	// relation field itself.
	consumed := map[string]bool{}
	for _, rel := range sch.Relationships.BelongsTo {
		for _, ref := range rel.References {
			if !ref.OwnPrimaryKey && ref.ForeignKey != nil {
				consumed[ref.ForeignKey.Name] = true
			}
		}
	}

	for _, f := range sch.Fields {
		if rel, ok := sch.Relationships.Relations[f.Name]; ok {
			switch rel.Type {
			case schema.BelongsTo, schema.Many2Many:
				if fi := RelationField(sch, rel); fi != nil {
					info.Fields = append(info.Fields, fi)
				}
			}
			// has one / has many are the reverse side, owned elsewhere
			continue
		}

		if consumed[f.Name] {
			continue
		}
		if f.DBName == "" {
			continue
		}

		info.Fields = append(info.Fields, Field(f, defaults))
	}

	if pk := sch.PrioritizedPrimaryField; pk != nil {
		info.PKName = utils.SnakeCase(pk.Name)
	}

	for _, idx := range sch.ParseIndexes() {
		if idx.Class != "UNIQUE" || len(idx.Fields) < 2 {
			continue
		}
		var names []string
		for _, opt := range idx.Fields {
			names = append(names, utils.SnakeCase(opt.Field.Name))
		}
		info.UniqueTogether = append(info.UniqueTogether, names)
	}

	return info
}

// Field builds the neutral description of one scalar gorm field. defaults
// carries runtime default values keyed by target attribute name; a nil map
// value there declares an explicit null default.
func Field(f *schema.Field, defaults map[string]interface{}) *FieldInfo {
	settings := utils.ParseTagSetting(f.Tag.Get("bridge"), ";")

	info := &FieldInfo{
		Name:       utils.SnakeCase(f.Name),
		GoField:    f.Name,
		Column:     f.DBName,
		PrimaryKey: f.PrimaryKey,
		Null:       f.FieldType.Kind() == reflect.Ptr && !f.NotNull,
		Unique:     f.Unique,
	}

	if _, ok := f.TagSettings["INDEX"]; ok {
		info.Index = true
	}

	info.Kind = fieldKind(f, settings)
	info.Generated = f.AutoIncrement && f.PrimaryKey && isAutoKind(info.Kind)

	switch info.Kind {
	case KindChar, KindText, KindFile, KindSlug, KindEmail, KindURL, KindIPAddr:
		info.MaxLength = f.Size
	case KindDecimal:
		info.MaxDigits = f.Precision
		info.DecimalPlaces = f.Scale
	}

	if v, ok := lookupDefault(defaults, info.Name); ok {
		info.HasDefault = true
		info.Default = v
	} else if f.HasDefaultValue && !info.Generated {
		info.HasDefault = true
		if f.DefaultValueInterface != nil {
			info.Default = f.DefaultValueInterface
		} else if f.DefaultValue != "" {
			info.Default = f.DefaultValue
		}
	}

	// Enumerations are only recoverable through a typed default value. Tag
	// defaults arrive as normalized primitives and nullable enum fields
	// without defaults stay plain int/char fields.
	if enum, ok := info.Default.(Enumerated); ok {
		info.Choices = enum.EnumValues()
		info.EnumType = reflect.TypeOf(info.Default)
	}

	return info
}

// RelationField builds the description of a forward relation: a belongs-to
// (foreign key, one-to-one when the backing column is unique) or a
// many-to-many. Returns nil when the relation cannot be represented.
func RelationField(sch *schema.Schema, rel *schema.Relationship) *FieldInfo {
	if rel.FieldSchema == nil {
		return nil
	}

	settings := utils.ParseTagSetting(rel.Field.Tag.Get("bridge"), ";")

	info := &FieldInfo{
		Name:              utils.SnakeCase(rel.Name),
		GoField:           rel.Name,
		IsRelation:        true,
		RelatedModel:      rel.FieldSchema.ModelType,
		RelatedModelLabel: Label(rel.FieldSchema.ModelType),
		IsSelfReferential: rel.FieldSchema.ModelType == sch.ModelType,
		Null:              rel.Field.FieldType.Kind() == reflect.Ptr,
	}

	if name, ok := settings["RELATED_NAME"]; ok && name != "+" && name != "RELATED_NAME" {
		info.RelatedName = name
	}

	if c := rel.ParseConstraint(); c != nil {
		info.OnDelete = c.OnDelete
	}

	if rel.Type == schema.Many2Many {
		info.Kind = KindManyToMany
		info.ManyToMany = true
		if rel.JoinTable != nil {
			info.ThroughModel = rel.JoinTable.Name
			info.ThroughTable = rel.JoinTable.Table
		}
		return info
	}

	info.Kind = KindForeignKey
	for _, ref := range rel.References {
		if ref.OwnPrimaryKey || ref.ForeignKey == nil {
			continue
		}
		fk := ref.ForeignKey
		info.Column = fk.DBName
		if fk.FieldType.Kind() == reflect.Ptr && !fk.NotNull {
			info.Null = true
		}
		if fk.Unique {
			info.Kind = KindOneToOne
		}
	}

	return info
}

// SkipModel reports whether a model is excluded from mirroring, with the
// reason. Unmanaged models are mirrored; their schema is simply not owned
// by the source framework.
func SkipModel(info *ModelInfo) (bool, string) {
	switch {
	case info.IsAbstract:
		return true, "abstract model"
	case info.IsProxy:
		return true, "proxy model"
	case len(info.Fields) == 0:
		return true, "no mappable fields"
	}
	return false, ""
}

func lookupDefault(defaults map[string]interface{}, name string) (interface{}, bool) {
	if defaults == nil {
		return nil, false
	}
	v, ok := defaults[name]
	return v, ok
}

func fieldKind(f *schema.Field, settings map[string]string) string {
	if kind, ok := settings["KIND"]; ok && kind != "KIND" {
		return strings.ToLower(kind)
	}

	typeTag := strings.ToLower(f.TagSettings["TYPE"])
	ft := f.IndirectFieldType

	switch {
	case ft == jsonType, typeTag == "json", typeTag == "jsonb",
		strings.EqualFold(f.TagSettings["SERIALIZER"], "json"):
		return KindJSON
	case ft == uuidType:
		return KindUUID
	case ft == durationType:
		return KindDuration
	}

	switch f.GORMDataType {
	case schema.Bool:
		return KindBool
	case schema.Int:
		return intKind(f, ft.Kind(), false)
	case schema.Uint:
		return intKind(f, ft.Kind(), true)
	case schema.Float:
		if isDecimal(f, typeTag) {
			return KindDecimal
		}
		return KindFloat
	case schema.String:
		if isDecimal(f, typeTag) {
			return KindDecimal
		}
		if f.Size > 0 {
			return KindChar
		}
		return KindText
	case schema.Bytes:
		return KindBinary
	case schema.Time:
		if typeTag == "date" {
			return KindDate
		}
		return KindDateTime
	}

	return KindText
}

func intKind(f *schema.Field, k reflect.Kind, unsigned bool) string {
	auto := f.PrimaryKey && f.AutoIncrement

	switch k {
	case reflect.Int8, reflect.Int16, reflect.Uint8, reflect.Uint16:
		if auto {
			return KindSmallAuto
		}
		if unsigned {
			return KindSmallUint
		}
		return KindSmallInt
	case reflect.Int32, reflect.Uint32:
		if auto {
			return KindAuto
		}
		if unsigned {
			return KindUint
		}
		return KindInt
	default:
		if auto {
			return KindBigAuto
		}
		if unsigned {
			return KindBigUint
		}
		return KindBigInt
	}
}

func isDecimal(f *schema.Field, typeTag string) bool {
	if strings.HasPrefix(typeTag, "decimal") || strings.HasPrefix(typeTag, "numeric") {
		return true
	}
	return f.Precision > 0 && f.Scale > 0
}

func isAutoKind(kind string) bool {
	return kind == KindAuto || kind == KindBigAuto || kind == KindSmallAuto
}

func pkgBase(pkgPath string) string {
	if i := strings.LastIndexByte(pkgPath, '/'); i >= 0 {
		return pkgPath[i+1:]
	}
	return pkgPath
}
