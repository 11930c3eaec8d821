package mirror

import (
	"strings"
	"time"

	"github.com/jinzhu/now"
	"github.com/spf13/cast"

	"github.com/ormbridge/ormbridge/introspect"
)

// Converter maps one neutral field description onto a target field
// declaration. Returning nil drops the field.
type Converter func(f *introspect.FieldInfo) *Field

var converters = map[string]Converter{}

// RegisterConverter installs a converter for a source field kind,
// replacing any previous one.
func RegisterConverter(kind string, fn Converter) {
	converters[kind] = fn
}

// Convert dispatches on the field kind. Unknown kinds return nil; the
// caller decides how loudly to drop the field.
func Convert(f *introspect.FieldInfo) *Field {
	if fn, ok := converters[f.Kind]; ok {
		return fn(f)
	}
	return nil
}

func init() {
	RegisterConverter(introspect.KindAuto, convertAuto(Int))
	RegisterConverter(introspect.KindBigAuto, convertAuto(BigInt))
	RegisterConverter(introspect.KindSmallAuto, convertAuto(SmallInt))

	RegisterConverter(introspect.KindInt, convertInt(Int))
	RegisterConverter(introspect.KindBigInt, convertInt(BigInt))
	RegisterConverter(introspect.KindSmallInt, convertInt(SmallInt))
	RegisterConverter(introspect.KindUint, convertInt(Int))
	RegisterConverter(introspect.KindBigUint, convertInt(BigInt))
	RegisterConverter(introspect.KindSmallUint, convertInt(SmallInt))

	RegisterConverter(introspect.KindChar, convertChar)
	RegisterConverter(introspect.KindText, convertPlain(Text))
	RegisterConverter(introspect.KindBool, convertPlain(Bool))
	RegisterConverter(introspect.KindDate, convertPlain(Date))
	RegisterConverter(introspect.KindDateTime, convertPlain(DateTime))
	RegisterConverter(introspect.KindDuration, convertPlain(Duration))
	RegisterConverter(introspect.KindFloat, convertPlain(Float))
	RegisterConverter(introspect.KindBinary, convertPlain(Binary))
	RegisterConverter(introspect.KindUUID, convertPlain(UUID))
	RegisterConverter(introspect.KindJSON, convertPlain(JSON))
	RegisterConverter(introspect.KindDecimal, convertDecimal)

	// Specialized string fields degrade to bounded char columns.
	RegisterConverter(introspect.KindFile, convertBounded(100))
	RegisterConverter(introspect.KindSlug, convertBounded(50))
	RegisterConverter(introspect.KindEmail, convertBounded(254))
	RegisterConverter(introspect.KindURL, convertBounded(200))
	RegisterConverter(introspect.KindIPAddr, convertBounded(39))
}

// applyCommon carries the parameters shared by every field kind. A default
// is propagated whenever the source declared one, including an explicit
// null default. Unique and index markers are deliberately not carried into
// live declarations: the mirrored schema is owned by the source framework.
func applyCommon(f *introspect.FieldInfo, fld *Field) *Field {
	fld.Name = f.Name
	fld.Null = f.Null
	fld.PrimaryKey = f.PrimaryKey
	fld.Generated = f.Generated
	if f.Column != "" && f.Column != f.Name {
		fld.Column = f.Column
	}
	if f.HasDefault {
		fld.HasDefault = true
		fld.Default = coerceDefault(fld.Type, f.Default)
	}
	return fld
}

func convertAuto(t FieldType) Converter {
	return func(f *introspect.FieldInfo) *Field {
		return applyCommon(f, &Field{Type: t, Generated: true, PrimaryKey: true})
	}
}

func convertInt(t FieldType) Converter {
	return func(f *introspect.FieldInfo) *Field {
		if fld := tryEnum(f, IntEnum); fld != nil {
			return fld
		}
		return applyCommon(f, &Field{Type: t})
	}
}

func convertChar(f *introspect.FieldInfo) *Field {
	if fld := tryEnum(f, CharEnum); fld != nil {
		return fld
	}
	fld := &Field{Type: Char, MaxLength: f.MaxLength}
	if fld.MaxLength == 0 {
		fld.MaxLength = 255
	}
	return applyCommon(f, fld)
}

func convertPlain(t FieldType) Converter {
	return func(f *introspect.FieldInfo) *Field {
		return applyCommon(f, &Field{Type: t})
	}
}

func convertDecimal(f *introspect.FieldInfo) *Field {
	return applyCommon(f, &Field{
		Type:          Decimal,
		MaxDigits:     f.MaxDigits,
		DecimalPlaces: f.DecimalPlaces,
	})
}

func convertBounded(maxLength int) Converter {
	return func(f *introspect.FieldInfo) *Field {
		fld := &Field{Type: Char, MaxLength: f.MaxLength}
		if fld.MaxLength == 0 {
			fld.MaxLength = maxLength
		}
		return applyCommon(f, fld)
	}
}

// tryEnum claims fields whose introspected default carried an enumeration.
// It runs before the generic numeric and string converters.
func tryEnum(f *introspect.FieldInfo, t FieldType) *Field {
	if len(f.Choices) == 0 {
		return nil
	}

	fld := &Field{Type: t, Choices: make([]Choice, 0, len(f.Choices))}
	for _, c := range f.Choices {
		fld.Choices = append(fld.Choices, Choice{Name: c.Name, Value: c.Value, Label: c.Label})
	}
	if t == CharEnum {
		fld.MaxLength = f.MaxLength
		if fld.MaxLength == 0 {
			fld.MaxLength = 255
		}
	}
	return applyCommon(f, fld)
}

// ConvertRelation maps a forward relation onto a relation field pointing at
// the resolved target declaration name.
func ConvertRelation(f *introspect.FieldInfo, target string) *Field {
	rel := &Relation{
		Target:      target,
		OnDelete:    MapOnDelete(f.OnDelete),
		RelatedName: f.RelatedName,
		SelfRef:     f.IsSelfReferential,
	}

	fld := &Field{Name: f.Name, Relation: rel}

	switch f.Kind {
	case introspect.KindOneToOne:
		fld.Type = OneToOne
		fld.Null = f.Null
	case introspect.KindManyToMany:
		fld.Type = ManyToMany
		rel.Through = f.ThroughModel
		rel.ThroughTable = f.ThroughTable
	default:
		fld.Type = ForeignKey
		fld.Null = f.Null
	}

	// The backing column defaults to "<name>_id" on the target side; only
	// a deviating source column needs to be spelled out.
	if f.Column != "" && f.Column != f.Name+"_id" {
		fld.Column = f.Column
	}

	return fld
}

// MapOnDelete translates a source referential action into the target
// policy. Matching ignores case, dashes and underscores. Unknown or empty
// actions fall back to cascade, the source framework's own default.
func MapOnDelete(action string) OnDelete {
	normalized := strings.ToUpper(strings.TrimSpace(action))
	normalized = strings.NewReplacer("-", " ", "_", " ").Replace(normalized)

	switch normalized {
	case "CASCADE":
		return Cascade
	case "SET NULL":
		return SetNull
	case "SET DEFAULT":
		return SetDefault
	case "PROTECT", "RESTRICT":
		return Restrict
	case "DO NOTHING", "NO ACTION":
		return NoAction
	default:
		return Cascade
	}
}

// coerceDefault turns tag-string defaults into typed values where the
// target field type demands one. Values that already carry a type, and
// strings that do not parse (database expressions, for one), pass through.
func coerceDefault(t FieldType, v interface{}) interface{} {
	s, ok := v.(string)
	if !ok {
		return v
	}

	switch t {
	case Bool:
		return cast.ToBool(s)
	case Int, BigInt, SmallInt, IntEnum:
		if n, err := cast.ToInt64E(s); err == nil {
			return n
		}
	case Float:
		if fv, err := cast.ToFloat64E(s); err == nil {
			return fv
		}
	case Duration:
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	case Date, DateTime:
		if ts, err := now.Parse(s); err == nil {
			return ts
		}
	}
	return s
}
