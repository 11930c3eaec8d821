// Package codegen renders introspected models as Go source text declaring
// mirror models. It keeps its own dispatch table per field kind, parallel
// to the live converter registry in the mirror package, so both
// materialization modes stay independently replaceable.
package codegen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ormbridge/ormbridge/introspect"
	"github.com/ormbridge/ormbridge/mirror"
)

// ImportSet collects the package paths a rendered file needs.
type ImportSet struct {
	paths map[string]bool
}

// NewImportSet seeds the set with the packages every rendered file uses.
func NewImportSet() *ImportSet {
	return &ImportSet{paths: map[string]bool{mirrorPkg: true}}
}

const mirrorPkg = "github.com/ormbridge/ormbridge/mirror"

// Add records a package path.
func (s *ImportSet) Add(path string) {
	if path != "" {
		s.paths[path] = true
	}
}

// Sorted returns the collected paths in lexicographic order.
func (s *ImportSet) Sorted() []string {
	paths := make([]string, 0, len(s.paths))
	for p := range s.paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// FieldDecl is the rendered shape of one field declaration.
type FieldDecl struct {
	Type   string   // mirror type name, e.g. "Char"
	Extras []string // kind-specific literal fragments
}

// Renderer maps one neutral field description to source fragments.
type Renderer func(f *introspect.FieldInfo, imports *ImportSet) *FieldDecl

var renderers = map[string]Renderer{}

// RegisterRenderer installs a renderer for a source field kind, replacing
// any previous one.
func RegisterRenderer(kind string, fn Renderer) {
	renderers[kind] = fn
}

func init() {
	RegisterRenderer(introspect.KindAuto, renderAuto("Int"))
	RegisterRenderer(introspect.KindBigAuto, renderAuto("BigInt"))
	RegisterRenderer(introspect.KindSmallAuto, renderAuto("SmallInt"))

	RegisterRenderer(introspect.KindInt, renderInt("Int"))
	RegisterRenderer(introspect.KindBigInt, renderInt("BigInt"))
	RegisterRenderer(introspect.KindSmallInt, renderInt("SmallInt"))
	RegisterRenderer(introspect.KindUint, renderInt("Int"))
	RegisterRenderer(introspect.KindBigUint, renderInt("BigInt"))
	RegisterRenderer(introspect.KindSmallUint, renderInt("SmallInt"))

	RegisterRenderer(introspect.KindChar, renderChar)
	RegisterRenderer(introspect.KindText, renderPlain("Text"))
	RegisterRenderer(introspect.KindBool, renderPlain("Bool"))
	RegisterRenderer(introspect.KindDate, renderPlain("Date"))
	RegisterRenderer(introspect.KindDateTime, renderPlain("DateTime"))
	RegisterRenderer(introspect.KindDuration, renderPlain("Duration"))
	RegisterRenderer(introspect.KindFloat, renderPlain("Float"))
	RegisterRenderer(introspect.KindBinary, renderPlain("Binary"))
	RegisterRenderer(introspect.KindUUID, renderPlain("UUID"))
	RegisterRenderer(introspect.KindJSON, renderPlain("JSON"))
	RegisterRenderer(introspect.KindDecimal, renderDecimal)

	RegisterRenderer(introspect.KindFile, renderBounded(100))
	RegisterRenderer(introspect.KindSlug, renderBounded(50))
	RegisterRenderer(introspect.KindEmail, renderBounded(254))
	RegisterRenderer(introspect.KindURL, renderBounded(200))
	RegisterRenderer(introspect.KindIPAddr, renderBounded(39))
}

func renderAuto(typ string) Renderer {
	return func(f *introspect.FieldInfo, _ *ImportSet) *FieldDecl {
		return &FieldDecl{Type: typ}
	}
}

func renderInt(typ string) Renderer {
	return func(f *introspect.FieldInfo, imports *ImportSet) *FieldDecl {
		if len(f.Choices) > 0 {
			return &FieldDecl{Type: "IntEnum", Extras: []string{choicesLiteral(f, imports)}}
		}
		return &FieldDecl{Type: typ}
	}
}

func renderChar(f *introspect.FieldInfo, imports *ImportSet) *FieldDecl {
	if len(f.Choices) > 0 {
		return &FieldDecl{Type: "CharEnum", Extras: []string{
			maxLengthLiteral(f.MaxLength, 255),
			choicesLiteral(f, imports),
		}}
	}
	return &FieldDecl{Type: "Char", Extras: []string{maxLengthLiteral(f.MaxLength, 255)}}
}

func renderPlain(typ string) Renderer {
	return func(f *introspect.FieldInfo, _ *ImportSet) *FieldDecl {
		return &FieldDecl{Type: typ}
	}
}

func renderDecimal(f *introspect.FieldInfo, _ *ImportSet) *FieldDecl {
	return &FieldDecl{Type: "Decimal", Extras: []string{
		fmt.Sprintf("MaxDigits: %d", f.MaxDigits),
		fmt.Sprintf("DecimalPlaces: %d", f.DecimalPlaces),
	}}
}

func renderBounded(maxLength int) Renderer {
	return func(f *introspect.FieldInfo, _ *ImportSet) *FieldDecl {
		return &FieldDecl{Type: "Char", Extras: []string{maxLengthLiteral(f.MaxLength, maxLength)}}
	}
}

func maxLengthLiteral(length, fallback int) string {
	if length == 0 {
		length = fallback
	}
	return fmt.Sprintf("MaxLength: %d", length)
}

func choicesLiteral(f *introspect.FieldInfo, imports *ImportSet) string {
	var items []string
	for _, c := range f.Choices {
		items = append(items, fmt.Sprintf("{Name: %q, Value: %s, Label: %q}",
			c.Name, choiceValueExpr(f, c, imports), c.Label))
	}
	return "Choices: []mirror.Choice{" + strings.Join(items, ", ") + "}"
}

// choiceValueExpr prefers the named constant when the enum's package is
// known, keeping generated values typed.
func choiceValueExpr(f *introspect.FieldInfo, c introspect.EnumValue, imports *ImportSet) string {
	if f.EnumType != nil && f.EnumType.PkgPath() != "" {
		imports.Add(f.EnumType.PkgPath())
		return pkgBase(f.EnumType.PkgPath()) + "." + c.Name
	}
	if expr, ok := literal(c.Value); ok {
		return expr
	}
	return "nil"
}

// RenderField renders one data field literal line. The second return is
// false for unknown kinds.
func RenderField(f *introspect.FieldInfo, imports *ImportSet) (string, bool) {
	fn, ok := renderers[f.Kind]
	if !ok {
		return "", false
	}
	decl := fn(f, imports)

	parts := []string{
		fmt.Sprintf("Name: %q", f.Name),
		"Type: mirror." + decl.Type,
	}

	if f.Column != "" && f.Column != f.Name {
		parts = append(parts, fmt.Sprintf("Column: %q", f.Column))
	}
	parts = append(parts, decl.Extras...)

	if f.PrimaryKey {
		parts = append(parts, "PrimaryKey: true")
	}
	if f.Generated {
		parts = append(parts, "Generated: true")
	}
	if f.Null {
		parts = append(parts, "Null: true")
	}
	if f.Unique && !f.PrimaryKey {
		parts = append(parts, "Unique: true")
	}
	if f.Index {
		parts = append(parts, "Index: true")
	}

	var comment string
	if f.HasDefault {
		expr, note := defaultExpr(f, imports)
		parts = append(parts, "HasDefault: true", "Default: "+expr)
		comment = note
	}

	line := "{" + strings.Join(parts, ", ") + "},"
	if comment != "" {
		line += " // " + comment
	}
	return line, true
}

// RenderRelationField renders a relation field literal line pointing at
// the resolved target declaration name.
func RenderRelationField(f *introspect.FieldInfo, target string) string {
	var typ string
	switch f.Kind {
	case introspect.KindOneToOne:
		typ = "OneToOne"
	case introspect.KindManyToMany:
		typ = "ManyToMany"
	default:
		typ = "ForeignKey"
	}

	parts := []string{
		fmt.Sprintf("Name: %q", f.Name),
		"Type: mirror." + typ,
	}
	if f.Column != "" && f.Column != f.Name+"_id" {
		parts = append(parts, fmt.Sprintf("Column: %q", f.Column))
	}
	if f.Null && !f.ManyToMany {
		parts = append(parts, "Null: true")
	}

	rel := []string{fmt.Sprintf("Target: %q", target)}
	rel = append(rel, "OnDelete: mirror."+onDeleteName(mirror.MapOnDelete(f.OnDelete)))
	if f.RelatedName != "" {
		rel = append(rel, fmt.Sprintf("RelatedName: %q", f.RelatedName))
	}
	if f.IsSelfReferential {
		rel = append(rel, "SelfRef: true")
	}
	if f.ManyToMany && f.ThroughModel != "" {
		rel = append(rel, fmt.Sprintf("Through: %q", f.ThroughModel))
		rel = append(rel, fmt.Sprintf("ThroughTable: %q", f.ThroughTable))
	}
	parts = append(parts, "Relation: &mirror.Relation{"+strings.Join(rel, ", ")+"}")

	return "{" + strings.Join(parts, ", ") + "},"
}

func onDeleteName(policy mirror.OnDelete) string {
	switch policy {
	case mirror.Restrict:
		return "Restrict"
	case mirror.SetNull:
		return "SetNull"
	case mirror.SetDefault:
		return "SetDefault"
	case mirror.NoAction:
		return "NoAction"
	default:
		return "Cascade"
	}
}

// defaultExpr renders a default value expression. Enum defaults become the
// named constant; values with no literal form degrade to nil with a note.
func defaultExpr(f *introspect.FieldInfo, imports *ImportSet) (string, string) {
	if f.Default == nil {
		return "nil", ""
	}

	if f.EnumType != nil {
		for _, c := range f.Choices {
			if c.Value == f.Default {
				imports.Add(f.EnumType.PkgPath())
				return pkgBase(f.EnumType.PkgPath()) + "." + c.Name, ""
			}
		}
	}

	if expr, ok := literal(f.Default); ok {
		return expr, ""
	}
	return "nil", fmt.Sprintf("TODO: default for %s has no literal form, set manually", f.Name)
}

func literal(v interface{}) (string, bool) {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x), true
	case bool:
		return strconv.FormatBool(x), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", x), true
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), true
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), true
	}
	return "", false
}

func pkgBase(pkgPath string) string {
	if i := strings.LastIndexByte(pkgPath, '/'); i >= 0 {
		return pkgPath[i+1:]
	}
	return pkgPath
}
