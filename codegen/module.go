package codegen

import (
	"context"
	"fmt"
	"go/format"
	"strings"

	"github.com/ormbridge/ormbridge/introspect"
	"github.com/ormbridge/ormbridge/logger"
	"github.com/ormbridge/ormbridge/mirror"
)

// Header marks every rendered file.
const Header = "// Code generated by ormbridge. DO NOT EDIT."

// ModelSource is the rendered declaration of one mirror model.
type ModelSource struct {
	Name     string
	AppLabel string
	Source   string
	Imports  []string // package paths beyond the always-present mirror package
	Skipped  []string // source fields dropped as unsupported
}

// RenderModel renders a model declaration as source text. It resolves
// relation targets through names exactly like the live builder: unresolved
// relations are dropped with a warning, unsupported fields leave a skip
// comment in the output, and a model without any convertible data field
// yields nil.
func RenderModel(info *introspect.ModelInfo, namespace string, names introspect.NameMap, log logger.Interface) *ModelSource {
	ctx := context.Background()
	imports := NewImportSet()

	var (
		lines      []string
		skipped    []string
		fieldNames []string
		dataFields int
	)

	for _, f := range info.Fields {
		if f.IsRelation {
			target, ok := names[f.RelatedModel]
			if !ok {
				log.Warn(ctx, "dropping relation field %s.%s: target %s is not mirrored",
					info.ModelName, f.Name, f.RelatedModelLabel)
				continue
			}
			lines = append(lines, "\t\t"+RenderRelationField(f, target))
			fieldNames = append(fieldNames, f.Name)
			continue
		}

		line, ok := RenderField(f, imports)
		if !ok {
			log.Warn(ctx, "skipping field %s.%s: unsupported kind %q",
				info.ModelName, f.Name, f.Kind)
			lines = append(lines, fmt.Sprintf("\t\t// unsupported source field skipped: %s", f.Name))
			skipped = append(skipped, f.Name)
			continue
		}
		lines = append(lines, "\t\t"+line)
		fieldNames = append(fieldNames, f.Name)
		dataFields++
	}

	if dataFields == 0 {
		log.Warn(ctx, "model %s has no mappable data fields, skipping", info.ModelName)
		return nil
	}

	name := names[info.Identity]

	var b strings.Builder
	fmt.Fprintf(&b, "var %s = &mirror.Model{\n", name)
	fmt.Fprintf(&b, "\tName: %q,\n", name)
	b.WriteString(metaLiteral(info, namespace, fieldNames))
	b.WriteString("\tFields: []*mirror.Field{\n")
	for _, line := range lines {
		b.WriteString(line + "\n")
	}
	b.WriteString("\t},\n}")

	return &ModelSource{
		Name:     name,
		AppLabel: info.AppLabel,
		Source:   b.String(),
		Imports:  extraImports(imports),
		Skipped:  skipped,
	}
}

func metaLiteral(info *introspect.ModelInfo, namespace string, fieldNames []string) string {
	present := map[string]bool{}
	for _, n := range fieldNames {
		present[n] = true
	}
	kept, _ := mirror.FilterUniqueTogether(info.UniqueTogether, present)

	var b strings.Builder
	fmt.Fprintf(&b, "\tMeta: mirror.Meta{Table: %q, Namespace: %q", info.DBTable, namespace)
	if len(kept) > 0 {
		b.WriteString(", UniqueTogether: [][]string{")
		for i, group := range kept {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("{")
			for j, n := range group {
				if j > 0 {
					b.WriteString(", ")
				}
				fmt.Fprintf(&b, "%q", n)
			}
			b.WriteString("}")
		}
		b.WriteString("}")
	}
	b.WriteString("},\n")
	return b.String()
}

func extraImports(imports *ImportSet) []string {
	var extra []string
	for _, p := range imports.Sorted() {
		if p != mirrorPkg {
			extra = append(extra, p)
		}
	}
	return extra
}

// RenderFile assembles full gofmt'd source for one output file from the
// given model declarations, in their enumeration order.
func RenderFile(pkg string, sources []*ModelSource) ([]byte, error) {
	imports := NewImportSet()
	for _, src := range sources {
		for _, p := range src.Imports {
			imports.Add(p)
		}
	}

	var b strings.Builder
	b.WriteString(Header + "\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkg)

	b.WriteString("import (\n")
	for _, p := range imports.Sorted() {
		fmt.Fprintf(&b, "\t%q\n", p)
	}
	b.WriteString(")\n\n")

	for i, src := range sources {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(src.Source)
	}
	b.WriteString("\n")

	formatted, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, fmt.Errorf("formatting generated source: %w", err)
	}
	return formatted, nil
}
