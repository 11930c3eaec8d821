package ormbridge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"

	"gorm.io/gorm/schema"

	"github.com/ormbridge/ormbridge/codegen"
	"github.com/ormbridge/ormbridge/introspect"
	"github.com/ormbridge/ormbridge/logger"
	"github.com/ormbridge/ormbridge/mirror"
)

// Bridge mirrors declared gorm models into live mirror models and
// generated source, and owns the registry and connection gate behind them.
type Bridge struct {
	cfg      *Config
	log      logger.Interface
	namer    mirror.Namer
	registry *Registry
	gate     *Gate

	cache sync.Map // gorm schema parse cache
}

// New builds a Bridge. Database configuration is validated here: an
// unknown driver fails immediately, before any connection is attempted.
func New(cfg *Config) (*Bridge, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	specs, err := cfg.connSpecs()
	if err != nil {
		return nil, err
	}

	return &Bridge{
		cfg:      cfg,
		log:      cfg.logger(),
		namer:    cfg.namer(),
		registry: NewRegistry(),
		gate:     newGate(specs, cfg.logger()),
	}, nil
}

// Registry exposes the generated model registry.
func (b *Bridge) Registry() *Registry { return b.registry }

// Init eagerly opens the configured database connections. Idempotent.
func (b *Bridge) Init(ctx context.Context) error { return b.gate.Init(ctx) }

// EnsureInitialized lazily opens the connections on first use.
func (b *Bridge) EnsureInitialized(ctx context.Context) error {
	return b.gate.EnsureInitialized(ctx)
}

// Close tears down the connections. No-op when never initialized.
func (b *Bridge) Close(ctx context.Context) error { return b.gate.Close(ctx) }

type candidate struct {
	info  *introspect.ModelInfo
	label string
}

// firstPass parses, filters and introspects the given models, assigning
// every admitted model its target declaration name. No model bodies are
// built yet, so forward and cyclic references resolve in the second pass.
func (b *Bridge) firstPass(ctx context.Context, models []interface{}) ([]candidate, introspect.NameMap) {
	var candidates []candidate
	names := introspect.NameMap{}

	for _, model := range models {
		sch, err := schema.Parse(model, &b.cache, schema.NamingStrategy{})
		if err != nil {
			b.log.Warn(ctx, "cannot parse model %T: %v", model, err)
			continue
		}

		label := introspect.Label(sch.ModelType)
		if !b.cfg.ShouldInclude(label) {
			continue
		}

		info := introspect.Model(sch)
		b.applyKindOverrides(info, label)
		b.fillThroughTables(info)

		if skip, reason := introspect.SkipModel(info); skip {
			b.log.Info(ctx, "skipping %s: %s", label, reason)
			continue
		}

		names[info.Identity] = b.namer.MirrorName(info.ModelName)
		candidates = append(candidates, candidate{info: info, label: label})
	}

	return candidates, names
}

func (b *Bridge) applyKindOverrides(info *introspect.ModelInfo, label string) {
	if len(b.cfg.KindOverrides) == 0 {
		return
	}
	for _, f := range info.Fields {
		if kind, ok := b.cfg.KindOverrides[label+"."+f.Name]; ok {
			f.Kind = kind
		}
	}
}

// fillThroughTables names the implicit join table for many-to-many fields
// whose source declaration did not resolve one.
func (b *Bridge) fillThroughTables(info *introspect.ModelInfo) {
	for _, f := range info.Fields {
		if f.ManyToMany && f.ThroughTable == "" && f.RelatedModel != nil {
			f.ThroughTable = b.namer.JoinTableName(info.ModelName, f.RelatedModel.Name())
		}
	}
}

// Generate mirrors the given models into live mirror models and registers
// them. Models that produce nothing are dropped, and relation fields left
// pointing at dropped models are pruned afterwards, so the outcome does
// not depend on argument order. Returns the number of generated models.
func (b *Bridge) Generate(ctx context.Context, models ...interface{}) int {
	candidates, names := b.firstPass(ctx, models)
	namespace := b.cfg.namespace()

	type built struct {
		info  *introspect.ModelInfo
		model *mirror.Model
		label string
	}

	var results []built
	for _, c := range candidates {
		model := mirror.BuildModel(c.info, namespace, names, b.log)
		if model == nil {
			delete(names, c.info.Identity)
			continue
		}
		results = append(results, built{info: c.info, model: model, label: c.label})
	}

	for _, r := range results {
		for _, f := range r.info.Fields {
			if !f.IsRelation {
				continue
			}
			if _, ok := names[f.RelatedModel]; ok {
				continue
			}
			if r.model.RemoveField(f.Name) {
				b.log.Warn(ctx, "dropping relation field %s.%s: target %s was not generated",
					r.info.ModelName, f.Name, f.RelatedModelLabel)
			}
		}

		present := map[string]bool{}
		for _, name := range r.model.FieldNames() {
			present[name] = true
		}
		kept, dropped := mirror.FilterUniqueTogether(r.model.Meta.UniqueTogether, present)
		r.model.Meta.UniqueTogether = kept
		for _, group := range dropped {
			b.log.Warn(ctx, "dropping unique constraint %v on %s: not all fields survived",
				group, r.info.ModelName)
		}

		b.registry.Register(r.info.Identity, r.model, r.label)
	}

	b.log.Info(ctx, "mirrored %d models", len(results))
	return len(results)
}

// GenerateSources renders the given models as Go source and writes one
// file per source package under dir. Returns the written file paths.
func (b *Bridge) GenerateSources(ctx context.Context, dir, pkg string, models ...interface{}) ([]string, error) {
	candidates, names := b.firstPass(ctx, models)
	namespace := b.cfg.namespace()

	// Dropping a model can orphan relations in models rendered earlier,
	// so settle the surviving set quietly before the final render.
	for {
		removed := false
		for _, c := range candidates {
			if _, ok := names[c.info.Identity]; !ok {
				continue
			}
			if codegen.RenderModel(c.info, namespace, names, logger.Discard) == nil {
				delete(names, c.info.Identity)
				removed = true
			}
		}
		if !removed {
			break
		}
	}

	perApp := map[string][]*codegen.ModelSource{}
	var appOrder []string
	for _, c := range candidates {
		if _, ok := names[c.info.Identity]; !ok {
			b.log.Warn(ctx, "model %s produced no mirror declaration", c.label)
			continue
		}
		src := codegen.RenderModel(c.info, namespace, names, b.log)
		if src == nil {
			continue
		}
		if _, ok := perApp[src.AppLabel]; !ok {
			appOrder = append(appOrder, src.AppLabel)
		}
		perApp[src.AppLabel] = append(perApp[src.AppLabel], src)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	var written []string
	for _, app := range appOrder {
		out, err := codegen.RenderFile(pkg, perApp[app])
		if err != nil {
			return nil, fmt.Errorf("rendering models for %s: %w", app, err)
		}
		path := filepath.Join(dir, "mirror_models_"+app+".go")
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// Objects returns a query set over the mirror model generated for the
// given source model. The error for an unmirrored model surfaces on the
// first terminal operation.
func (b *Bridge) Objects(model interface{}) *QuerySet {
	t := reflect.TypeOf(model)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return &QuerySet{err: fmt.Errorf("%w: nil model", ErrNotGenerated)}
	}

	target := b.registry.GetTarget(t)
	if target == nil {
		return &QuerySet{err: fmt.Errorf("%w: %s", ErrNotGenerated, introspect.Label(t))}
	}
	return newQuerySet(b, target)
}
