package mapping

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"fieldmap/internal/diagnostic"
	"fieldmap/internal/match"
	"fieldmap/internal/model"
	"fieldmap/internal/rule"
)

// CompileConfig contains compilation settings.
type CompileConfig struct {
	// Strict reports fields left pending as errors instead of warnings.
	Strict bool

	// Transforms are the named transforms steps may refer to. The file's
	// transform chains are added to a copy.
	Transforms *TransformRegistry

	// Logger receives rule construction logs.
	Logger *zap.Logger
}

// DefaultCompileConfig returns the default configuration.
func DefaultCompileConfig() CompileConfig {
	return CompileConfig{
		Strict:     false,
		Transforms: DefaultTransforms(),
		Logger:     zap.NewNop(),
	}
}

// Compiled holds the rules built from a file.
type Compiled struct {
	// Rules in file order. Rules that failed to build are absent.
	Rules []*rule.Rule

	Templates  *rule.Registry
	Catalog    *model.Catalog
	Transforms *TransformRegistry
}

// Rule returns a compiled rule by name.
func (c *Compiled) Rule(name string) (*rule.Rule, bool) {
	i := slices.IndexFunc(c.Rules, func(r *rule.Rule) bool { return r.Name() == name })
	if i < 0 {
		return nil, false
	}

	return c.Rules[i], true
}

// Names returns the names of the compiled rules.
func (c *Compiled) Names() []string {
	names := make([]string, 0, len(c.Rules))
	for _, r := range c.Rules {
		names = append(names, r.Name())
	}

	return names
}

// Compile validates f and builds its rules. The result is nil when validation
// fails; otherwise it holds every rule that built, and the diagnostics report
// the rules that did not together with pending fields and defaults.
func Compile(f *File, cfg CompileConfig) (*Compiled, *diagnostic.Diagnostics) {
	if cfg.Transforms == nil {
		cfg.Transforms = DefaultTransforms()
	}

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	res := Validate(f, cfg.Transforms)
	if res.HasErrors() {
		return nil, res
	}

	transforms, err := BuildTransforms(f, cfg.Transforms)
	if err != nil {
		res.AddError("transform_build_failed", err.Error(), "", "")
		return nil, res
	}

	c := &compiler{transforms: transforms, log: cfg.Logger}

	catalog, err := c.buildCatalog(f)
	if err != nil {
		res.AddError("schema_build_failed", err.Error(), "", "")
		return nil, res
	}

	c.catalog = catalog
	c.templates = rule.NewRegistry()

	for i := range f.Templates {
		tpl := &f.Templates[i]
		if err := c.templates.Register(tpl.Name, c.body(tpl.Steps), tpl.Args...); err != nil {
			res.AddError("template_build_failed", err.Error(), tpl.Name, "")
		}
	}

	out := &Compiled{Templates: c.templates, Catalog: catalog, Transforms: transforms}

	for i := range f.Rules {
		def := &f.Rules[i]

		r, err := rule.New(def.Name, c.body(def.Steps),
			rule.WithRegistry(c.templates),
			rule.WithCatalog(catalog),
			rule.WithLogger(c.log),
			rule.WithArgs(def.Args...),
			rule.WithSource(def.Source),
			rule.WithDestination(def.Destination),
		)
		if err != nil {
			res.AddError("rule_build_failed", err.Error(), def.Name, "")
			continue
		}

		c.log.Debug("compiled rule", zap.String("rule", r.Name()),
			zap.Int("to", r.Table(rule.To).Len()), zap.Int("from", r.Table(rule.From).Len()))

		res.Merge(rule.Inspect(r))
		out.Rules = append(out.Rules, r)
	}

	if cfg.Strict {
		escalatePending(res)
	}

	return out, res
}

// escalatePending turns pending_field warnings into errors.
func escalatePending(res *diagnostic.Diagnostics) {
	warnings := res.Warnings[:0]

	for _, w := range res.Warnings {
		if w.Code != "pending_field" {
			warnings = append(warnings, w)
			continue
		}

		res.AddError(w.Code, w.Message, w.Rule, w.Field, w.Suggestions...)
	}

	res.Warnings = warnings
}

type compiler struct {
	transforms *TransformRegistry
	catalog    *model.Catalog
	templates  *rule.Registry
	log        *zap.Logger
}

// buildCatalog creates the file's schemas. Parents are linked after every
// schema exists, so declaration order does not matter.
func (c *compiler) buildCatalog(f *File) (*model.Catalog, error) {
	catalog := model.NewCatalog()
	schemas := make([]*model.Schema, 0, len(f.Schemas))

	for _, def := range f.Schemas {
		s := model.NewSchema(def.Name, nil, def.Fields...)

		for method, name := range def.Methods {
			fn, ok := c.transforms.Get(name)
			if !ok {
				return nil, fmt.Errorf("schema %q: method %q: unknown transform %q", def.Name, method, name)
			}

			s.AddMethod(method, model.Method(fn))
		}

		schemas = append(schemas, s)
	}

	if err := catalog.Register(schemas...); err != nil {
		return nil, err
	}

	for i, def := range f.Schemas {
		if def.Parent == "" {
			continue
		}

		parent, ok := catalog.Lookup(def.Parent)
		if !ok {
			return nil, fmt.Errorf("schema %q: unknown parent %q", def.Name, def.Parent)
		}

		schemas[i].Parent = parent
	}

	return catalog, nil
}

// body turns steps into a rule body. A failing step aborts the rule.
func (c *compiler) body(steps []Step) rule.Body {
	return func(b *rule.Builder, args ...any) {
		for i := range steps {
			if b.Err() != nil {
				return
			}

			if err := c.apply(b, &steps[i], args); err != nil {
				b.Abort(fmt.Errorf("steps[%d] (%s): %w", i, &steps[i], err))
				return
			}
		}
	}
}

func (c *compiler) transform(name string) (rule.Transform, error) {
	fn, ok := c.transforms.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown transform %q", rule.ErrArgument, name)
	}

	return fn, nil
}

// apply runs a single step against b.
func (c *compiler) apply(b *rule.Builder, s *Step, args []any) error {
	switch {
	case s.To != "":
		return c.declare(b, rule.To, s.To, s.Transform, args)
	case s.From != "":
		return c.declare(b, rule.From, s.From, s.Transform, args)

	case s.Through != nil:
		var fn rule.Transform

		if s.Through.Transform != "" {
			t, err := c.transform(s.Through.Transform)
			if err != nil {
				return err
			}

			fn = t
		}

		b.Through(s.Through.Method, fn)

	case s.Using != nil:
		stepArgs, err := expandArgs(s.Args, args)
		if err != nil {
			return err
		}

		if s.Using.IsInline() {
			b.Using(c.body(s.Using.Steps), stepArgs...)
		} else {
			b.UsingTemplate(s.Using.Template, stepArgs...)
		}

	case s.Delete != nil:
		if s.Delete.Current() {
			b.Delete("")
			return nil
		}

		ref, err := ParseField(s.Delete.Field)
		if err != nil {
			return err
		}

		fields, err := ref.Expand(args)
		if err != nil {
			return err
		}

		for _, f := range fields {
			b.Delete(rule.Field(f))
		}

	case s.Otherwise != "":
		a, ok := rule.ParseAction(s.Otherwise)
		if !ok {
			return fmt.Errorf("%w: unknown action %q", rule.ErrArgument, s.Otherwise)
		}

		b.Otherwise(a)

	case s.Like != "":
		stepArgs, err := expandArgs(s.Args, args)
		if err != nil {
			return err
		}

		b.Like(s.Like, stepArgs...)

	case len(s.Find) > 0:
		fields := make([]any, 0, len(s.Find))

		for _, f := range s.Find {
			field, err := expandField(f, args)
			if err != nil {
				return err
			}

			fields = append(fields, field)
		}

		b.Find(HasFields, fields...)

	case s.Destination != nil:
		router, err := c.transform(s.Destination.Router)
		if err != nil {
			return err
		}

		var field string
		if s.Destination.Field != "" {
			if field, err = expandField(s.Destination.Field, args); err != nil {
				return err
			}
		}

		b.Destination(rule.Field(field), rule.Router(router))

	case s.Done:
		b.Done()

	case len(s.Set) > 0:
		keys := make([]string, 0, len(s.Set))
		for k := range s.Set {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		for _, k := range keys {
			b.Set(k, s.Set[k])
		}

	case s.ToModel != "":
		return c.assignModel(b, rule.To, s.ToModel)
	case s.FromModel != "":
		return c.assignModel(b, rule.From, s.FromModel)
	case s.ToSource != "":
		b.ToSource(s.ToSource)
	case s.FromSource != "":
		b.FromSource(s.FromSource)

	default:
		return fmt.Errorf("%w: step declares no operation", rule.ErrArgument)
	}

	return nil
}

func (c *compiler) declare(b *rule.Builder, d rule.Direction, field, transform string, args []any) error {
	name, err := expandField(field, args)
	if err != nil {
		return err
	}

	if transform == "" {
		if d == rule.To {
			b.To(rule.Field(name))
		} else {
			b.From(rule.Field(name))
		}

		return nil
	}

	fn, err := c.transform(transform)
	if err != nil {
		return err
	}

	if d == rule.To {
		b.ToFunc(rule.Field(name), fn)
	} else {
		b.FromFunc(rule.Field(name), fn)
	}

	return nil
}

func (c *compiler) assignModel(b *rule.Builder, d rule.Direction, name string) error {
	s, ok := c.catalog.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: unknown schema %q%s", rule.ErrUnresolvedModel, name,
			hint(match.Suggest(name, c.catalog.Names(), match.DefaultSuggestions)))
	}

	if d == rule.To {
		b.ToModel(s)
	} else {
		b.FromModel(s)
	}

	return nil
}

// HasFields is the matcher recorded by find steps: it accepts a candidate
// record (a map keyed by field name) carrying a non-nil value for every field.
func HasFields(candidate any, fields ...any) bool {
	record, ok := candidate.(map[string]any)
	if !ok {
		return false
	}

	for _, f := range fields {
		if v, ok := record[fmt.Sprint(f)]; !ok || v == nil {
			return false
		}
	}

	return true
}

func hint(suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}

	return fmt.Sprintf(" (did you mean %s?)", suggestions[0])
}
