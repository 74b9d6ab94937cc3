package mapping

import (
	"fmt"
	"slices"

	"fieldmap/internal/diagnostic"
	"fieldmap/internal/match"
	"fieldmap/internal/rule"
)

// Validate checks a rule file for problems that can be found without building
// the rules: unknown names, malformed steps and invalid fields. Ordering
// errors (such as a to directly following a to) surface when compiling.
func Validate(f *File, transforms *TransformRegistry) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("file_is_nil", "rule file is nil", "", "")
		return res
	}

	if transforms == nil {
		transforms = NewTransformRegistry()
	}

	if f.Version != CurrentVersion {
		res.AddError("unsupported_version",
			fmt.Sprintf("unsupported version %q (want %q)", f.Version, CurrentVersion), "", "")
	}

	v := &validator{
		res:        res,
		transforms: validateTransforms(res, f, transforms),
		schemas:    validateSchemas(res, f),
		templates:  map[string]struct{}{},
	}

	for _, tpl := range f.Templates {
		if tpl.Name == "" {
			res.AddError("missing_name", "template must have a name", "", "")
			continue
		}

		if _, ok := v.templates[tpl.Name]; ok {
			res.AddError("duplicate_template", fmt.Sprintf("duplicate template %q", tpl.Name), tpl.Name, "")
			continue
		}

		v.templates[tpl.Name] = struct{}{}
	}

	v.methods = v.methodNames()

	for i := range f.Templates {
		tpl := &f.Templates[i]
		v.validateSteps(tpl.Name, "", tpl.Steps, nil, nil)
	}

	seenRules := map[string]struct{}{}

	for i := range f.Rules {
		r := &f.Rules[i]
		if r.Name == "" {
			res.AddError("missing_name", fmt.Sprintf("rule #%d must have a name", i+1), "", "")
			continue
		}

		if _, ok := seenRules[r.Name]; ok {
			res.AddError("duplicate_rule", fmt.Sprintf("duplicate rule %q", r.Name), r.Name, "")
			continue
		}

		seenRules[r.Name] = struct{}{}

		src := v.schemaRef(r.Name, "source", r.Source)
		dst := v.schemaRef(r.Name, "destination", r.Destination)

		v.validateSteps(r.Name, "", r.Steps, v.schemaFields(src), v.schemaFields(dst))
	}

	return res
}

type validator struct {
	res        *diagnostic.Diagnostics
	transforms []string
	schemas    map[string]*SchemaDef
	templates  map[string]struct{}
	methods    []string
}

// validateTransforms checks the file's transform chains and returns every
// transform name available to steps.
func validateTransforms(res *diagnostic.Diagnostics, f *File, base *TransformRegistry) []string {
	known := base.Names()

	for _, def := range f.Transforms {
		if def.Name == "" {
			res.AddError("missing_name", "transform must have a name", "", "")
			continue
		}

		if slices.Contains(known, def.Name) {
			res.AddError("duplicate_transform", fmt.Sprintf("duplicate transform %q", def.Name), def.Name, "")
			continue
		}

		if len(def.Chain) == 0 {
			res.AddError("empty_chain", fmt.Sprintf("transform %q has an empty chain", def.Name), def.Name, "")
		}

		for _, step := range def.Chain {
			if !slices.Contains(known, step) {
				res.AddError("unknown_transform",
					fmt.Sprintf("transform %q chains unknown transform %q", def.Name, step),
					def.Name, "", match.Suggest(step, known, match.DefaultSuggestions)...)
			}
		}

		known = append(known, def.Name)
	}

	return known
}

// validateSchemas checks schema names, parents and method transforms, and
// returns the schemas by base name.
func validateSchemas(res *diagnostic.Diagnostics, f *File) map[string]*SchemaDef {
	byName := make(map[string]*SchemaDef, len(f.Schemas))

	for i := range f.Schemas {
		s := &f.Schemas[i]
		if s.Name == "" {
			res.AddError("missing_name", "schema must have a name", "", "")
			continue
		}

		key := match.SnakeCase(s.Name)
		if _, ok := byName[key]; ok {
			res.AddError("duplicate_schema", fmt.Sprintf("duplicate schema %q", s.Name), s.Name, "")
			continue
		}

		byName[key] = s

		for _, field := range s.Fields {
			if !isValidIdent(field) {
				res.AddError("invalid_field", fmt.Sprintf("schema %q: invalid field %q", s.Name, field), s.Name, field)
			}
		}
	}

	names := schemaNames(byName)

	for i := range f.Schemas {
		s := &f.Schemas[i]
		if byName[match.SnakeCase(s.Name)] != s {
			continue
		}

		if s.Parent != "" {
			if _, ok := byName[match.SnakeCase(s.Parent)]; !ok {
				res.AddError("unknown_schema",
					fmt.Sprintf("schema %q has unknown parent %q", s.Name, s.Parent),
					s.Name, "", match.Suggest(s.Parent, names, match.DefaultSuggestions)...)
			}
		}

		if cyclic(byName, s) {
			res.AddError("schema_cycle", fmt.Sprintf("schema %q is its own ancestor", s.Name), s.Name, "")
		}
	}

	return byName
}

func cyclic(byName map[string]*SchemaDef, s *SchemaDef) bool {
	seen := map[string]struct{}{}

	for cur := s; cur != nil && cur.Parent != ""; cur = byName[match.SnakeCase(cur.Parent)] {
		key := match.SnakeCase(cur.Name)
		if _, ok := seen[key]; ok {
			return true
		}

		seen[key] = struct{}{}
	}

	return false
}

func schemaNames(byName map[string]*SchemaDef) []string {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// methodNames collects every method declared by a schema, checking that its
// transform exists.
func (v *validator) methodNames() []string {
	var names []string

	for _, key := range schemaNames(v.schemas) {
		s := v.schemas[key]

		methods := make([]string, 0, len(s.Methods))
		for method := range s.Methods {
			methods = append(methods, method)
		}

		slices.Sort(methods)

		for _, method := range methods {
			v.transformRef(s.Name, method, s.Methods[method])

			if !slices.Contains(names, method) {
				names = append(names, method)
			}
		}
	}

	return names
}

// schemaRef checks that a referenced schema exists.
func (v *validator) schemaRef(ruleName, role, name string) *SchemaDef {
	if name == "" {
		return nil
	}

	s, ok := v.schemas[match.SnakeCase(name)]
	if !ok {
		v.res.AddError("unknown_schema", fmt.Sprintf("unknown %s schema %q", role, name),
			ruleName, "", match.Suggest(name, schemaNames(v.schemas), match.DefaultSuggestions)...)

		return nil
	}

	return s
}

// schemaFields returns the fields of s and its ancestors, or nil when none
// are declared (meaning fields are not checked).
func (v *validator) schemaFields(s *SchemaDef) []string {
	var fields []string

	seen := map[string]struct{}{}

	for cur := s; cur != nil; {
		key := match.SnakeCase(cur.Name)
		if _, ok := seen[key]; ok {
			break
		}

		seen[key] = struct{}{}
		fields = append(fields, cur.Fields...)

		if cur.Parent == "" {
			break
		}

		cur = v.schemas[match.SnakeCase(cur.Parent)]
	}

	return fields
}

func (v *validator) transformRef(ruleName, field, name string) {
	if name == "" || slices.Contains(v.transforms, name) {
		return
	}

	v.res.AddError("unknown_transform", fmt.Sprintf("unknown transform %q", name),
		ruleName, field, match.Suggest(name, v.transforms, match.DefaultSuggestions)...)
}

func (v *validator) templateRef(ruleName, field, name string) {
	if _, ok := v.templates[name]; ok {
		return
	}

	known := make([]string, 0, len(v.templates))
	for t := range v.templates {
		known = append(known, t)
	}

	slices.Sort(known)

	v.res.AddError("unknown_template", fmt.Sprintf("unknown template %q", name),
		ruleName, field, match.Suggest(name, known, match.DefaultSuggestions)...)
}

// fieldRef checks a field reference and, when the side's schema declares its
// fields, that the field exists.
func (v *validator) fieldRef(ruleName, at, field string, known []string, allowAll bool) {
	ref, err := ParseField(field)
	if err != nil {
		v.res.AddError("invalid_field", err.Error(), ruleName, at)
		return
	}

	if ref.AllArgs && !allowAll {
		v.res.AddError("invalid_field", fmt.Sprintf("%s can only be used with delete", ref), ruleName, at)
		return
	}

	if ref.IsArg() || len(known) == 0 || slices.Contains(known, ref.Name) {
		return
	}

	v.res.AddWarning("unknown_field", fmt.Sprintf("field %q is not declared by the schema", ref.Name),
		ruleName, at, match.Suggest(ref.Name, known, match.DefaultSuggestions)...)
}

// validateSteps checks each step of a body. srcFields and dstFields are the
// declared fields of the rule's source and destination schemas.
func (v *validator) validateSteps(ruleName, prefix string, steps []Step, srcFields, dstFields []string) {
	for i := range steps {
		s := &steps[i]
		at := fmt.Sprintf("%ssteps[%d]", prefix, i)

		ops := s.Operations()

		switch {
		case len(ops) == 0:
			v.res.AddError("empty_step", "step declares no operation", ruleName, at)
			continue
		case len(ops) > 1:
			v.res.AddError("multiple_operations",
				fmt.Sprintf("step declares %s; use one operation per step", s), ruleName, at)

			continue
		}

		if s.Transform != "" && s.To == "" && s.From == "" {
			v.res.AddError("misplaced_transform", "transform qualifies a to or from step", ruleName, at)
		}

		if len(s.Args) > 0 && s.Using == nil && s.Like == "" {
			v.res.AddWarning("misplaced_args", "args are only passed by like and using steps", ruleName, at)
		}

		v.validateStep(ruleName, at, s, srcFields, dstFields)
	}
}

func (v *validator) validateStep(ruleName, at string, s *Step, srcFields, dstFields []string) {
	switch {
	case s.To != "":
		v.fieldRef(ruleName, at, s.To, dstFields, false)
		v.transformRef(ruleName, at, s.Transform)

	case s.From != "":
		v.fieldRef(ruleName, at, s.From, srcFields, false)
		v.transformRef(ruleName, at, s.Transform)

	case s.Through != nil:
		if (s.Through.Method == "") == (s.Through.Transform == "") {
			v.res.AddError("ambiguous_through", "through takes a method or a transform, not both or neither", ruleName, at)
			return
		}

		v.transformRef(ruleName, at, s.Through.Transform)

		if m := s.Through.Method; m != "" && !slices.Contains(v.methods, m) {
			v.res.AddWarning("unknown_method", fmt.Sprintf("no schema declares method %q", m),
				ruleName, at, match.Suggest(m, v.methods, match.DefaultSuggestions)...)
		}

	case s.Using != nil:
		if s.Using.IsInline() {
			if len(s.Using.Steps) == 0 {
				v.res.AddError("empty_step", "inline using body has no steps", ruleName, at)
			}

			v.validateSteps(ruleName, at+".using.", s.Using.Steps, nil, nil)

			return
		}

		v.templateRef(ruleName, at, s.Using.Template)

	case s.Delete != nil:
		if !s.Delete.Current() {
			v.fieldRef(ruleName, at, s.Delete.Field, srcFields, true)
		}

	case s.Otherwise != "":
		a, ok := rule.ParseAction(s.Otherwise)
		if !ok || !a.IsFallback() {
			v.res.AddError("invalid_otherwise",
				fmt.Sprintf("otherwise accepts copy or discard, got %q", s.Otherwise), ruleName, at)
		}

	case s.Like != "":
		v.templateRef(ruleName, at, s.Like)

	case len(s.Find) > 0:
		for _, field := range s.Find {
			v.fieldRef(ruleName, at, field, nil, false)
		}

	case s.Destination != nil:
		if s.Destination.Router == "" {
			v.res.AddError("missing_router", "destination needs a router", ruleName, at)
		}

		v.transformRef(ruleName, at, s.Destination.Router)

		if s.Destination.Field != "" {
			v.fieldRef(ruleName, at, s.Destination.Field, dstFields, false)
		}

	case s.ToModel != "":
		v.schemaRef(ruleName, "to_model", s.ToModel)
	case s.FromModel != "":
		v.schemaRef(ruleName, "from_model", s.FromModel)
	case s.ToSource != "":
		v.schemaRef(ruleName, "to_source", s.ToSource)
	case s.FromSource != "":
		v.schemaRef(ruleName, "from_source", s.FromSource)
	}
}
