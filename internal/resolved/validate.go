package resolved

import "fmt"

// Validate checks a resolved Module against invariants 1-3, 5 and 6 of
// spec.md §3 (invariant 4's alias half needs every module at once and
// is checked by ValidateLoadedAdl; invariant 7, default-value
// compatibility, is checked during
// resolution itself since it needs the full Literal-matching logic in
// internal/resolver). It is a debug/test oracle, not a pipeline stage:
// the resolver is expected to never publish a Module that fails it,
// and test suites use it to catch regressions in that guarantee.
// An empty slice means mod is valid.
func Validate(mod *Module, allDecls map[ScopedName]*Decl) []string {
	var errs []string

	for _, d := range mod.DeclsInOrder() {
		errs = append(errs, validateDecl(d, allDecls)...)
	}

	return errs
}

// ValidateLoadedAdl runs Validate over every module in l plus the
// global type-alias-cycle check (invariant 4's alias half), which must
// see every module at once since an alias in one module may reference
// an alias in another.
func ValidateLoadedAdl(l *LoadedAdl) []string {
	var errs []string
	for _, mod := range l.Modules {
		errs = append(errs, Validate(mod, l.AllDecls)...)
	}
	if err := DetectAliasCycle(l.AllDecls); err != "" {
		errs = append(errs, err)
	}
	return errs
}

func validateDecl(d *Decl, allDecls map[ScopedName]*Decl) []string {
	var errs []string

	seenParams := make(map[string]bool, len(d.TypeParams))
	for _, tp := range d.TypeParams {
		if seenParams[string(tp)] {
			errs = append(errs, fmt.Sprintf("%s: duplicate type parameter %q", d.ScopedName(), tp))
		}
		seenParams[string(tp)] = true
	}

	if err := validateAnnotations(d.Annotations, fmt.Sprintf("%s", d.ScopedName())); err != "" {
		errs = append(errs, err)
	}

	switch body := d.Body.(type) {
	case *StructBody:
		errs = append(errs, validateFields(d, body.Fields, allDecls)...)
	case *UnionBody:
		if len(body.Fields) == 0 {
			errs = append(errs, fmt.Sprintf("%s: union must declare at least one field", d.ScopedName()))
		}
		errs = append(errs, validateFields(d, body.Fields, allDecls)...)
	case *TypeDefBody:
		errs = append(errs, validateTypeExpr(d, body.Type, allDecls)...)
	case *NewTypeBody:
		errs = append(errs, validateTypeExpr(d, body.Type, allDecls)...)
	default:
		errs = append(errs, fmt.Sprintf("%s: unknown decl body %T", d.ScopedName(), d.Body))
	}

	return errs
}

func validateFields(d *Decl, fields []*Field, allDecls map[ScopedName]*Decl) []string {
	var errs []string
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[string(f.Name)] {
			errs = append(errs, fmt.Sprintf("%s: duplicate field %q", d.ScopedName(), f.Name))
		}
		seen[string(f.Name)] = true
		errs = append(errs, validateTypeExpr(d, f.Type, allDecls)...)
		if err := validateAnnotations(f.Annotations, fmt.Sprintf("%s.%s", d.ScopedName(), f.Name)); err != "" {
			errs = append(errs, err)
		}
	}
	return errs
}

func validateAnnotations(anns Annotations, context string) string {
	seen := make(map[ScopedName]bool, len(anns))
	for _, a := range anns {
		if seen[a.Name] {
			return fmt.Sprintf("%s: duplicate annotation %s", context, a.Name)
		}
		seen[a.Name] = true
	}
	return ""
}

// validateTypeExpr checks invariants 1-3: every Reference names a
// known decl (1), every arity matches (2), and every TypeParam was
// declared by the enclosing decl (3).
func validateTypeExpr(d *Decl, t *TypeExpr, allDecls map[ScopedName]*Decl) []string {
	if t == nil {
		return []string{fmt.Sprintf("%s: nil type expression", d.ScopedName())}
	}
	var errs []string

	switch t.Kind {
	case RefDecl:
		if _, ok := allDecls[t.Decl]; !ok {
			errs = append(errs, fmt.Sprintf("%s: reference to unknown declaration %s", d.ScopedName(), t.Decl))
		}
	case RefTypeParam:
		found := false
		for _, tp := range d.TypeParams {
			if tp == t.TypeParam {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, fmt.Sprintf("%s: type parameter %q not declared by %s", d.ScopedName(), t.TypeParam, d.ScopedName()))
		}
	}

	arity := t.HeadArity(func(sn ScopedName) int {
		if decl, ok := allDecls[sn]; ok {
			return len(decl.TypeParams)
		}
		return len(t.Parameters) // unknown decl already reported above; don't also report a spurious arity mismatch
	})
	if len(t.Parameters) != arity {
		errs = append(errs, fmt.Sprintf("%s: arity mismatch: expected %d parameter(s), got %d", d.ScopedName(), arity, len(t.Parameters)))
	}

	for _, p := range t.Parameters {
		errs = append(errs, validateTypeExpr(d, p, allDecls)...)
	}
	return errs
}

// DetectAliasCycle checks invariant 4's alias half over the whole
// loaded declaration set: no type-alias decl may transitively
// reference itself through another type alias, possibly crossing
// module boundaries. Struct/union/newtype cycles are permitted and not
// checked here. Returns "" when no cycle exists.
func DetectAliasCycle(allDecls map[ScopedName]*Decl) string {
	aliasRefs := func(d *Decl) []ScopedName {
		body, ok := d.Body.(*TypeDefBody)
		if !ok {
			return nil
		}
		var refs []ScopedName
		var walk func(t *TypeExpr)
		walk = func(t *TypeExpr) {
			if t == nil {
				return
			}
			if t.Kind == RefDecl {
				if decl, ok := allDecls[t.Decl]; ok {
					if _, isAlias := decl.Body.(*TypeDefBody); isAlias {
						refs = append(refs, t.Decl)
					}
				}
			}
			for _, p := range t.Parameters {
				walk(p)
			}
		}
		walk(body.Type)
		return refs
	}

	const (
		unseen = iota
		visiting
		done
	)
	state := make(map[ScopedName]int)

	var visit func(name ScopedName, stack []ScopedName) string
	visit = func(name ScopedName, stack []ScopedName) string {
		switch state[name] {
		case done:
			return ""
		case visiting:
			return fmt.Sprintf("type alias cycle: %v -> %s", stack, name)
		}
		state[name] = visiting
		stack = append(stack, name)
		if d, ok := allDecls[name]; ok {
			for _, ref := range aliasRefs(d) {
				if err := visit(ref, stack); err != "" {
					return err
				}
			}
		}
		state[name] = done
		return ""
	}

	for name, d := range allDecls {
		if _, isAlias := d.Body.(*TypeDefBody); isAlias {
			if err := visit(name, nil); err != "" {
				return err
			}
		}
	}
	return ""
}
