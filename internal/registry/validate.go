package registry

import (
	"cmp"
	"slices"

	"github.com/rs/zerolog/log"
)

// Validate checks a field table for the defects that must never reach a
// running process: duplicate names or codes, gaps, mislabelled loop roles,
// role sequences that differ between loop groups, and names classified into
// different groups in different spaces.
func Validate(fields []Field) error {
	log.Debug().Int("fields", len(fields)).Msg("registry.Validate")

	names := make(map[key]struct{}, len(fields))
	codes := make(map[Space]map[int]struct{})
	groups := make(map[string]Group)
	for _, f := range fields {
		s := f.Space()
		if err := checkEntry(f); err != nil {
			return err
		}
		k := key{space: s, name: f.Name}
		if _, dup := names[k]; dup {
			return schemaErr(f, "duplicate name")
		}
		names[k] = struct{}{}

		if codes[s] == nil {
			codes[s] = make(map[int]struct{})
		}
		if _, dup := codes[s][f.Code]; dup {
			return schemaErr(f, "duplicate code")
		}
		codes[s][f.Code] = struct{}{}

		if g, seen := groups[f.Name]; seen && g != f.Group {
			return schemaErr(f, "group conflict")
		}
		groups[f.Name] = f.Group
	}

	spaces := make([]Space, 0, len(codes))
	for s := range codes {
		spaces = append(spaces, s)
	}
	slices.SortFunc(spaces, compareSpace)

	for _, s := range spaces {
		set := codes[s]
		for c := 0; c < len(set); c++ {
			if _, ok := set[c]; !ok {
				log.Error().Stringer("space", s).Int("code", c).Msg("registry.Validate code gap")
				return &SchemaError{Space: s, Code: c, Reason: "code gap"}
			}
		}
	}

	return checkSymmetry(fields)
}

func checkEntry(f Field) error {
	if int(f.Namespace) >= len(namespaceNames) || int(f.Kind) >= len(kindNames) {
		return schemaErr(f, "unknown space")
	}
	if f.Name == "" {
		return schemaErr(f, "empty name")
	}
	if f.Code < 0 {
		return schemaErr(f, "negative code")
	}
	if int(f.Group) >= len(groupNames) || int(f.Role) >= len(roleNames) {
		return schemaErr(f, "unknown group or role")
	}
	if f.Role != RoleNone && (f.Group == GroupNone || f.Name != LoopFieldName(f.Group, f.Role)) {
		return schemaErr(f, "role name mismatch")
	}
	return nil
}

// checkSymmetry requires a namespace that carries any loop role to carry
// every group in ControlLoops, each with exactly LoopRoles in code order.
func checkSymmetry(fields []Field) error {
	sorted := slices.Clone(fields)
	slices.SortStableFunc(sorted, func(a, b Field) int {
		if c := compareSpace(a.Space(), b.Space()); c != 0 {
			return c
		}
		return cmp.Compare(a.Code, b.Code)
	})

	type loop struct {
		ns    Namespace
		group Group
	}
	roles := make(map[loop][]Role)
	spaceOf := make(map[Namespace]Space)
	var namespaces []Namespace
	for _, f := range sorted {
		if f.Role == RoleNone {
			continue
		}
		if _, ok := spaceOf[f.Namespace]; !ok {
			namespaces = append(namespaces, f.Namespace)
			spaceOf[f.Namespace] = f.Space()
		}
		l := loop{ns: f.Namespace, group: f.Group}
		roles[l] = append(roles[l], f.Role)
	}
	for _, ns := range namespaces {
		for _, g := range ControlLoops {
			got := roles[loop{ns: ns, group: g}]
			if slices.Equal(got, LoopRoles) {
				continue
			}
			log.Error().
				Stringer("namespace", ns).
				Stringer("group", g).
				Int("roles", len(got)).
				Msg("registry.Validate asymmetric roles")
			return &SchemaError{Space: spaceOf[ns], Code: -1, Reason: "asymmetric roles"}
		}
	}
	return nil
}

func schemaErr(f Field, reason string) error {
	log.Error().
		Stringer("space", f.Space()).
		Str("name", f.Name).
		Int("code", f.Code).
		Msgf("registry.Validate %s", reason)
	return &SchemaError{Space: f.Space(), Name: f.Name, Code: f.Code, Reason: reason}
}

func compareSpace(a, b Space) int {
	if c := cmp.Compare(a.Namespace, b.Namespace); c != 0 {
		return c
	}
	return cmp.Compare(a.Kind, b.Kind)
}
