package registry

import (
	"cmp"
	"iter"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"
)

// Registry is an immutable field table. All methods are safe for concurrent
// use; nothing mutates a Registry after New returns.
type Registry struct {
	spaces map[Space][]Field // code order; index == code
	index  map[key]int
	groups map[string]Group
	order  []Space
}

// New validates fields and builds a registry from them.
func New(fields []Field) (*Registry, error) {
	if err := Validate(fields); err != nil {
		return nil, err
	}

	r := &Registry{
		spaces: make(map[Space][]Field),
		index:  make(map[key]int, len(fields)),
		groups: make(map[string]Group),
	}
	for _, f := range fields {
		s := f.Space()
		r.spaces[s] = append(r.spaces[s], f)
		r.index[key{space: s, name: f.Name}] = f.Code
		r.groups[f.Name] = f.Group
	}
	for s, fs := range r.spaces {
		slices.SortFunc(fs, func(a, b Field) int { return cmp.Compare(a.Code, b.Code) })
		r.order = append(r.order, s)
	}
	slices.SortFunc(r.order, compareSpace)

	log.Info().
		Int("fields", len(fields)).
		Int("spaces", len(r.order)).
		Msg("registry built")
	return r, nil
}

// MustNew is New for tables that are known good at compile time.
func MustNew(fields []Field) *Registry {
	r, err := New(fields)
	if err != nil {
		panic(err)
	}
	return r
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the built-in API 0.15 registry, built on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = MustNew(builtinFields())
	})
	return defaultReg
}

// CodeOf returns the code assigned to name in the (ns, kind) space.
func (r *Registry) CodeOf(ns Namespace, kind Kind, name string) (int, error) {
	code, ok := r.index[key{space: Space{Namespace: ns, Kind: kind}, name: name}]
	if !ok {
		log.Debug().
			Stringer("namespace", ns).
			Stringer("kind", kind).
			Str("name", name).
			Msg("registry.CodeOf unknown field")
		return -1, &UnknownFieldError{Namespace: ns, Kind: kind, Name: name}
	}
	return code, nil
}

// NameOf returns the name carried by code in the (ns, kind) space.
func (r *Registry) NameOf(ns Namespace, kind Kind, code int) (string, error) {
	f, err := r.at(ns, kind, code)
	if err != nil {
		return "", err
	}
	return f.Name, nil
}

// Field returns the full entry for name, including its group and role.
func (r *Registry) Field(ns Namespace, kind Kind, name string) (Field, error) {
	code, err := r.CodeOf(ns, kind, name)
	if err != nil {
		return Field{}, err
	}
	return r.spaces[Space{Namespace: ns, Kind: kind}][code], nil
}

// Lookup is the decode-side lookup. A code this registry does not know,
// e.g. one sent by newer firmware, reports false rather than an error so the
// caller can skip it.
func (r *Registry) Lookup(ns Namespace, kind Kind, code int) (Field, bool) {
	fs := r.spaces[Space{Namespace: ns, Kind: kind}]
	if code < 0 || code >= len(fs) {
		return Field{}, false
	}
	return fs[code], true
}

func (r *Registry) at(ns Namespace, kind Kind, code int) (Field, error) {
	fs := r.spaces[Space{Namespace: ns, Kind: kind}]
	if code < 0 || code >= len(fs) {
		log.Debug().
			Stringer("namespace", ns).
			Stringer("kind", kind).
			Int("code", code).
			Int("count", len(fs)).
			Msg("registry.NameOf invalid code")
		return Field{}, &InvalidCodeError{Namespace: ns, Kind: kind, Code: code, Count: len(fs)}
	}
	return fs[code], nil
}

// FieldsOf returns a copy of the (ns, kind) space in ascending code order.
func (r *Registry) FieldsOf(ns Namespace, kind Kind) []Field {
	return slices.Clone(r.spaces[Space{Namespace: ns, Kind: kind}])
}

// All yields (name, code) pairs of the (ns, kind) space in code order. The
// sequence can be ranged over any number of times.
func (r *Registry) All(ns Namespace, kind Kind) iter.Seq2[string, int] {
	fs := r.spaces[Space{Namespace: ns, Kind: kind}]
	return func(yield func(string, int) bool) {
		for _, f := range fs {
			if !yield(f.Name, f.Code) {
				return
			}
		}
	}
}

// GroupOf reports the control group of name. The bool is false for names
// that are ungrouped or not registered at all.
func (r *Registry) GroupOf(name string) (Group, bool) {
	g, ok := r.groups[name]
	if !ok || g == GroupNone {
		return GroupNone, false
	}
	return g, true
}

// Fields returns every entry, space by space in code order.
func (r *Registry) Fields() []Field {
	var out []Field
	for _, s := range r.order {
		out = append(out, r.spaces[s]...)
	}
	return out
}

// Len is the size of the (ns, kind) space, and so one past its largest code.
func (r *Registry) Len(ns Namespace, kind Kind) int {
	return len(r.spaces[Space{Namespace: ns, Kind: kind}])
}

// Spaces lists the non-empty code spaces, namespace first then kind.
func (r *Registry) Spaces() []Space {
	return slices.Clone(r.order)
}

// Roles lists the loop roles attached to group within ns, in code order.
func (r *Registry) Roles(ns Namespace, group Group) []Role {
	var roles []Role
	for _, s := range r.order {
		if s.Namespace != ns {
			continue
		}
		for _, f := range r.spaces[s] {
			if f.Group == group && f.Role != RoleNone {
				roles = append(roles, f.Role)
			}
		}
	}
	return roles
}

// CodeOf looks name up in the default registry.
func CodeOf(ns Namespace, kind Kind, name string) (int, error) {
	return Default().CodeOf(ns, kind, name)
}

// NameOf looks code up in the default registry.
func NameOf(ns Namespace, kind Kind, code int) (string, error) {
	return Default().NameOf(ns, kind, code)
}

// FieldsOf enumerates a space of the default registry.
func FieldsOf(ns Namespace, kind Kind) []Field {
	return Default().FieldsOf(ns, kind)
}

// GroupOf classifies name using the default registry.
func GroupOf(name string) (Group, bool) {
	return Default().GroupOf(name)
}
