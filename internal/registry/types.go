package registry

import (
	"fmt"
	"strings"
)

// Namespace identifies which message type a field code belongs to.
type Namespace uint8

const (
	NamespaceCommand Namespace = iota
	NamespaceInfo
	NamespaceFeedback
)

// Namespaces lists every namespace in declaration order.
var Namespaces = []Namespace{NamespaceCommand, NamespaceInfo, NamespaceFeedback}

var namespaceNames = [...]string{"command", "info", "feedback"}

func (n Namespace) String() string {
	if int(n) < len(namespaceNames) {
		return namespaceNames[n]
	}
	return fmt.Sprintf("namespace(%d)", uint8(n))
}

func (n Namespace) MarshalText() ([]byte, error) {
	if int(n) >= len(namespaceNames) {
		return nil, fmt.Errorf("registry: invalid namespace %d", uint8(n))
	}
	return []byte(n.String()), nil
}

func (n *Namespace) UnmarshalText(b []byte) error {
	v, err := ParseNamespace(string(b))
	if err != nil {
		return err
	}
	*n = v
	return nil
}

// ParseNamespace accepts the lower-case name, case-insensitively, plus the
// plural "commands".
func ParseNamespace(raw string) (Namespace, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "command", "commands":
		return NamespaceCommand, nil
	case "info":
		return NamespaceInfo, nil
	case "feedback":
		return NamespaceFeedback, nil
	default:
		return 0, fmt.Errorf("registry: unknown namespace %q", raw)
	}
}

// Kind tags the wire representation a field's value needs.
type Kind uint8

const (
	KindString Kind = iota
	KindEnum
	KindHighResAngle
	KindFloat
)

// Kinds lists every kind in declaration order.
var Kinds = []Kind{KindString, KindEnum, KindHighResAngle, KindFloat}

var kindNames = [...]string{"string", "enum", "highresangle", "float"}

// Title-case forms used when building flat identifiers.
var kindIdents = [...]string{"String", "Enum", "HighResAngle", "Float"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Ident returns the CamelCase form, e.g. "HighResAngle".
func (k Kind) Ident() string {
	if int(k) < len(kindIdents) {
		return kindIdents[k]
	}
	return k.String()
}

func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(kindNames) {
		return nil, fmt.Errorf("registry: invalid kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

func ParseKind(raw string) (Kind, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer("-", "", "_", "").Replace(s)
	switch s {
	case "string":
		return KindString, nil
	case "enum":
		return KindEnum, nil
	case "highresangle", "angle":
		return KindHighResAngle, nil
	case "float":
		return KindFloat, nil
	default:
		return 0, fmt.Errorf("registry: unknown kind %q", raw)
	}
}

// Group classifies a field by physical control quantity.
type Group uint8

const (
	GroupNone Group = iota
	GroupPosition
	GroupVelocity
	GroupTorque
)

// ControlLoops lists the loop groups in declaration order.
var ControlLoops = []Group{GroupPosition, GroupVelocity, GroupTorque}

var groupNames = [...]string{"", "Position", "Velocity", "Torque"}

func (g Group) String() string {
	if int(g) < len(groupNames) {
		return groupNames[g]
	}
	return fmt.Sprintf("group(%d)", uint8(g))
}

func (g Group) MarshalText() ([]byte, error) {
	if int(g) >= len(groupNames) {
		return nil, fmt.Errorf("registry: invalid group %d", uint8(g))
	}
	return []byte(g.String()), nil
}

func ParseGroup(raw string) (Group, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "none":
		return GroupNone, nil
	case "position":
		return GroupPosition, nil
	case "velocity":
		return GroupVelocity, nil
	case "torque":
		return GroupTorque, nil
	default:
		return 0, fmt.Errorf("registry: unknown group %q", raw)
	}
}

// Role is a field's function inside a control-loop group.
type Role uint8

const (
	RoleNone Role = iota
	RoleKp
	RoleKi
	RoleKd
	RoleFeedForward
	RoleDeadZone
	RoleIClamp
	RolePunch
	RoleMinTarget
	RoleMaxTarget
	RoleTargetLowpass
	RoleMinOutput
	RoleMaxOutput
	RoleOutputLowpass
)

// LoopRoles is the canonical role order shared by every control-loop group.
var LoopRoles = []Role{
	RoleKp,
	RoleKi,
	RoleKd,
	RoleFeedForward,
	RoleDeadZone,
	RoleIClamp,
	RolePunch,
	RoleMinTarget,
	RoleMaxTarget,
	RoleTargetLowpass,
	RoleMinOutput,
	RoleMaxOutput,
	RoleOutputLowpass,
}

var roleNames = [...]string{
	"",
	"Kp",
	"Ki",
	"Kd",
	"FeedForward",
	"DeadZone",
	"IClamp",
	"Punch",
	"MinTarget",
	"MaxTarget",
	"TargetLowpass",
	"MinOutput",
	"MaxOutput",
	"OutputLowpass",
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

func ParseRole(raw string) (Role, error) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "none") {
		return RoleNone, nil
	}
	for i, name := range roleNames {
		if i != 0 && strings.EqualFold(name, s) {
			return Role(i), nil
		}
	}
	return 0, fmt.Errorf("registry: unknown role %q", raw)
}

func (r Role) MarshalText() ([]byte, error) {
	if int(r) >= len(roleNames) {
		return nil, fmt.Errorf("registry: invalid role %d", uint8(r))
	}
	return []byte(r.String()), nil
}

// Space is one (Namespace, Kind) code space.
type Space struct {
	Namespace Namespace
	Kind      Kind
}

func (s Space) String() string {
	return s.Namespace.String() + "/" + s.Kind.String()
}

// Field is a single registry entry. Group and Role are zero for fields
// outside a control loop.
type Field struct {
	Namespace Namespace
	Kind      Kind
	Name      string
	Code      int
	Group     Group
	Role      Role
}

func (f Field) Space() Space {
	return Space{Namespace: f.Namespace, Kind: f.Kind}
}

// Ident returns the flat constant identifier, e.g.
// "CommandFloatPositionKp".
func (f Field) Ident() string {
	ns := f.Namespace.String()
	if ns != "" {
		ns = strings.ToUpper(ns[:1]) + ns[1:]
	}
	return ns + f.Kind.Ident() + f.Name
}

type key struct {
	space Space
	name  string
}
