package registry

// APIVersion is the schema revision the built-in table corresponds to.
const APIVersion = "0.15"

// LoopFieldName is the field name a control-loop role takes inside a group,
// e.g. LoopFieldName(GroupVelocity, RoleKp) == "VelocityKp".
func LoopFieldName(g Group, r Role) string {
	return g.String() + r.String()
}

// spaceBuilder assigns codes densely in declaration order.
type spaceBuilder struct {
	space  Space
	fields []Field
}

func newSpace(ns Namespace, kind Kind) *spaceBuilder {
	return &spaceBuilder{space: Space{Namespace: ns, Kind: kind}}
}

func (b *spaceBuilder) add(name string, group Group) *spaceBuilder {
	return b.push(name, group, RoleNone)
}

// loops appends the full role set for every control loop, Position first.
func (b *spaceBuilder) loops() *spaceBuilder {
	for _, g := range ControlLoops {
		for _, r := range LoopRoles {
			b.push(LoopFieldName(g, r), g, r)
		}
	}
	return b
}

func (b *spaceBuilder) push(name string, group Group, role Role) *spaceBuilder {
	b.fields = append(b.fields, Field{
		Namespace: b.space.Namespace,
		Kind:      b.space.Kind,
		Name:      name,
		Code:      len(b.fields),
		Group:     group,
		Role:      role,
	})
	return b
}

// builtinFields declares the API 0.15 table. Order is wire order: appending
// is the only safe edit.
func builtinFields() []Field {
	spaces := []*spaceBuilder{
		newSpace(NamespaceCommand, KindHighResAngle).
			add("Position", GroupNone),
		newSpace(NamespaceCommand, KindEnum).
			add("ControlStrategy", GroupNone),
		newSpace(NamespaceCommand, KindFloat).
			add("Velocity", GroupVelocity).
			add("Torque", GroupTorque).
			loops().
			add("SpringConstant", GroupNone),

		newSpace(NamespaceInfo, KindString).
			add("Name", GroupNone).
			add("Family", GroupNone),
		newSpace(NamespaceInfo, KindFloat).
			loops().
			add("SpringConstant", GroupNone),

		newSpace(NamespaceFeedback, KindHighResAngle).
			add("Position", GroupNone),
		newSpace(NamespaceFeedback, KindFloat).
			add("BoardTemperature", GroupNone).
			add("ProcessorTemperature", GroupNone).
			add("Voltage", GroupNone).
			add("Velocity", GroupVelocity).
			add("Torque", GroupTorque).
			add("VelocityCommand", GroupVelocity).
			add("TorqueCommand", GroupTorque).
			add("Deflection", GroupNone).
			add("DeflectionVelocity", GroupNone).
			add("MotorVelocity", GroupNone).
			add("MotorCurrent", GroupNone).
			add("MotorSensorTemperature", GroupNone).
			add("MotorWindingCurrent", GroupNone).
			add("MotorHousingTemperature", GroupNone).
			add("MotorWindingTemperature", GroupNone),
	}

	var out []Field
	for _, b := range spaces {
		out = append(out, b.fields...)
	}
	return out
}
