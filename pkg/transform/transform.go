package transform

import (
	"fmt"

	"github.com/Nuos/tray-rust/pkg/core"
)

// Transform pairs an object-to-world matrix with its inverse so rays can be
// mapped into local space and hit data mapped back out without re-inverting
type Transform struct {
	M   Matrix4 // Object-to-world matrix
	Inv Matrix4 // World-to-object matrix
}

// NewTransform builds a Transform from a forward matrix, computing the inverse
func NewTransform(m Matrix4) (Transform, error) {
	inv, err := m.Inverse()
	if err != nil {
		return Transform{}, err
	}
	return Transform{M: m, Inv: inv}, nil
}

// IdentityTransform returns the identity transform
func IdentityTransform() Transform {
	return Transform{M: Identity(), Inv: Identity()}
}

// Point transforms a local-space point to world space
func (t Transform) Point(p core.Vec3) core.Vec3 {
	return t.M.MulPoint(p)
}

// Vector transforms a local-space direction to world space
func (t Transform) Vector(v core.Vec3) core.Vec3 {
	return t.M.MulVector(v)
}

// Normal transforms a local-space surface normal to world space using the
// inverse transpose, which keeps normals perpendicular under non-uniform scale
func (t Transform) Normal(n core.Vec3) core.Vec3 {
	return t.Inv.Transpose().MulVector(n).Normalize()
}

// InvPoint transforms a world-space point to local space
func (t Transform) InvPoint(p core.Vec3) core.Vec3 {
	return t.Inv.MulPoint(p)
}

// InvVector transforms a world-space direction to local space
func (t Transform) InvVector(v core.Vec3) core.Vec3 {
	return t.Inv.MulVector(v)
}

// RayToLocal maps a world-space ray into this transform's local space.
// The direction is deliberately not renormalized so t values stay comparable
// between local and world space.
func (t Transform) RayToLocal(r core.Ray) core.Ray {
	return core.Ray{
		Origin:    t.Inv.MulPoint(r.Origin),
		Direction: t.Inv.MulVector(r.Direction),
	}
}

// Then composes this transform with a parent: the result applies this
// transform first, then the parent. Used to push group transforms down
// onto their children.
func (t Transform) Then(parent Transform) Transform {
	return Transform{
		M:   parent.M.Mul(t.M),
		Inv: t.Inv.Mul(parent.Inv),
	}
}

// SwapsHandedness reports whether the transform flips orientation
// (negative determinant, e.g. mirroring or an odd number of negative scales).
// Normals derived from cross products of transformed vectors reverse when
// this is set; normals mapped through Normal's inverse transpose do not.
func (t Transform) SwapsHandedness() bool {
	return t.M.Determinant3x3() < 0
}

// OpType identifies a single transform operation from a scene document
type OpType string

const (
	OpTranslate OpType = "translate"
	OpScale     OpType = "scale"
	OpRotateX   OpType = "rotate_x"
	OpRotateY   OpType = "rotate_y"
	OpRotateZ   OpType = "rotate_z"
	OpRotate    OpType = "rotate"
)

// Op is one operation in an object's ordered transform list
type Op struct {
	Type    OpType
	V       core.Vec3 // Translation vector, per-axis scale factors, or rotation axis
	Degrees float64   // Rotation angle for the rotate ops
}

// TranslateOp builds a translate operation
func TranslateOp(v core.Vec3) Op {
	return Op{Type: OpTranslate, V: v}
}

// ScaleUniformOp builds a uniform scale operation
func ScaleUniformOp(s float64) Op {
	return Op{Type: OpScale, V: core.NewVec3(s, s, s)}
}

// ScaleOp builds a per-axis scale operation
func ScaleOp(v core.Vec3) Op {
	return Op{Type: OpScale, V: v}
}

// RotateXOp builds a rotation about the x axis, in degrees
func RotateXOp(degrees float64) Op {
	return Op{Type: OpRotateX, Degrees: degrees}
}

// RotateYOp builds a rotation about the y axis, in degrees
func RotateYOp(degrees float64) Op {
	return Op{Type: OpRotateY, Degrees: degrees}
}

// RotateZOp builds a rotation about the z axis, in degrees
func RotateZOp(degrees float64) Op {
	return Op{Type: OpRotateZ, Degrees: degrees}
}

// RotateOp builds a rotation about an arbitrary axis, in degrees
func RotateOp(axis core.Vec3, degrees float64) Op {
	return Op{Type: OpRotate, V: axis, Degrees: degrees}
}

// Compose folds an ordered operation list into a single transform.
// The first listed operation is applied first to a local-space point, so each
// subsequent operation pre-multiplies the accumulated matrix. Order is
// significant: the composition is non-commutative and must match the
// document order exactly.
func Compose(ops []Op) (Transform, error) {
	m := Identity()
	for i, op := range ops {
		var step Matrix4
		switch op.Type {
		case OpTranslate:
			step = Translate(op.V)
		case OpScale:
			step = Scale(op.V)
		case OpRotateX:
			step = RotateX(op.Degrees)
		case OpRotateY:
			step = RotateY(op.Degrees)
		case OpRotateZ:
			step = RotateZ(op.Degrees)
		case OpRotate:
			if op.V.LengthSquared() == 0 {
				return Transform{}, fmt.Errorf("transform: rotate at index %d needs a non-zero axis", i)
			}
			step = Rotate(op.V, op.Degrees)
		default:
			return Transform{}, fmt.Errorf("transform: unrecognized operation type %q at index %d", op.Type, i)
		}
		m = step.Mul(m)
	}
	return NewTransform(m)
}
