package transform

import (
	"math"
	"testing"

	"github.com/Nuos/tray-rust/pkg/core"
)

func vecsClose(a, b core.Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) < tolerance &&
		math.Abs(a.Y-b.Y) < tolerance &&
		math.Abs(a.Z-b.Z) < tolerance
}

func TestCompose_OrderIsSignificant(t *testing.T) {
	// translate then scale doubles the translation; scale then translate does not
	translateThenScale, err := Compose([]Op{
		TranslateOp(core.NewVec3(1, 0, 0)),
		ScaleUniformOp(2),
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	scaleThenTranslate, err := Compose([]Op{
		ScaleUniformOp(2),
		TranslateOp(core.NewVec3(1, 0, 0)),
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	origin := core.NewVec3(0, 0, 0)
	p1 := translateThenScale.Point(origin)
	p2 := scaleThenTranslate.Point(origin)

	if !vecsClose(p1, core.NewVec3(2, 0, 0), 1e-12) {
		t.Errorf("translate-then-scale: got %v, expected (2,0,0)", p1)
	}
	if !vecsClose(p2, core.NewVec3(1, 0, 0), 1e-12) {
		t.Errorf("scale-then-translate: got %v, expected (1,0,0)", p2)
	}
}

func TestCompose_IdentityInsertionIsNoOp(t *testing.T) {
	base := []Op{
		TranslateOp(core.NewVec3(3, -2, 5)),
		TranslateOp(core.NewVec3(-1, 1, 0)),
	}
	padded := []Op{
		ScaleUniformOp(1),
		base[0],
		TranslateOp(core.NewVec3(0, 0, 0)),
		base[1],
		RotateZOp(0),
	}

	a, err := Compose(base)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	b, err := Compose(padded)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if math.Abs(a.M.M[i][j]-b.M.M[i][j]) > 1e-12 {
				t.Fatalf("matrix differs at (%d,%d): %v vs %v", i, j, a.M.M[i][j], b.M.M[i][j])
			}
		}
	}
}

func TestCompose_RotationInDegrees(t *testing.T) {
	tr, err := Compose([]Op{RotateZOp(90)})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	p := tr.Point(core.NewVec3(1, 0, 0))
	if !vecsClose(p, core.NewVec3(0, 1, 0), 1e-12) {
		t.Errorf("rotate_z(90) of (1,0,0): got %v, expected (0,1,0)", p)
	}
}

func TestCompose_AxisAngleRotate(t *testing.T) {
	// Rotating about (0,0,2) must match rotate_z: the axis is normalized
	free, err := Compose([]Op{RotateOp(core.NewVec3(0, 0, 2), 90)})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	p := free.Point(core.NewVec3(1, 0, 0))
	if !vecsClose(p, core.NewVec3(0, 1, 0), 1e-12) {
		t.Errorf("rotate(z, 90) of (1,0,0): got %v, expected (0,1,0)", p)
	}

	aboutZ, err := Compose([]Op{RotateZOp(90)})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if math.Abs(free.M.M[i][j]-aboutZ.M.M[i][j]) > 1e-12 {
				t.Fatalf("axis-angle z rotation differs from rotate_z at (%d,%d)", i, j)
			}
		}
	}

	// A diagonal axis keeps its own direction fixed
	axis := core.NewVec3(1, 1, 1)
	diag, err := Compose([]Op{RotateOp(axis, 120)})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if got := diag.Vector(axis); !vecsClose(got, axis, 1e-12) {
		t.Errorf("rotation axis must be invariant: got %v", got)
	}
	// 120 degrees about the diagonal cycles the basis vectors
	if got := diag.Vector(core.NewVec3(1, 0, 0)); !vecsClose(got, core.NewVec3(0, 1, 0), 1e-12) {
		t.Errorf("rotate(1,1,1 by 120) of x: got %v, expected y", got)
	}
}

func TestCompose_RotateZeroAxisFails(t *testing.T) {
	if _, err := Compose([]Op{RotateOp(core.NewVec3(0, 0, 0), 30)}); err == nil {
		t.Error("expected an error for a zero rotation axis")
	}
}

func TestTransform_InverseRoundTrip(t *testing.T) {
	tr, err := Compose([]Op{
		ScaleOp(core.NewVec3(2, 3, 0.5)),
		RotateYOp(37),
		TranslateOp(core.NewVec3(-4, 2, 9)),
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	p := core.NewVec3(1.5, -0.25, 3)
	back := tr.InvPoint(tr.Point(p))
	if !vecsClose(p, back, 1e-9) {
		t.Errorf("inverse round trip: got %v, expected %v", back, p)
	}
}

func TestTransform_NormalUsesInverseTranspose(t *testing.T) {
	// Non-uniform scale: a plain matrix multiply would bend this normal,
	// the inverse transpose must keep it perpendicular to the surface
	tr, err := Compose([]Op{ScaleOp(core.NewVec3(2, 1, 1))})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	// Surface x + y = c has normal (1,1,0)/√2; after scaling x by 2 the
	// surface becomes x/2 + y = c with normal (1,2,0)/√5
	n := tr.Normal(core.NewVec3(1, 1, 0).Normalize())
	expected := core.NewVec3(1, 2, 0).Normalize()
	if !vecsClose(n, expected, 1e-12) {
		t.Errorf("normal transform: got %v, expected %v", n, expected)
	}
	if math.Abs(n.Length()-1.0) > 1e-12 {
		t.Errorf("transformed normal not unit length: %v", n.Length())
	}
}

func TestTransform_SwapsHandedness(t *testing.T) {
	mirrored, err := Compose([]Op{ScaleOp(core.NewVec3(-1, 1, 1))})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if !mirrored.SwapsHandedness() {
		t.Error("single negative scale axis should swap handedness")
	}

	doubleMirrored, err := Compose([]Op{ScaleOp(core.NewVec3(-1, -1, 1))})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if doubleMirrored.SwapsHandedness() {
		t.Error("two negative scale axes should preserve handedness")
	}
}

func TestCompose_SingularScaleFails(t *testing.T) {
	_, err := Compose([]Op{ScaleOp(core.NewVec3(0, 1, 1))})
	if err == nil {
		t.Error("expected an error for a zero-scale (singular) transform")
	}
}

func TestTransform_Then(t *testing.T) {
	child, err := Compose([]Op{TranslateOp(core.NewVec3(0, 1, 0))})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	parent, err := Compose([]Op{TranslateOp(core.NewVec3(0, 1, 0))})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	combined := child.Then(parent)
	p := combined.Point(core.NewVec3(0, 0, 0))
	if !vecsClose(p, core.NewVec3(0, 2, 0), 1e-12) {
		t.Errorf("nested translation: got %v, expected (0,2,0)", p)
	}
}
