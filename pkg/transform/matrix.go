package transform

import (
	"fmt"
	"math"

	"github.com/Nuos/tray-rust/pkg/core"
)

// Matrix4 is a row-major 4x4 matrix used for affine object-to-world transforms
type Matrix4 struct {
	M [4][4]float64
}

// Identity returns the 4x4 identity matrix
func Identity() Matrix4 {
	return Matrix4{M: [4][4]float64{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}}
}

// Translate returns a translation matrix
func Translate(v core.Vec3) Matrix4 {
	m := Identity()
	m.M[0][3] = v.X
	m.M[1][3] = v.Y
	m.M[2][3] = v.Z
	return m
}

// Scale returns a per-axis scaling matrix
func Scale(v core.Vec3) Matrix4 {
	m := Identity()
	m.M[0][0] = v.X
	m.M[1][1] = v.Y
	m.M[2][2] = v.Z
	return m
}

// RotateX returns a rotation about the x axis by the given angle in degrees
func RotateX(degrees float64) Matrix4 {
	sin, cos := math.Sincos(degrees * math.Pi / 180.0)
	m := Identity()
	m.M[1][1] = cos
	m.M[1][2] = -sin
	m.M[2][1] = sin
	m.M[2][2] = cos
	return m
}

// RotateY returns a rotation about the y axis by the given angle in degrees
func RotateY(degrees float64) Matrix4 {
	sin, cos := math.Sincos(degrees * math.Pi / 180.0)
	m := Identity()
	m.M[0][0] = cos
	m.M[0][2] = sin
	m.M[2][0] = -sin
	m.M[2][2] = cos
	return m
}

// Rotate returns a rotation about an arbitrary axis by the given angle in
// degrees, built from Rodrigues' formula. The axis need not be unit length.
func Rotate(axis core.Vec3, degrees float64) Matrix4 {
	a := axis.Normalize()
	sin, cos := math.Sincos(degrees * math.Pi / 180.0)
	m := Identity()
	m.M[0][0] = a.X*a.X + (1-a.X*a.X)*cos
	m.M[0][1] = a.X*a.Y*(1-cos) - a.Z*sin
	m.M[0][2] = a.X*a.Z*(1-cos) + a.Y*sin
	m.M[1][0] = a.X*a.Y*(1-cos) + a.Z*sin
	m.M[1][1] = a.Y*a.Y + (1-a.Y*a.Y)*cos
	m.M[1][2] = a.Y*a.Z*(1-cos) - a.X*sin
	m.M[2][0] = a.X*a.Z*(1-cos) - a.Y*sin
	m.M[2][1] = a.Y*a.Z*(1-cos) + a.X*sin
	m.M[2][2] = a.Z*a.Z + (1-a.Z*a.Z)*cos
	return m
}

// RotateZ returns a rotation about the z axis by the given angle in degrees
func RotateZ(degrees float64) Matrix4 {
	sin, cos := math.Sincos(degrees * math.Pi / 180.0)
	m := Identity()
	m.M[0][0] = cos
	m.M[0][1] = -sin
	m.M[1][0] = sin
	m.M[1][1] = cos
	return m
}

// Mul returns the matrix product a * b
func (a Matrix4) Mul(b Matrix4) Matrix4 {
	var out Matrix4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += a.M[i][k] * b.M[k][j]
			}
			out.M[i][j] = sum
		}
	}
	return out
}

// MulPoint transforms a point (w = 1)
func (a Matrix4) MulPoint(p core.Vec3) core.Vec3 {
	return core.Vec3{
		X: a.M[0][0]*p.X + a.M[0][1]*p.Y + a.M[0][2]*p.Z + a.M[0][3],
		Y: a.M[1][0]*p.X + a.M[1][1]*p.Y + a.M[1][2]*p.Z + a.M[1][3],
		Z: a.M[2][0]*p.X + a.M[2][1]*p.Y + a.M[2][2]*p.Z + a.M[2][3],
	}
}

// MulVector transforms a direction vector (w = 0, translation ignored)
func (a Matrix4) MulVector(v core.Vec3) core.Vec3 {
	return core.Vec3{
		X: a.M[0][0]*v.X + a.M[0][1]*v.Y + a.M[0][2]*v.Z,
		Y: a.M[1][0]*v.X + a.M[1][1]*v.Y + a.M[1][2]*v.Z,
		Z: a.M[2][0]*v.X + a.M[2][1]*v.Y + a.M[2][2]*v.Z,
	}
}

// Transpose returns the transposed matrix
func (a Matrix4) Transpose() Matrix4 {
	var out Matrix4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out.M[i][j] = a.M[j][i]
		}
	}
	return out
}

// Determinant3x3 returns the determinant of the upper-left 3x3 block.
// Its sign tells whether the transform swaps handedness.
func (a Matrix4) Determinant3x3() float64 {
	return a.M[0][0]*(a.M[1][1]*a.M[2][2]-a.M[1][2]*a.M[2][1]) -
		a.M[0][1]*(a.M[1][0]*a.M[2][2]-a.M[1][2]*a.M[2][0]) +
		a.M[0][2]*(a.M[1][0]*a.M[2][1]-a.M[1][1]*a.M[2][0])
}

// Inverse computes the inverse matrix using Gauss-Jordan elimination with
// partial pivoting. Returns an error for singular (degenerate) matrices.
func (a Matrix4) Inverse() (Matrix4, error) {
	work := a
	out := Identity()

	for col := 0; col < 4; col++ {
		// Find the row with the largest pivot in this column
		pivotRow := col
		pivotVal := math.Abs(work.M[col][col])
		for row := col + 1; row < 4; row++ {
			if v := math.Abs(work.M[row][col]); v > pivotVal {
				pivotRow = row
				pivotVal = v
			}
		}
		if pivotVal < 1e-12 {
			return Matrix4{}, fmt.Errorf("transform: matrix is singular and cannot be inverted")
		}

		if pivotRow != col {
			work.M[col], work.M[pivotRow] = work.M[pivotRow], work.M[col]
			out.M[col], out.M[pivotRow] = out.M[pivotRow], out.M[col]
		}

		// Scale pivot row so the pivot becomes 1
		inv := 1.0 / work.M[col][col]
		for j := 0; j < 4; j++ {
			work.M[col][j] *= inv
			out.M[col][j] *= inv
		}

		// Eliminate the column from all other rows
		for row := 0; row < 4; row++ {
			if row == col {
				continue
			}
			factor := work.M[row][col]
			if factor == 0 {
				continue
			}
			for j := 0; j < 4; j++ {
				work.M[row][j] -= factor * work.M[col][j]
				out.M[row][j] -= factor * out.M[col][j]
			}
		}
	}

	return out, nil
}
