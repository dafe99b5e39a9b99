package math

import "math"

// Mat4 is a 4x4 matrix stored column-major, the layout OpenGL and the
// instance buffers expect. Element (row r, column c) lives at index c*4+r.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

// FromRotationTranslation builds a rigid transform: rotate by q, then move to p.
func FromRotationTranslation(q Quat, p Vec3) Mat4 {
	m := q.ToMat4()
	m[12], m[13], m[14] = p.X, p.Y, p.Z
	return m
}

// Perspective returns a right-handed perspective projection with a [-1, 1]
// depth range. fovY is in radians.
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := float32(1 / math.Tan(float64(fovY)/2))
	nf := 1 / (near - far)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}

// LookAt returns a view matrix looking from eye towards center.
func LookAt(eye, center, up Vec3) Mat4 {
	return LookTo(eye, center.Sub(eye), up)
}

// LookTo returns a view matrix looking from eye along dir.
func LookTo(eye, dir, up Vec3) Mat4 {
	f := dir.Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)

	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

// Col returns column i as a Vec3, dropping the w row. Columns 0-2 of a rigid
// transform are the local axes, column 3 is the translation.
func (m Mat4) Col(i int) Vec3 {
	return Vec3{m[i*4], m[i*4+1], m[i*4+2]}
}

// Translation returns the translation part of the matrix.
func (m Mat4) Translation() Vec3 {
	return m.Col(3)
}

// Mul returns m * other.
func (m Mat4) Mul(other Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+r] * other[c*4+k]
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// MulVec4 returns m * v.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	var out Vec4
	for r := 0; r < 4; r++ {
		out[r] = m[r]*v[0] + m[4+r]*v[1] + m[8+r]*v[2] + m[12+r]*v[3]
	}
	return out
}

// TransformPoint transforms a point (w=1), applying the perspective divide
// when the result has a w other than 0 or 1.
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	v := m.MulVec4(Vec4{p.X, p.Y, p.Z, 1})
	if v[3] != 0 && v[3] != 1 {
		return Vec3{v[0] / v[3], v[1] / v[3], v[2] / v[3]}
	}
	return v.XYZ()
}

// Inverse returns the inverse of m using Gauss-Jordan elimination with
// partial pivoting. ok is false when m is singular; the identity is returned.
func (m Mat4) Inverse() (inv Mat4, ok bool) {
	// Work in row-major float64 to keep pivots stable.
	var a [4][8]float64
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			a[r][c] = float64(m[c*4+r])
		}
		a[r][4+r] = 1
	}

	for col := 0; col < 4; col++ {
		pivot := col
		for r := col + 1; r < 4; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return Identity(), false
		}
		a[col], a[pivot] = a[pivot], a[col]

		p := a[col][col]
		for c := 0; c < 8; c++ {
			a[col][c] /= p
		}
		for r := 0; r < 4; r++ {
			if r == col {
				continue
			}
			f := a[r][col]
			if f == 0 {
				continue
			}
			for c := 0; c < 8; c++ {
				a[r][c] -= f * a[col][c]
			}
		}
	}

	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			inv[c*4+r] = float32(a[r][4+c])
		}
	}
	return inv, true
}

// Ptr returns a pointer to the first element, for GL uniform uploads.
func (m *Mat4) Ptr() *float32 {
	return &m[0]
}
