package skeleton

import "math"

// Vec3 三维向量（模型空间，Z 轴朝上，Y 轴朝前）
type Vec3 struct {
	X, Y, Z float64
}

// Add 向量加法
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub 向量减法
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale 数乘
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Lerp 线性插值
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return Vec3{
		v.X + (o.X-v.X)*t,
		v.Y + (o.Y-v.Y)*t,
		v.Z + (o.Z-v.Z)*t,
	}
}

// Quat 旋转四元数
type Quat struct {
	X, Y, Z, W float64
}

// IdentityQuat 单位四元数
func IdentityQuat() Quat {
	return Quat{W: 1}
}

// Dot 点积
func (q Quat) Dot(o Quat) float64 {
	return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
}

// Normalize 归一化，零四元数返回单位四元数
func (q Quat) Normalize() Quat {
	l := math.Sqrt(q.Dot(q))
	if l == 0 {
		return IdentityQuat()
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Nlerp 归一化线性插值（走最短路径）
func (q Quat) Nlerp(o Quat, t float64) Quat {
	if q.Dot(o) < 0 {
		o = Quat{-o.X, -o.Y, -o.Z, -o.W}
	}
	return Quat{
		q.X + (o.X-q.X)*t,
		q.Y + (o.Y-q.Y)*t,
		q.Z + (o.Z-q.Z)*t,
		q.W + (o.W-q.W)*t,
	}.Normalize()
}

// Mul 四元数乘法 q*o（先 o 后 q）
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Rotate 用四元数旋转向量
func (q Quat) Rotate(v Vec3) Vec3 {
	p := Quat{v.X, v.Y, v.Z, 0}
	conj := Quat{-q.X, -q.Y, -q.Z, q.W}
	r := q.Mul(p).Mul(conj)
	return Vec3{r.X, r.Y, r.Z}
}
