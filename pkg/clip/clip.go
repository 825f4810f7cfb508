// Package clip 解码后、绑定到具体骨骼的动画片段，以及从动画档案加载片段的服务
package clip

import (
	"sort"

	"github.com/decker502/pedanim/internal/ifp"
	"github.com/decker502/pedanim/pkg/skeleton"
)

// Curve 一个骨骼节点的关键帧轨道
type Curve struct {
	Frame *skeleton.Frame
	Keys  []ifp.ResolvedKey
}

// Clip 绑定到某个 FrameContainer 的动画片段
// 只在该 FrameContainer 的生命周期内有效
type Clip struct {
	Name     string
	FileName string

	// Length 片段时长（秒）
	Length float64
	Loop   bool

	// Frames 片段绑定的骨骼
	Frames *skeleton.FrameContainer

	Curves []Curve

	// UnboundBones 档案中存在但骨骼中找不到的节点名（调试用）
	UnboundBones []string
}

// Pose 单个节点在某一时刻的采样结果
type Pose struct {
	Frame       *skeleton.Frame
	Position    skeleton.Vec3
	Rotation    skeleton.Quat
	HasPosition bool
}

// Valid 片段绑定的骨骼是否仍然存活
func (c *Clip) Valid() bool {
	return c.Frames != nil && !c.Frames.Destroyed()
}

// Sample 采样 t 时刻（秒，会被限制在 [0, Length]）的姿势
// 结果追加到 dst 后返回，调用方可复用切片
func (c *Clip) Sample(t float64, dst []Pose) []Pose {
	if t < 0 {
		t = 0
	}
	if t > c.Length {
		t = c.Length
	}

	for i := range c.Curves {
		curve := &c.Curves[i]
		if len(curve.Keys) == 0 {
			continue
		}
		k0, k1, alpha := bracket(curve.Keys, t)
		dst = append(dst, Pose{
			Frame:       curve.Frame,
			Position:    toVec(k0.Position).Lerp(toVec(k1.Position), alpha),
			Rotation:    toQuat(k0.Rotation).Nlerp(toQuat(k1.Rotation), alpha),
			HasPosition: k0.HasPos,
		})
	}
	return dst
}

// bracket 找到包围 t 的两个关键帧和插值系数
func bracket(keys []ifp.ResolvedKey, t float64) (ifp.ResolvedKey, ifp.ResolvedKey, float64) {
	i := sort.Search(len(keys), func(i int) bool { return keys[i].T > t })
	switch {
	case i == 0:
		return keys[0], keys[0], 0
	case i == len(keys):
		last := keys[len(keys)-1]
		return last, last, 0
	}
	k0, k1 := keys[i-1], keys[i]
	span := k1.T - k0.T
	if span <= 0 {
		return k1, k1, 0
	}
	return k0, k1, (t - k0.T) / span
}

func toVec(p [3]float64) skeleton.Vec3 {
	return skeleton.Vec3{X: p[0], Y: p[1], Z: p[2]}
}

func toQuat(r [4]float64) skeleton.Quat {
	return skeleton.Quat{X: r[0], Y: r[1], Z: r[2], W: r[3]}
}
