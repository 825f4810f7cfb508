// Package skeleton 骨骼节点层级（SkeletalFrameSet）与模型挂载服务
//
// 模型挂载后得到一个 FrameContainer，其中每个 Frame 是一个具名骨骼节点。
// FrameContainer 由行人独占；替换（模型重载）时旧层级被销毁，
// 所有绑定到旧层级的动画随之失效。
package skeleton

// Frame 具名骨骼节点
type Frame struct {
	Name   string
	Index  int // 在 FrameContainer 中的序号，-1 表示不属于任何容器（如挂载点）
	Parent *Frame

	Children []*Frame

	// BindPosition 模型定义中的静止偏移
	BindPosition Vec3

	// LocalPosition / LocalRotation 当前局部变换（由动画采样写入）
	LocalPosition Vec3
	LocalRotation Quat

	// LocalVelocity 局部速度（单位/秒），由动画采样根据位移差计算
	LocalVelocity Vec3

	destroyed bool
}

// NewFrame 创建独立节点（如行人的挂载点），不属于任何容器
func NewFrame(name string) *Frame {
	return &Frame{
		Name:          name,
		Index:         -1,
		LocalRotation: IdentityQuat(),
	}
}

// AddChild 将 child 挂到当前节点下
func (f *Frame) AddChild(child *Frame) {
	if child.Parent != nil {
		child.Parent.removeChild(child)
	}
	child.Parent = f
	f.Children = append(f.Children, child)
}

func (f *Frame) removeChild(child *Frame) {
	for i, c := range f.Children {
		if c == child {
			f.Children = append(f.Children[:i], f.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

// Destroyed 节点是否已被销毁
func (f *Frame) Destroyed() bool {
	return f.destroyed
}

// WorldPosition 沿父链累积得到的位置
func (f *Frame) WorldPosition() Vec3 {
	if f.Parent == nil {
		return f.LocalPosition
	}
	return f.Parent.WorldPosition().Add(f.Parent.WorldRotation().Rotate(f.LocalPosition))
}

// WorldRotation 沿父链累积得到的旋转
func (f *Frame) WorldRotation() Quat {
	if f.Parent == nil {
		return f.LocalRotation
	}
	return f.Parent.WorldRotation().Mul(f.LocalRotation)
}
