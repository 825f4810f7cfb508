package skeleton

// RootFrameName 骨骼根节点名，LateUpdate 依赖它计算速度和车内偏移
const RootFrameName = "Root"

// FrameContainer 模型挂载后产生的骨骼节点集合（SkeletalFrameSet）
type FrameContainer struct {
	// ModelName / TextureDictionaries 挂载时使用的模型和贴图字典
	ModelName           string
	TextureDictionaries []string

	// Origin 模型节点，挂在调用方传入的父节点下，所有顶层骨骼节点挂在它下面
	Origin *Frame

	frames []*Frame
	byName map[string]*Frame

	destroyed bool
}

func newFrameContainer(modelName string, txds []string) *FrameContainer {
	return &FrameContainer{
		ModelName:           modelName,
		TextureDictionaries: append([]string(nil), txds...),
		Origin:              NewFrame(modelName),
		byName:              make(map[string]*Frame),
	}
}

func (c *FrameContainer) add(f *Frame) {
	f.Index = len(c.frames)
	c.frames = append(c.frames, f)
	c.byName[f.Name] = f
}

// GetByName 按名称查询骨骼节点
func (c *FrameContainer) GetByName(name string) (*Frame, bool) {
	f, ok := c.byName[name]
	return f, ok
}

// Frames 按声明顺序返回所有节点（父节点总在子节点之前）
func (c *FrameContainer) Frames() []*Frame {
	return c.frames
}

// Len 节点数量
func (c *FrameContainer) Len() int {
	return len(c.frames)
}

// ResetPose 所有节点恢复到静止姿势
func (c *FrameContainer) ResetPose() {
	for _, f := range c.frames {
		f.LocalPosition = f.BindPosition
		f.LocalRotation = IdentityQuat()
		f.LocalVelocity = Vec3{}
	}
}

// Destroy 销毁整个层级：从父节点摘除并将所有节点标记为已销毁
// 重复调用是安全的
func (c *FrameContainer) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	if c.Origin.Parent != nil {
		c.Origin.Parent.removeChild(c.Origin)
	}
	c.Origin.destroyed = true
	for _, f := range c.frames {
		f.destroyed = true
	}
}

// Destroyed 层级是否已被销毁
func (c *FrameContainer) Destroyed() bool {
	return c.destroyed
}
