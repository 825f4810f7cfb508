// Package pedestrian 行人动画状态管理
//
// Pedestrian 把符号化的动画请求 (AnimGroup, AnimIndex) 解析为具体片段，
// 按片段名懒加载并缓存在行人自己的 ClipCache 中，再向播放引擎发出
// Play / CrossFade / CrossFadeQueued 命令。
//
// 每个行人持有两组请求：
//   - desired: 调用方设置的目标请求（SetAnim / SetWalking / SetRunning）
//   - current: 最近一次成功发出的播放请求
//
// Update 每个 tick 调用一次：检测 identity 变化（重新加载模型）以及
// desired 与 current 的差异（交叉淡入到 desired）。
// 所有操作都在调用方的 goroutine 中同步执行，Pedestrian 不是并发安全的。
package pedestrian

import (
	"fmt"

	"github.com/decker502/pedanim/pkg/config"
	"github.com/decker502/pedanim/pkg/skeleton"
	"github.com/decker502/pedanim/pkg/types"
)

const (
	// DefaultPedestrianID 新建行人的默认 identity
	DefaultPedestrianID = 7

	// DefaultCrossFadeDuration Update 自动交叉淡入的时长（秒）
	DefaultCrossFadeDuration = 0.3
)

// AnimRequest 动画请求
type AnimRequest struct {
	Group types.AnimGroup
	Index types.AnimIndex
}

// NoAnim 空请求
var NoAnim = AnimRequest{Group: types.AnimGroupNone, Index: types.AnimIndexNone}

func (r AnimRequest) String() string {
	return fmt.Sprintf("%s/%s", r.Group, r.Index)
}

// IsNone 是否为“不播放动画”
func (r AnimRequest) IsNone() bool {
	return r.Index == types.AnimIndexNone
}

// Pedestrian 行人
type Pedestrian struct {
	services Services
	anim     Animator

	// holder 行人自身的变换节点，模型挂在它下面
	holder *skeleton.Frame

	desiredID int
	loadedID  int
	observed  bool // 是否已经处理过某个 identity（Unloaded → Loaded）

	definition *config.PedestrianDef
	frames     *skeleton.FrameContainer
	root       *skeleton.Frame
	cache      *ClipCache

	desired AnimRequest
	current AnimRequest

	// InVehicle 是否坐在载具中（由载具逻辑设置）
	InVehicle bool
	// VehicleParentOffset 坐在载具中时模型节点的偏移
	VehicleParentOffset skeleton.Vec3

	speed float64

	resolving bool
	loading   bool
	destroyed bool
}

// New 创建行人
// 初始 identity 为 DefaultPedestrianID，目标请求为 walkcycle/idle；
// 第一次 Update 时加载模型
func New(services Services, anim Animator) *Pedestrian {
	return &Pedestrian{
		services:  services,
		anim:      anim,
		holder:    skeleton.NewFrame("Pedestrian"),
		desiredID: DefaultPedestrianID,
		cache:     NewClipCache(),
		desired:   AnimRequest{Group: types.AnimGroupWalkCycle, Index: types.AnimIndexIdle},
		current:   NoAnim,
	}
}

// PedestrianID 目标 identity
func (p *Pedestrian) PedestrianID() int {
	return p.desiredID
}

// SetPedestrianID 设置目标 identity，下次 Update 时生效
func (p *Pedestrian) SetPedestrianID(id int) {
	p.desiredID = id
}

// LoadedID 最近一次处理的 identity，尚未处理时第二个返回值为 false
func (p *Pedestrian) LoadedID() (int, bool) {
	return p.loadedID, p.observed
}

// Definition 当前生效的行人定义，未加载时为 nil
func (p *Pedestrian) Definition() *config.PedestrianDef {
	return p.definition
}

// Loaded 是否已挂载模型
func (p *Pedestrian) Loaded() bool {
	return p.frames != nil && !p.destroyed
}

// Frames 当前骨骼，未加载时为 nil
func (p *Pedestrian) Frames() *skeleton.FrameContainer {
	return p.frames
}

// Root 当前骨骼的 Root 节点
func (p *Pedestrian) Root() *skeleton.Frame {
	return p.root
}

// Holder 行人的变换节点
func (p *Pedestrian) Holder() *skeleton.Frame {
	return p.holder
}

// Cache 片段缓存（只读使用）
func (p *Pedestrian) Cache() *ClipCache {
	return p.cache
}

// Anim 目标请求
func (p *Pedestrian) Anim() AnimRequest {
	return p.desired
}

// SetAnim 设置目标请求，下次 Update 时交叉淡入
func (p *Pedestrian) SetAnim(group types.AnimGroup, index types.AnimIndex) {
	p.desired = AnimRequest{Group: group, Index: index}
}

// CurrentAnim 最近一次成功发出的播放请求
func (p *Pedestrian) CurrentAnim() AnimRequest {
	return p.current
}

// Walking 目标请求是否为行走（跑步也算行走）
func (p *Pedestrian) Walking() bool {
	return p.desired.Group == types.AnimGroupWalkCycle &&
		(p.desired.Index == types.AnimIndexWalk || p.Running())
}

// SetWalking true → walkcycle/walk，false → walkcycle/idle
func (p *Pedestrian) SetWalking(walking bool) {
	if walking {
		p.SetAnim(types.AnimGroupWalkCycle, types.AnimIndexWalk)
	} else {
		p.SetAnim(types.AnimGroupWalkCycle, types.AnimIndexIdle)
	}
}

// Running 目标请求是否为跑步（含惊慌奔跑）
func (p *Pedestrian) Running() bool {
	return p.desired.Group == types.AnimGroupWalkCycle &&
		(p.desired.Index == types.AnimIndexRun || p.desired.Index == types.AnimIndexPanicked)
}

// SetRunning true → walkcycle/run，false → walkcycle/walk
func (p *Pedestrian) SetRunning(running bool) {
	if running {
		p.SetAnim(types.AnimGroupWalkCycle, types.AnimIndexRun)
	} else {
		p.SetAnim(types.AnimGroupWalkCycle, types.AnimIndexWalk)
	}
}

// Speed 最近一次 LateUpdate 得到的前进速度
func (p *Pedestrian) Speed() float64 {
	return p.speed
}

// Position 行人位置
func (p *Pedestrian) Position() skeleton.Vec3 {
	return p.holder.LocalPosition
}

// SetPosition 移动行人
func (p *Pedestrian) SetPosition(pos skeleton.Vec3) {
	p.holder.LocalPosition = pos
}

// LateUpdate 动画采样之后调用：计算速度，并摆放 Root 的父节点
//   - 在载具中：速度为 0，父节点放在 VehicleParentOffset
//   - 否则：速度取 Root 的局部 Z 速度，父节点抵消 Root 的前进位移和一半高度
func (p *Pedestrian) LateUpdate() {
	if p.root == nil || p.root.Destroyed() || p.root.Parent == nil {
		return
	}

	parent := p.root.Parent
	if p.InVehicle {
		p.speed = 0
		parent.LocalPosition = p.VehicleParentOffset
		return
	}

	p.speed = p.root.LocalVelocity.Z
	local := p.root.LocalPosition
	parent.LocalPosition = skeleton.Vec3{X: 0, Y: -local.Y * 0.5, Z: -local.Z}
}
