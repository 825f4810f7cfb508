// Package playback 动画播放引擎
//
// 引擎按名称管理动画状态（State），提供三种播放命令：
//   - Play: 立即切换
//   - CrossFade: 在指定时长内交叉淡入
//   - CrossFadeQueued: 按排队策略延后或立即交叉淡入（使用克隆状态）
//
// Update(dt) 推进时间、权重和排队；Sample 把混合后的姿势写入骨骼。
// 引擎不是并发安全的，由所属行人在游戏循环中单线程驱动。
package playback

import (
	"fmt"
	"math"

	"github.com/decker502/pedanim/pkg/clip"
	"github.com/decker502/pedanim/pkg/skeleton"
	"github.com/decker502/pedanim/pkg/types"
)

// QueuedCloneSuffix 排队克隆状态的名称后缀
const QueuedCloneSuffix = " - Queued Clone"

// Engine 动画播放引擎
type Engine struct {
	states map[string]*State
	order  []*State // 注册顺序，保证迭代确定性

	lastDt  float64
	wrapped bool // 本次 Update 中是否有循环片段回绕

	poses []clip.Pose // Sample 复用的缓冲区
	accum []blendAccum
}

type blendAccum struct {
	posW   float64
	pos    skeleton.Vec3
	rotW   float64
	rot    skeleton.Quat
	anyRot bool
}

// NewEngine 创建播放引擎
func NewEngine() *Engine {
	return &Engine{
		states: make(map[string]*State),
	}
}

// AddClip 以 name 注册片段，已存在同名状态时替换
func (e *Engine) AddClip(name string, c *clip.Clip) *State {
	if old, ok := e.states[name]; ok {
		e.remove(old)
	}
	s := &State{Name: name, Clip: c, Speed: 1}
	e.states[name] = s
	e.order = append(e.order, s)
	return s
}

// RemoveClip 移除具名状态
func (e *Engine) RemoveClip(name string) {
	if s, ok := e.states[name]; ok {
		e.remove(s)
	}
}

func (e *Engine) remove(s *State) {
	delete(e.states, s.Name)
	for i, o := range e.order {
		if o == s {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
}

// Clear 移除所有状态（骨骼被替换时调用）
func (e *Engine) Clear() {
	e.states = make(map[string]*State)
	e.order = nil
}

// State 获取具名状态，不存在时返回 nil
func (e *Engine) State(name string) *State {
	return e.states[name]
}

// States 按注册顺序返回所有状态
func (e *Engine) States() []*State {
	return e.order
}

// IsPlaying 具名状态是否正在播放
func (e *Engine) IsPlaying(name string) bool {
	s := e.states[name]
	return s != nil && s.Enabled
}

// Play 立即播放具名状态
// 已在播放时不会回到开头；其它状态按 mode 停止
// 状态不存在时返回 false
func (e *Engine) Play(name string, mode types.PlayMode) bool {
	s := e.states[name]
	if s == nil {
		return false
	}
	e.playState(s, mode)
	return true
}

func (e *Engine) playState(s *State, mode types.PlayMode) {
	for _, o := range e.order {
		if o != s && conflicts(o, s, mode) {
			o.stop()
		}
	}
	if !s.Enabled {
		s.Time = 0
	}
	s.Enabled = true
	s.Weight = 1
	s.fadeSpeed = 0
	s.stopOnFadeOut = false
}

// CrossFade 在 fadeLength 秒内淡入具名状态，其它状态按 mode 淡出并在权重归零后停止
// fadeLength <= 0 时等同于 Play
func (e *Engine) CrossFade(name string, fadeLength float64, mode types.PlayMode) {
	s := e.states[name]
	if s == nil {
		return
	}
	e.crossFadeState(s, fadeLength, mode)
}

func (e *Engine) crossFadeState(s *State, fadeLength float64, mode types.PlayMode) {
	if fadeLength <= 0 {
		e.playState(s, mode)
		return
	}
	for _, o := range e.order {
		if o != s && o.Enabled && conflicts(o, s, mode) {
			o.fadeTo(0, fadeLength, true)
		}
	}
	if !s.Enabled {
		s.Time = 0
		s.Weight = 0
	}
	s.Enabled = true
	s.fadeTo(1, fadeLength, false)
}

// CrossFadeQueued 创建克隆状态并按 queue 策略交叉淡入
//   - QueueModePlayNow: 立即开始
//   - QueueModeCompleteOthers: 等其它正在播放的非循环状态结束后开始
//
// 返回克隆状态；具名状态不存在时返回 nil
func (e *Engine) CrossFadeQueued(name string, fadeLength float64, queue types.QueueMode, mode types.PlayMode) *State {
	src := e.states[name]
	if src == nil {
		return nil
	}

	clone := &State{
		Name:  e.uniqueName(name + QueuedCloneSuffix),
		Clip:  src.Clip,
		Layer: src.Layer,
		Speed: src.Speed,
		clone: true,
	}
	e.states[clone.Name] = clone
	e.order = append(e.order, clone)

	if queue == types.QueueModePlayNow || e.othersComplete(clone) {
		e.crossFadeState(clone, fadeLength, mode)
		return clone
	}

	clone.pending = &pendingFade{fadeLength: fadeLength, mode: mode}
	return clone
}

func (e *Engine) uniqueName(base string) string {
	if _, exists := e.states[base]; !exists {
		return base
	}
	for i := 2; ; i++ {
		name := fmt.Sprintf("%s %d", base, i)
		if _, exists := e.states[name]; !exists {
			return name
		}
	}
}

// othersComplete 除 s 外是否没有仍在播放、且会自然结束的状态
// 循环状态和正在淡出的状态不会阻塞排队
func (e *Engine) othersComplete(s *State) bool {
	for _, o := range e.order {
		if o == s || !o.Enabled || o.pending != nil {
			continue
		}
		if o.Looping() || o.stopOnFadeOut {
			continue
		}
		return false
	}
	return true
}

// conflicts 按播放模式判断 o 是否需要为 s 让路
func conflicts(o, s *State, mode types.PlayMode) bool {
	if mode == types.PlayModeStopAll {
		return true
	}
	return o.Layer == s.Layer
}

// Update 推进 dt 秒：时间、权重过渡、排队启动、清理已结束的克隆
func (e *Engine) Update(dt float64) {
	e.lastDt = dt
	e.wrapped = false

	for _, s := range e.order {
		if !s.Enabled {
			continue
		}
		e.advance(s, dt)
		s.stepFade(dt)
	}

	for _, s := range e.order {
		if s.pending != nil && e.othersComplete(s) {
			p := s.pending
			s.pending = nil
			e.crossFadeState(s, p.fadeLength, p.mode)
		}
	}

	e.dropFinishedClones()
}

func (e *Engine) advance(s *State, dt float64) {
	s.Time += dt * s.Speed
	length := s.Length()
	if s.Looping() {
		if length > 0 && s.Time >= length {
			s.Time = math.Mod(s.Time, length)
			e.wrapped = true
		}
		return
	}
	if s.Time >= length {
		s.stop()
	}
}

func (e *Engine) dropFinishedClones() {
	kept := e.order[:0]
	for _, s := range e.order {
		if s.clone && !s.Enabled && s.pending == nil {
			delete(e.states, s.Name)
			continue
		}
		kept = append(kept, s)
	}
	// 清除尾部残留引用
	for i := len(kept); i < len(e.order); i++ {
		e.order[i] = nil
	}
	e.order = kept
}

// Sample 把所有播放中状态的混合姿势写入 frames
// 只采样绑定到 frames 的片段；没有任何轨道覆盖的节点保持不变
// 节点速度由本次与上次位置差除以最近一次 Update 的 dt 得到，回绕的那一帧保留上次速度
func (e *Engine) Sample(frames *skeleton.FrameContainer) {
	if frames == nil || frames.Destroyed() {
		return
	}

	n := frames.Len()
	if cap(e.accum) < n {
		e.accum = make([]blendAccum, n)
	}
	e.accum = e.accum[:n]
	for i := range e.accum {
		e.accum[i] = blendAccum{}
	}

	sampled := false
	for _, s := range e.order {
		if !s.Enabled || s.Weight <= 0 || s.Clip == nil || s.Clip.Frames != frames {
			continue
		}
		e.poses = s.Clip.Sample(s.Time, e.poses[:0])
		for _, p := range e.poses {
			a := &e.accum[p.Frame.Index]
			if p.HasPosition {
				a.pos = a.pos.Add(p.Position.Scale(s.Weight))
				a.posW += s.Weight
			}
			r := p.Rotation
			if a.anyRot && a.rot.Dot(r) < 0 {
				r = skeleton.Quat{X: -r.X, Y: -r.Y, Z: -r.Z, W: -r.W}
			}
			a.rot = skeleton.Quat{
				X: a.rot.X + r.X*s.Weight,
				Y: a.rot.Y + r.Y*s.Weight,
				Z: a.rot.Z + r.Z*s.Weight,
				W: a.rot.W + r.W*s.Weight,
			}
			a.rotW += s.Weight
			a.anyRot = true
		}
		sampled = true
	}
	if !sampled {
		return
	}

	for i, f := range frames.Frames() {
		a := &e.accum[i]
		prev := f.LocalPosition
		if a.posW > 0 {
			f.LocalPosition = a.pos.Scale(1 / a.posW)
		} else if a.rotW > 0 {
			f.LocalPosition = f.BindPosition
		}
		if a.anyRot {
			f.LocalRotation = a.rot.Normalize()
		}
		if e.lastDt > 0 && !e.wrapped {
			f.LocalVelocity = f.LocalPosition.Sub(prev).Scale(1 / e.lastDt)
		}
	}
}
