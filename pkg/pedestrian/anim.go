package pedestrian

import (
	"fmt"
	"log"

	"github.com/decker502/pedanim/pkg/clip"
	"github.com/decker502/pedanim/pkg/playback"
	"github.com/decker502/pedanim/pkg/types"
)

// LoadAnim 解析 (group, index) 并确保片段已加载
//
// index 为 AnimIndexNone 时返回 (nil, nil)。
// 片段按解析后的名称缓存：同一骨骼上同名片段只加载一次，
// 不同的 (group, index) 解析到同一名称时共享同一个缓存项。
// 加载失败不会写入缓存，下次请求会重新加载。
//
// 返回错误：
//   - ErrNotLoaded: 还没有生效的行人定义
//   - *config.UnknownGroupError / *config.UnknownAnimError: 注册表中没有对应条目
//   - 加载器返回的错误
func (p *Pedestrian) LoadAnim(group types.AnimGroup, index types.AnimIndex) (*playback.State, error) {
	if index == types.AnimIndexNone {
		return nil, nil
	}
	if p.resolving {
		panic(ErrReentrantLoad)
	}
	p.resolving = true
	defer func() { p.resolving = false }()

	if p.definition == nil || !p.Loaded() {
		return nil, ErrNotLoaded
	}

	table, err := p.services.Groups.Resolve(p.definition.AnimGroupName, group)
	if err != nil {
		return nil, err
	}
	clipName, err := table.ClipName(index)
	if err != nil {
		return nil, err
	}

	if c, ok := p.cache.Get(clipName); ok {
		if state := p.anim.State(clipName); state != nil {
			return state, nil
		}
		// 引擎中的状态被外部移除，重新注册
		return p.anim.AddClip(clipName, c), nil
	}

	c, err := p.services.Loader.Load(table.FileName, clipName, p.frames)
	if err != nil {
		return nil, fmt.Errorf("failed to load animation %s/%s: %w", group, index, err)
	}
	p.cache.Put(clipName, c)
	log.Printf("[Pedestrian] Loaded clip %s from %s (%s/%s)", clipName, table.FileName, group, index)

	return p.anim.AddClip(clipName, c), nil
}

// GetAnim 查询已缓存的片段，不触发加载
// 未缓存、index 为 none 或无法解析时返回 nil
func (p *Pedestrian) GetAnim(group types.AnimGroup, index types.AnimIndex) *clip.Clip {
	if index == types.AnimIndexNone || p.definition == nil {
		return nil
	}
	table, err := p.services.Groups.Resolve(p.definition.AnimGroupName, group)
	if err != nil {
		return nil
	}
	clipName, err := table.ClipName(index)
	if err != nil {
		return nil
	}
	c, _ := p.cache.Get(clipName)
	return c
}

// PlayAnim 立即播放 (group, index)
// 成功后 current 与 desired 都更新为该请求；index 为 none 时什么都不做
func (p *Pedestrian) PlayAnim(group types.AnimGroup, index types.AnimIndex, mode types.PlayMode) (*playback.State, error) {
	state, err := p.prepare(group, index)
	if state == nil {
		return nil, err
	}
	p.anim.Play(state.Name, mode)
	return state, nil
}

// CrossFadeAnim 在 duration 秒内交叉淡入 (group, index)
// 与当前请求相同时仍然会发出命令
func (p *Pedestrian) CrossFadeAnim(group types.AnimGroup, index types.AnimIndex, duration float64, mode types.PlayMode) (*playback.State, error) {
	state, err := p.prepare(group, index)
	if state == nil {
		return nil, err
	}
	p.anim.CrossFade(state.Name, duration, mode)
	return state, nil
}

// CrossFadeAnimQueued 按 queue 策略排队交叉淡入 (group, index)
// 返回解析得到的状态（不是引擎内部创建的排队克隆）
func (p *Pedestrian) CrossFadeAnimQueued(group types.AnimGroup, index types.AnimIndex, duration float64, queue types.QueueMode, mode types.PlayMode) (*playback.State, error) {
	state, err := p.prepare(group, index)
	if state == nil {
		return nil, err
	}
	p.anim.CrossFadeQueued(state.Name, duration, queue, mode)
	return state, nil
}

// prepare 解析请求并在成功时更新 current / desired
func (p *Pedestrian) prepare(group types.AnimGroup, index types.AnimIndex) (*playback.State, error) {
	state, err := p.LoadAnim(group, index)
	if err != nil || state == nil {
		return nil, err
	}
	req := AnimRequest{Group: group, Index: index}
	p.current = req
	p.desired = req
	return state, nil
}
