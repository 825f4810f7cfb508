package pedestrian

import (
	"errors"
	"fmt"
	"log"

	"github.com/decker502/pedanim/pkg/config"
	"github.com/decker502/pedanim/pkg/skeleton"
	"github.com/decker502/pedanim/pkg/types"
)

// preloadSet 模型加载后预先加载的片段
var preloadSet = []AnimRequest{
	{types.AnimGroupWalkCycle, types.AnimIndexWalk},
	{types.AnimGroupWalkCycle, types.AnimIndexRun},
	{types.AnimGroupWalkCycle, types.AnimIndexPanicked},
	{types.AnimGroupWalkCycle, types.AnimIndexIdle},
	{types.AnimGroupWalkCycle, types.AnimIndexRoadCross},
	{types.AnimGroupWalkCycle, types.AnimIndexWalkStart},

	{types.AnimGroupCar, types.AnimIndexSit},
	{types.AnimGroupCar, types.AnimIndexDriveLeft},
	{types.AnimGroupCar, types.AnimIndexDriveRight},
	{types.AnimGroupCar, types.AnimIndexGetInLeft},
	{types.AnimGroupCar, types.AnimIndexGetInRight},
	{types.AnimGroupCar, types.AnimIndexGetOutLeft},
	{types.AnimGroupCar, types.AnimIndexGetOutRight},
}

// Update 每个 tick 调用一次
//   - identity 与上次处理的不同：重新加载（定义不存在时记录日志并保持原状态）
//   - desired 与 current 不同：以 DefaultCrossFadeDuration 和 PlayModeStopAll 交叉淡入
func (p *Pedestrian) Update() error {
	if p.destroyed {
		return nil
	}

	if !p.observed || p.loadedID != p.desiredID {
		if err := p.Load(p.desiredID); err != nil {
			var notFound *config.DefinitionNotFoundError
			if !errors.As(err, &notFound) {
				return err
			}
			log.Printf("[Pedestrian] Warning: %v, keeping previous model", err)
		}
	}

	if !p.Loaded() {
		return nil
	}

	if p.current != p.desired {
		if _, err := p.CrossFadeAnim(p.desired.Group, p.desired.Index, DefaultCrossFadeDuration, types.PlayModeStopAll); err != nil {
			return fmt.Errorf("failed to play %s: %w", p.desired, err)
		}
	}
	return nil
}

// Load 加载 identity 对应的行人
//
// 无论成功与否，id 都会记录为已处理，Update 不会对同一个 id 反复重试。
// 定义不存在或模型挂载失败时保持之前的定义、骨骼和缓存不变。
// 成功后 current 重置为 NoAnim 并预加载 preloadSet 中的片段，
// 无法解析或加载的预加载项记录日志后跳过。
func (p *Pedestrian) Load(id int) error {
	if p.loading || p.resolving {
		panic(ErrReentrantLoad)
	}
	p.loading = true
	defer func() { p.loading = false }()

	p.loadedID = id
	p.observed = true

	def, err := p.services.Definitions.GetDefinition(id)
	if err != nil {
		return fmt.Errorf("failed to load pedestrian %d: %w", id, err)
	}

	if err := p.loadModel(def.ModelName, def.TextureDictionaryNames...); err != nil {
		return fmt.Errorf("failed to load pedestrian %d: %w", id, err)
	}
	p.definition = def

	log.Printf("[Pedestrian] Loaded pedestrian %d (model=%s, anim_group=%s)", id, def.ModelName, def.AnimGroupName)

	p.loading = false
	for _, req := range preloadSet {
		if _, err := p.LoadAnim(req.Group, req.Index); err != nil {
			log.Printf("[Pedestrian] Preload %s skipped: %v", req, err)
		}
	}
	return nil
}

// LoadModel 挂载模型并替换当前骨骼
// 旧骨骼被销毁，片段缓存和引擎中的状态全部清空，current 重置为 NoAnim，
// 下一次 Update 会重新淡入 desired
func (p *Pedestrian) LoadModel(modelName string, txds ...string) error {
	if p.loading || p.resolving {
		panic(ErrReentrantLoad)
	}
	p.loading = true
	defer func() { p.loading = false }()

	return p.loadModel(modelName, txds...)
}

func (p *Pedestrian) loadModel(modelName string, txds ...string) error {
	frames, err := p.services.Attacher.Attach(modelName, txds, p.holder)
	if err != nil {
		return err
	}

	p.teardown()
	p.frames = frames
	p.root, _ = frames.GetByName(skeleton.RootFrameName)
	p.destroyed = false
	return nil
}

// Destroy 销毁骨骼并清空缓存，之后 Update 不再做任何事
func (p *Pedestrian) Destroy() {
	p.teardown()
	p.destroyed = true
}

func (p *Pedestrian) teardown() {
	if p.frames != nil {
		p.frames.Destroy()
		p.frames = nil
	}
	p.root = nil
	p.cache.Clear()
	p.anim.Clear()
	p.current = NoAnim
}
