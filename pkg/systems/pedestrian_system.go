package systems

import (
	"log"

	"github.com/decker502/pedanim/pkg/components"
	"github.com/decker502/pedanim/pkg/ecs"
)

// PedestrianSystem 驱动所有行人实体
//
// 每个 tick 对每个行人依次执行：
//  1. 行为脚本（如果有）
//  2. Pedestrian.Update：identity 变化时重新加载，请求变化时交叉淡入
//  3. 播放引擎推进 dt
//  4. 采样姿势写入骨骼
//  5. Pedestrian.LateUpdate：速度和载具偏移
type PedestrianSystem struct {
	entityManager *ecs.EntityManager
}

// NewPedestrianSystem 创建行人系统
func NewPedestrianSystem(em *ecs.EntityManager) *PedestrianSystem {
	return &PedestrianSystem{
		entityManager: em,
	}
}

// Update 推进所有行人 deltaTime 秒
// 单个行人的错误记录到 PedestrianComponent.LastError，不影响其它行人
func (s *PedestrianSystem) Update(deltaTime float64) {
	entities := ecs.GetEntitiesWith1[*components.PedestrianComponent](s.entityManager)

	for _, id := range entities {
		pc, ok := ecs.GetComponent[*components.PedestrianComponent](s.entityManager, id)
		if !ok || pc.Ped == nil || pc.Engine == nil {
			continue
		}

		if bc, ok := ecs.GetComponent[*components.BehaviorComponent](s.entityManager, id); ok {
			s.runBehavior(id, pc, bc, deltaTime)
		}

		if err := pc.Ped.Update(); err != nil {
			// 同样的错误每个 tick 都会出现，只在变化时记录
			if msg := err.Error(); msg != pc.LastError {
				log.Printf("[PedestrianSystem] Entity %d: %v", id, err)
				pc.LastError = msg
			}
		} else {
			pc.LastError = ""
		}

		pc.Engine.Update(deltaTime)
		pc.Engine.Sample(pc.Ped.Frames())
		pc.Ped.LateUpdate()
	}
}

func (s *PedestrianSystem) runBehavior(id ecs.EntityID, pc *components.PedestrianComponent, bc *components.BehaviorComponent, deltaTime float64) {
	if bc.Paused || bc.Script == nil {
		return
	}
	if err := bc.Script.Run(pc.Ped, deltaTime); err != nil {
		log.Printf("[PedestrianSystem] Entity %d: behavior paused: %v", id, err)
		bc.Paused = true
	}
}
