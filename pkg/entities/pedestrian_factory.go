package entities

import (
	"fmt"
	"log"

	"github.com/decker502/pedanim/pkg/behavior"
	"github.com/decker502/pedanim/pkg/components"
	"github.com/decker502/pedanim/pkg/ecs"
	"github.com/decker502/pedanim/pkg/pedestrian"
	"github.com/decker502/pedanim/pkg/playback"
	"github.com/decker502/pedanim/pkg/skeleton"
)

// PedestrianOptions 行人实体参数
type PedestrianOptions struct {
	// ID 行人 identity，0 使用 pedestrian.DefaultPedestrianID
	ID int

	// Position 初始位置
	Position skeleton.Vec3

	// Behavior 行为脚本名（data/behaviors 下，不含扩展名），为空时不挂脚本
	Behavior string
}

// NewPedestrianEntity 创建行人实体
//
// 模型在 PedestrianSystem 第一次 Update 时加载；
// 行为脚本加载失败时记录日志，实体仍然创建（不挂 BehaviorComponent）
//
// 参数:
//   - em: 实体管理器
//   - services: 行人依赖的外部服务（所有行人共享）
//   - opts: 行人参数
//
// 返回:
//   - ecs.EntityID: 实体ID
//   - error: em 为 nil 或服务不完整时返回错误
func NewPedestrianEntity(em *ecs.EntityManager, services pedestrian.Services, opts PedestrianOptions) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if services.Definitions == nil || services.Groups == nil || services.Attacher == nil || services.Loader == nil {
		return 0, fmt.Errorf("pedestrian services are incomplete")
	}

	engine := playback.NewEngine()
	ped := pedestrian.New(services, engine)
	if opts.ID != 0 {
		ped.SetPedestrianID(opts.ID)
	}
	ped.SetPosition(opts.Position)

	entityID := em.CreateEntity()
	ecs.AddComponent(em, entityID, &components.PedestrianComponent{
		Ped:    ped,
		Engine: engine,
	})

	if opts.Behavior != "" {
		script, err := behavior.Load(opts.Behavior)
		if err != nil {
			log.Printf("[PedestrianFactory] Warning: %v", err)
		} else {
			ecs.AddComponent(em, entityID, &components.BehaviorComponent{Script: script})
		}
	}

	log.Printf("[PedestrianFactory] Created pedestrian entity %d (id=%d)", entityID, ped.PedestrianID())
	return entityID, nil
}
