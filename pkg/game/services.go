package game

import (
	"fmt"
	"log"

	"github.com/decker502/pedanim/pkg/clip"
	"github.com/decker502/pedanim/pkg/config"
	"github.com/decker502/pedanim/pkg/pedestrian"
	"github.com/decker502/pedanim/pkg/skeleton"
)

// 数据文件路径（相对 embedded 的 data 根目录）
const (
	PedestrianDefsPath = "data/peds.yaml"
	AnimGroupsPath     = "data/animgrp.yaml"
	ModelsDir          = "data/models"
)

// Services 所有行人共享的外部服务
type Services struct {
	Definitions *config.PedestrianDefManager
	Groups      *config.AnimGroupRegistry
	Models      *config.ModelManager
	Resources   *ResourceManager
}

// LoadServices 从 embedded 数据加载全部服务
// 调用前必须先初始化 embedded（Init / InitFromDir）
func LoadServices() (*Services, error) {
	defs, err := config.NewPedestrianDefManager(PedestrianDefsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load pedestrian definitions: %w", err)
	}

	groups, err := config.NewAnimGroupRegistry(AnimGroupsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load animation groups: %w", err)
	}

	models, err := config.NewModelManager(ModelsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load models: %w", err)
	}

	log.Printf("[Services] Loaded %d pedestrians, %d animation group tables", len(defs.ListIDs()), groups.Len())

	return &Services{
		Definitions: defs,
		Groups:      groups,
		Models:      models,
		Resources:   NewResourceManager(DefaultArchiveDir),
	}, nil
}

// Pedestrian 返回行人使用的服务组合
func (s *Services) Pedestrian() pedestrian.Services {
	return pedestrian.Services{
		Definitions: s.Definitions,
		Groups:      s.Groups,
		Attacher:    skeleton.NewModelAttacher(s.Models),
		Loader:      clip.NewIFPLoader(s.Resources),
	}
}
