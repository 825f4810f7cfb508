package skeleton

import (
	"fmt"
	"log"

	"github.com/decker502/pedanim/pkg/config"
)

// ModelAttacher 模型挂载服务
// 根据 config.ModelManager 中的骨骼定义构建节点层级
type ModelAttacher struct {
	models *config.ModelManager
}

// NewModelAttacher 创建模型挂载服务
func NewModelAttacher(models *config.ModelManager) *ModelAttacher {
	return &ModelAttacher{models: models}
}

// Attach 挂载模型，返回新的骨骼节点集合
//
// 参数：
//   - modelName: 模型名
//   - txds: 贴图字典（只记录在容器上，渲染不在本包范围内）
//   - parent: 挂载点，可为 nil
func (a *ModelAttacher) Attach(modelName string, txds []string, parent *Frame) (*FrameContainer, error) {
	model, err := a.models.GetModel(modelName)
	if err != nil {
		return nil, fmt.Errorf("failed to attach model: %w", err)
	}

	c := newFrameContainer(modelName, txds)
	for _, def := range model.Frames {
		f := NewFrame(def.Name)
		if len(def.Offset) == 3 {
			f.BindPosition = Vec3{def.Offset[0], def.Offset[1], def.Offset[2]}
		}
		f.LocalPosition = f.BindPosition

		if def.Parent == "" {
			c.Origin.AddChild(f)
		} else {
			// ModelDef 已校验父节点先声明
			p, _ := c.GetByName(def.Parent)
			p.AddChild(f)
		}
		c.add(f)
	}

	if _, ok := c.GetByName(RootFrameName); !ok {
		log.Printf("[ModelAttacher] Warning: model %s has no %q frame", modelName, RootFrameName)
	}

	if parent != nil {
		parent.AddChild(c.Origin)
	}
	return c, nil
}
