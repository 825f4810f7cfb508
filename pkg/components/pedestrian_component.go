package components

import (
	"github.com/decker502/pedanim/pkg/pedestrian"
	"github.com/decker502/pedanim/pkg/playback"
)

// PedestrianComponent 行人组件
// 每个行人实体独占一个播放引擎，引擎中注册的状态都绑定到该行人的骨骼
type PedestrianComponent struct {
	Ped    *pedestrian.Pedestrian
	Engine *playback.Engine

	// LastError 最近一次 Update 失败的原因（成功后清空），用于界面显示
	LastError string
}

// Destroy 实体被清理时销毁行人的骨骼和缓存
func (c *PedestrianComponent) Destroy() {
	if c.Ped != nil {
		c.Ped.Destroy()
	}
}
