package pedestrian

import (
	"github.com/decker502/pedanim/pkg/clip"
	"github.com/decker502/pedanim/pkg/config"
	"github.com/decker502/pedanim/pkg/playback"
	"github.com/decker502/pedanim/pkg/skeleton"
	"github.com/decker502/pedanim/pkg/types"
)

// DefinitionSource 行人定义查询（config.PedestrianDefManager）
type DefinitionSource interface {
	GetDefinition(id int) (*config.PedestrianDef, error)
}

// GroupRegistry 动画组注册表（config.AnimGroupRegistry）
type GroupRegistry interface {
	Resolve(groupName string, group types.AnimGroup) (*config.AnimationGroup, error)
}

// Attacher 模型挂载服务（skeleton.ModelAttacher）
type Attacher interface {
	Attach(modelName string, txds []string, parent *skeleton.Frame) (*skeleton.FrameContainer, error)
}

// ClipLoader 片段加载服务（clip.IFPLoader）
type ClipLoader interface {
	Load(fileName, clipName string, frames *skeleton.FrameContainer) (*clip.Clip, error)
}

// Animator 播放引擎（playback.Engine）
type Animator interface {
	AddClip(name string, c *clip.Clip) *playback.State
	State(name string) *playback.State
	Play(name string, mode types.PlayMode) bool
	CrossFade(name string, fadeLength float64, mode types.PlayMode)
	CrossFadeQueued(name string, fadeLength float64, queue types.QueueMode, mode types.PlayMode) *playback.State
	Clear()
}

// Services 行人依赖的外部服务，所有行人可以共享同一组
type Services struct {
	Definitions DefinitionSource
	Groups      GroupRegistry
	Attacher    Attacher
	Loader      ClipLoader
}
