package playback

import (
	"github.com/decker502/pedanim/pkg/clip"
	"github.com/decker502/pedanim/pkg/types"
)

// State 注册在引擎中的一个具名动画状态
// 引擎通过 Play / CrossFade / CrossFadeQueued 修改它，调用方可以读取或调整 Speed / Layer
type State struct {
	Name string
	Clip *clip.Clip

	// Layer 播放层，PlayModeStopSameLayer 只影响同层状态
	Layer int

	// Speed 播放速度倍率（默认 1.0）
	Speed float64

	// Time 当前播放时间（秒）
	Time float64

	// Weight 混合权重 0.0 ~ 1.0
	Weight float64

	// Enabled 是否正在推进
	Enabled bool

	fadeTarget    float64
	fadeSpeed     float64 // 权重变化量/秒，0 表示没有进行中的淡入淡出
	stopOnFadeOut bool

	clone   bool
	pending *pendingFade // 排队中的克隆状态
}

type pendingFade struct {
	fadeLength float64
	mode       types.PlayMode
}

// Length 片段时长
func (s *State) Length() float64 {
	if s.Clip == nil {
		return 0
	}
	return s.Clip.Length
}

// Looping 片段是否循环
func (s *State) Looping() bool {
	return s.Clip != nil && s.Clip.Loop
}

// NormalizedTime 归一化播放进度（循环片段为当前周期内的进度）
func (s *State) NormalizedTime() float64 {
	if l := s.Length(); l > 0 {
		return s.Time / l
	}
	return 0
}

// IsFading 是否有进行中的权重过渡
func (s *State) IsFading() bool {
	return s.fadeSpeed > 0
}

// IsQueued 是否为尚未开始的排队克隆
func (s *State) IsQueued() bool {
	return s.pending != nil
}

// IsClone 是否为 CrossFadeQueued 创建的克隆
func (s *State) IsClone() bool {
	return s.clone
}

func (s *State) stop() {
	s.Enabled = false
	s.Weight = 0
	s.Time = 0
	s.fadeSpeed = 0
	s.stopOnFadeOut = false
}

// fadeTo 在 length 秒内把权重过渡到 target
func (s *State) fadeTo(target, length float64, stopAtZero bool) {
	s.fadeTarget = target
	s.stopOnFadeOut = stopAtZero && target == 0
	delta := target - s.Weight
	if delta < 0 {
		delta = -delta
	}
	if length <= 0 || delta == 0 {
		s.Weight = target
		s.fadeSpeed = 0
		if s.stopOnFadeOut {
			s.stop()
		}
		return
	}
	s.fadeSpeed = delta / length
}

// stepFade 推进权重过渡
func (s *State) stepFade(dt float64) {
	if s.fadeSpeed == 0 {
		return
	}
	step := s.fadeSpeed * dt
	if s.Weight < s.fadeTarget {
		s.Weight += step
		if s.Weight >= s.fadeTarget {
			s.Weight = s.fadeTarget
			s.fadeSpeed = 0
		}
	} else {
		s.Weight -= step
		if s.Weight <= s.fadeTarget {
			s.Weight = s.fadeTarget
			s.fadeSpeed = 0
		}
	}
	if s.fadeSpeed == 0 && s.stopOnFadeOut {
		s.stop()
	}
}
