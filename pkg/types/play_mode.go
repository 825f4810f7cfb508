package types

// PlayMode 播放时对其它动画状态的停止策略
type PlayMode int

const (
	// PlayModeStopSameLayer 只停止同一层上的其它状态
	PlayModeStopSameLayer PlayMode = iota
	// PlayModeStopAll 停止所有其它状态
	PlayModeStopAll
)

// String 返回播放模式的字符串表示（用于日志）
func (m PlayMode) String() string {
	switch m {
	case PlayModeStopSameLayer:
		return "StopSameLayer"
	case PlayModeStopAll:
		return "StopAll"
	default:
		return "Unknown"
	}
}

// QueueMode 排队交叉淡入的调度策略
type QueueMode int

const (
	// QueueModeCompleteOthers 等其它非循环状态播放完毕后再开始
	QueueModeCompleteOthers QueueMode = iota
	// QueueModePlayNow 立即开始
	QueueModePlayNow
)

// String 返回排队模式的字符串表示（用于日志）
func (m QueueMode) String() string {
	switch m {
	case QueueModeCompleteOthers:
		return "CompleteOthers"
	case QueueModePlayNow:
		return "PlayNow"
	default:
		return "Unknown"
	}
}
