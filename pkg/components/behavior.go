package components

import "github.com/decker502/pedanim/pkg/behavior"

// BehaviorComponent 行为脚本组件
// 脚本每个 tick 在行人 Update 之前运行，只修改目标请求
type BehaviorComponent struct {
	Script *behavior.Script

	// Paused 暂停脚本（手动控制时使用）；脚本运行出错后也会被置为 true
	Paused bool
}
