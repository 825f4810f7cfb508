// Package behavior 用 tengo 脚本驱动行人的目标请求
//
// 脚本必须定义 update 函数，每个 tick 调用一次：
//
//	update := func(ped, state, t, dt) {
//		if t > 2 { ped.set_walking(true) }
//	}
//
// ped 暴露行人的公开接口（见 pedObject），state 是跨 tick 保留的 map，
// t 为脚本累计运行时间，dt 为本次 tick 的时长。
// 脚本只修改目标请求，实际播放由 Pedestrian.Update 完成。
package behavior

import (
	"fmt"
	"path"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/decker502/pedanim/pkg/embedded"
	"github.com/decker502/pedanim/pkg/pedestrian"
)

// DefaultScriptDir 行为脚本目录
const DefaultScriptDir = "data/behaviors"

const dispatchScript = `
update(__ped, __state, __time, __dt)
`

// Script 编译后的行为脚本
// 每个 Script 持有自己的状态，不能在多个行人之间共享
type Script struct {
	name     string
	compiled *tengo.Compiled
	state    *tengo.Map
	elapsed  float64
}

// Compile 编译脚本源码
func Compile(name string, src []byte) (*Script, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + dispatchScript))
	_ = script.Add("__ped", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__time", 0.0)
	_ = script.Add("__dt", 0.0)

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile behavior %s: %w", name, err)
	}

	return &Script{
		name:     name,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}, nil
}

// Load 从数据目录加载脚本
// name 可以是完整路径（"data/behaviors/stroll.tengo"）或脚本名（"stroll"）
func Load(name string) (*Script, error) {
	filePath := name
	if !strings.HasPrefix(name, "data/") {
		filePath = path.Join(DefaultScriptDir, name)
		if path.Ext(filePath) == "" {
			filePath += ".tengo"
		}
	}

	src, err := embedded.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read behavior %s: %w", filePath, err)
	}
	return Compile(strings.TrimSuffix(path.Base(filePath), ".tengo"), src)
}

// Name 脚本名
func (s *Script) Name() string {
	return s.name
}

// Elapsed 脚本累计运行时间
func (s *Script) Elapsed() float64 {
	return s.elapsed
}

// StateValue 读取脚本 state 中的值（调试用），不存在时返回 nil
func (s *Script) StateValue(key string) any {
	v, ok := s.state.Value[key]
	if !ok {
		return nil
	}
	return tengo.ToInterface(v)
}

// Reset 清空脚本状态和累计时间
func (s *Script) Reset() {
	s.state = &tengo.Map{Value: map[string]tengo.Object{}}
	s.elapsed = 0
}

// Run 推进 dt 秒并运行一次 update
func (s *Script) Run(ped *pedestrian.Pedestrian, dt float64) error {
	s.elapsed += dt

	if err := s.compiled.Set("__ped", pedObject(ped)); err != nil {
		return err
	}
	if err := s.compiled.Set("__state", s.state); err != nil {
		return err
	}
	if err := s.compiled.Set("__time", s.elapsed); err != nil {
		return err
	}
	if err := s.compiled.Set("__dt", dt); err != nil {
		return err
	}
	if err := s.compiled.Run(); err != nil {
		return fmt.Errorf("behavior %s: %w", s.name, err)
	}
	return nil
}
