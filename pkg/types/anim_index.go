package types

import (
	"fmt"
	"strings"
)

// AnimIndex 动画索引（两级动画标识的第二级）
// AnimIndexNone 是哨兵值，表示"没有请求动画"
type AnimIndex int

const (
	// AnimIndexNone 未请求动画（不是错误，解析时直接返回空句柄）
	AnimIndexNone AnimIndex = iota

	// 行走循环
	AnimIndexIdle
	AnimIndexWalk
	AnimIndexRun
	AnimIndexPanicked
	AnimIndexRoadCross
	AnimIndexWalkStart

	// 车辆交互
	AnimIndexSit
	AnimIndexDriveLeft
	AnimIndexDriveRight
	AnimIndexGetInLeft
	AnimIndexGetInRight
	AnimIndexGetOutLeft
	AnimIndexGetOutRight
)

var animIndexNames = map[AnimIndex]string{
	AnimIndexNone:        "none",
	AnimIndexIdle:        "idle",
	AnimIndexWalk:        "walk",
	AnimIndexRun:         "run",
	AnimIndexPanicked:    "panicked",
	AnimIndexRoadCross:   "roadcross",
	AnimIndexWalkStart:   "walkstart",
	AnimIndexSit:         "sit",
	AnimIndexDriveLeft:   "driveleft",
	AnimIndexDriveRight:  "driveright",
	AnimIndexGetInLeft:   "getinleft",
	AnimIndexGetInRight:  "getinright",
	AnimIndexGetOutLeft:  "getoutleft",
	AnimIndexGetOutRight: "getoutright",
}

// String 返回动画索引的字符串表示（与 data/animgrp.yaml 中 clips 的键一致）
func (i AnimIndex) String() string {
	if name, ok := animIndexNames[i]; ok {
		return name
	}
	return fmt.Sprintf("AnimIndex(%d)", int(i))
}

// ParseAnimIndex 将字符串解析为 AnimIndex（大小写不敏感）
func ParseAnimIndex(s string) (AnimIndex, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range animIndexNames {
		if name == s {
			return i, nil
		}
	}
	return AnimIndexNone, fmt.Errorf("unknown anim index %q", s)
}

// MarshalText 实现 encoding.TextMarshaler
func (i AnimIndex) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
// 作为 map 键时 yaml.v3 同样会调用它
func (i *AnimIndex) UnmarshalText(text []byte) error {
	parsed, err := ParseAnimIndex(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
