// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

import (
	"fmt"
	"strings"
)

// AnimGroup 动画组（两级动画标识的第一级）
// 每个行人类型的动画组名 + AnimGroup 唯一确定一张动画表
type AnimGroup int

const (
	// AnimGroupNone 未设置
	AnimGroupNone AnimGroup = iota
	// AnimGroupWalkCycle 行走循环（待机 / 走 / 跑 / 慌乱）
	AnimGroupWalkCycle
	// AnimGroupCar 乘坐普通车辆
	AnimGroupCar
	// AnimGroupVan 乘坐厢式车辆
	AnimGroupVan
	// AnimGroupBike 骑行
	AnimGroupBike
)

var animGroupNames = map[AnimGroup]string{
	AnimGroupNone:      "none",
	AnimGroupWalkCycle: "walkcycle",
	AnimGroupCar:       "car",
	AnimGroupVan:       "van",
	AnimGroupBike:      "bike",
}

// String 返回动画组的字符串表示（与 data/animgrp.yaml 中的 group 字段一致）
func (g AnimGroup) String() string {
	if name, ok := animGroupNames[g]; ok {
		return name
	}
	return fmt.Sprintf("AnimGroup(%d)", int(g))
}

// ParseAnimGroup 将字符串解析为 AnimGroup（大小写不敏感）
func ParseAnimGroup(s string) (AnimGroup, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for g, name := range animGroupNames {
		if name == s {
			return g, nil
		}
	}
	return AnimGroupNone, fmt.Errorf("unknown anim group %q", s)
}

// MarshalText 实现 encoding.TextMarshaler
func (g AnimGroup) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler，YAML 配置直接使用组名
func (g *AnimGroup) UnmarshalText(text []byte) error {
	parsed, err := ParseAnimGroup(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
