package config

import (
	"fmt"

	"github.com/decker502/pedanim/pkg/types"
)

// DefinitionNotFoundError 行人定义不存在
type DefinitionNotFoundError struct {
	ID int
}

func (e *DefinitionNotFoundError) Error() string {
	return fmt.Sprintf("pedestrian definition %d not found", e.ID)
}

// UnknownGroupError 动画组表不存在（动画组名 + AnimGroup 组合未注册）
type UnknownGroupError struct {
	GroupName string
	Group     types.AnimGroup
}

func (e *UnknownGroupError) Error() string {
	return fmt.Sprintf("no animation group table for %q/%s", e.GroupName, e.Group)
}

// UnknownAnimError 动画组表存在，但没有为该索引定义动画
type UnknownAnimError struct {
	GroupName string
	Group     types.AnimGroup
	Index     types.AnimIndex
}

func (e *UnknownAnimError) Error() string {
	return fmt.Sprintf("animation group %q/%s has no clip for %s", e.GroupName, e.Group, e.Index)
}
