package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/decker502/pedanim/pkg/embedded"
	"github.com/decker502/pedanim/pkg/types"
	"gopkg.in/yaml.v3"
)

// AnimationGroup 动画组表
// (动画组名, AnimGroup) → (动画文件名, AnimIndex → 动画名)
type AnimationGroup struct {
	Name     string
	Group    types.AnimGroup
	FileName string
	clips    map[types.AnimIndex]string
}

// ClipName 返回索引对应的动画名
// 表中没有该索引时返回 *UnknownAnimError
func (g *AnimationGroup) ClipName(index types.AnimIndex) (string, error) {
	name, ok := g.clips[index]
	if !ok {
		return "", &UnknownAnimError{GroupName: g.Name, Group: g.Group, Index: index}
	}
	return name, nil
}

// Indices 按枚举顺序列出表中定义的所有索引
func (g *AnimationGroup) Indices() []types.AnimIndex {
	indices := make([]types.AnimIndex, 0, len(g.clips))
	for idx := range g.clips {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })
	return indices
}

// animGroupEntry animgrp.yaml 中的一条记录
type animGroupEntry struct {
	Name  string            `yaml:"name"`
	Group types.AnimGroup   `yaml:"group"`
	File  string            `yaml:"file"`
	Clips map[string]string `yaml:"clips"`
}

type animGroupFile struct {
	Groups []animGroupEntry `yaml:"groups"`
}

type groupKey struct {
	name  string
	group types.AnimGroup
}

// AnimGroupRegistry 动画组注册表（Animation Group Registry）
// 进程生命周期内不可变，多个行人共享只读
type AnimGroupRegistry struct {
	tables map[groupKey]*AnimationGroup
	mu     sync.RWMutex
}

// NewAnimGroupRegistry 加载动画组注册表
//
// 参数：
//   - configPath: 文件路径（如 "data/animgrp.yaml"）或目录路径（加载目录下所有 *.yaml）
func NewAnimGroupRegistry(configPath string) (*AnimGroupRegistry, error) {
	files := []string{configPath}
	if embedded.IsDir(configPath) {
		matches, err := embedded.Glob(configPath + "/*.yaml")
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", configPath, err)
		}
		files = matches
	}

	registry := &AnimGroupRegistry{tables: make(map[groupKey]*AnimationGroup)}
	for _, file := range files {
		data, err := embedded.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read animation groups %s: %w", file, err)
		}
		if err := registry.add(data); err != nil {
			return nil, fmt.Errorf("failed to load animation groups %s: %w", file, err)
		}
	}

	return registry, nil
}

// ParseAnimGroupRegistry 从 YAML 数据构建注册表
func ParseAnimGroupRegistry(data []byte) (*AnimGroupRegistry, error) {
	registry := &AnimGroupRegistry{tables: make(map[groupKey]*AnimationGroup)}
	if err := registry.add(data); err != nil {
		return nil, err
	}
	return registry, nil
}

func (r *AnimGroupRegistry) add(data []byte) error {
	var file animGroupFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("invalid yaml: %w", err)
	}

	for i, entry := range file.Groups {
		if entry.Name == "" {
			return fmt.Errorf("group #%d is missing 'name'", i)
		}
		if entry.Group == types.AnimGroupNone {
			return fmt.Errorf("group %q is missing 'group'", entry.Name)
		}
		if entry.File == "" {
			return fmt.Errorf("group %q/%s is missing 'file'", entry.Name, entry.Group)
		}

		key := groupKey{name: entry.Name, group: entry.Group}
		if _, exists := r.tables[key]; exists {
			return fmt.Errorf("duplicate group %q/%s", entry.Name, entry.Group)
		}

		clips := make(map[types.AnimIndex]string, len(entry.Clips))
		for rawIndex, clipName := range entry.Clips {
			index, err := types.ParseAnimIndex(rawIndex)
			if err != nil {
				return fmt.Errorf("group %q/%s: %w", entry.Name, entry.Group, err)
			}
			if index == types.AnimIndexNone {
				return fmt.Errorf("group %q/%s: index 'none' cannot map to a clip", entry.Name, entry.Group)
			}
			if clipName == "" {
				return fmt.Errorf("group %q/%s: empty clip name for %s", entry.Name, entry.Group, index)
			}
			clips[index] = clipName
		}

		r.tables[key] = &AnimationGroup{
			Name:     entry.Name,
			Group:    entry.Group,
			FileName: entry.File,
			clips:    clips,
		}
	}
	return nil
}

// Resolve 查询动画组表
// 没有对应表时返回 *UnknownGroupError
func (r *AnimGroupRegistry) Resolve(groupName string, group types.AnimGroup) (*AnimationGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	table, ok := r.tables[groupKey{name: groupName, group: group}]
	if !ok {
		return nil, &UnknownGroupError{GroupName: groupName, Group: group}
	}
	return table, nil
}

// Len 返回注册的表数量
func (r *AnimGroupRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables)
}
