package config

import (
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/decker502/pedanim/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// FrameDef 模型中的一个骨骼节点定义
type FrameDef struct {
	Name string `yaml:"name"`

	// Parent 父节点名，为空表示挂在模型根节点下
	Parent string `yaml:"parent,omitempty"`

	// Offset 相对父节点的位置 [x, y, z]
	Offset []float64 `yaml:"offset,omitempty"`
}

// ModelDef 模型定义（骨骼层级）
type ModelDef struct {
	Name   string     `yaml:"name"`
	Frames []FrameDef `yaml:"frames"`
}

// ModelManager 模型定义管理器
// 目录模式：每个 data/models/<name>.yaml 一个模型
type ModelManager struct {
	models map[string]*ModelDef
	mu     sync.RWMutex
}

// NewModelManager 从目录加载所有模型定义
func NewModelManager(dirPath string) (*ModelManager, error) {
	files, err := embedded.Glob(strings.TrimSuffix(dirPath, "/") + "/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to scan model dir %s: %w", dirPath, err)
	}

	mm := &ModelManager{models: make(map[string]*ModelDef, len(files))}
	for _, file := range files {
		data, err := embedded.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read model %s: %w", file, err)
		}
		model, err := ParseModelDef(data)
		if err != nil {
			return nil, fmt.Errorf("failed to load model %s: %w", file, err)
		}
		if model.Name == "" {
			model.Name = strings.TrimSuffix(path.Base(file), ".yaml")
		}
		if err := mm.Add(model); err != nil {
			return nil, err
		}
	}

	return mm, nil
}

// NewModelManagerFromDefs 直接用内存中的定义构建（测试 / 工具使用）
func NewModelManagerFromDefs(models ...*ModelDef) (*ModelManager, error) {
	mm := &ModelManager{models: make(map[string]*ModelDef, len(models))}
	for _, model := range models {
		if err := mm.Add(model); err != nil {
			return nil, err
		}
	}
	return mm, nil
}

// ParseModelDef 解析并校验单个模型定义
// 校验：节点名唯一、父节点必须先于子节点声明、offset 为 0 或 3 个分量
func ParseModelDef(data []byte) (*ModelDef, error) {
	var model ModelDef
	if err := yaml.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	if err := validateModel(&model); err != nil {
		return nil, err
	}
	return &model, nil
}

func validateModel(model *ModelDef) error {
	if len(model.Frames) == 0 {
		return fmt.Errorf("model %q has no frames", model.Name)
	}
	seen := make(map[string]bool, len(model.Frames))
	for i, frame := range model.Frames {
		if frame.Name == "" {
			return fmt.Errorf("model %q: frame #%d is missing 'name'", model.Name, i)
		}
		if seen[frame.Name] {
			return fmt.Errorf("model %q: duplicate frame %q", model.Name, frame.Name)
		}
		if frame.Parent != "" && !seen[frame.Parent] {
			return fmt.Errorf("model %q: frame %q references unknown parent %q", model.Name, frame.Name, frame.Parent)
		}
		if len(frame.Offset) != 0 && len(frame.Offset) != 3 {
			return fmt.Errorf("model %q: frame %q offset must have 3 components", model.Name, frame.Name)
		}
		seen[frame.Name] = true
	}
	return nil
}

// Add 注册一个模型
func (m *ModelManager) Add(model *ModelDef) error {
	if err := validateModel(model); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.models[model.Name]; exists {
		return fmt.Errorf("duplicate model %q", model.Name)
	}
	m.models[model.Name] = model
	return nil
}

// GetModel 获取模型定义
func (m *ModelManager) GetModel(name string) (*ModelDef, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	model, ok := m.models[name]
	if !ok {
		return nil, fmt.Errorf("model %q not found", name)
	}
	return model, nil
}
