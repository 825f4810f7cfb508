package config

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/decker502/pedanim/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// PedestrianDef 行人定义
// 由 identity（整数 ID）选择：模型名、贴图字典、动画组名
type PedestrianDef struct {
	ID int `yaml:"id"`

	// ModelName 模型名，对应 data/models/<model_name>.yaml
	ModelName string `yaml:"model_name"`

	// TextureDictionaryNames 贴图字典列表（为空时使用模型名）
	TextureDictionaryNames []string `yaml:"txds"`

	// AnimGroupName 动画组名（如 "man", "woman"），用于查询 AnimGroupRegistry
	AnimGroupName string `yaml:"anim_group"`
}

// pedDefFile data/peds.yaml 的顶层结构
type pedDefFile struct {
	Peds []PedestrianDef `yaml:"peds"`
}

// PedestrianDefManager 行人定义管理器（Definition lookup service）
// 加载后只读
type PedestrianDefManager struct {
	defs map[int]*PedestrianDef
	mu   sync.RWMutex
}

// NewPedestrianDefManager 从配置文件加载行人定义
//
// 参数：
//   - configPath: 配置文件路径（如 "data/peds.yaml"）
//
// 返回：
//   - *PedestrianDefManager: 管理器实例
//   - error: 读取、解析或校验失败
func NewPedestrianDefManager(configPath string) (*PedestrianDefManager, error) {
	data, err := embedded.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read pedestrian definitions %s: %w", configPath, err)
	}
	return ParsePedestrianDefs(data)
}

// ParsePedestrianDefs 解析行人定义 YAML
func ParsePedestrianDefs(data []byte) (*PedestrianDefManager, error) {
	var file pedDefFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse pedestrian definitions: %w", err)
	}

	defs := make(map[int]*PedestrianDef, len(file.Peds))
	for i := range file.Peds {
		def := &file.Peds[i]
		if def.ModelName == "" {
			return nil, fmt.Errorf("pedestrian definition #%d (id=%d) is missing 'model_name'", i, def.ID)
		}
		if def.AnimGroupName == "" {
			return nil, fmt.Errorf("pedestrian definition %d is missing 'anim_group'", def.ID)
		}
		if _, exists := defs[def.ID]; exists {
			return nil, fmt.Errorf("duplicate pedestrian definition id %d", def.ID)
		}
		if len(def.TextureDictionaryNames) == 0 {
			def.TextureDictionaryNames = []string{def.ModelName}
		}
		defs[def.ID] = def
	}

	return &PedestrianDefManager{defs: defs}, nil
}

// GetDefinition 按 ID 获取行人定义
// 不存在时返回 *DefinitionNotFoundError
func (m *PedestrianDefManager) GetDefinition(id int) (*PedestrianDef, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	def, ok := m.defs[id]
	if !ok {
		return nil, &DefinitionNotFoundError{ID: id}
	}
	return def, nil
}

// ListIDs 按升序列出所有行人 ID
func (m *PedestrianDefManager) ListIDs() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int, 0, len(m.defs))
	for id := range m.defs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// NextID 在升序 ID 列表中从 current 移动 step 个位置（首尾循环）
// current 不在列表中时从它在列表中的插入位置开始计算；没有任何定义时返回 current
func (m *PedestrianDefManager) NextID(current, step int) int {
	ids := m.ListIDs()
	if len(ids) == 0 {
		return current
	}
	i, found := slices.BinarySearch(ids, current)
	if !found && step > 0 {
		// ids[i] 已经是下一个
		step--
	}
	n := len(ids)
	return ids[((i+step)%n+n)%n]
}
