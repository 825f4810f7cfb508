package pedestrian

import (
	"sort"

	"github.com/decker502/pedanim/pkg/clip"
)

// ClipCache 单个行人的片段缓存：解析后的片段名 → 绑定到当前骨骼的片段
// 模型生命周期内只插入不淘汰，骨骼被替换时整体清空
type ClipCache struct {
	clips map[string]*clip.Clip
}

// NewClipCache 创建空缓存
func NewClipCache() *ClipCache {
	return &ClipCache{clips: make(map[string]*clip.Clip)}
}

// Get 按片段名查询
func (c *ClipCache) Get(name string) (*clip.Clip, bool) {
	cl, ok := c.clips[name]
	return cl, ok
}

// Put 插入片段
func (c *ClipCache) Put(name string, cl *clip.Clip) {
	c.clips[name] = cl
}

// Clear 清空缓存
func (c *ClipCache) Clear() {
	clear(c.clips)
}

// Len 缓存的片段数量
func (c *ClipCache) Len() int {
	return len(c.clips)
}

// Names 按字母序列出缓存的片段名
func (c *ClipCache) Names() []string {
	names := make([]string, 0, len(c.clips))
	for name := range c.clips {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
