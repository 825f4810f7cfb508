package clip

import (
	"fmt"

	"github.com/decker502/pedanim/internal/ifp"
	"github.com/decker502/pedanim/pkg/skeleton"
)

// ArchiveSource 提供解析后的动画档案
// 由 game.ResourceManager 实现（档案按文件名缓存，多个行人共享）
type ArchiveSource interface {
	LoadArchive(fileName string) (*ifp.Archive, error)
}

// IFPLoader 片段加载服务
// 每次 Load 都会生成新的 Clip 并绑定到传入的骨骼上，不做缓存
// 缓存由每个行人自己的 ClipCache 负责
type IFPLoader struct {
	archives ArchiveSource
}

// NewIFPLoader 创建片段加载服务
func NewIFPLoader(archives ArchiveSource) *IFPLoader {
	return &IFPLoader{archives: archives}
}

// Load 从指定档案中加载片段并绑定到骨骼
//
// 返回错误的情况：
//   - 档案读取或解析失败
//   - 档案中没有该片段
//   - 骨骼为 nil 或已被销毁
func (l *IFPLoader) Load(fileName, clipName string, frames *skeleton.FrameContainer) (*Clip, error) {
	if frames == nil || frames.Destroyed() {
		return nil, fmt.Errorf("cannot bind clip %s: skeleton is not attached", clipName)
	}

	archive, err := l.archives.LoadArchive(fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to load clip %s from %s: %w", clipName, fileName, err)
	}

	anim := archive.Find(clipName)
	if anim == nil {
		return nil, fmt.Errorf("clip %s not found in %s", clipName, fileName)
	}

	return Bind(fileName, anim, frames), nil
}

// Bind 将档案中的片段绑定到骨骼
func Bind(fileName string, anim *ifp.Anim, frames *skeleton.FrameContainer) *Clip {
	c := &Clip{
		Name:     anim.Name,
		FileName: fileName,
		Length:   anim.Duration(),
		Loop:     anim.IsLooping(),
		Frames:   frames,
		Curves:   make([]Curve, 0, len(anim.Bones)),
	}

	for i := range anim.Bones {
		bone := &anim.Bones[i]
		frame, ok := frames.GetByName(bone.Name)
		if !ok {
			c.UnboundBones = append(c.UnboundBones, bone.Name)
			continue
		}
		c.Curves = append(c.Curves, Curve{Frame: frame, Keys: bone.ResolveKeys()})
	}

	return c
}
