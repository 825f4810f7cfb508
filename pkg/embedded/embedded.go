// Package embedded 提供数据资源的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包提供包装函数，让其他包可以访问嵌入的资源。
//
// 开发时可以改用 InitFromDir 直接读取磁盘上的 data 目录（配合热重载）。
//
// 使用前必须调用 Init() 或 InitFromDir() 初始化。
package embedded

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// dataPrefix 所有资源路径必须以它开头
const dataPrefix = "data/"

var (
	mu          sync.RWMutex
	dataFS      fs.FS // 以 data 目录为根
	initialized bool
)

var errNotInitialized = fmt.Errorf("embedded package not initialized, call Init() first")

// Init 初始化数据文件系统
// root 的根目录下必须包含 data/（即项目根目录的 embed.FS）
// 必须在 main() 开始时、任何资源加载之前调用
func Init(root fs.FS) error {
	sub, err := fs.Sub(root, "data")
	if err != nil {
		return fmt.Errorf("failed to open data dir in embedded fs: %w", err)
	}
	setFS(sub)
	return nil
}

// InitFromDir 使用磁盘上的 data 目录初始化（开发 / 热重载模式）
// dir 指向 data 目录本身，例如 "./data"
func InitFromDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to stat data dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", dir)
	}
	setFS(os.DirFS(dir))
	return nil
}

// InitFS 直接以 data 目录为根的文件系统初始化（测试使用 fstest.MapFS）
func InitFS(data fs.FS) {
	setFS(data)
}

func setFS(data fs.FS) {
	mu.Lock()
	defer mu.Unlock()
	dataFS = data
	initialized = true
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	mu.RLock()
	defer mu.RUnlock()
	return initialized
}

// resolve 标准化路径并返回 data 目录内的相对路径
func resolve(path string) (fs.FS, string, error) {
	mu.RLock()
	defer mu.RUnlock()

	if !initialized {
		return nil, "", errNotInitialized
	}

	// 标准化路径分隔符为正斜杠（fs.FS 使用正斜杠）
	path = filepath.ToSlash(path)

	// 移除可能的 "./" 前缀
	path = strings.TrimPrefix(path, "./")

	if !strings.HasPrefix(path, dataPrefix) {
		return nil, "", fmt.Errorf("unknown resource path prefix: %s (must start with 'data/')", path)
	}

	rel := strings.TrimPrefix(path, dataPrefix)
	if rel == "" {
		rel = "."
	}
	return dataFS, rel, nil
}

// Open 打开 data 目录下的文件
// 路径必须以 "data/" 开头
func Open(path string) (fs.File, error) {
	fsys, rel, err := resolve(path)
	if err != nil {
		return nil, err
	}
	return fsys.Open(rel)
}

// ReadFile 读取 data 目录下的文件内容
// 路径必须以 "data/" 开头
func ReadFile(path string) ([]byte, error) {
	fsys, rel, err := resolve(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(fsys, rel)
}

// Exists 检查文件是否存在
func Exists(path string) bool {
	file, err := Open(path)
	if err != nil {
		return false
	}
	file.Close()
	return true
}

// Glob 匹配 data 目录下的文件
// 返回的路径同样带有 "data/" 前缀，可以直接传给 ReadFile
func Glob(pattern string) ([]string, error) {
	fsys, rel, err := resolve(pattern)
	if err != nil {
		return nil, err
	}

	matches, err := fs.Glob(fsys, rel)
	if err != nil {
		return nil, err
	}
	for i := range matches {
		matches[i] = dataPrefix + matches[i]
	}
	return matches, nil
}

// ReadDir 读取目录内容
// 路径必须以 "data/" 开头
func ReadDir(path string) ([]fs.DirEntry, error) {
	fsys, rel, err := resolve(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadDir(fsys, rel)
}

// IsDir 检查路径是否为目录
func IsDir(path string) bool {
	fsys, rel, err := resolve(path)
	if err != nil {
		return false
	}
	info, err := fs.Stat(fsys, rel)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// reset 清除初始化状态（仅测试使用）
func reset() {
	mu.Lock()
	defer mu.Unlock()
	dataFS = nil
	initialized = false
}
