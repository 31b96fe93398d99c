package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Store 管理缓存根目录下的键值文件。磁盘布局为单层平铺：
//
//	<basePath>/<64位十六进制摘要>.<ext>
//
// 文件的存在本身就是缓存条目，没有独立的元数据记录。根目录延迟创建，
// 不存在只是一种待创建状态而非错误。
type Store interface {
	// PathFor 返回 key 对应的绝对路径，纯拼接，不触碰磁盘。
	PathFor(key string) string

	// Exists 报告 key 对应的普通文件是否已经落盘。
	Exists(key string) bool

	// Write 将完整内容写入 key 对应的文件，按需创建根目录，
	// 已存在时整体覆盖。
	Write(key string, data []byte) error

	// TotalSizeBytes 汇总根目录下（不递归）所有普通文件的大小。
	// 尽力而为：根目录缺失返回 0，无法读取的条目直接跳过。
	TotalSizeBytes() uint64

	// ClearAll 递归删除整个根目录并立即重建空目录，
	// 结束后 Store 始终处于可写状态。
	ClearAll() error
}

// NewStore 以 basePath 为根目录构建磁盘缓存，整个进程复用一份实例。
// 目录本身延迟到首次写入/清理时才创建。
func NewStore(basePath string) (Store, error) {
	if basePath == "" {
		return nil, errors.New("cache path required")
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, wrapIO("解析缓存目录失败", err)
	}

	return &fileStore{basePath: abs}, nil
}

type fileStore struct {
	basePath string
}

func (s *fileStore) PathFor(key string) string {
	return filepath.Join(s.basePath, key)
}

func (s *fileStore) Exists(key string) bool {
	info, err := os.Stat(s.PathFor(key))
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

func (s *fileStore) Write(key string, data []byte) error {
	if err := os.MkdirAll(s.basePath, 0o755); err != nil {
		return wrapIO("创建缓存目录失败", err)
	}
	if err := os.WriteFile(s.PathFor(key), data, 0o644); err != nil {
		return wrapIO("保存文件到缓存失败", err)
	}
	return nil
}

func (s *fileStore) TotalSizeBytes() uint64 {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return 0
	}

	var total uint64
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.Mode().IsRegular() {
			total += uint64(info.Size())
		}
	}
	return total
}

func (s *fileStore) ClearAll() error {
	if err := os.RemoveAll(s.basePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return wrapIO("清除缓存失败", err)
	}
	if err := os.MkdirAll(s.basePath, 0o755); err != nil {
		return wrapIO("创建缓存目录失败", err)
	}
	return nil
}
