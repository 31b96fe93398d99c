package cache

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sync-desk/sync-desk/internal/logging"
)

// Manager 负责 orchestrate “本地短路 → 缓存查找 → 回源写缓存” 的全流程，
// 对外暴露 GUI 命令所需的全部缓存操作，内部复用共享 Store 与 Fetcher。
type Manager struct {
	store   Store
	fetcher Fetcher
	logger  *logrus.Logger
}

// NewManager constructs a cache manager with shared store/fetcher/logger.
func NewManager(store Store, fetcher Fetcher, logger *logrus.Logger) *Manager {
	return &Manager{
		store:   store,
		fetcher: fetcher,
		logger:  logger,
	}
}

// Resolve 将远端 URL 解析为本地缓存路径。非 http/https 输入视为本地引用
// 原样返回；命中直接返回文件路径；未命中则回源下载后落盘。下载或写入
// 失败时降级返回原始 URL —— 调用方（GUI 渲染层）永远拿到可用的引用，
// 由其自身的资源加载器退回直连加载。
func (m *Manager) Resolve(ctx context.Context, url string) string {
	if !isRemoteURL(url) {
		return url
	}

	started := time.Now()
	key := DeriveKey(url)
	path := m.store.PathFor(key)

	if m.store.Exists(key) {
		m.logResolve(url, path, true, started, nil)
		return path
	}

	data, err := m.fetcher.Fetch(ctx, url)
	if err == nil {
		err = m.store.Write(key, data)
	}
	if err != nil {
		// 降级策略：吞掉错误返回原始 URL，仅留下告警日志。
		m.logResolve(url, path, false, started, err)
		return url
	}

	m.logResolve(url, path, false, started, nil)
	return path
}

// CacheSizeBytes 返回缓存占用的字节数，根目录尚未创建时为 0，从不报错。
func (m *Manager) CacheSizeBytes() uint64 {
	return m.store.TotalSizeBytes()
}

// ClearCache 清空整个缓存目录。与 Resolve 不同，失败会原样上抛，
// 用户主动清理必须得到明确反馈。
func (m *Manager) ClearCache() error {
	if err := m.store.ClearAll(); err != nil {
		return err
	}
	m.logger.WithFields(logrus.Fields{"action": "cache_clear"}).Info("缓存已清除")
	return nil
}

// SaveBytesToPath 将数据完整写入调用方给定的绝对路径。
// 与缓存键体系无关，仅共享同一套错误语义（导出/导入场景）。
func (m *Manager) SaveBytesToPath(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return wrapIO("写入文件失败", err)
	}
	m.logger.WithFields(logrus.Fields{
		"action": "file_save",
		"path":   path,
		"bytes":  len(data),
	}).Info("文件已保存")
	return nil
}

// ReadBytesFromPath 读取调用方给定路径的完整内容。
func (m *Manager) ReadBytesFromPath(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapIO("读取文件失败", err)
	}
	return data, nil
}

func (m *Manager) logResolve(url, path string, cacheHit bool, started time.Time, err error) {
	fields := logging.ResolveFields(url, path, cacheHit)
	fields["elapsed_ms"] = time.Since(started).Milliseconds()
	if err != nil {
		fields["error"] = err.Error()
		m.logger.WithFields(fields).Warn("resolve_fallback")
		return
	}
	m.logger.WithFields(fields).Info("resolve_complete")
}

// isRemoteURL 判断输入是否为需要走缓存的绝对 HTTP/HTTPS URL。
func isRemoteURL(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}
