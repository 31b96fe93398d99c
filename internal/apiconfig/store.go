package apiconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const configFileName = "api_config.json"

// Config 是持久化到磁盘的 API 配置快照。
type Config struct {
	BaseURL      string `json:"base_url"`
	Token        string `json:"token"`
	DeviceID     string `json:"device_id"`
	DeviceName   string `json:"device_name"`
	IsConfigured bool   `json:"is_configured"`
}

// Store 维护 API 配置的内存镜像与磁盘副本，内部互斥锁保证并发安全。
// 进程启动时构造一份，按引用注入需要它的组件。
type Store struct {
	mu     sync.Mutex
	path   string
	cfg    Config
	logger *logrus.Logger
}

// NewStore 以 dataPath 为应用数据目录构建配置仓库，初始状态携带设备标识
// 但未配置。调用 Load 可恢复上次保存的内容。
func NewStore(dataPath string, logger *logrus.Logger) (*Store, error) {
	if dataPath == "" {
		return nil, errors.New("data path required")
	}

	abs, err := filepath.Abs(dataPath)
	if err != nil {
		return nil, fmt.Errorf("解析数据目录失败: %w", err)
	}

	return &Store{
		path: filepath.Join(abs, configFileName),
		cfg: Config{
			DeviceID:   DeviceID(),
			DeviceName: DeviceName(),
		},
		logger: logger,
	}, nil
}

// Load 从磁盘恢复配置。文件不存在不是错误，保持初始状态即可。
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return fmt.Errorf("解析配置文件失败: %w", err)
	}

	s.cfg = cfg
	s.logger.WithFields(logrus.Fields{
		"action":        "config_load",
		"base_url":      cfg.BaseURL,
		"is_configured": cfg.IsConfigured,
	}).Info("已从磁盘加载配置")
	return nil
}

// Set 更新 API 地址与令牌并立即持久化。地址会去掉尾部斜杠与重复的
// /api/v1 后缀，再统一补上 /api/v1。
func (s *Store) Set(apiURL, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := strings.TrimSuffix(strings.TrimRight(apiURL, "/"), "/api/v1")
	s.cfg.BaseURL = base + "/api/v1"
	s.cfg.Token = token
	s.cfg.IsConfigured = true

	if err := s.saveLocked(); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"action":   "config_set",
		"base_url": s.cfg.BaseURL,
	}).Info("API 配置已更新并保存")
	return nil
}

// Configured 返回当前是否已经完成 API 配置。
func (s *Store) Configured() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.IsConfigured
}

// Snapshot 返回配置的一份拷贝，调用方可以安全读取。
func (s *Store) Snapshot() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Clear 重置内存状态并删除磁盘文件，设备标识保留。
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.BaseURL = ""
	s.cfg.Token = ""
	s.cfg.IsConfigured = false

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("删除配置文件失败: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"action": "config_clear"}).Info("API 配置已清除")
	return nil
}

func (s *Store) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("创建数据目录失败: %w", err)
	}

	raw, err := json.MarshalIndent(s.cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	return nil
}
