package apiconfig

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestStoreStartsUnconfiguredWithDeviceIdentity(t *testing.T) {
	store := newTestStore(t, t.TempDir())

	if store.Configured() {
		t.Fatalf("初始状态不应已配置")
	}
	snapshot := store.Snapshot()
	if !strings.HasPrefix(snapshot.DeviceID, "desktop_") {
		t.Fatalf("设备 ID 应带 desktop_ 前缀，得到 %s", snapshot.DeviceID)
	}
	if snapshot.DeviceName == "" {
		t.Fatalf("设备名称不应为空")
	}
}

func TestStoreSetNormalizesBaseURL(t *testing.T) {
	testCases := []struct {
		name   string
		apiURL string
		want   string
	}{
		{"裸地址", "https://api.example.com", "https://api.example.com/api/v1"},
		{"尾部斜杠", "https://api.example.com/", "https://api.example.com/api/v1"},
		{"已带版本后缀", "https://api.example.com/api/v1", "https://api.example.com/api/v1"},
		{"版本后缀加斜杠", "https://api.example.com/api/v1/", "https://api.example.com/api/v1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := newTestStore(t, t.TempDir())
			if err := store.Set(tc.apiURL, "token-1"); err != nil {
				t.Fatalf("set error: %v", err)
			}
			snapshot := store.Snapshot()
			if snapshot.BaseURL != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, snapshot.BaseURL)
			}
			if !snapshot.IsConfigured {
				t.Fatalf("Set 之后应标记为已配置")
			}
		})
	}
}

func TestStorePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first := newTestStore(t, dir)
	if err := first.Set("https://api.example.com", "secret-token"); err != nil {
		t.Fatalf("set error: %v", err)
	}

	second := newTestStore(t, dir)
	if second.Configured() {
		t.Fatalf("Load 之前不应已配置")
	}
	if err := second.Load(); err != nil {
		t.Fatalf("load error: %v", err)
	}
	snapshot := second.Snapshot()
	if !snapshot.IsConfigured || snapshot.Token != "secret-token" {
		t.Fatalf("重建实例后应恢复配置: %+v", snapshot)
	}
}

func TestStoreLoadMissingFileIsNotAnError(t *testing.T) {
	store := newTestStore(t, t.TempDir())
	if err := store.Load(); err != nil {
		t.Fatalf("文件不存在时 Load 不应报错: %v", err)
	}
}

func TestStoreClearRemovesFileAndResetsState(t *testing.T) {
	dir := t.TempDir()
	store := newTestStore(t, dir)
	if err := store.Set("https://api.example.com", "token"); err != nil {
		t.Fatalf("set error: %v", err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear error: %v", err)
	}
	if store.Configured() {
		t.Fatalf("清除后不应保持已配置状态")
	}
	if _, err := os.Stat(filepath.Join(dir, configFileName)); !os.IsNotExist(err) {
		t.Fatalf("清除后配置文件应被删除")
	}

	// 设备标识保留，重复清除幂等。
	if store.Snapshot().DeviceID == "" {
		t.Fatalf("清除不应丢失设备标识")
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("重复清除不应失败: %v", err)
	}
}

func TestDeviceIdentityStableWithinProcess(t *testing.T) {
	if DeviceID() != DeviceID() {
		t.Fatalf("设备 ID 应在进程内保持稳定")
	}
	if DeviceID() != "desktop_"+DeviceName() {
		t.Fatalf("设备 ID 应由设备名称派生")
	}
}

func newTestStore(t *testing.T, dir string) *Store {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	store, err := NewStore(dir, logger)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}
