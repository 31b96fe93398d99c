package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreWriteAndExists(t *testing.T) {
	store := newTestStore(t)
	key := DeriveKey("https://files.example.com/a.png")

	if store.Exists(key) {
		t.Fatalf("写入前不应存在")
	}
	if err := store.Write(key, []byte("payload")); err != nil {
		t.Fatalf("write error: %v", err)
	}
	if !store.Exists(key) {
		t.Fatalf("写入后应存在")
	}

	data, err := os.ReadFile(store.PathFor(key))
	if err != nil {
		t.Fatalf("read cached file error: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("cached payload mismatch: %s", string(data))
	}
}

func TestStoreWriteOverwrites(t *testing.T) {
	store := newTestStore(t)
	key := DeriveKey("https://files.example.com/a.png")

	if err := store.Write(key, []byte("first")); err != nil {
		t.Fatalf("write error: %v", err)
	}
	if err := store.Write(key, []byte("second")); err != nil {
		t.Fatalf("overwrite error: %v", err)
	}

	data, err := os.ReadFile(store.PathFor(key))
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if string(data) != "second" {
		t.Fatalf("覆盖写入后应保留最后一次内容，得到 %s", string(data))
	}
}

func TestStoreLazyRootCreation(t *testing.T) {
	base := filepath.Join(t.TempDir(), "images")
	store, err := NewStore(base)
	if err != nil {
		t.Fatalf("new store error: %v", err)
	}

	// 构造后根目录尚不存在，大小查询不报错而是返回 0。
	if _, err := os.Stat(base); !os.IsNotExist(err) {
		t.Fatalf("根目录应延迟创建")
	}
	if size := store.TotalSizeBytes(); size != 0 {
		t.Fatalf("根目录缺失时大小应为 0，得到 %d", size)
	}

	if err := store.Write(DeriveKey("https://x/a.png"), []byte("x")); err != nil {
		t.Fatalf("write error: %v", err)
	}
	if _, err := os.Stat(base); err != nil {
		t.Fatalf("写入后根目录应存在: %v", err)
	}
}

func TestStoreTotalSizeSkipsSubdirectories(t *testing.T) {
	base := t.TempDir()
	store, err := NewStore(base)
	if err != nil {
		t.Fatalf("new store error: %v", err)
	}

	if err := store.Write(DeriveKey("https://x/a.png"), []byte("12345")); err != nil {
		t.Fatalf("write error: %v", err)
	}
	if err := store.Write(DeriveKey("https://x/b.png"), []byte("123")); err != nil {
		t.Fatalf("write error: %v", err)
	}

	// 子目录及其内容不计入大小（非递归统计）。
	sub := filepath.Join(base, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sub, "ignored.bin"), []byte("xxxxxxxx"), 0o644); err != nil {
		t.Fatalf("write nested error: %v", err)
	}

	if size := store.TotalSizeBytes(); size != 8 {
		t.Fatalf("expected 8 bytes, got %d", size)
	}
}

func TestStoreClearAllRecreatesRoot(t *testing.T) {
	base := t.TempDir()
	store, err := NewStore(base)
	if err != nil {
		t.Fatalf("new store error: %v", err)
	}

	key := DeriveKey("https://x/a.png")
	if err := store.Write(key, []byte("payload")); err != nil {
		t.Fatalf("write error: %v", err)
	}

	if err := store.ClearAll(); err != nil {
		t.Fatalf("clear error: %v", err)
	}
	if store.Exists(key) {
		t.Fatalf("清理后条目不应存在")
	}
	if size := store.TotalSizeBytes(); size != 0 {
		t.Fatalf("清理后大小应为 0，得到 %d", size)
	}

	// 清理后必须立即可写。
	info, err := os.Stat(base)
	if err != nil || !info.IsDir() {
		t.Fatalf("清理后根目录应已重建: %v", err)
	}
	if err := store.Write(key, []byte("again")); err != nil {
		t.Fatalf("清理后写入失败: %v", err)
	}
}

func TestStoreClearAllOnMissingRoot(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "never-created"))
	if err != nil {
		t.Fatalf("new store error: %v", err)
	}
	if err := store.ClearAll(); err != nil {
		t.Fatalf("根目录缺失时清理不应失败: %v", err)
	}
}

func TestNewStoreRejectsEmptyPath(t *testing.T) {
	if _, err := NewStore(""); err == nil {
		t.Fatalf("空路径应返回错误")
	}
}

// newTestStore returns a Store backed by a temporary directory.
func newTestStore(t *testing.T) Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}
