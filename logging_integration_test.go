package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggingFallbackToStderr(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("创建文件失败: %v", err)
	}

	logPath := filepath.Join(blocker, "sub", "filecache.log")
	configPath := writeConfigFile(t, fmt.Sprintf(`
LogLevel = "info"
LogFilePath = %q

[Cache]
Directory = %q
`, logPath, filepath.Join(dir, "storage")))

	useBufferWriters(t)
	code := run(cliOptions{configPath: configPath, checkOnly: true})
	if code != 0 {
		t.Fatalf("日志 fallback 不应导致失败，得到 %d", code)
	}
}

func TestLoggingWritesRotatingFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "logs", "filecache.log")
	configPath := writeConfigFile(t, fmt.Sprintf(`
LogLevel = "info"
LogFilePath = %q

[Cache]
Directory = %q
`, logPath, filepath.Join(dir, "storage")))

	useBufferWriters(t)
	if code := run(cliOptions{configPath: configPath, checkOnly: true}); code != 0 {
		t.Fatalf("期望退出码 0，得到 %d", code)
	}
	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("读取日志失败: %v", err)
	}
	if !strings.Contains(string(content), `"action":"check_config"`) {
		t.Fatalf("日志应包含 check_config: %s", content)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(file, []byte(strings.TrimSpace(content)), 0o600); err != nil {
		t.Fatalf("写入配置失败: %v", err)
	}
	return file
}
