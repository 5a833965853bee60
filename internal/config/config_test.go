package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfgPath := testConfigPath(t, "valid.toml")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load 返回错误: %v", err)
	}
	if got := cfg.Cache.DefaultTTL.DurationValue(); got != 360*time.Hour {
		t.Fatalf("DefaultTTL 解析错误: %v", got)
	}
	if !filepath.IsAbs(cfg.Cache.Directory) {
		t.Fatalf("Directory 应被解析为绝对路径: %s", cfg.Cache.Directory)
	}
	if !cfg.Global.MetricsEnabled {
		t.Fatalf("MetricsEnabled 应当被解析")
	}
	if cfg.Global.LogMaxSize != 100 {
		t.Fatalf("LogMaxSize 应填充默认值，得到 %d", cfg.Global.LogMaxSize)
	}
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load 返回错误: %v", err)
	}
	if got := cfg.Cache.DefaultTTL.DurationValue(); got != 1296000000*time.Millisecond {
		t.Fatalf("默认 TTL 应为 15 天，得到 %v", got)
	}
	if filepath.Base(cfg.Cache.Directory) != ".cache" {
		t.Fatalf("默认目录应为 .cache，得到 %s", cfg.Cache.Directory)
	}
	if cfg.Cache.HashAlgorithm != "md5" {
		t.Fatalf("默认摘要算法应为 md5，得到 %s", cfg.Cache.HashAlgorithm)
	}
}

func TestValidateRejectsBadCache(t *testing.T) {
	cfgPath := testConfigPath(t, "invalid.toml")

	if _, err := Load(cfgPath); err == nil {
		t.Fatalf("不合法的配置应返回错误")
	}
}

func TestHashAlgorithmValidation(t *testing.T) {
	testCases := []struct {
		name      string
		hash      string
		shouldErr bool
	}{
		{"md5 ok", "md5", false},
		{"xxh3 ok", "xxh3", false},
		{"case insensitive", " XXH3 ", false},
		{"missing", "", true},
		{"unsupported", "sha256", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Cache.HashAlgorithm = tc.hash
			err := cfg.Validate()
			if tc.shouldErr && err == nil {
				t.Fatalf("expected error for hash %q", tc.hash)
			}
			if !tc.shouldErr && err != nil {
				t.Fatalf("unexpected error for hash %q: %v", tc.hash, err)
			}
		})
	}
}

func TestValidateRequiresPositiveTTL(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.DefaultTTL = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("TTL 为 0 时应报错")
	}
	fieldErr, ok := err.(FieldError)
	if !ok || fieldErr.Field != "Cache.DefaultTTL" {
		t.Fatalf("应返回 Cache.DefaultTTL 字段错误，得到 %v", err)
	}
}

func TestValidateRequiresDirectory(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Directory = "  "
	if err := cfg.Validate(); err == nil {
		t.Fatalf("目录为空时应报错")
	}
}

func validConfig() *Config {
	return &Config{
		Global: GlobalConfig{LogLevel: "info"},
		Cache: CacheConfig{
			Directory:     "./data",
			DefaultTTL:    Duration(time.Hour),
			HashAlgorithm: "md5",
		},
	}
}
