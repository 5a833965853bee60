package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	defaultDirectory = "./.cache"
	defaultTTLMillis = 1000 * 60 * 60 * 24 * 15
	defaultHash      = "md5"
	envPrefix        = "FILECACHE"
)

// Load 读取并解析 TOML 配置文件，同时注入默认值、环境变量覆盖与校验逻辑。
// path 为空时只使用默认值与 FILECACHE_* 环境变量。
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	applyCacheDefaults(&cfg.Cache)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	absDir, err := filepath.Abs(cfg.Cache.Directory)
	if err != nil {
		return nil, fmt.Errorf("无法解析缓存目录: %w", err)
	}
	cfg.Cache.Directory = absDir

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 100)
	v.SetDefault("LogMaxBackups", 10)
	v.SetDefault("LogCompress", true)
	v.SetDefault("MetricsEnabled", false)
	v.SetDefault("Cache.Directory", defaultDirectory)
	v.SetDefault("Cache.DefaultTTL", defaultTTLMillis)
	v.SetDefault("Cache.HashAlgorithm", defaultHash)
	v.SetDefault("Cache.Compress", false)
}

func applyCacheDefaults(c *CacheConfig) {
	if strings.TrimSpace(c.Directory) == "" {
		c.Directory = defaultDirectory
	}
	if c.DefaultTTL.DurationValue() == 0 {
		c.DefaultTTL = Duration(defaultTTLMillis * time.Millisecond)
	}
	if strings.TrimSpace(c.HashAlgorithm) == "" {
		c.HashAlgorithm = defaultHash
	}
}

// durationDecodeHook 把整数视为毫秒，字符串优先按 Go Duration 解析。
func durationDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(Duration(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			if v == "" {
				return Duration(0), nil
			}
			if parsed, err := time.ParseDuration(v); err == nil {
				return Duration(parsed), nil
			}
			if millis, err := strconv.ParseFloat(v, 64); err == nil {
				return Duration(time.Duration(millis * float64(time.Millisecond))), nil
			}
			return nil, fmt.Errorf("无法解析 Duration 字段: %s", v)
		case int:
			return Duration(time.Duration(v) * time.Millisecond), nil
		case int64:
			return Duration(time.Duration(v) * time.Millisecond), nil
		case float64:
			return Duration(time.Duration(v * float64(time.Millisecond))), nil
		case time.Duration:
			return Duration(v), nil
		case Duration:
			return v, nil
		default:
			return nil, fmt.Errorf("不支持的 Duration 类型: %T", v)
		}
	}
}
