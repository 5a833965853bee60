package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration 提供更灵活的反序列化能力，同时兼容纯毫秒整数与 Go Duration 字符串。
type Duration time.Duration

// UnmarshalText 使环境变量等文本来源可以写作 "30s"、"360h" 或纯数字毫秒值。
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}

	if intVal, err := parseInt(raw); err == nil {
		*d = Duration(time.Duration(intVal) * time.Millisecond)
		return nil
	}

	return fmt.Errorf("invalid duration value: %s", raw)
}

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// parseInt 支持十进制或 0x 前缀的十六进制字符串解析。
func parseInt(value string) (int64, error) {
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		return strconv.ParseInt(value, 0, 64)
	}
	return strconv.ParseInt(value, 10, 64)
}

// GlobalConfig 描述进程级行为：日志与指标。
type GlobalConfig struct {
	LogLevel       string `mapstructure:"LogLevel"`
	LogFilePath    string `mapstructure:"LogFilePath"`
	LogMaxSize     int    `mapstructure:"LogMaxSize"`
	LogMaxBackups  int    `mapstructure:"LogMaxBackups"`
	LogCompress    bool   `mapstructure:"LogCompress"`
	MetricsEnabled bool   `mapstructure:"MetricsEnabled"`
}

// CacheConfig 决定缓存目录、默认 TTL 与记录编码方式。
type CacheConfig struct {
	Directory     string   `mapstructure:"Directory"`
	DefaultTTL    Duration `mapstructure:"DefaultTTL"`
	HashAlgorithm string   `mapstructure:"HashAlgorithm"`
	Compress      bool     `mapstructure:"Compress"`
}

// Config 是 TOML 文件映射的整体结构。
type Config struct {
	Global GlobalConfig `mapstructure:",squash"`
	Cache  CacheConfig  `mapstructure:"Cache"`
}

// Summary 输出便于日志记录的缓存配置摘要。
func (c CacheConfig) Summary() string {
	return fmt.Sprintf("%s ttl=%s hash=%s compress=%t",
		c.Directory, c.DefaultTTL.DurationValue(), c.HashAlgorithm, c.Compress)
}
