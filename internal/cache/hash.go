package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"
)

// HashAlgorithm 决定 key 到记录名的映射，两种算法均产出 128 位摘要。
type HashAlgorithm string

const (
	// HashMD5 与既有缓存目录保持兼容，是默认算法。
	HashMD5 HashAlgorithm = "md5"
	// HashXXH3 使用 xxh3-128，速度更快但记录名与 md5 目录不通用。
	HashXXH3 HashAlgorithm = "xxh3"
)

// ParseHashAlgorithm 将配置值标准化，空字符串回退到 HashMD5。
func ParseHashAlgorithm(raw string) (HashAlgorithm, error) {
	switch normalized := HashAlgorithm(strings.ToLower(strings.TrimSpace(raw))); normalized {
	case "":
		return HashMD5, nil
	case HashMD5, HashXXH3:
		return normalized, nil
	default:
		return "", fmt.Errorf("unsupported hash algorithm: %s", raw)
	}
}

// RecordName 返回 key 的小写十六进制摘要。
func (h HashAlgorithm) RecordName(key string) string {
	if h == HashXXH3 {
		sum := xxh3.HashString128(key).Bytes()
		return hex.EncodeToString(sum[:])
	}
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}
