package config

import (
	"errors"
	"strings"
)

var supportedHashAlgorithms = map[string]struct{}{
	"md5":  {},
	"xxh3": {},
}

const supportedHashList = "md5|xxh3"

// Validate 针对语义级别做进一步校验，防止非法配置打开缓存。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	g := c.Global
	if g.LogMaxSize < 0 {
		return newFieldError("Global.LogMaxSize", "不能为负数")
	}
	if g.LogMaxBackups < 0 {
		return newFieldError("Global.LogMaxBackups", "不能为负数")
	}

	cc := &c.Cache
	if strings.TrimSpace(cc.Directory) == "" {
		return newFieldError(cacheField("Directory"), "不能为空")
	}
	if cc.DefaultTTL.DurationValue() <= 0 {
		return newFieldError(cacheField("DefaultTTL"), "必须大于 0")
	}

	hash := strings.ToLower(strings.TrimSpace(cc.HashAlgorithm))
	if _, ok := supportedHashAlgorithms[hash]; !ok {
		return newFieldError(cacheField("HashAlgorithm"), "仅支持 "+supportedHashList)
	}
	cc.HashAlgorithm = hash

	return nil
}
