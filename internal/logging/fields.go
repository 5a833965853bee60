package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// CacheFields 标识具体的 Cache 实例，同一目录上的多个实例由 cache_id 区分。
func CacheFields(instanceID, directory string) logrus.Fields {
	return logrus.Fields{
		"cache_id":  instanceID,
		"directory": directory,
	}
}
