package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// ResolveFields 提供 url/本地路径/命中状态字段，供缓存解析日志复用。
func ResolveFields(url, localPath string, cacheHit bool) logrus.Fields {
	return logrus.Fields{
		"action":     "resolve",
		"url":        url,
		"local_path": localPath,
		"cache_hit":  cacheHit,
	}
}
