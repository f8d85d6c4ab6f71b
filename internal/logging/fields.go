package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// RequestFields 提供表情包请求的公共字段，供 HTTP 层日志复用。
func RequestFields(memeID uint32, mime string, cacheHit bool, clientIP string) logrus.Fields {
	return logrus.Fields{
		"meme_id":   memeID,
		"mime":      mime,
		"cache_hit": cacheHit,
		"client_ip": clientIP,
	}
}
