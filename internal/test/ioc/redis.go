package testioc

import (
	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/resumebuilder/ioc"
)

var cache ecache.Cache

// InitCache key 的前缀和线上一致，用例可以直接按照完整的 key 检查
func InitCache() ecache.Cache {
	if cache != nil {
		return cache
	}
	mustLoadConfig()
	cache = ioc.InitCache(ioc.InitRedis())
	return cache
}
