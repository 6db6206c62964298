package testioc

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"

	"github.com/ecodeclub/resumebuilder/ioc"
	"github.com/ego-component/egorm"
	"github.com/gotomicro/ego/core/econf"
	"gopkg.in/yaml.v3"
)

var (
	db         *egorm.Component
	configOnce sync.Once
)

// InitDB 和线上一样的初始化方式，只是配置换成 config/local.yaml
func InitDB() *egorm.Component {
	if db != nil {
		return db
	}
	mustLoadConfig()
	db = ioc.InitDB()
	return db
}

func mustLoadConfig() {
	configOnce.Do(func() {
		if err := loadConfig(); err != nil {
			panic(err)
		}
	})
}

// loadConfig 用例都在 internal/<module>/internal/integration 下面
func loadConfig() error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	path := filepath.Clean(dir + "../../../../../config/local.yaml")
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return econf.LoadFromReader(bytes.NewReader(content), yaml.Unmarshal)
}
