//go:build wireinject

package ioc

import (
	"github.com/ecodeclub/resumebuilder/internal/resume"
	"github.com/ecodeclub/resumebuilder/internal/user"
	"github.com/google/wire"
)

var BaseSet = wire.NewSet(InitDB, InitRedis, InitCache, InitUpstreamClient)

func InitApp() (*App, error) {
	wire.Build(wire.Struct(new(App), "*"),
		BaseSet,
		user.InitModule,
		wire.FieldsOf(new(*user.Module), "Hdl", "Sessions"),
		resume.InitModule,
		wire.FieldsOf(new(*resume.Module), "Hdl", "CleanupJob"),
		InitSession,
		initGinxServer,
		initCronJobs)
	return new(App), nil
}
