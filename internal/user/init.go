// Copyright 2023 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package user

import (
	"time"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/resumebuilder/internal/pkg/apiclient"
	"github.com/ecodeclub/resumebuilder/internal/user/internal/repository"
	"github.com/ecodeclub/resumebuilder/internal/user/internal/repository/cache"
	"github.com/ecodeclub/resumebuilder/internal/user/internal/repository/dao"
	"github.com/ego-component/egorm"
	"github.com/gotomicro/ego/core/econf"
)

func initDAO(db *egorm.Component) dao.UserDAO {
	err := dao.InitTables(db)
	if err != nil {
		panic(err)
	}
	return dao.NewGORMUserDAO(db)
}

func initTokenCache(c ecache.Cache) cache.TokenCache {
	type Config struct {
		TokenTTL time.Duration `yaml:"tokenTTL"`
	}
	var cfg Config
	err := econf.UnmarshalKey("upstream", &cfg)
	if err != nil {
		panic(err)
	}
	if cfg.TokenTTL <= 0 {
		// 和后端 refresh token 的默认有效期一致
		cfg.TokenTTL = time.Hour * 24
	}
	return cache.NewTokenECache(c, cfg.TokenTTL)
}

func initSessions(repo repository.TokenRepository) apiclient.Sessions {
	return repo
}
