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

package repository

import (
	"context"

	"github.com/ecodeclub/resumebuilder/internal/pkg/apiclient"
	"github.com/ecodeclub/resumebuilder/internal/user/internal/domain"
	"github.com/ecodeclub/resumebuilder/internal/user/internal/repository/cache"
	"github.com/gotomicro/ego/core/elog"
)

// ProfileRepository 后端的个人资料，带缓存。
// 返回的 Profile.User 只有 Username。
type ProfileRepository interface {
	Get(ctx context.Context, uid int64) (domain.Profile, error)
	Update(ctx context.Context, uid int64, city, country string) (domain.Profile, error)
	// Evict 让缓存失效，退出登录的时候用
	Evict(ctx context.Context, uid int64) error
}

type CachedProfileRepository struct {
	sessions apiclient.Sessions
	cache    cache.ProfileCache
	logger   *elog.Component
}

func NewCachedProfileRepository(sessions TokenRepository, c cache.ProfileCache) ProfileRepository {
	return &CachedProfileRepository{
		sessions: sessions,
		cache:    c,
		logger:   elog.DefaultLogger,
	}
}

func (repo *CachedProfileRepository) Get(ctx context.Context, uid int64) (domain.Profile, error) {
	p, err := repo.cache.Get(ctx, uid)
	if err == nil {
		return p, nil
	}
	res, err := repo.sessions.Session(uid).Profile(ctx)
	if err != nil {
		return domain.Profile{}, err
	}
	p = repo.toDomain(uid, res)
	if err = repo.cache.Set(ctx, uid, p); err != nil {
		repo.logger.Error("缓存个人资料失败", elog.FieldErr(err), elog.Int64("uid", uid))
	}
	return p, nil
}

func (repo *CachedProfileRepository) Update(ctx context.Context, uid int64, city, country string) (domain.Profile, error) {
	res, err := repo.sessions.Session(uid).UpdateProfile(ctx, city, country)
	if err != nil {
		return domain.Profile{}, err
	}
	if err = repo.cache.Delete(ctx, uid); err != nil {
		repo.logger.Error("删除个人资料缓存失败", elog.FieldErr(err), elog.Int64("uid", uid))
	}
	return repo.toDomain(uid, res), nil
}

func (repo *CachedProfileRepository) Evict(ctx context.Context, uid int64) error {
	return repo.cache.Delete(ctx, uid)
}

func (repo *CachedProfileRepository) toDomain(uid int64, p apiclient.Profile) domain.Profile {
	return domain.Profile{
		User:    domain.User{Id: uid, Username: p.User},
		City:    p.City,
		Country: p.Country,
	}
}
