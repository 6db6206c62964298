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
	"errors"

	"github.com/ecodeclub/resumebuilder/internal/pkg/apiclient"
	"github.com/ecodeclub/resumebuilder/internal/user/internal/repository/cache"
)

// TokenRepository 保存每个用户在后端的 token。
// 同时也实现了 apiclient.Sessions，别的模块通过它以用户的身份访问后端。
type TokenRepository interface {
	Save(ctx context.Context, uid int64, tokens apiclient.Tokens) error
	Clear(ctx context.Context, uid int64) error
	Session(uid int64) *apiclient.Session
}

type CachedTokenRepository struct {
	cache  cache.TokenCache
	client *apiclient.Client
}

func NewCachedTokenRepository(c cache.TokenCache, client *apiclient.Client) TokenRepository {
	return &CachedTokenRepository{
		cache:  c,
		client: client,
	}
}

func (repo *CachedTokenRepository) Save(ctx context.Context, uid int64, tokens apiclient.Tokens) error {
	return repo.cache.Set(ctx, uid, tokens)
}

func (repo *CachedTokenRepository) Clear(ctx context.Context, uid int64) error {
	return repo.cache.Delete(ctx, uid)
}

func (repo *CachedTokenRepository) Session(uid int64) *apiclient.Session {
	return repo.client.Session(&userTokenStore{uid: uid, cache: repo.cache})
}

// userTokenStore 把 TokenCache 适配成某个用户的 apiclient.TokenStore
type userTokenStore struct {
	uid   int64
	cache cache.TokenCache
}

func (s *userTokenStore) Load(ctx context.Context) (apiclient.Tokens, error) {
	tokens, err := s.cache.Get(ctx, s.uid)
	if errors.Is(err, cache.ErrKeyNotExist) {
		return apiclient.Tokens{}, apiclient.ErrNoTokens
	}
	return tokens, err
}

func (s *userTokenStore) Save(ctx context.Context, tokens apiclient.Tokens) error {
	return s.cache.Set(ctx, s.uid, tokens)
}

func (s *userTokenStore) Clear(ctx context.Context) error {
	return s.cache.Delete(ctx, s.uid)
}
