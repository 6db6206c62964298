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

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/resumebuilder/internal/pkg/apiclient"
)

var ErrKeyNotExist = errors.New("缓存中没有数据")

// TokenCache 每个用户在后端的 token
type TokenCache interface {
	Get(ctx context.Context, uid int64) (apiclient.Tokens, error)
	Set(ctx context.Context, uid int64, tokens apiclient.Tokens) error
	Delete(ctx context.Context, uid int64) error
}

type TokenECache struct {
	cache ecache.Cache
	// 和 refresh token 的有效期保持一致
	expiration time.Duration
}

func NewTokenECache(c ecache.Cache, expiration time.Duration) TokenCache {
	return &TokenECache{
		cache: &ecache.NamespaceCache{
			Namespace: "resume:token:",
			C:         c,
		},
		expiration: expiration,
	}
}

func (c *TokenECache) Get(ctx context.Context, uid int64) (apiclient.Tokens, error) {
	val := c.cache.Get(ctx, c.key(uid))
	if val.KeyNotFound() {
		return apiclient.Tokens{}, ErrKeyNotExist
	}
	if val.Err != nil {
		return apiclient.Tokens{}, val.Err
	}
	str, err := val.String()
	if err != nil {
		return apiclient.Tokens{}, err
	}
	var tokens apiclient.Tokens
	err = json.Unmarshal([]byte(str), &tokens)
	return tokens, err
}

func (c *TokenECache) Set(ctx context.Context, uid int64, tokens apiclient.Tokens) error {
	data, err := json.Marshal(tokens)
	if err != nil {
		return err
	}
	return c.cache.Set(ctx, c.key(uid), string(data), c.expiration)
}

func (c *TokenECache) Delete(ctx context.Context, uid int64) error {
	_, err := c.cache.Delete(ctx, c.key(uid))
	return err
}

func (c *TokenECache) key(uid int64) string {
	return strconv.FormatInt(uid, 10)
}
