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
	"fmt"
	"time"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/resumebuilder/internal/user/internal/domain"
)

type ProfileCache interface {
	Get(ctx context.Context, uid int64) (domain.Profile, error)
	Set(ctx context.Context, uid int64, p domain.Profile) error
	Delete(ctx context.Context, uid int64) error
}

type ProfileECache struct {
	cache      ecache.Cache
	expiration time.Duration
}

func NewProfileECache(c ecache.Cache) ProfileCache {
	return &ProfileECache{
		cache: &ecache.NamespaceCache{
			Namespace: "resume:profile:",
			C:         c,
		},
		expiration: time.Minute * 15,
	}
}

func (c *ProfileECache) Get(ctx context.Context, uid int64) (domain.Profile, error) {
	val := c.cache.Get(ctx, c.key(uid))
	if val.KeyNotFound() {
		return domain.Profile{}, ErrKeyNotExist
	}
	var p domain.Profile
	err := val.JSONScan(&p)
	return p, err
}

func (c *ProfileECache) Set(ctx context.Context, uid int64, p domain.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.cache.Set(ctx, c.key(uid), data, c.expiration)
}

func (c *ProfileECache) Delete(ctx context.Context, uid int64) error {
	_, err := c.cache.Delete(ctx, c.key(uid))
	return err
}

func (c *ProfileECache) key(uid int64) string {
	return fmt.Sprintf("%d", uid)
}
