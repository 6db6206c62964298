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

package apiclient

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoTokens = errors.New("没有可用的 token")

// Tokens 上游签发的一对 token
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenStore 持久化 token 的地方。
// Load 在没有 token 的时候返回 ErrNoTokens。
type TokenStore interface {
	Load(ctx context.Context) (Tokens, error)
	Save(ctx context.Context, tokens Tokens) error
	Clear(ctx context.Context) error
}

// MemoryTokenStore 进程内的实现，登录时用来暂存，也方便测试
type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens Tokens
	ok     bool
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (m *MemoryTokenStore) Load(ctx context.Context) (Tokens, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.ok {
		return Tokens{}, ErrNoTokens
	}
	return m.tokens, nil
}

func (m *MemoryTokenStore) Save(ctx context.Context, tokens Tokens) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = tokens
	m.ok = true
	return nil
}

func (m *MemoryTokenStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = Tokens{}
	m.ok = false
	return nil
}

// 上游放用户 ID 的 claim
const userIDClaim = "user_id"

// UserID 从 access token 里面读出上游的用户 ID。
// 签名由上游负责校验，这里只解析不验签。
func UserID(access string) (int64, error) {
	claims, err := parseClaims(access)
	if err != nil {
		return 0, err
	}
	switch val := claims[userIDClaim].(type) {
	case float64:
		return int64(val), nil
	case string:
		return strconv.ParseInt(val, 10, 64)
	default:
		return 0, fmt.Errorf("token 中没有 %s", userIDClaim)
	}
}

// expiresWithin access token 是否会在 d 之内过期。
// 解析不了或者没有 exp 的按照不过期处理，交给上游返回 401。
func expiresWithin(access string, d time.Duration, now time.Time) bool {
	if d <= 0 {
		return false
	}
	claims, err := parseClaims(access)
	if err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Time.Sub(now) < d
}

func parseClaims(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return nil, fmt.Errorf("解析 token 失败: %w", err)
	}
	return claims, nil
}
