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

// Package apiclient 简历后端 REST API 的客户端。
// 所有需要登录的请求都带上 Bearer token，遇到 401 用 refresh token 换一次 access token 再重试一次，
// 还是不行就清空本地的 token。
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gotomicro/ego/core/elog"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

type Config struct {
	BaseURL string        `yaml:"baseURL"`
	Timeout time.Duration `yaml:"timeout"`
	// 距离过期不足这个时间的 access token 会在请求之前就刷新掉，0 表示只在 401 的时候刷新
	RefreshLeeway time.Duration `yaml:"refreshLeeway"`
}

const defaultRefreshTimeout = 10 * time.Second

type Client struct {
	rc     *resty.Client
	leeway time.Duration
	// 同一个 refresh token 同时只刷新一次
	group          singleflight.Group
	refreshTimeout time.Duration
	logger         *elog.Component
	now            func() time.Time
}

func NewClient(cfg Config) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	refreshTimeout := defaultRefreshTimeout
	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
		refreshTimeout = cfg.Timeout
	}
	return &Client{
		rc:             rc,
		leeway:         cfg.RefreshLeeway,
		refreshTimeout: refreshTimeout,
		logger:         elog.DefaultLogger,
		now:            time.Now,
	}
}

// Session 绑定一个 TokenStore，之后的请求都以这个用户的身份发出
func (c *Client) Session(store TokenStore) *Session {
	return &Session{c: c, store: store}
}

type request struct {
	method string
	path   string
	query  map[string]string
	body   any
	accept string
}

func (c *Client) send(ctx context.Context, access string, req request) (*resty.Response, error) {
	r := c.rc.R().SetContext(ctx)
	if access != "" {
		r.SetAuthToken(access)
	}
	if req.body != nil {
		r.SetBody(req.body)
	}
	if len(req.query) > 0 {
		r.SetQueryParams(req.query)
	}
	if req.accept != "" {
		r.SetHeader("Accept", req.accept)
	}
	resp, err := r.Execute(req.method, req.path)
	if err != nil {
		return nil, errors.Wrapf(err, "请求上游 %s %s 失败", req.method, req.path)
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		c.logger.Warn("上游服务错误",
			elog.String("method", req.method),
			elog.String("path", req.path),
			elog.Int("status", resp.StatusCode()))
	}
	return resp, nil
}

// refreshAccess 用 refresh token 换新的 access token。
// 上游开启了 refresh token 轮换的时候会一起返回新的 refresh token。
func (c *Client) refreshAccess(ctx context.Context, refresh string) (Tokens, error) {
	resp, err := c.send(ctx, "", request{
		method: http.MethodPost,
		path:   "/auth/token/refresh/",
		body:   map[string]string{"refresh": refresh},
	})
	if err != nil {
		return Tokens{}, err
	}
	var res Tokens
	if err = decode(resp, &res); err != nil {
		return Tokens{}, err
	}
	if res.Access == "" {
		return Tokens{}, fmt.Errorf("%w: 刷新没有返回 access token", ErrUnauthenticated)
	}
	if res.Refresh == "" {
		res.Refresh = refresh
	}
	return res, nil
}

// Session 某个用户的会话，可以并发使用
type Session struct {
	c     *Client
	store TokenStore
}

func (s *Session) do(ctx context.Context, req request, result any) error {
	tokens, err := s.store.Load(ctx)
	if errors.Is(err, ErrNoTokens) {
		return ErrUnauthenticated
	}
	if err != nil {
		return err
	}
	refreshed := false
	if expiresWithin(tokens.Access, s.c.leeway, s.c.now()) {
		tokens, err = s.refresh(ctx, tokens)
		if err != nil {
			return s.refreshFailed(ctx, err)
		}
		refreshed = true
	}
	resp, err := s.c.send(ctx, tokens.Access, req)
	if err != nil {
		return err
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		if refreshed {
			return s.logout(ctx, ErrUnauthenticated)
		}
		tokens, err = s.refresh(ctx, tokens)
		if err != nil {
			return s.refreshFailed(ctx, err)
		}
		resp, err = s.c.send(ctx, tokens.Access, req)
		if err != nil {
			return err
		}
		// 只重试一次
		if resp.StatusCode() == http.StatusUnauthorized {
			return s.logout(ctx, ErrUnauthenticated)
		}
	}
	return decode(resp, result)
}

// refresh 同一个 refresh token 的并发刷新共用一次请求。
// 刷新请求不跟随任何一个调用方的 ctx 取消，调用方自己超时了只是不再等结果。
func (s *Session) refresh(ctx context.Context, tokens Tokens) (Tokens, error) {
	if tokens.Refresh == "" {
		return Tokens{}, ErrUnauthenticated
	}
	ch := s.c.group.DoChan(tokens.Refresh, func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.c.refreshTimeout)
		defer cancel()
		fresh, err := s.c.refreshAccess(rctx, tokens.Refresh)
		if err != nil {
			return Tokens{}, err
		}
		// 轮换之后旧的 refresh token 就失效了，没人等结果也要存下来
		if err = s.store.Save(rctx, fresh); err != nil {
			return Tokens{}, err
		}
		return fresh, nil
	})
	select {
	case <-ctx.Done():
		return Tokens{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Tokens{}, res.Err
		}
		return res.Val.(Tokens), nil
	}
}

// refreshFailed 只有上游明确拒绝了 refresh token 才清空本地 token，
// 其他错误原样返回，token 保留
func (s *Session) refreshFailed(ctx context.Context, err error) error {
	var apiErr *APIError
	if errors.Is(err, ErrUnauthenticated) || errors.As(err, &apiErr) {
		return s.logout(ctx, err)
	}
	return err
}

// logout 清空本地 token，调用方只会拿到 ErrUnauthenticated
func (s *Session) logout(ctx context.Context, cause error) error {
	if err := s.store.Clear(ctx); err != nil {
		s.c.logger.Error("清空 token 失败", elog.FieldErr(err))
	}
	if errors.Is(cause, ErrUnauthenticated) {
		return cause
	}
	return fmt.Errorf("%w: %w", ErrUnauthenticated, cause)
}

func decode(resp *resty.Response, result any) error {
	body := resp.Body()
	if err := statusError(resp.StatusCode(), body); err != nil {
		return err
	}
	if result == nil || len(body) == 0 {
		return nil
	}
	if raw, ok := result.(*[]byte); ok {
		*raw = body
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("解析上游响应失败: %w", err)
	}
	return nil
}
