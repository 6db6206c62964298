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
	"fmt"
	"net/http"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Profile struct {
	ID int64 `json:"id"`
	// 上游返回的是用户名
	User    string `json:"user"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// Login 换取 token，只有成功的时候才会写入 store
func (c *Client) Login(ctx context.Context, store TokenStore, cred Credentials) (Tokens, error) {
	resp, err := c.send(ctx, "", request{
		method: http.MethodPost,
		path:   "/auth/token/",
		body:   cred,
	})
	if err != nil {
		return Tokens{}, err
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return Tokens{}, ErrInvalidCredentials
	}
	var tokens Tokens
	if err = decode(resp, &tokens); err != nil {
		return Tokens{}, err
	}
	if tokens.Access == "" || tokens.Refresh == "" {
		return Tokens{}, fmt.Errorf("%w: 登录没有返回完整的 token", ErrServer)
	}
	if err = store.Save(ctx, tokens); err != nil {
		return Tokens{}, err
	}
	return tokens, nil
}

// Register 注册不需要登录
func (c *Client) Register(ctx context.Context, r Registration) (User, error) {
	resp, err := c.send(ctx, "", request{
		method: http.MethodPost,
		path:   "/auth/user/",
		body:   r,
	})
	if err != nil {
		return User{}, err
	}
	var u User
	err = decode(resp, &u)
	return u, err
}

func (s *Session) Me(ctx context.Context) (User, error) {
	var u User
	err := s.do(ctx, request{method: http.MethodGet, path: "/auth/user/"}, &u)
	return u, err
}

func (s *Session) Profile(ctx context.Context) (Profile, error) {
	var p Profile
	err := s.do(ctx, request{method: http.MethodGet, path: "/profile/"}, &p)
	return p, err
}

func (s *Session) UpdateProfile(ctx context.Context, city, country string) (Profile, error) {
	var p Profile
	err := s.do(ctx, request{
		method: http.MethodPut,
		path:   "/profile/",
		body: map[string]string{
			"city":    city,
			"country": country,
		},
	}, &p)
	return p, err
}
