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

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ecodeclub/resumebuilder/internal/pkg/apiclient"
	"github.com/ecodeclub/resumebuilder/internal/user/internal/domain"
	"github.com/ecodeclub/resumebuilder/internal/user/internal/repository"
	"github.com/gotomicro/ego/core/elog"
)

var (
	ErrInvalidCredentials = apiclient.ErrInvalidCredentials
	ErrUnauthenticated    = apiclient.ErrUnauthenticated
	ErrUsernameDuplicate  = errors.New("用户名已经被注册")
	ErrUserNotFound       = repository.ErrUserNotFound
)

type UserService interface {
	Register(ctx context.Context, r domain.Registration) (domain.User, error)
	// Login 登录成功之后返回的用户的 Id 就是后面会话中的 uid
	Login(ctx context.Context, username, password string) (domain.User, error)
	Logout(ctx context.Context, uid int64) error
	Me(ctx context.Context, uid int64) (domain.User, error)
	Profile(ctx context.Context, uid int64) (domain.Profile, error)
	UpdateProfile(ctx context.Context, uid int64, city, country string) (domain.Profile, error)
}

type userService struct {
	client   *apiclient.Client
	repo     repository.UserRepository
	tokens   repository.TokenRepository
	profiles repository.ProfileRepository
	logger   *elog.Component
}

func NewUserService(client *apiclient.Client,
	repo repository.UserRepository,
	tokens repository.TokenRepository,
	profiles repository.ProfileRepository) UserService {
	return &userService{
		client:   client,
		repo:     repo,
		tokens:   tokens,
		profiles: profiles,
		logger:   elog.DefaultLogger,
	}
}

func (svc *userService) Register(ctx context.Context, r domain.Registration) (domain.User, error) {
	u, err := svc.client.Register(ctx, apiclient.Registration{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
	})
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		if msg, ok := apiErr.FieldError("username"); ok && strings.Contains(msg, "already exists") {
			return domain.User{}, fmt.Errorf("%w: %s", ErrUsernameDuplicate, r.Username)
		}
	}
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{Username: u.Username, Email: u.Email}, nil
}

func (svc *userService) Login(ctx context.Context, username, password string) (domain.User, error) {
	// 先放在内存里面，全部成功之后才真的保存
	staging := apiclient.NewMemoryTokenStore()
	tokens, err := svc.client.Login(ctx, staging, apiclient.Credentials{
		Username: username,
		Password: password,
	})
	if err != nil {
		return domain.User{}, err
	}
	uid, err := apiclient.UserID(tokens.Access)
	if err != nil {
		return domain.User{}, fmt.Errorf("无法识别后端用户: %w", err)
	}
	me, err := svc.client.Session(staging).Me(ctx)
	if err != nil {
		return domain.User{}, err
	}
	u := domain.User{
		Id:        uid,
		Username:  me.Username,
		Email:     me.Email,
		LastLogin: time.Now(),
	}
	if err = svc.repo.Save(ctx, u); err != nil {
		return domain.User{}, err
	}
	// Me 的过程中可能刷新过
	tokens, err = staging.Load(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if err = svc.tokens.Save(ctx, uid, tokens); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (svc *userService) Logout(ctx context.Context, uid int64) error {
	if err := svc.profiles.Evict(ctx, uid); err != nil {
		svc.logger.Error("清理个人资料缓存失败", elog.FieldErr(err), elog.Int64("uid", uid))
	}
	return svc.tokens.Clear(ctx, uid)
}

func (svc *userService) Me(ctx context.Context, uid int64) (domain.User, error) {
	return svc.repo.FindById(ctx, uid)
}

func (svc *userService) Profile(ctx context.Context, uid int64) (domain.Profile, error) {
	u, err := svc.repo.FindById(ctx, uid)
	if err != nil {
		return domain.Profile{}, err
	}
	p, err := svc.profiles.Get(ctx, uid)
	if err != nil {
		return domain.Profile{}, err
	}
	p.User = u
	return p, nil
}

func (svc *userService) UpdateProfile(ctx context.Context, uid int64, city, country string) (domain.Profile, error) {
	u, err := svc.repo.FindById(ctx, uid)
	if err != nil {
		return domain.Profile{}, err
	}
	p, err := svc.profiles.Update(ctx, uid, city, country)
	if err != nil {
		return domain.Profile{}, err
	}
	p.User = u
	return p, nil
}
