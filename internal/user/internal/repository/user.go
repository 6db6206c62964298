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
	"time"

	"github.com/ecodeclub/resumebuilder/internal/user/internal/domain"
	"github.com/ecodeclub/resumebuilder/internal/user/internal/repository/dao"
)

var ErrUserNotFound = dao.ErrDataNotFound

// UserRepository 本地保存的用户信息
type UserRepository interface {
	Save(ctx context.Context, u domain.User) error
	FindById(ctx context.Context, id int64) (domain.User, error)
}

type userRepository struct {
	dao dao.UserDAO
}

func NewUserRepository(d dao.UserDAO) UserRepository {
	return &userRepository{
		dao: d,
	}
}

func (ur *userRepository) Save(ctx context.Context, u domain.User) error {
	return ur.dao.Upsert(ctx, dao.User{
		Id:        u.Id,
		Username:  u.Username,
		Email:     u.Email,
		LastLogin: u.LastLogin.UnixMilli(),
	})
}

func (ur *userRepository) FindById(ctx context.Context, id int64) (domain.User, error) {
	u, err := ur.dao.FindById(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{
		Id:        u.Id,
		Username:  u.Username,
		Email:     u.Email,
		LastLogin: time.UnixMilli(u.LastLogin),
	}, nil
}
