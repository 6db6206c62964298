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

	"github.com/ecodeclub/resumebuilder/internal/pkg/apiclient"
	"github.com/ecodeclub/resumebuilder/internal/resume/internal/domain"
	"github.com/ecodeclub/resumebuilder/internal/resume/internal/repository"
	"github.com/gotomicro/ego/core/elog"
)

var (
	ErrUnauthenticated = apiclient.ErrUnauthenticated
	ErrNotFound        = apiclient.ErrNotFound
	ErrInvalidSection  = domain.ErrInvalidSection
	ErrUnknownKind     = domain.ErrUnknownKind
	// ErrSyncFailed 同步中途失败，成功的部分已经记录在草稿里
	ErrSyncFailed = errors.New("条目同步失败")
)

type ResumeService interface {
	List(ctx context.Context, uid int64) ([]domain.Resume, error)
	Detail(ctx context.Context, uid, id int64) (domain.Resume, error)
	Create(ctx context.Context, uid int64, r domain.Resume) (domain.Resume, error)
	// Save 整体覆盖简历抬头
	Save(ctx context.Context, uid int64, r domain.Resume) (domain.Resume, error)
	Delete(ctx context.Context, uid, id int64) error
	Duplicate(ctx context.Context, uid, id int64) (domain.Resume, error)
}

type resumeService struct {
	repo   repository.ResumeRepository
	drafts repository.DraftRepository
	logger *elog.Component
}

func NewResumeService(repo repository.ResumeRepository, drafts repository.DraftRepository) ResumeService {
	return &resumeService{
		repo:   repo,
		drafts: drafts,
		logger: elog.DefaultLogger,
	}
}

func (svc *resumeService) List(ctx context.Context, uid int64) ([]domain.Resume, error) {
	return svc.repo.List(ctx, uid)
}

func (svc *resumeService) Detail(ctx context.Context, uid, id int64) (domain.Resume, error) {
	return svc.repo.Find(ctx, uid, id)
}

func (svc *resumeService) Create(ctx context.Context, uid int64, r domain.Resume) (domain.Resume, error) {
	r.Id = 0
	return svc.repo.Create(ctx, uid, r)
}

func (svc *resumeService) Save(ctx context.Context, uid int64, r domain.Resume) (domain.Resume, error) {
	return svc.repo.Update(ctx, uid, r)
}

func (svc *resumeService) Delete(ctx context.Context, uid, id int64) error {
	err := svc.repo.Delete(ctx, uid, id)
	if err != nil {
		return err
	}
	// 删不掉的草稿由定时任务清理
	if err = svc.drafts.DeleteByResume(ctx, uid, id); err != nil {
		svc.logger.Error("删除简历草稿失败",
			elog.FieldErr(err),
			elog.Int64("uid", uid),
			elog.Int64("resumeId", id))
	}
	return nil
}

func (svc *resumeService) Duplicate(ctx context.Context, uid, id int64) (domain.Resume, error) {
	return svc.repo.Duplicate(ctx, uid, id)
}
