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

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/ekit/sqlx"
	"github.com/ecodeclub/resumebuilder/internal/resume/internal/domain"
	"github.com/ecodeclub/resumebuilder/internal/resume/internal/repository/dao"
)

var ErrDraftNotFound = dao.ErrDataNotFound

type DraftRepository interface {
	Find(ctx context.Context, uid, resumeID int64, kind domain.Kind) (domain.Draft, error)
	FindByResume(ctx context.Context, uid, resumeID int64) ([]domain.Draft, error)
	Save(ctx context.Context, d domain.Draft) error
	SaveAll(ctx context.Context, ds []domain.Draft) error
	DeleteByResume(ctx context.Context, uid, resumeID int64) error
	FindStale(ctx context.Context, before time.Time, limit int) ([]int64, error)
	// DeleteStale 删除 ids 里面 before 之后依旧没有更新过的草稿
	DeleteStale(ctx context.Context, ids []int64, before time.Time) (int64, error)
}

type draftRepository struct {
	dao dao.DraftDAO
}

func NewDraftRepository(d dao.DraftDAO) DraftRepository {
	return &draftRepository{dao: d}
}

func (repo *draftRepository) Find(ctx context.Context, uid, resumeID int64, kind domain.Kind) (domain.Draft, error) {
	d, err := repo.dao.Find(ctx, uid, resumeID, string(kind))
	if err != nil {
		return domain.Draft{}, err
	}
	return repo.toDomain(d), nil
}

func (repo *draftRepository) FindByResume(ctx context.Context, uid, resumeID int64) ([]domain.Draft, error) {
	ds, err := repo.dao.FindByResume(ctx, uid, resumeID)
	if err != nil {
		return nil, err
	}
	return slice.Map(ds, func(idx int, src dao.SectionDraft) domain.Draft {
		return repo.toDomain(src)
	}), nil
}

func (repo *draftRepository) Save(ctx context.Context, d domain.Draft) error {
	return repo.dao.Upsert(ctx, repo.toEntity(d))
}

func (repo *draftRepository) SaveAll(ctx context.Context, ds []domain.Draft) error {
	return repo.dao.BatchUpsert(ctx, slice.Map(ds, func(idx int, src domain.Draft) dao.SectionDraft {
		return repo.toEntity(src)
	}))
}

func (repo *draftRepository) DeleteByResume(ctx context.Context, uid, resumeID int64) error {
	return repo.dao.DeleteByResume(ctx, uid, resumeID)
}

func (repo *draftRepository) FindStale(ctx context.Context, before time.Time, limit int) ([]int64, error) {
	return repo.dao.FindStaleIds(ctx, before.UnixMilli(), limit)
}

func (repo *draftRepository) DeleteStale(ctx context.Context, ids []int64, before time.Time) (int64, error) {
	return repo.dao.DeleteStaleByIds(ctx, ids, before.UnixMilli())
}

func (repo *draftRepository) toDomain(d dao.SectionDraft) domain.Draft {
	items := slice.Map(d.Items.Val, func(idx int, src dao.DraftItem) domain.Item {
		if src.ID > 0 {
			return domain.Persisted{ID: src.ID, Data: src.Fields}
		}
		return domain.New{Key: src.Key, Data: src.Fields}
	})
	snapshot := slice.Map(d.Snapshot.Val, func(idx int, src dao.DraftItem) domain.Persisted {
		return domain.Persisted{ID: src.ID, Data: src.Fields}
	})
	return domain.Draft{
		Uid:      d.Uid,
		ResumeID: d.ResumeId,
		Kind:     domain.Kind(d.Kind),
		Snapshot: snapshot,
		Items:    items,
		Utime:    time.UnixMilli(d.Utime),
	}
}

func (repo *draftRepository) toEntity(d domain.Draft) dao.SectionDraft {
	items := slice.Map(d.Items, func(idx int, src domain.Item) dao.DraftItem {
		switch v := src.(type) {
		case domain.Persisted:
			return dao.DraftItem{ID: v.ID, Fields: v.Data}
		case domain.New:
			return dao.DraftItem{Key: v.Key, Fields: v.Data}
		default:
			return dao.DraftItem{Fields: src.Fields()}
		}
	})
	snapshot := slice.Map(d.Snapshot, func(idx int, src domain.Persisted) dao.DraftItem {
		return dao.DraftItem{ID: src.ID, Fields: src.Data}
	})
	return dao.SectionDraft{
		Uid:      d.Uid,
		ResumeId: d.ResumeID,
		Kind:     string(d.Kind),
		// 空列表也写成 []
		Snapshot: sqlx.JsonColumn[[]dao.DraftItem]{Val: snapshot, Valid: true},
		Items:    sqlx.JsonColumn[[]dao.DraftItem]{Val: items, Valid: true},
	}
}
