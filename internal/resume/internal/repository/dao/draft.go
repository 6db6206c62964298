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

package dao

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ecodeclub/ekit/sqlx"
	"github.com/ego-component/egorm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrDataNotFound = gorm.ErrRecordNotFound

// DraftDAO 草稿按照 用户 + 简历 + 条目类型 唯一
type DraftDAO interface {
	Find(ctx context.Context, uid, resumeID int64, kind string) (SectionDraft, error)
	FindByResume(ctx context.Context, uid, resumeID int64) ([]SectionDraft, error)
	Upsert(ctx context.Context, d SectionDraft) error
	// BatchUpsert 一条语句写入，打开编辑器的时候用
	BatchUpsert(ctx context.Context, ds []SectionDraft) error
	DeleteByResume(ctx context.Context, uid, resumeID int64) error
	// FindStaleIds utime 早于 before 的草稿，按照 id 升序
	FindStaleIds(ctx context.Context, before int64, limit int) ([]int64, error)
	// DeleteStaleByIds 查出来之后又被更新过的草稿不删
	DeleteStaleByIds(ctx context.Context, ids []int64, before int64) (int64, error)
}

type GORMDraftDAO struct {
	db *egorm.Component
}

func NewGORMDraftDAO(db *egorm.Component) DraftDAO {
	return &GORMDraftDAO{db: db}
}

func (g *GORMDraftDAO) Find(ctx context.Context, uid, resumeID int64, kind string) (SectionDraft, error) {
	var d SectionDraft
	err := g.db.WithContext(ctx).
		Where("uid = ? AND resume_id = ? AND kind = ?", uid, resumeID, kind).
		First(&d).Error
	return d, err
}

func (g *GORMDraftDAO) FindByResume(ctx context.Context, uid, resumeID int64) ([]SectionDraft, error) {
	var res []SectionDraft
	err := g.db.WithContext(ctx).
		Where("uid = ? AND resume_id = ?", uid, resumeID).
		Order("id").
		Find(&res).Error
	return res, err
}

func (g *GORMDraftDAO) Upsert(ctx context.Context, d SectionDraft) error {
	return g.BatchUpsert(ctx, []SectionDraft{d})
}

func (g *GORMDraftDAO) BatchUpsert(ctx context.Context, ds []SectionDraft) error {
	if len(ds) == 0 {
		return nil
	}
	now := time.Now().UnixMilli()
	for i := range ds {
		ds[i].Id = 0
		ds[i].Ctime = now
		ds[i].Utime = now
	}
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}, {Name: "resume_id"}, {Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"snapshot", "items", "utime"}),
	}).Create(&ds).Error
}

func (g *GORMDraftDAO) DeleteByResume(ctx context.Context, uid, resumeID int64) error {
	return g.db.WithContext(ctx).
		Where("uid = ? AND resume_id = ?", uid, resumeID).
		Delete(&SectionDraft{}).Error
}

func (g *GORMDraftDAO) FindStaleIds(ctx context.Context, before int64, limit int) ([]int64, error) {
	var ids []int64
	err := g.db.WithContext(ctx).Model(&SectionDraft{}).
		Where("utime < ?", before).
		Order("id").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

func (g *GORMDraftDAO) DeleteStaleByIds(ctx context.Context, ids []int64, before int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := g.db.WithContext(ctx).
		Where("id IN ? AND utime < ?", ids, before).
		Delete(&SectionDraft{})
	return res.RowsAffected, res.Error
}

// DraftItem 草稿里的一个条目，ID 和 Key 只会有一个
type DraftItem struct {
	ID     int64           `json:"id,omitempty"`
	Key    string          `json:"key,omitempty"`
	Fields json.RawMessage `json:"fields"`
}

type SectionDraft struct {
	Id       int64  `gorm:"primaryKey,autoIncrement"`
	Uid      int64  `gorm:"not null;uniqueIndex:uid_resume_kind"`
	ResumeId int64  `gorm:"not null;uniqueIndex:uid_resume_kind"`
	Kind     string `gorm:"type:varchar(32);not null;uniqueIndex:uid_resume_kind"`
	// 上次从后端拿到或者保存成功之后，后端的样子
	Snapshot sqlx.JsonColumn[[]DraftItem] `gorm:"type:json"`
	Items    sqlx.JsonColumn[[]DraftItem] `gorm:"type:json"`
	Ctime    int64
	Utime    int64 `gorm:"index"`
}

func (SectionDraft) TableName() string {
	return "resume_section_drafts"
}
