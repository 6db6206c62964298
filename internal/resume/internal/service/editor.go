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
	"time"

	"github.com/ecodeclub/resumebuilder/internal/pkg/sectionsync"
	"github.com/ecodeclub/resumebuilder/internal/resume/internal/domain"
	"github.com/ecodeclub/resumebuilder/internal/resume/internal/repository"
	"github.com/gotomicro/ego/core/elog"
	"github.com/lithammer/shortuuid/v4"
	"golang.org/x/sync/errgroup"
)

// EditorService 编辑器。
// 每一类条目在本地有一份草稿，修改只落在草稿上，Sync 的时候才写到后端。
type EditorService interface {
	// Load 重新从后端加载简历和全部条目，本地的草稿会被覆盖
	Load(ctx context.Context, uid, resumeID int64) (domain.Editor, error)
	Draft(ctx context.Context, uid, resumeID int64, kind domain.Kind) (domain.Draft, error)
	// SaveDraft 用 items 替换草稿里的条目
	SaveDraft(ctx context.Context, uid, resumeID int64, kind domain.Kind, items []domain.ItemInput) (domain.Draft, error)
	// Discard 放弃本地的修改
	Discard(ctx context.Context, uid, resumeID int64, kind domain.Kind) (domain.Draft, error)
	// Sync 把草稿写到后端。
	// 返回 ErrSyncFailed 的时候草稿也已经更新，再次 Sync 只会重做没有完成的部分。
	Sync(ctx context.Context, uid, resumeID int64, kind domain.Kind) (domain.Draft, error)
	// CleanupStale 删除 before 之前就没有更新过的草稿，最多 limit 条，返回删除的数量
	CleanupStale(ctx context.Context, before time.Time, limit int) (int64, error)
}

type editorService struct {
	resumes     repository.ResumeRepository
	sections    repository.SectionRepository
	drafts      repository.DraftRepository
	concurrency int
	logger      *elog.Component
}

func NewEditorService(resumes repository.ResumeRepository,
	sections repository.SectionRepository,
	drafts repository.DraftRepository,
	concurrency SyncConcurrency) EditorService {
	return &editorService{
		resumes:     resumes,
		sections:    sections,
		drafts:      drafts,
		concurrency: int(concurrency),
		logger:      elog.DefaultLogger,
	}
}

// SyncConcurrency 同步一类条目时最多同时发出的请求数，小于等于 0 不限制
type SyncConcurrency int

func (svc *editorService) Load(ctx context.Context, uid, resumeID int64) (domain.Editor, error) {
	kinds := domain.Kinds()
	var (
		resume  domain.Resume
		fetched = make([][]domain.Persisted, len(kinds))
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		resume, err = svc.resumes.Find(egCtx, uid, resumeID)
		return err
	})
	for i, kind := range kinds {
		i, kind := i, kind
		eg.Go(func() error {
			items, err := svc.sections.List(egCtx, uid, resumeID, kind)
			fetched[i] = items
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return domain.Editor{}, err
	}
	drafts := make([]domain.Draft, 0, len(kinds))
	for i, kind := range kinds {
		drafts = append(drafts, domain.NewDraft(uid, resumeID, kind, fetched[i]))
	}
	if err := svc.drafts.SaveAll(ctx, drafts); err != nil {
		return domain.Editor{}, err
	}
	return domain.Editor{Resume: resume, Drafts: drafts}, nil
}

func (svc *editorService) Draft(ctx context.Context, uid, resumeID int64, kind domain.Kind) (domain.Draft, error) {
	return svc.loadDraft(ctx, uid, resumeID, kind)
}

// loadDraft 没有草稿就从后端拉一份
func (svc *editorService) loadDraft(ctx context.Context, uid, resumeID int64, kind domain.Kind) (domain.Draft, error) {
	if !kind.Valid() {
		return domain.Draft{}, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	d, err := svc.drafts.Find(ctx, uid, resumeID, kind)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, repository.ErrDraftNotFound) {
		return domain.Draft{}, err
	}
	fetched, err := svc.sections.List(ctx, uid, resumeID, kind)
	if err != nil {
		return domain.Draft{}, err
	}
	d = domain.NewDraft(uid, resumeID, kind, fetched)
	if err = svc.drafts.Save(ctx, d); err != nil {
		return domain.Draft{}, err
	}
	return d, nil
}

func (svc *editorService) SaveDraft(ctx context.Context, uid, resumeID int64,
	kind domain.Kind, inputs []domain.ItemInput) (domain.Draft, error) {
	items, err := svc.toItems(kind, inputs)
	if err != nil {
		return domain.Draft{}, err
	}
	d, err := svc.loadDraft(ctx, uid, resumeID, kind)
	if err != nil {
		return domain.Draft{}, err
	}
	d.Items = items
	if err = svc.drafts.Save(ctx, d); err != nil {
		return domain.Draft{}, err
	}
	return d, nil
}

func (svc *editorService) toItems(kind domain.Kind, inputs []domain.ItemInput) ([]domain.Item, error) {
	items := make([]domain.Item, 0, len(inputs))
	keys := make(map[string]struct{}, len(inputs))
	for i, in := range inputs {
		data, err := domain.Normalize(kind, in.Fields)
		if err != nil {
			return nil, fmt.Errorf("第 %d 个条目: %w", i+1, err)
		}
		switch {
		case in.ID > 0:
			items = append(items, domain.Persisted{ID: in.ID, Data: data})
		case in.ID < 0:
			return nil, fmt.Errorf("%w: 第 %d 个条目的 id 不合法", ErrInvalidSection, i+1)
		default:
			key := in.Key
			// 占位 key 必须唯一，不然同步之后两个条目会拿到同一个 ID
			if _, dup := keys[key]; dup || key == "" {
				key = shortuuid.New()
			}
			keys[key] = struct{}{}
			items = append(items, domain.New{Key: key, Data: data})
		}
	}
	return items, nil
}

func (svc *editorService) Discard(ctx context.Context, uid, resumeID int64, kind domain.Kind) (domain.Draft, error) {
	d, err := svc.loadDraft(ctx, uid, resumeID, kind)
	if err != nil {
		return domain.Draft{}, err
	}
	if !d.Dirty() {
		return d, nil
	}
	d.Items = sectionsync.Items(d.Snapshot)
	if err = svc.drafts.Save(ctx, d); err != nil {
		return domain.Draft{}, err
	}
	return d, nil
}

func (svc *editorService) Sync(ctx context.Context, uid, resumeID int64, kind domain.Kind) (domain.Draft, error) {
	d, err := svc.loadDraft(ctx, uid, resumeID, kind)
	if err != nil {
		return domain.Draft{}, err
	}
	// 没有改动就不访问后端
	if !d.Dirty() {
		return d, nil
	}
	plan := sectionsync.Reconcile(d.Snapshot, d.Items)
	remote, err := svc.sections.Remote(uid, resumeID, kind)
	if err != nil {
		return domain.Draft{}, err
	}
	out, execErr := sectionsync.Execute(ctx, remote, plan, sectionsync.WithConcurrency(svc.concurrency))
	settled := sectionsync.Settle(d.Items, out)
	d.Snapshot = sectionsync.Advance(d.Snapshot, settled, out)
	if execErr == nil {
		d.Items = sectionsync.Items(d.Snapshot)
	} else {
		d.Items = settled
	}
	if err = svc.drafts.Save(ctx, d); err != nil {
		// 后端已经改了，本地没记下来，下次 Load 的时候会重新对齐
		svc.logger.Error("保存同步结果失败",
			elog.FieldErr(err),
			elog.Int64("uid", uid),
			elog.Int64("resumeId", resumeID),
			elog.String("kind", string(kind)))
		if execErr == nil {
			return domain.Draft{}, err
		}
	}
	if execErr != nil {
		svc.logger.Warn("条目同步中途失败",
			elog.FieldErr(execErr),
			elog.Int64("uid", uid),
			elog.Int64("resumeId", resumeID),
			elog.String("kind", string(kind)),
			elog.Int("created", len(out.Created)),
			elog.Int("updated", len(out.Updated)),
			elog.Int("deleted", len(out.Deleted)))
		return d, fmt.Errorf("%w: %w", ErrSyncFailed, execErr)
	}
	return d, nil
}

func (svc *editorService) CleanupStale(ctx context.Context, before time.Time, limit int) (int64, error) {
	ids, err := svc.drafts.FindStale(ctx, before, limit)
	if err != nil || len(ids) == 0 {
		return 0, err
	}
	return svc.drafts.DeleteStale(ctx, ids, before)
}
