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
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ecodeclub/resumebuilder/internal/pkg/apiclient"
	"github.com/ecodeclub/resumebuilder/internal/pkg/sectionsync"
	"github.com/ecodeclub/resumebuilder/internal/resume/internal/domain"
)

var paths = map[domain.Kind]string{
	domain.KindEducation:     apiclient.PathEducation,
	domain.KindExperience:    apiclient.PathExperience,
	domain.KindProject:       apiclient.PathProjects,
	domain.KindSkill:         apiclient.PathSkills,
	domain.KindCertification: apiclient.PathCertifications,
	domain.KindAchievement:   apiclient.PathAchievements,
}

// SectionRepository 后端的六类条目
type SectionRepository interface {
	// List 返回的条目内容已经规整过，可以直接和草稿比较
	List(ctx context.Context, uid, resumeID int64, kind domain.Kind) ([]domain.Persisted, error)
	Remote(uid, resumeID int64, kind domain.Kind) (sectionsync.Remote[json.RawMessage], error)
}

type upstreamSectionRepository struct {
	sessions apiclient.Sessions
}

func NewSectionRepository(sessions apiclient.Sessions) SectionRepository {
	return &upstreamSectionRepository{sessions: sessions}
}

func (repo *upstreamSectionRepository) api(uid int64, kind domain.Kind) (*apiclient.SectionAPI[json.RawMessage], error) {
	path, ok := paths[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownKind, kind)
	}
	return apiclient.Sections[json.RawMessage](repo.sessions.Session(uid), path), nil
}

func (repo *upstreamSectionRepository) List(ctx context.Context, uid, resumeID int64, kind domain.Kind) ([]domain.Persisted, error) {
	api, err := repo.api(uid, kind)
	if err != nil {
		return nil, err
	}
	records, err := api.List(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	res := make([]domain.Persisted, 0, len(records))
	for _, r := range records {
		data, err := domain.Canonical(kind, r.Fields)
		if err != nil {
			return nil, fmt.Errorf("解析 %s 条目 %d 失败: %w", kind, r.ID, err)
		}
		res = append(res, domain.Persisted{ID: r.ID, Data: data})
	}
	return res, nil
}

func (repo *upstreamSectionRepository) Remote(uid, resumeID int64, kind domain.Kind) (sectionsync.Remote[json.RawMessage], error) {
	api, err := repo.api(uid, kind)
	if err != nil {
		return nil, err
	}
	return &sectionRemote{api: api, resumeID: resumeID}, nil
}

type sectionRemote struct {
	api      *apiclient.SectionAPI[json.RawMessage]
	resumeID int64
}

func (r *sectionRemote) Create(ctx context.Context, data json.RawMessage) (int64, error) {
	rec, err := r.api.Create(ctx, r.resumeID, data)
	return rec.ID, err
}

func (r *sectionRemote) Update(ctx context.Context, id int64, data json.RawMessage) error {
	_, err := r.api.Update(ctx, id, r.resumeID, data)
	return err
}

// Delete 已经不存在的条目当作删除成功
func (r *sectionRemote) Delete(ctx context.Context, id int64) error {
	err := r.api.Delete(ctx, id)
	if errors.Is(err, apiclient.ErrNotFound) {
		return nil
	}
	return err
}
