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

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/resumebuilder/internal/pkg/apiclient"
	"github.com/ecodeclub/resumebuilder/internal/resume/internal/domain"
)

// ResumeRepository 简历本身都在后端，这里只是转发
type ResumeRepository interface {
	List(ctx context.Context, uid int64) ([]domain.Resume, error)
	Find(ctx context.Context, uid, id int64) (domain.Resume, error)
	Create(ctx context.Context, uid int64, r domain.Resume) (domain.Resume, error)
	Update(ctx context.Context, uid int64, r domain.Resume) (domain.Resume, error)
	Delete(ctx context.Context, uid, id int64) error
	Duplicate(ctx context.Context, uid, id int64) (domain.Resume, error)
	DownloadPDF(ctx context.Context, uid, id int64) ([]byte, error)
}

type upstreamResumeRepository struct {
	sessions apiclient.Sessions
}

func NewResumeRepository(sessions apiclient.Sessions) ResumeRepository {
	return &upstreamResumeRepository{sessions: sessions}
}

func (repo *upstreamResumeRepository) List(ctx context.Context, uid int64) ([]domain.Resume, error) {
	res, err := repo.sessions.Session(uid).Resumes(ctx)
	if err != nil {
		return nil, err
	}
	return slice.Map(res, func(idx int, src apiclient.Resume) domain.Resume {
		return repo.toDomain(src)
	}), nil
}

func (repo *upstreamResumeRepository) Find(ctx context.Context, uid, id int64) (domain.Resume, error) {
	res, err := repo.sessions.Session(uid).Resume(ctx, id)
	return repo.toDomain(res), err
}

func (repo *upstreamResumeRepository) Create(ctx context.Context, uid int64, r domain.Resume) (domain.Resume, error) {
	res, err := repo.sessions.Session(uid).CreateResume(ctx, repo.toAPI(r))
	return repo.toDomain(res), err
}

func (repo *upstreamResumeRepository) Update(ctx context.Context, uid int64, r domain.Resume) (domain.Resume, error) {
	res, err := repo.sessions.Session(uid).UpdateResume(ctx, repo.toAPI(r))
	return repo.toDomain(res), err
}

func (repo *upstreamResumeRepository) Delete(ctx context.Context, uid, id int64) error {
	return repo.sessions.Session(uid).DeleteResume(ctx, id)
}

func (repo *upstreamResumeRepository) Duplicate(ctx context.Context, uid, id int64) (domain.Resume, error) {
	res, err := repo.sessions.Session(uid).DuplicateResume(ctx, id)
	return repo.toDomain(res), err
}

func (repo *upstreamResumeRepository) DownloadPDF(ctx context.Context, uid, id int64) ([]byte, error) {
	return repo.sessions.Session(uid).DownloadPDF(ctx, id)
}

func (repo *upstreamResumeRepository) toDomain(r apiclient.Resume) domain.Resume {
	return domain.Resume{
		Id:                r.ID,
		Title:             r.Title,
		UUID:              r.UUID,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
		Name:              r.Name,
		ProfessionalTitle: r.ProfessionalTitle,
		Phone:             r.Phone,
		Email:             r.Email,
		Location:          r.Location,
		Summary:           r.Summary,
		LinkedinURL:       r.LinkedinURL,
		GithubURL:         r.GithubURL,
		WebsiteURL:        r.WebsiteURL,
		TwitterURL:        r.TwitterURL,
	}
}

func (repo *upstreamResumeRepository) toAPI(r domain.Resume) apiclient.Resume {
	return apiclient.Resume{
		ID:                r.Id,
		Title:             r.Title,
		Name:              r.Name,
		ProfessionalTitle: r.ProfessionalTitle,
		Phone:             r.Phone,
		Email:             r.Email,
		Location:          r.Location,
		Summary:           r.Summary,
		LinkedinURL:       r.LinkedinURL,
		GithubURL:         r.GithubURL,
		WebsiteURL:        r.WebsiteURL,
		TwitterURL:        r.TwitterURL,
	}
}
