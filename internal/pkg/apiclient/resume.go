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

type Resume struct {
	ID        int64  `json:"id,omitempty"`
	Title     string `json:"title"`
	UUID      string `json:"uuid,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`

	Name              string `json:"name"`
	ProfessionalTitle string `json:"professional_title"`
	Phone             string `json:"phone"`
	Email             string `json:"email"`
	Location          string `json:"location"`
	Summary           string `json:"summary,omitempty"`
	LinkedinURL       string `json:"linkedin_url"`
	GithubURL         string `json:"github_url"`
	WebsiteURL        string `json:"website_url"`
	TwitterURL        string `json:"twitter_url"`
}

func resumePath(id int64) string {
	return fmt.Sprintf("/resumes/%d/", id)
}

func (s *Session) Resumes(ctx context.Context) ([]Resume, error) {
	var res []Resume
	err := s.do(ctx, request{method: http.MethodGet, path: "/resumes/"}, &res)
	return res, err
}

func (s *Session) Resume(ctx context.Context, id int64) (Resume, error) {
	var res Resume
	err := s.do(ctx, request{method: http.MethodGet, path: resumePath(id)}, &res)
	return res, err
}

func (s *Session) CreateResume(ctx context.Context, r Resume) (Resume, error) {
	r.ID = 0
	var res Resume
	err := s.do(ctx, request{method: http.MethodPost, path: "/resumes/", body: r}, &res)
	return res, err
}

// UpdateResume 整体替换
func (s *Session) UpdateResume(ctx context.Context, r Resume) (Resume, error) {
	var res Resume
	err := s.do(ctx, request{method: http.MethodPut, path: resumePath(r.ID), body: r}, &res)
	return res, err
}

func (s *Session) DeleteResume(ctx context.Context, id int64) error {
	return s.do(ctx, request{method: http.MethodDelete, path: resumePath(id)}, nil)
}

func (s *Session) DuplicateResume(ctx context.Context, id int64) (Resume, error) {
	var res Resume
	err := s.do(ctx, request{
		method: http.MethodPost,
		path:   fmt.Sprintf("/resumes/%d/duplicate/", id),
	}, &res)
	return res, err
}

// DownloadPDF 上游渲染好的 PDF
func (s *Session) DownloadPDF(ctx context.Context, id int64) ([]byte, error) {
	var data []byte
	err := s.do(ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/resumes/%d/download-pdf/", id),
		accept: "application/pdf",
	}, &data)
	return data, err
}
