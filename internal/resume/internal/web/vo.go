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

package web

import (
	"encoding/json"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/resumebuilder/internal/resume/internal/domain"
)

type IdReq struct {
	Id int64 `json:"id"`
}

type Resume struct {
	Id        int64  `json:"id,omitempty"`
	Title     string `json:"title"`
	UUID      string `json:"uuid,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`

	Name              string `json:"name"`
	ProfessionalTitle string `json:"professionalTitle"`
	Phone             string `json:"phone"`
	Email             string `json:"email"`
	Location          string `json:"location"`
	Summary           string `json:"summary"`
	LinkedinURL       string `json:"linkedinUrl"`
	GithubURL         string `json:"githubUrl"`
	WebsiteURL        string `json:"websiteUrl"`
	TwitterURL        string `json:"twitterUrl"`
}

func newResume(r domain.Resume) Resume {
	return Resume{
		Id:                r.Id,
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

func (r Resume) toDomain() domain.Resume {
	return domain.Resume{
		Id:                r.Id,
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

type SectionReq struct {
	ResumeId int64  `json:"resumeId"`
	Kind     string `json:"kind"`
}

type SaveDraftReq struct {
	ResumeId int64  `json:"resumeId"`
	Kind     string `json:"kind"`
	Items    []Item `json:"items"`
}

// Item 已经保存过的条目有 id，新加的条目只有 key
type Item struct {
	Id     int64           `json:"id,omitempty"`
	Key    string          `json:"key,omitempty"`
	Fields json.RawMessage `json:"fields"`
}

func (i Item) toDomain() domain.ItemInput {
	return domain.ItemInput{ID: i.Id, Key: i.Key, Fields: i.Fields}
}

func newItem(it domain.Item) Item {
	switch v := it.(type) {
	case domain.Persisted:
		return Item{Id: v.ID, Fields: v.Data}
	case domain.New:
		return Item{Key: v.Key, Fields: v.Data}
	default:
		return Item{Fields: it.Fields()}
	}
}

type Draft struct {
	ResumeId int64  `json:"resumeId"`
	Kind     string `json:"kind"`
	Items    []Item `json:"items"`
	// 有没有保存到后端的修改
	Dirty bool `json:"dirty"`
}

func newDraft(d domain.Draft) Draft {
	return Draft{
		ResumeId: d.ResumeID,
		Kind:     string(d.Kind),
		Items: slice.Map(d.Items, func(idx int, src domain.Item) Item {
			return newItem(src)
		}),
		Dirty: d.Dirty(),
	}
}

type Editor struct {
	Resume   Resume  `json:"resume"`
	Sections []Draft `json:"sections"`
}

type PreviewResp struct {
	HTML string `json:"html"`
}
