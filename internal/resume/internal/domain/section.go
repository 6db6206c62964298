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

package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidSection = errors.New("条目内容不合法")
	ErrUnknownKind    = errors.New("未知的条目类型")
)

// Kind 简历里面的条目类型
type Kind string

const (
	KindEducation     Kind = "education"
	KindExperience    Kind = "experience"
	KindProject       Kind = "project"
	KindSkill         Kind = "skill"
	KindCertification Kind = "certification"
	KindAchievement   Kind = "achievement"
)

// Kinds 预览里面的顺序
func Kinds() []Kind {
	return []Kind{KindEducation, KindExperience, KindProject, KindSkill, KindCertification, KindAchievement}
}

func (k Kind) Valid() bool {
	_, err := newSection(k)
	return err == nil
}

type section interface {
	// normalize 只做整理，不校验
	normalize()
}

func newSection(kind Kind) (section, error) {
	switch kind {
	case KindEducation:
		return &Education{}, nil
	case KindExperience:
		return &Experience{}, nil
	case KindProject:
		return &Project{}, nil
	case KindSkill:
		return &Skill{}, nil
	case KindCertification:
		return &Certification{}, nil
	case KindAchievement:
		return &Achievement{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}

// Normalize 整理并校验条目字段，返回规范化之后的 JSON
func Normalize(kind Kind, raw json.RawMessage) (json.RawMessage, error) {
	s, err := decode(kind, raw)
	if err != nil {
		return nil, err
	}
	s.normalize()
	if err = validateSection(s); err != nil {
		return nil, err
	}
	return json.Marshal(s)
}

// Canonical 和 Normalize 的整理规则一样，但是不校验。
// 后端返回的数据用它去掉多余的字段，这样和草稿里的数据才能直接比较。
func Canonical(kind Kind, raw json.RawMessage) (json.RawMessage, error) {
	s, err := decode(kind, raw)
	if err != nil {
		return nil, err
	}
	s.normalize()
	return json.Marshal(s)
}

func decode(kind Kind, raw json.RawMessage) (section, error) {
	s, err := newSection(kind)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err = json.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSection, err)
	}
	return s, nil
}

type Education struct {
	School       string  `json:"school" validate:"required"`
	Degree       string  `json:"degree" validate:"required"`
	FieldOfStudy string  `json:"field_of_study"`
	StartDate    Date    `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      Date    `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	GPA          Decimal `json:"gpa" validate:"omitempty,gpa"`
	Description  string  `json:"description"`
}

func (e *Education) normalize() {
	e.School = strings.TrimSpace(e.School)
	e.Degree = strings.TrimSpace(e.Degree)
	e.FieldOfStudy = strings.TrimSpace(e.FieldOfStudy)
	// decimal(3,2)，解析不了的留给校验
	if gpa, ok := e.GPA.Float(); ok {
		e.GPA = Decimal(strconv.FormatFloat(gpa, 'f', 2, 64))
	}
}

type Experience struct {
	Company     string `json:"company" validate:"required"`
	Position    string `json:"position" validate:"required"`
	Location    string `json:"location"`
	StartDate   Date   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     Date   `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	IsCurrent   bool   `json:"is_current"`
	Description string `json:"description"`
}

func (e *Experience) normalize() {
	e.Company = strings.TrimSpace(e.Company)
	e.Position = strings.TrimSpace(e.Position)
	e.Location = strings.TrimSpace(e.Location)
	if e.IsCurrent {
		e.EndDate = ""
	}
}

type Project struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	// 逗号分隔
	Technologies string `json:"technologies" validate:"required"`
	StartDate    Date   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      Date   `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	ProjectURL   string `json:"project_url" validate:"omitempty,http_url"`
	GithubURL    string `json:"github_url" validate:"omitempty,http_url"`
}

func (p *Project) normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.Technologies = normalizeList(p.Technologies)
	p.ProjectURL = strings.TrimSpace(p.ProjectURL)
	p.GithubURL = strings.TrimSpace(p.GithubURL)
}

// TechnologyList 拆开之后的技术栈
func (p Project) TechnologyList() []string {
	if p.Technologies == "" {
		return nil
	}
	return strings.Split(p.Technologies, ", ")
}

const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
	LevelExpert       = "expert"
)

type Skill struct {
	Name              string `json:"name" validate:"required"`
	Category          string `json:"category"`
	Level             string `json:"level" validate:"oneof=beginner intermediate advanced expert"`
	YearsOfExperience *int   `json:"years_of_experience" validate:"omitempty,min=0"`
}

func (s *Skill) normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Category = strings.TrimSpace(s.Category)
	s.Level = strings.ToLower(strings.TrimSpace(s.Level))
	if s.Level == "" {
		s.Level = LevelIntermediate
	}
}

type Certification struct {
	Name                string `json:"name" validate:"required"`
	IssuingOrganization string `json:"issuing_organization" validate:"required"`
	IssueDate           Date   `json:"issue_date" validate:"required,datetime=2006-01-02"`
	ExpirationDate      Date   `json:"expiration_date" validate:"omitempty,datetime=2006-01-02"`
	CredentialID        string `json:"credential_id"`
	CredentialURL       string `json:"credential_url" validate:"omitempty,http_url"`
}

func (c *Certification) normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.IssuingOrganization = strings.TrimSpace(c.IssuingOrganization)
	c.CredentialID = strings.TrimSpace(c.CredentialID)
	c.CredentialURL = strings.TrimSpace(c.CredentialURL)
}

type Achievement struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description" validate:"required"`
	DateAchieved Date   `json:"date_achieved" validate:"required,datetime=2006-01-02"`
	Organization string `json:"organization"`
}

func (a *Achievement) normalize() {
	a.Title = strings.TrimSpace(a.Title)
	a.Description = strings.TrimSpace(a.Description)
	a.Organization = strings.TrimSpace(a.Organization)
}

// normalizeList 逗号分隔的列表去掉空白和空项
func normalizeList(s string) string {
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return strings.Join(res, ", ")
}
