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
	"fmt"
)

// Document 预览和导出用的完整简历
type Document struct {
	Resume         *Resume
	Education      []Education
	Experience     []Experience
	Projects       []Project
	Skills         []Skill
	Certifications []Certification
	Achievements   []Achievement
}

// Add 把某一类条目加到文档里
func (d *Document) Add(kind Kind, items []json.RawMessage) error {
	for _, raw := range items {
		s, err := decode(kind, raw)
		if err != nil {
			return err
		}
		switch v := s.(type) {
		case *Education:
			d.Education = append(d.Education, *v)
		case *Experience:
			d.Experience = append(d.Experience, *v)
		case *Project:
			d.Projects = append(d.Projects, *v)
		case *Skill:
			d.Skills = append(d.Skills, *v)
		case *Certification:
			d.Certifications = append(d.Certifications, *v)
		case *Achievement:
			d.Achievements = append(d.Achievements, *v)
		default:
			return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
		}
	}
	return nil
}

// Editor 编辑页需要的全部数据
type Editor struct {
	Resume Resume
	Drafts []Draft
}
