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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name    string
		kind    Kind
		raw     string
		want    string
		wantErr error
	}{
		{
			name: "教育经历",
			kind: KindEducation,
			raw:  `{"school":" MIT ","degree":"BS","start_date":"2015-09-01","end_date":"","gpa":3.8,"created_at":"x"}`,
			want: `{"school":"MIT","degree":"BS","field_of_study":"","start_date":"2015-09-01","end_date":null,"gpa":"3.80","description":""}`,
		},
		{
			name:    "教育经历GPA超出范围",
			kind:    KindEducation,
			raw:     `{"school":"MIT","degree":"BS","start_date":"2015-09-01","gpa":"12"}`,
			wantErr: ErrInvalidSection,
		},
		{
			name:    "缺少必填字段",
			kind:    KindEducation,
			raw:     `{"degree":"BS","start_date":"2015-09-01"}`,
			wantErr: ErrInvalidSection,
		},
		{
			name: "当前工作忽略结束时间",
			kind: KindExperience,
			raw:  `{"company":"Acme","position":"Engineer","start_date":"2020-01-01","end_date":"2021-01-01","is_current":true}`,
			want: `{"company":"Acme","position":"Engineer","location":"","start_date":"2020-01-01","end_date":null,"is_current":true,"description":""}`,
		},
		{
			name:    "结束时间早于开始时间",
			kind:    KindExperience,
			raw:     `{"company":"Acme","position":"Engineer","start_date":"2020-01-01","end_date":"2019-01-01"}`,
			wantErr: ErrInvalidSection,
		},
		{
			name:    "日期格式不对",
			kind:    KindExperience,
			raw:     `{"company":"Acme","position":"Engineer","start_date":"2020/01/01"}`,
			wantErr: ErrInvalidSection,
		},
		{
			name: "项目技术栈",
			kind: KindProject,
			raw:  `{"name":"Blog","description":"A blog","technologies":"Go, ,gin ,MySQL","start_date":"2022-01-01","github_url":"https://github.com/x/blog"}`,
			want: `{"name":"Blog","description":"A blog","technologies":"Go, gin, MySQL","start_date":"2022-01-01","end_date":null,"project_url":"","github_url":"https://github.com/x/blog"}`,
		},
		{
			name:    "项目链接不合法",
			kind:    KindProject,
			raw:     `{"name":"Blog","description":"A blog","technologies":"Go","start_date":"2022-01-01","project_url":"blog"}`,
			wantErr: ErrInvalidSection,
		},
		{
			name: "技能默认等级",
			kind: KindSkill,
			raw:  `{"name":"Go"}`,
			want: `{"name":"Go","category":"","level":"intermediate","years_of_experience":null}`,
		},
		{
			name:    "技能等级不支持",
			kind:    KindSkill,
			raw:     `{"name":"Go","level":"god"}`,
			wantErr: ErrInvalidSection,
		},
		{
			name: "证书",
			kind: KindCertification,
			raw:  `{"name":"CKA","issuing_organization":"CNCF","issue_date":"2023-05-01"}`,
			want: `{"name":"CKA","issuing_organization":"CNCF","issue_date":"2023-05-01","expiration_date":null,"credential_id":"","credential_url":""}`,
		},
		{
			name:    "成就缺少日期",
			kind:    KindAchievement,
			raw:     `{"title":"Winner","description":"Hackathon"}`,
			wantErr: ErrInvalidSection,
		},
		{
			name:    "未知类型",
			kind:    Kind("hobby"),
			raw:     `{}`,
			wantErr: ErrUnknownKind,
		},
		{
			name:    "不是对象",
			kind:    KindSkill,
			raw:     `[1,2]`,
			wantErr: ErrInvalidSection,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.kind, json.RawMessage(tc.raw))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(got))
		})
	}
}

func TestCanonical(t *testing.T) {
	testCases := []struct {
		name string
		kind Kind
		raw  string
		want string
	}{
		{
			name: "技能等级大小写",
			kind: KindSkill,
			raw:  `{"id":3,"name":" Go ","level":"Expert","years_of_experience":5}`,
			want: `{"name":"Go","category":"","level":"expert","years_of_experience":5}`,
		},
		{
			name: "技术栈没有空格",
			kind: KindProject,
			raw:  `{"name":"Blog","description":"A blog","technologies":"Go,Python","start_date":"2020-01-01"}`,
			want: `{"name":"Blog","description":"A blog","technologies":"Go, Python","start_date":"2020-01-01","end_date":null,"project_url":"","github_url":""}`,
		},
		{
			name: "不合法的数据也原样整理",
			kind: KindSkill,
			raw:  `{"name":"","level":"god"}`,
			want: `{"name":"","category":"","level":"god","years_of_experience":null}`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Canonical(tc.kind, json.RawMessage(tc.raw))
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(got))
		})
	}
}

// 从后端拉下来的条目原样保存一次，草稿不应该变脏
func TestDraft_CanonicalRoundTrip(t *testing.T) {
	raws := map[Kind]string{
		KindSkill:     `{"name":"Go","level":"Expert"}`,
		KindProject:   `{"name":"Blog","description":"A blog","technologies":"Go,Python","start_date":"2020-01-01"}`,
		KindEducation: `{"school":"MIT","degree":"BS","start_date":"2015-09-01","gpa":3.8}`,
	}
	for kind, raw := range raws {
		t.Run(string(kind), func(t *testing.T) {
			data, err := Canonical(kind, json.RawMessage(raw))
			require.NoError(t, err)
			d := NewDraft(1, 2, kind, []Persisted{{ID: 1, Data: data}})

			saved, err := Normalize(kind, d.Fields()[0])
			require.NoError(t, err)
			d.Items = []Item{Persisted{ID: 1, Data: saved}}
			assert.False(t, d.Dirty())
		})
	}
}

func TestDraft_Dirty(t *testing.T) {
	fetched := []Persisted{
		{ID: 1, Data: json.RawMessage(`{"name":"Go"}`)},
		{ID: 2, Data: json.RawMessage(`{"name":"Java"}`)},
	}
	d := NewDraft(1, 2, KindSkill, fetched)
	assert.False(t, d.Dirty())

	d.Items = append(d.Items, New{Key: "a", Data: json.RawMessage(`{"name":"Rust"}`)})
	assert.True(t, d.Dirty())

	d.Items = []Item{fetched[1], fetched[0]}
	assert.True(t, d.Dirty())

	d.Items = []Item{fetched[0], Persisted{ID: 2, Data: json.RawMessage(`{"name":"Kotlin"}`)}}
	assert.True(t, d.Dirty())
}

func TestDocument_Add(t *testing.T) {
	var doc Document
	err := doc.Add(KindSkill, []json.RawMessage{
		json.RawMessage(`{"name":"Go","level":"expert"}`),
	})
	require.NoError(t, err)
	err = doc.Add(KindEducation, []json.RawMessage{
		json.RawMessage(`{"school":"MIT","gpa":"3.80","end_date":null}`),
	})
	require.NoError(t, err)
	assert.Equal(t, []Skill{{Name: "Go", Level: "expert"}}, doc.Skills)
	assert.Equal(t, []Education{{School: "MIT", GPA: "3.80"}}, doc.Education)
	assert.Empty(t, doc.Projects)
}

func TestDate(t *testing.T) {
	assert.Equal(t, "2021", Date("2021-03-04").Year())
	assert.Equal(t, "2021", Date("2021").Year())
	assert.False(t, Date("").Valid())
	assert.True(t, Date("2021-03-04").Valid())
}
