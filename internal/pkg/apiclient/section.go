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
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// 各类条目在上游的路径
const (
	PathEducation      = "/education/"
	PathExperience     = "/experience/"
	PathProjects       = "/projects/"
	PathSkills         = "/skills/"
	PathCertifications = "/certifications/"
	PathAchievements   = "/achievements/"
)

// Record 上游的一条记录。
// 序列化的时候 id、resume 和 Fields 的字段平铺在同一个 JSON 对象里。
type Record[T any] struct {
	ID     int64
	Resume int64
	Fields T
}

func (r Record[T]) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(r.Fields)
	if err != nil {
		return nil, err
	}
	var obj map[string]json.RawMessage
	if err = json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("条目字段必须是 JSON 对象: %w", err)
	}
	if obj == nil {
		obj = make(map[string]json.RawMessage, 2)
	}
	delete(obj, "id")
	if r.ID > 0 {
		obj["id"] = json.RawMessage(strconv.FormatInt(r.ID, 10))
	}
	obj["resume"] = json.RawMessage(strconv.FormatInt(r.Resume, 10))
	return json.Marshal(obj)
}

func (r *Record[T]) UnmarshalJSON(data []byte) error {
	var meta struct {
		ID     int64 `json:"id"`
		Resume int64 `json:"resume"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return err
	}
	var fields T
	if raw, ok := any(&fields).(*json.RawMessage); ok {
		// 原样保存的时候要把 id 和 resume 去掉
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		delete(obj, "id")
		delete(obj, "resume")
		stripped, err := json.Marshal(obj)
		if err != nil {
			return err
		}
		*raw = stripped
	} else if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	r.ID = meta.ID
	r.Resume = meta.Resume
	r.Fields = fields
	return nil
}

// SectionAPI 某一类条目的增删改查
type SectionAPI[T any] struct {
	s    *Session
	path string
}

func Sections[T any](s *Session, path string) *SectionAPI[T] {
	if !strings.HasSuffix(path, "/") {
		path = path + "/"
	}
	return &SectionAPI[T]{s: s, path: path}
}

func (a *SectionAPI[T]) itemPath(id int64) string {
	return a.path + strconv.FormatInt(id, 10) + "/"
}

// List 某份简历下的全部条目
func (a *SectionAPI[T]) List(ctx context.Context, resumeID int64) ([]Record[T], error) {
	var res []Record[T]
	err := a.s.do(ctx, request{
		method: http.MethodGet,
		path:   a.path,
		query:  map[string]string{"resume": strconv.FormatInt(resumeID, 10)},
	}, &res)
	return res, err
}

func (a *SectionAPI[T]) Create(ctx context.Context, resumeID int64, fields T) (Record[T], error) {
	var res Record[T]
	err := a.s.do(ctx, request{
		method: http.MethodPost,
		path:   a.path,
		body:   Record[T]{Resume: resumeID, Fields: fields},
	}, &res)
	return res, err
}

func (a *SectionAPI[T]) Update(ctx context.Context, id, resumeID int64, fields T) (Record[T], error) {
	var res Record[T]
	err := a.s.do(ctx, request{
		method: http.MethodPut,
		path:   a.itemPath(id),
		body:   Record[T]{ID: id, Resume: resumeID, Fields: fields},
	}, &res)
	return res, err
}

func (a *SectionAPI[T]) Delete(ctx context.Context, id int64) error {
	return a.s.do(ctx, request{method: http.MethodDelete, path: a.itemPath(id)}, nil)
}

// Sessions 按用户拿到对应的会话
type Sessions interface {
	Session(uid int64) *Session
}
