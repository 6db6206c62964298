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
	"bytes"
	"encoding/json"
	"time"

	"github.com/ecodeclub/resumebuilder/internal/pkg/sectionsync"
)

type (
	Item      = sectionsync.Item[json.RawMessage]
	New       = sectionsync.New[json.RawMessage]
	Persisted = sectionsync.Persisted[json.RawMessage]
)

// Draft 某份简历某一类条目在本地的编辑状态。
// Snapshot 是上一次和后端同步之后后端的样子，Items 是本地正在编辑的列表。
type Draft struct {
	Uid      int64
	ResumeID int64
	Kind     Kind
	Snapshot []Persisted
	Items    []Item
	Utime    time.Time
}

// NewDraft 刚从后端拉下来，本地没有改动
func NewDraft(uid, resumeID int64, kind Kind, fetched []Persisted) Draft {
	return Draft{
		Uid:      uid,
		ResumeID: resumeID,
		Kind:     kind,
		Snapshot: fetched,
		Items:    sectionsync.Items(fetched),
	}
}

// Dirty 本地有没有还没保存的改动
func (d Draft) Dirty() bool {
	if len(d.Items) != len(d.Snapshot) {
		return true
	}
	for i, it := range d.Items {
		p, ok := it.(Persisted)
		if !ok || p.ID != d.Snapshot[i].ID || !bytes.Equal(p.Data, d.Snapshot[i].Data) {
			return true
		}
	}
	return false
}

// Fields 本地列表里全部条目的字段
func (d Draft) Fields() []json.RawMessage {
	res := make([]json.RawMessage, 0, len(d.Items))
	for _, it := range d.Items {
		res = append(res, it.Fields())
	}
	return res
}

// ItemInput 前端提交上来的一个条目，ID 为 0 的是新增
type ItemInput struct {
	ID     int64
	Key    string
	Fields json.RawMessage
}
