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

// Package sectionsync 把本地编辑过的条目列表和上次拉取的快照对齐，
// 算出需要在远端执行的新增、更新、删除。
package sectionsync

// Item 本地列表里的一项，只有 New 和 Persisted 两种
type Item[F any] interface {
	Fields() F
	// 不允许包外实现
	sealed()
}

// New 还没有落库的条目，Key 只在本地有意义
type New[F any] struct {
	Key  string
	Data F
}

func (n New[F]) Fields() F {
	return n.Data
}

func (New[F]) sealed() {}

// Persisted 远端已经存在的条目
type Persisted[F any] struct {
	ID   int64
	Data F
}

func (p Persisted[F]) Fields() F {
	return p.Data
}

func (Persisted[F]) sealed() {}

// Snapshot 取出列表中已经落库的部分
func Snapshot[F any](items []Item[F]) []Persisted[F] {
	res := make([]Persisted[F], 0, len(items))
	for _, it := range items {
		if p, ok := it.(Persisted[F]); ok {
			res = append(res, p)
		}
	}
	return res
}

// Items 快照转回本地列表
func Items[F any](snapshot []Persisted[F]) []Item[F] {
	res := make([]Item[F], 0, len(snapshot))
	for _, p := range snapshot {
		res = append(res, p)
	}
	return res
}
