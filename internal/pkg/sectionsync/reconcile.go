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

package sectionsync

// Plan 一次保存需要执行的全部远端操作
type Plan[F any] struct {
	Creates []New[F]
	Updates []Persisted[F]
	Deletes []int64
}

func (p Plan[F]) Empty() bool {
	return len(p.Creates) == 0 && len(p.Updates) == 0 && len(p.Deletes) == 0
}

// Reconcile 纯函数，不做任何 IO。
// 快照里有而本地没有的删除，本地的 New 新增，本地的 Persisted 更新。
// 同一个 ID 在本地出现多次，只更新一次，以最后一次出现的内容为准，位置取第一次出现的位置。
func Reconcile[F any](old []Persisted[F], cur []Item[F]) Plan[F] {
	var plan Plan[F]
	kept := make(map[int64]int, len(cur))
	for _, it := range cur {
		switch v := it.(type) {
		case New[F]:
			plan.Creates = append(plan.Creates, v)
		case Persisted[F]:
			if idx, ok := kept[v.ID]; ok {
				plan.Updates[idx] = v
				continue
			}
			kept[v.ID] = len(plan.Updates)
			plan.Updates = append(plan.Updates, v)
		}
	}
	for _, p := range old {
		if _, ok := kept[p.ID]; ok {
			continue
		}
		// 快照里重复的 ID 只删一次
		kept[p.ID] = -1
		plan.Deletes = append(plan.Deletes, p.ID)
	}
	return plan
}

// Settle 用执行结果替换本地列表里的占位条目，顺序保持不变。
// 没有创建成功的 New 原样保留，下次保存时还会再尝试。
func Settle[F any](cur []Item[F], out Outcome) []Item[F] {
	res := make([]Item[F], 0, len(cur))
	for _, it := range cur {
		n, ok := it.(New[F])
		if !ok {
			res = append(res, it)
			continue
		}
		if id, created := out.Created[n.Key]; created {
			res = append(res, Persisted[F]{ID: id, Data: n.Data})
			continue
		}
		res = append(res, n)
	}
	return res
}

// Advance 根据执行结果推进快照，得到远端现在的样子。
// 中途失败的时候，成功的删除、新增、更新会体现在新快照里，其余的保持原样，
// 这样下一次保存只会重做没有完成的部分。
func Advance[F any](old []Persisted[F], settled []Item[F], out Outcome) []Persisted[F] {
	deleted := toSet(out.Deleted)
	updated := toSet(out.Updated)
	created := make(map[int64]struct{}, len(out.Created))
	for _, id := range out.Created {
		created[id] = struct{}{}
	}
	remote := make(map[int64]F, len(old))
	for _, p := range old {
		if _, ok := deleted[p.ID]; ok {
			continue
		}
		if _, ok := remote[p.ID]; !ok {
			remote[p.ID] = p.Data
		}
	}
	// 和 Reconcile 一致，更新用的是最后一次出现的内容
	latest := make(map[int64]F, len(settled))
	for _, it := range settled {
		if p, ok := it.(Persisted[F]); ok {
			latest[p.ID] = p.Data
		}
	}

	res := make([]Persisted[F], 0, len(settled)+len(old))
	seen := make(map[int64]struct{}, len(settled)+len(old))
	for _, it := range settled {
		p, ok := it.(Persisted[F])
		if !ok {
			continue
		}
		if _, ok = seen[p.ID]; ok {
			continue
		}
		data, exists := remote[p.ID]
		if _, ok = updated[p.ID]; ok {
			data = latest[p.ID]
		} else if _, ok = created[p.ID]; ok {
			data = p.Data
		} else if !exists {
			continue
		}
		seen[p.ID] = struct{}{}
		res = append(res, Persisted[F]{ID: p.ID, Data: data})
	}
	// 没删掉的还留在远端
	for _, p := range old {
		if _, ok := deleted[p.ID]; ok {
			continue
		}
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		res = append(res, Persisted[F]{ID: p.ID, Data: remote[p.ID]})
	}
	return res
}

func toSet(ids []int64) map[int64]struct{} {
	res := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		res[id] = struct{}{}
	}
	return res
}
