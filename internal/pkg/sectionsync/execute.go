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

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Remote 远端的某一类条目
type Remote[F any] interface {
	Create(ctx context.Context, data F) (int64, error)
	Update(ctx context.Context, id int64, data F) error
	Delete(ctx context.Context, id int64) error
}

// Outcome 已经成功的操作。执行失败的时候也会返回，调用者据此修正本地状态。
type Outcome struct {
	// 占位 Key => 远端返回的 ID
	Created map[string]int64
	Updated []int64
	Deleted []int64
}

type options struct {
	limit int
}

type Option func(o *options)

// WithConcurrency 限制并发的新增、更新数量，小于等于 0 表示不限制
func WithConcurrency(limit int) Option {
	return func(o *options) {
		o.limit = limit
	}
}

// Execute 先逐个删除，再并发执行全部的新增和更新。
// 任何一个调用失败都会中止整个保存，已经成功的部分不会回滚。
func Execute[F any](ctx context.Context, remote Remote[F], plan Plan[F], opts ...Option) (Outcome, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	out := Outcome{
		Created: make(map[string]int64, len(plan.Creates)),
	}
	for _, id := range plan.Deletes {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if err := remote.Delete(ctx, id); err != nil {
			return out, fmt.Errorf("删除条目 %d 失败: %w", id, err)
		}
		out.Deleted = append(out.Deleted, id)
	}

	var mu sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)
	if o.limit > 0 {
		eg.SetLimit(o.limit)
	}
	for _, n := range plan.Creates {
		n := n
		eg.Go(func() error {
			id, err := remote.Create(egCtx, n.Data)
			if err != nil {
				return fmt.Errorf("新增条目 %s 失败: %w", n.Key, err)
			}
			mu.Lock()
			out.Created[n.Key] = id
			mu.Unlock()
			return nil
		})
	}
	for _, p := range plan.Updates {
		p := p
		eg.Go(func() error {
			if err := remote.Update(egCtx, p.ID, p.Data); err != nil {
				return fmt.Errorf("更新条目 %d 失败: %w", p.ID, err)
			}
			mu.Lock()
			out.Updated = append(out.Updated, p.ID)
			mu.Unlock()
			return nil
		})
	}
	err := eg.Wait()
	return out, err
}
