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

package job

import (
	"context"
	"fmt"
	"time"

	"github.com/ecodeclub/resumebuilder/internal/resume/internal/service"
	"github.com/gotomicro/ego/core/elog"
	"github.com/gotomicro/ego/task/ecron"
)

var _ ecron.NamedJob = (*CleanupStaleDraftsJob)(nil)

const defaultCleanupBatch = 100

// CleanupStaleDraftsJob 删除长时间没有打开过的草稿。
// 草稿只是后端数据的副本加上没有保存的修改，删掉之后下次打开会重新从后端加载。
type CleanupStaleDraftsJob struct {
	svc    service.EditorService
	maxAge time.Duration
	limit  int
	logger *elog.Component
}

func NewCleanupStaleDraftsJob(svc service.EditorService, maxAge time.Duration, limit int) *CleanupStaleDraftsJob {
	if limit <= 0 {
		limit = defaultCleanupBatch
	}
	return &CleanupStaleDraftsJob{
		svc:    svc,
		maxAge: maxAge,
		limit:  limit,
		logger: elog.DefaultLogger,
	}
}

func (j *CleanupStaleDraftsJob) Name() string {
	return "CleanupStaleDraftsJob"
}

func (j *CleanupStaleDraftsJob) Run(ctx context.Context) error {
	before := time.Now().Add(-j.maxAge)
	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		cnt, err := j.svc.CleanupStale(ctx, before, j.limit)
		if err != nil {
			return fmt.Errorf("清理过期草稿失败: %w", err)
		}
		total += cnt
		// 一条都没删掉就停
		if cnt == 0 || cnt < int64(j.limit) {
			break
		}
	}
	j.logger.Info("清理过期草稿", elog.Int64("total", total))
	return nil
}
