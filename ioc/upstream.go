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

package ioc

import (
	"fmt"
	"time"

	"github.com/ecodeclub/resumebuilder/internal/pkg/apiclient"
	"github.com/gotomicro/ego/core/econf"
)

// InitUpstreamClient 简历后端的客户端，整个进程共用一个
func InitUpstreamClient() *apiclient.Client {
	var cfg apiclient.Config
	err := econf.UnmarshalKey("upstream", &cfg)
	if err != nil {
		panic(fmt.Errorf("读取 upstream 配置失败 %w", err))
	}
	if cfg.BaseURL == "" {
		panic("upstream.baseURL 不能为空")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return apiclient.NewClient(cfg)
}
