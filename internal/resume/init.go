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

package resume

import (
	"fmt"
	"time"

	"github.com/ecodeclub/resumebuilder/internal/pkg/pdf"
	"github.com/ecodeclub/resumebuilder/internal/resume/internal/job"
	"github.com/ecodeclub/resumebuilder/internal/resume/internal/repository/dao"
	"github.com/ecodeclub/resumebuilder/internal/resume/internal/service"
	"github.com/ego-component/egorm"
	"github.com/gotomicro/ego/core/econf"
)

func initDraftDAO(db *egorm.Component) dao.DraftDAO {
	err := dao.InitTables(db)
	if err != nil {
		panic(err)
	}
	return dao.NewGORMDraftDAO(db)
}

func initSyncConcurrency() service.SyncConcurrency {
	type Config struct {
		Concurrency int `yaml:"concurrency"`
	}
	cfg := Config{Concurrency: 4}
	err := econf.UnmarshalKey("resume.sync", &cfg)
	if err != nil {
		panic(err)
	}
	return service.SyncConcurrency(cfg.Concurrency)
}

type pdfConfig struct {
	// upstream 或者 local
	Mode string `yaml:"mode"`
	// A4 或者 Letter
	Paper  string           `yaml:"paper"`
	Chrome pdf.ChromeConfig `yaml:"chrome"`
}

func loadPDFConfig() pdfConfig {
	cfg := pdfConfig{Mode: service.PDFModeUpstream, Paper: "A4"}
	err := econf.UnmarshalKey("resume.pdf", &cfg)
	if err != nil {
		panic(err)
	}
	return cfg
}

func initPDFConfig() service.PDFConfig {
	cfg := loadPDFConfig()
	if cfg.Mode != service.PDFModeUpstream && cfg.Mode != service.PDFModeLocal {
		panic(fmt.Errorf("不支持的 PDF 模式 %s", cfg.Mode))
	}
	paper, ok := pdf.Named(cfg.Paper)
	if !ok {
		panic(fmt.Errorf("不支持的纸张 %s", cfg.Paper))
	}
	return service.PDFConfig{Mode: cfg.Mode, Paper: paper}
}

// initPDFConverter 只有 local 模式才会用到，浏览器在第一次导出的时候才启动
func initPDFConverter() pdf.Converter {
	return pdf.NewChromeDPConverter(loadPDFConfig().Chrome)
}

func initCleanupJob(svc service.EditorService) *job.CleanupStaleDraftsJob {
	type Config struct {
		MaxAge time.Duration `yaml:"maxAge"`
		Batch  int           `yaml:"batch"`
	}
	cfg := Config{MaxAge: time.Hour * 24 * 30, Batch: 100}
	err := econf.UnmarshalKey("resume.draftCleanup", &cfg)
	if err != nil {
		panic(err)
	}
	if cfg.Batch <= 0 {
		cfg.Batch = 100
	}
	return job.NewCleanupStaleDraftsJob(svc, cfg.MaxAge, cfg.Batch)
}
