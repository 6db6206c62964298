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

package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/ecodeclub/resumebuilder/internal/pkg/pdf"
	"github.com/ecodeclub/resumebuilder/internal/resume/internal/domain"
	"github.com/ecodeclub/resumebuilder/internal/resume/internal/repository"
	"github.com/gotomicro/ego/core/elog"
	"golang.org/x/sync/errgroup"
)

const (
	PDFModeUpstream = "upstream"
	PDFModeLocal    = "local"
)

// PreviewService 预览和导出。
// 有草稿的条目用草稿，也就是用户在编辑器里看到的样子，没有草稿的才去后端拿。
type PreviewService interface {
	Preview(ctx context.Context, uid, resumeID int64) (string, error)
	PDF(ctx context.Context, uid, resumeID int64) (domain.PDF, error)
}

type PDFConfig struct {
	// upstream 或者 local
	Mode string
	// local 模式下用的纸张，默认 A4
	Paper pdf.Option
}

type previewService struct {
	resumes   repository.ResumeRepository
	sections  repository.SectionRepository
	drafts    repository.DraftRepository
	converter pdf.Converter
	cfg       PDFConfig
	logger    *elog.Component
}

func NewPreviewService(resumes repository.ResumeRepository,
	sections repository.SectionRepository,
	drafts repository.DraftRepository,
	converter pdf.Converter,
	cfg PDFConfig) PreviewService {
	if cfg.Mode == "" {
		cfg.Mode = PDFModeUpstream
	}
	if cfg.Paper == nil {
		cfg.Paper = pdf.PaperA4
	}
	return &previewService{
		resumes:   resumes,
		sections:  sections,
		drafts:    drafts,
		converter: converter,
		cfg:       cfg,
		logger:    elog.DefaultLogger,
	}
}

func (svc *previewService) Preview(ctx context.Context, uid, resumeID int64) (string, error) {
	doc, err := svc.document(ctx, uid, resumeID)
	if err != nil {
		return "", err
	}
	return Render(doc)
}

func (svc *previewService) document(ctx context.Context, uid, resumeID int64) (domain.Document, error) {
	var (
		resume domain.Resume
		drafts []domain.Draft
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		resume, err = svc.resumes.Find(egCtx, uid, resumeID)
		return err
	})
	eg.Go(func() error {
		var err error
		drafts, err = svc.drafts.FindByResume(egCtx, uid, resumeID)
		return err
	})
	if err := eg.Wait(); err != nil {
		return domain.Document{}, err
	}

	local := make(map[domain.Kind]domain.Draft, len(drafts))
	for _, d := range drafts {
		local[d.Kind] = d
	}
	var mu sync.Mutex
	doc := domain.Document{Resume: &resume}
	items := make(map[domain.Kind][]domain.Persisted, len(domain.Kinds()))
	eg, egCtx = errgroup.WithContext(ctx)
	for _, kind := range domain.Kinds() {
		if _, ok := local[kind]; ok {
			continue
		}
		kind := kind
		eg.Go(func() error {
			fetched, err := svc.sections.List(egCtx, uid, resumeID, kind)
			if err != nil {
				return err
			}
			mu.Lock()
			items[kind] = fetched
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return domain.Document{}, err
	}
	// 按照固定的顺序填充
	for _, kind := range domain.Kinds() {
		var err error
		if d, ok := local[kind]; ok {
			err = doc.Add(kind, d.Fields())
		} else {
			err = doc.Add(kind, domain.NewDraft(uid, resumeID, kind, items[kind]).Fields())
		}
		if err != nil {
			return domain.Document{}, err
		}
	}
	return doc, nil
}

func (svc *previewService) PDF(ctx context.Context, uid, resumeID int64) (domain.PDF, error) {
	if svc.cfg.Mode != PDFModeLocal {
		return svc.upstreamPDF(ctx, uid, resumeID)
	}
	doc, err := svc.document(ctx, uid, resumeID)
	if err != nil {
		return domain.PDF{}, err
	}
	html, err := Render(doc)
	if err != nil {
		return domain.PDF{}, err
	}
	data, err := svc.converter.ConvertHTMLToPDF(ctx, html, svc.cfg.Paper)
	if err != nil {
		return domain.PDF{}, fmt.Errorf("生成 PDF 失败: %w", err)
	}
	return domain.PDF{Filename: filename(doc.Resume.Title), Data: data}, nil
}

func (svc *previewService) upstreamPDF(ctx context.Context, uid, resumeID int64) (domain.PDF, error) {
	var (
		resume domain.Resume
		data   []byte
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		resume, err = svc.resumes.Find(egCtx, uid, resumeID)
		return err
	})
	eg.Go(func() error {
		var err error
		data, err = svc.resumes.DownloadPDF(egCtx, uid, resumeID)
		return err
	})
	if err := eg.Wait(); err != nil {
		return domain.PDF{}, err
	}
	return domain.PDF{Filename: filename(resume.Title), Data: data}, nil
}

var unsafeFilename = regexp.MustCompile(`[^\p{L}\p{N}_\-. ]+`)

// filename 简历标题做文件名，去掉不能出现在文件名里的字符
func filename(title string) string {
	name := strings.TrimSpace(unsafeFilename.ReplaceAllString(title, ""))
	if name == "" {
		name = "resume"
	}
	return strings.ReplaceAll(name, " ", "_") + ".pdf"
}
