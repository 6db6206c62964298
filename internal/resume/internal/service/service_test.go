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
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/ecodeclub/resumebuilder/internal/pkg/apiclient"
	"github.com/ecodeclub/resumebuilder/internal/pkg/apiclient/apiclienttest"
	"github.com/ecodeclub/resumebuilder/internal/pkg/pdf"
	pdfmocks "github.com/ecodeclub/resumebuilder/internal/pkg/pdf/mocks"
	"github.com/ecodeclub/resumebuilder/internal/resume/internal/domain"
	"github.com/ecodeclub/resumebuilder/internal/resume/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type memoryDraftRepo struct {
	mu      sync.Mutex
	drafts  map[string]domain.Draft
	saveErr error
}

func newMemoryDraftRepo() *memoryDraftRepo {
	return &memoryDraftRepo{drafts: make(map[string]domain.Draft)}
}

func draftKey(uid, resumeID int64, kind domain.Kind) string {
	return fmt.Sprintf("%d:%d:%s", uid, resumeID, kind)
}

func (m *memoryDraftRepo) Find(ctx context.Context, uid, resumeID int64, kind domain.Kind) (domain.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[draftKey(uid, resumeID, kind)]
	if !ok {
		return domain.Draft{}, repository.ErrDraftNotFound
	}
	return d, nil
}

func (m *memoryDraftRepo) FindByResume(ctx context.Context, uid, resumeID int64) ([]domain.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []domain.Draft
	for _, kind := range domain.Kinds() {
		if d, ok := m.drafts[draftKey(uid, resumeID, kind)]; ok {
			res = append(res, d)
		}
	}
	return res, nil
}

func (m *memoryDraftRepo) Save(ctx context.Context, d domain.Draft) error {
	return m.SaveAll(ctx, []domain.Draft{d})
}

func (m *memoryDraftRepo) SaveAll(ctx context.Context, ds []domain.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	for _, d := range ds {
		d.Utime = time.Now()
		m.drafts[draftKey(d.Uid, d.ResumeID, d.Kind)] = d
	}
	return nil
}

func (m *memoryDraftRepo) DeleteByResume(ctx context.Context, uid, resumeID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, kind := range domain.Kinds() {
		delete(m.drafts, draftKey(uid, resumeID, kind))
	}
	return nil
}

func (m *memoryDraftRepo) FindStale(ctx context.Context, before time.Time, limit int) ([]int64, error) {
	return nil, nil
}

func (m *memoryDraftRepo) DeleteStale(ctx context.Context, ids []int64, before time.Time) (int64, error) {
	return 0, nil
}

type fixture struct {
	server *apiclienttest.Server
	drafts *memoryDraftRepo
	resume apiclient.Resume
	// 后端已有的两个技能
	goID   int64
	javaID int64
}

func newFixture(t *testing.T) *fixture {
	server := apiclienttest.NewServer()
	t.Cleanup(server.Close)
	r := server.AddResume(apiclient.Resume{Title: "Backend", Name: "Tom", Email: "tom@example.com"})
	return &fixture{
		server: server,
		drafts: newMemoryDraftRepo(),
		resume: r,
		goID:   server.AddSection(apiclient.PathSkills, r.ID, map[string]any{"name": "Go", "level": "expert"}),
		javaID: server.AddSection(apiclient.PathSkills, r.ID, map[string]any{"name": "Java", "level": "advanced"}),
	}
}

func (f *fixture) editor() EditorService {
	return NewEditorService(
		repository.NewResumeRepository(f.server),
		repository.NewSectionRepository(f.server),
		f.drafts,
		SyncConcurrency(2))
}

func (f *fixture) preview(converter pdf.Converter, cfg PDFConfig) PreviewService {
	return NewPreviewService(
		repository.NewResumeRepository(f.server),
		repository.NewSectionRepository(f.server),
		f.drafts,
		converter,
		cfg)
}

func skill(t *testing.T, fields string) json.RawMessage {
	data, err := domain.Normalize(domain.KindSkill, json.RawMessage(fields))
	require.NoError(t, err)
	return data
}

func TestEditorService_Load(t *testing.T) {
	f := newFixture(t)
	svc := f.editor()
	ctx := context.Background()

	editor, err := svc.Load(ctx, 1, f.resume.ID)
	require.NoError(t, err)
	assert.Equal(t, "Backend", editor.Resume.Title)
	require.Len(t, editor.Drafts, len(domain.Kinds()))
	skills := editor.Drafts[3]
	assert.Equal(t, domain.KindSkill, skills.Kind)
	assert.Equal(t, []domain.Item{
		domain.Persisted{ID: f.goID, Data: skill(t, `{"name":"Go","level":"expert"}`)},
		domain.Persisted{ID: f.javaID, Data: skill(t, `{"name":"Java","level":"advanced"}`)},
	}, skills.Items)
	assert.False(t, skills.Dirty())

	// 本地的修改会被覆盖
	_, err = svc.SaveDraft(ctx, 1, f.resume.ID, domain.KindSkill, nil)
	require.NoError(t, err)
	editor, err = svc.Load(ctx, 1, f.resume.ID)
	require.NoError(t, err)
	assert.Len(t, editor.Drafts[3].Items, 2)
	d, err := svc.Draft(ctx, 1, f.resume.ID, domain.KindSkill)
	require.NoError(t, err)
	assert.False(t, d.Dirty())

	_, err = svc.Load(ctx, 1, f.resume.ID+1000)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEditorService_SaveDraft(t *testing.T) {
	testCases := []struct {
		name    string
		kind    domain.Kind
		items   []domain.ItemInput
		wantErr error
		assert  func(t *testing.T, f *fixture, d domain.Draft)
	}{
		{
			name: "新增和修改",
			kind: domain.KindSkill,
			items: []domain.ItemInput{
				{Key: "k1", Fields: json.RawMessage(`{"name":"Rust"}`)},
				{Fields: json.RawMessage(`{"name":"Kotlin"}`)},
				{Key: "k1", Fields: json.RawMessage(`{"name":"Zig"}`)},
				{ID: 0, Key: "", Fields: json.RawMessage(`{"name":"C"}`)},
			},
			assert: func(t *testing.T, f *fixture, d domain.Draft) {
				require.Len(t, d.Items, 4)
				keys := make(map[string]struct{})
				for _, it := range d.Items {
					n, ok := it.(domain.New)
					require.True(t, ok)
					assert.NotEmpty(t, n.Key)
					keys[n.Key] = struct{}{}
				}
				// 重复的 key 会被替换掉
				assert.Len(t, keys, 4)
				assert.Equal(t, "k1", d.Items[0].(domain.New).Key)
				assert.JSONEq(t, `{"name":"Rust","category":"","level":"intermediate","years_of_experience":null}`,
					string(d.Items[0].Fields()))
				assert.True(t, d.Dirty())
				assert.Len(t, d.Snapshot, 2)
			},
		},
		{
			name: "保留已有条目",
			kind: domain.KindSkill,
			items: []domain.ItemInput{
				{ID: 0, Key: "new", Fields: json.RawMessage(`{"name":"Rust"}`)},
			},
			assert: func(t *testing.T, f *fixture, d domain.Draft) {
				assert.Equal(t, []domain.Item{
					domain.New{Key: "new", Data: skill(t, `{"name":"Rust"}`)},
				}, d.Items)
			},
		},
		{
			name: "字段不合法",
			kind: domain.KindSkill,
			items: []domain.ItemInput{
				{Fields: json.RawMessage(`{"name":""}`)},
			},
			wantErr: ErrInvalidSection,
		},
		{
			name: "ID 不合法",
			kind: domain.KindSkill,
			items: []domain.ItemInput{
				{ID: -1, Fields: json.RawMessage(`{"name":"Go"}`)},
			},
			wantErr: ErrInvalidSection,
		},
		{
			name:    "未知类型",
			kind:    domain.Kind("hobby"),
			wantErr: ErrUnknownKind,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			svc := f.editor()
			d, err := svc.SaveDraft(context.Background(), 1, f.resume.ID, tc.kind, tc.items)
			assert.ErrorIs(t, err, tc.wantErr)
			if err != nil {
				_, findErr := f.drafts.Find(context.Background(), 1, f.resume.ID, tc.kind)
				assert.ErrorIs(t, findErr, repository.ErrDraftNotFound)
				return
			}
			tc.assert(t, f, d)
			saved, err := f.drafts.Find(context.Background(), 1, f.resume.ID, tc.kind)
			require.NoError(t, err)
			assert.Equal(t, d.Items, saved.Items)
		})
	}
}

func TestEditorService_Discard(t *testing.T) {
	f := newFixture(t)
	svc := f.editor()
	ctx := context.Background()
	_, err := svc.SaveDraft(ctx, 1, f.resume.ID, domain.KindSkill, []domain.ItemInput{
		{Fields: json.RawMessage(`{"name":"Rust"}`)},
	})
	require.NoError(t, err)

	d, err := svc.Discard(ctx, 1, f.resume.ID, domain.KindSkill)
	require.NoError(t, err)
	assert.False(t, d.Dirty())
	assert.Len(t, d.Items, 2)
	assert.Len(t, f.server.Records(apiclient.PathSkills, f.resume.ID), 2)
}

func TestEditorService_Sync(t *testing.T) {
	ctx := context.Background()
	t.Run("新增修改删除", func(t *testing.T) {
		f := newFixture(t)
		svc := f.editor()
		_, err := svc.SaveDraft(ctx, 1, f.resume.ID, domain.KindSkill, []domain.ItemInput{
			{Key: "k1", Fields: json.RawMessage(`{"name":"Rust","category":"Language"}`)},
			{ID: f.goID, Fields: json.RawMessage(`{"name":"Go","level":"advanced"}`)},
		})
		require.NoError(t, err)

		d, err := svc.Sync(ctx, 1, f.resume.ID, domain.KindSkill)
		require.NoError(t, err)
		require.Len(t, d.Items, 2)
		created, ok := d.Items[0].(domain.Persisted)
		require.True(t, ok)
		assert.True(t, created.ID > f.javaID)
		assert.Equal(t, domain.Persisted{ID: f.goID, Data: skill(t, `{"name":"Go","level":"advanced"}`)}, d.Items[1])
		assert.False(t, d.Dirty())

		records := f.server.Records(apiclient.PathSkills, f.resume.ID)
		require.Len(t, records, 2)
		assert.Equal(t, "advanced", records[0]["level"])
		assert.Equal(t, "Rust", records[1]["name"])
		assert.Equal(t, 1, f.server.Calls(http.MethodDelete, fmt.Sprintf("/skills/%d/", f.javaID)))

		// 再同步一次只会更新，不会重复创建
		_, err = svc.Sync(ctx, 1, f.resume.ID, domain.KindSkill)
		require.NoError(t, err)
		assert.Equal(t, 1, f.server.Calls(http.MethodPost, "/skills/"))
		assert.Len(t, f.server.Records(apiclient.PathSkills, f.resume.ID), 2)
	})

	t.Run("没有修改", func(t *testing.T) {
		f := newFixture(t)
		svc := f.editor()
		d, err := svc.Sync(ctx, 1, f.resume.ID, domain.KindSkill)
		require.NoError(t, err)
		assert.Len(t, d.Items, 2)
		assert.Equal(t, 0, f.server.Calls(http.MethodPut, fmt.Sprintf("/skills/%d/", f.goID)))
	})

	t.Run("部分失败之后重试", func(t *testing.T) {
		f := newFixture(t)
		svc := f.editor()
		goPath := fmt.Sprintf("/skills/%d/", f.goID)
		javaPath := fmt.Sprintf("/skills/%d/", f.javaID)
		f.server.Fail(http.MethodPut, goPath, http.StatusInternalServerError)
		_, err := svc.SaveDraft(ctx, 1, f.resume.ID, domain.KindSkill, []domain.ItemInput{
			{ID: f.goID, Fields: json.RawMessage(`{"name":"Go","level":"advanced"}`)},
		})
		require.NoError(t, err)

		d, err := svc.Sync(ctx, 1, f.resume.ID, domain.KindSkill)
		assert.ErrorIs(t, err, ErrSyncFailed)
		assert.ErrorIs(t, err, apiclient.ErrServer)
		// 删除已经成功，快照里没有 Java 了，修改还留在草稿里
		assert.Equal(t, []domain.Persisted{
			{ID: f.goID, Data: skill(t, `{"name":"Go","level":"expert"}`)},
		}, d.Snapshot)
		assert.Equal(t, []domain.Item{
			domain.Persisted{ID: f.goID, Data: skill(t, `{"name":"Go","level":"advanced"}`)},
		}, d.Items)
		saved, err := f.drafts.Find(ctx, 1, f.resume.ID, domain.KindSkill)
		require.NoError(t, err)
		assert.Equal(t, d.Snapshot, saved.Snapshot)
		assert.Equal(t, d.Items, saved.Items)

		f.server.ClearFailures()
		d, err = svc.Sync(ctx, 1, f.resume.ID, domain.KindSkill)
		require.NoError(t, err)
		assert.False(t, d.Dirty())
		assert.Equal(t, 1, f.server.Calls(http.MethodDelete, javaPath))
		assert.Equal(t, 2, f.server.Calls(http.MethodPut, goPath))
	})

	t.Run("后端已经删掉的条目", func(t *testing.T) {
		f := newFixture(t)
		svc := f.editor()
		_, err := svc.SaveDraft(ctx, 1, f.resume.ID, domain.KindSkill, []domain.ItemInput{
			{ID: f.goID, Fields: json.RawMessage(`{"name":"Go","level":"expert"}`)},
		})
		require.NoError(t, err)
		err = apiclient.Sections[json.RawMessage](f.server.Session(1), apiclient.PathSkills).Delete(ctx, f.javaID)
		require.NoError(t, err)

		d, err := svc.Sync(ctx, 1, f.resume.ID, domain.KindSkill)
		require.NoError(t, err)
		assert.Len(t, d.Snapshot, 1)
	})

	t.Run("保存草稿失败", func(t *testing.T) {
		f := newFixture(t)
		svc := f.editor()
		_, err := svc.SaveDraft(ctx, 1, f.resume.ID, domain.KindSkill, nil)
		require.NoError(t, err)
		f.drafts.saveErr = errors.New("db error")
		_, err = svc.Sync(ctx, 1, f.resume.ID, domain.KindSkill)
		assert.EqualError(t, err, "db error")
	})
}

func TestPreviewService_Preview(t *testing.T) {
	f := newFixture(t)
	f.server.AddSection(apiclient.PathEducation, f.resume.ID, map[string]any{
		"school": "MIT", "degree": "BS", "field_of_study": "CS",
		"start_date": "2015-09-01", "end_date": nil, "gpa": "3.80",
	})
	ctx := context.Background()
	_, err := f.editor().SaveDraft(ctx, 1, f.resume.ID, domain.KindSkill, []domain.ItemInput{
		{ID: f.goID, Fields: json.RawMessage(`{"name":"Go","category":"Language"}`)},
		{Fields: json.RawMessage(`{"name":"Rust","category":"Language"}`)},
		{Fields: json.RawMessage(`{"name":"MySQL","category":"Database"}`)},
	})
	require.NoError(t, err)

	html, err := f.preview(nil, PDFConfig{}).Preview(ctx, 1, f.resume.ID)
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Tom</h1>")
	assert.Contains(t, html, "EDUCATION")
	assert.Contains(t, html, "BS in CS")
	assert.Contains(t, html, "2015 - Present")
	assert.Contains(t, html, "GPA: 3.80")
	// 用的是还没有同步的草稿
	assert.Contains(t, html, "TECHNICAL SKILLS")
	assert.Contains(t, html, "<strong>Language:</strong> Go, Rust")
	assert.Contains(t, html, "<strong>Database:</strong> MySQL")
	assert.NotContains(t, html, "Java")
	assert.NotContains(t, html, "PROJECTS")
	assert.NotContains(t, html, "PROFESSIONAL SUMMARY")

	_, err = f.preview(nil, PDFConfig{}).Preview(ctx, 1, f.resume.ID+1000)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPreviewService_PDF(t *testing.T) {
	testCases := []struct {
		name    string
		title   string
		mode    string
		mock    func(ctrl *gomock.Controller) pdf.Converter
		wantPDF domain.PDF
		wantErr error
	}{
		{
			name:  "后端生成",
			title: "Backend",
			mode:  PDFModeUpstream,
			mock: func(ctrl *gomock.Controller) pdf.Converter {
				return pdfmocks.NewMockConverter(ctrl)
			},
			wantPDF: domain.PDF{Filename: "Backend.pdf", Data: []byte("%PDF-1.4 Backend")},
		},
		{
			name:  "本地生成",
			title: "My Resume!",
			mode:  PDFModeLocal,
			mock: func(ctrl *gomock.Controller) pdf.Converter {
				c := pdfmocks.NewMockConverter(ctrl)
				c.EXPECT().ConvertHTMLToPDF(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, html string, opts ...pdf.Option) ([]byte, error) {
						if len(opts) != 1 {
							return nil, errors.New("没有指定纸张")
						}
						var o pdf.Options
						opts[0](&o)
						if o.PaperWidthInch == 0 {
							return nil, errors.New("纸张大小不对")
						}
						return []byte("local:" + html[:15]), nil
					})
				return c
			},
			wantPDF: domain.PDF{Filename: "My_Resume.pdf", Data: []byte("local:<!DOCTYPE html>")},
		},
		{
			name:  "本地生成失败",
			title: "Backend",
			mode:  PDFModeLocal,
			mock: func(ctrl *gomock.Controller) pdf.Converter {
				c := pdfmocks.NewMockConverter(ctrl)
				c.EXPECT().ConvertHTMLToPDF(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, context.DeadlineExceeded)
				return c
			},
			wantErr: context.DeadlineExceeded,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			f := newFixture(t)
			r := f.server.AddResume(apiclient.Resume{Title: tc.title, Name: "Tom"})
			svc := f.preview(tc.mock(ctrl), PDFConfig{Mode: tc.mode})
			res, err := svc.PDF(context.Background(), 1, r.ID)
			assert.ErrorIs(t, err, tc.wantErr)
			if err != nil {
				return
			}
			assert.Equal(t, tc.wantPDF, res)
		})
	}
}

func TestResumeService_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.editor().Load(ctx, 1, f.resume.ID)
	require.NoError(t, err)

	svc := NewResumeService(repository.NewResumeRepository(f.server), f.drafts)
	require.NoError(t, svc.Delete(ctx, 1, f.resume.ID))
	ds, err := f.drafts.FindByResume(ctx, 1, f.resume.ID)
	require.NoError(t, err)
	assert.Empty(t, ds)

	err = svc.Delete(ctx, 1, f.resume.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
