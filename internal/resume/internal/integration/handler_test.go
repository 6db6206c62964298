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

//go:build e2e

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ecodeclub/ekit/iox"
	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/resumebuilder/internal/pkg/apiclient"
	"github.com/ecodeclub/resumebuilder/internal/pkg/apiclient/apiclienttest"
	"github.com/ecodeclub/resumebuilder/internal/resume"
	"github.com/ecodeclub/resumebuilder/internal/resume/internal/repository/dao"
	"github.com/ecodeclub/resumebuilder/internal/resume/internal/web"
	"github.com/ecodeclub/resumebuilder/internal/test"
	testioc "github.com/ecodeclub/resumebuilder/internal/test/ioc"
	"github.com/ego-component/egorm"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/econf"
	"github.com/gotomicro/ego/server/egin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const uid = 42

type HandlerTestSuite struct {
	suite.Suite
	db       *egorm.Component
	server   *egin.Component
	upstream *apiclienttest.Server
}

func (s *HandlerTestSuite) SetupSuite() {
	s.upstream = apiclienttest.NewServer()
	s.db = testioc.InitDB()
	econf.Set("resume.pdf", map[string]any{"mode": "upstream"})
	module := resume.InitModule(s.db, s.upstream)

	econf.Set("server", map[string]any{"contextTimeout": "5s"})
	server := egin.Load("server").Build()
	server.Use(func(ctx *gin.Context) {
		ctx.Set("_session", session.NewMemorySession(session.Claims{
			Uid: uid,
		}))
	})
	module.Hdl.PrivateRoutes(server.Engine)
	s.server = server
}

func (s *HandlerTestSuite) TearDownSuite() {
	s.upstream.Close()
}

func (s *HandlerTestSuite) TearDownTest() {
	err := s.db.Exec("TRUNCATE TABLE `resume_section_drafts`").Error
	require.NoError(s.T(), err)
	s.upstream.ClearFailures()
}

func doPost[T any](t *testing.T, server http.Handler, path string, body any) test.Result[T] {
	req, err := http.NewRequest(http.MethodPost, path, iox.NewJSONReader(body))
	require.NoError(t, err)
	req.Header.Set("content-type", "application/json")
	recorder := test.NewJSONResponseRecorder[T]()
	server.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)
	return recorder.MustScan()
}

func (s *HandlerTestSuite) TestResumeCRUD() {
	t := s.T()
	created := doPost[web.Resume](t, s.server, "/resume/create", web.Resume{
		Title: "Backend", Name: "Tom", Email: "tom@example.com",
	})
	require.Zero(t, created.Code)
	require.True(t, created.Data.Id > 0)
	assert.Equal(t, "Tom", created.Data.Name)

	res := doPost[web.Resume](t, s.server, "/resume/create", web.Resume{Title: " "})
	assert.Equal(t, test.Result[web.Resume]{Code: 515005, Msg: "标题不能为空"}, res)

	detail := doPost[web.Resume](t, s.server, "/resume/detail", web.IdReq{Id: created.Data.Id})
	assert.Equal(t, created.Data, detail.Data)

	updated := created.Data
	updated.Title = "Backend Engineer"
	saved := doPost[web.Resume](t, s.server, "/resume/save", updated)
	assert.Equal(t, "Backend Engineer", saved.Data.Title)

	dup := doPost[web.Resume](t, s.server, "/resume/duplicate", web.IdReq{Id: created.Data.Id})
	assert.Equal(t, "Backend Engineer (Copy)", dup.Data.Title)

	list := doPost[[]web.Resume](t, s.server, "/resume/list", nil)
	assert.GreaterOrEqual(t, len(list.Data), 2)

	deleted := doPost[any](t, s.server, "/resume/delete", web.IdReq{Id: dup.Data.Id})
	assert.Equal(t, "OK", deleted.Msg)

	missing := doPost[web.Resume](t, s.server, "/resume/detail", web.IdReq{Id: dup.Data.Id})
	assert.Equal(t, test.Result[web.Resume]{Code: 515002, Msg: "简历不存在"}, missing)
}

func (s *HandlerTestSuite) TestEditAndSync() {
	t := s.T()
	r := s.upstream.AddResume(apiclient.Resume{Title: "Backend", Name: "Tom"})
	goID := s.upstream.AddSection(apiclient.PathSkills, r.ID, map[string]any{"name": "Go", "level": "expert"})
	javaID := s.upstream.AddSection(apiclient.PathSkills, r.ID, map[string]any{"name": "Java", "level": "advanced"})

	editor := doPost[web.Editor](t, s.server, "/resume/editor", web.IdReq{Id: r.ID})
	require.Zero(t, editor.Code)
	assert.Equal(t, "Tom", editor.Data.Resume.Name)
	require.Len(t, editor.Data.Sections, 6)
	skills := editor.Data.Sections[3]
	assert.Equal(t, "skill", skills.Kind)
	assert.False(t, skills.Dirty)
	require.Len(t, skills.Items, 2)
	assert.Equal(t, goID, skills.Items[0].Id)

	var count int64
	err := s.db.Model(&dao.SectionDraft{}).Where("resume_id = ?", r.ID).Count(&count).Error
	require.NoError(t, err)
	assert.Equal(t, int64(6), count)

	invalid := doPost[web.Draft](t, s.server, "/resume/section/draft/save", web.SaveDraftReq{
		ResumeId: r.ID,
		Kind:     "skill",
		Items:    []web.Item{{Fields: json.RawMessage(`{"name":"Rust","level":"god"}`)}},
	})
	assert.Equal(t, 515003, invalid.Code)

	unknown := doPost[web.Draft](t, s.server, "/resume/section/draft", web.SectionReq{ResumeId: r.ID, Kind: "hobby"})
	assert.Equal(t, test.Result[web.Draft]{Code: 515004, Msg: "未知的条目类型"}, unknown)

	// 删掉 Java，修改 Go，新增 Rust
	draft := doPost[web.Draft](t, s.server, "/resume/section/draft/save", web.SaveDraftReq{
		ResumeId: r.ID,
		Kind:     "skill",
		Items: []web.Item{
			{Id: goID, Fields: json.RawMessage(`{"name":"Go","level":"advanced"}`)},
			{Key: "k1", Fields: json.RawMessage(`{"name":"Rust"}`)},
		},
	})
	require.Zero(t, draft.Code)
	assert.True(t, draft.Data.Dirty)
	assert.Equal(t, "k1", draft.Data.Items[1].Key)

	// 预览用的是草稿
	preview := doPost[web.PreviewResp](t, s.server, "/resume/preview", web.IdReq{Id: r.ID})
	assert.Contains(t, preview.Data.HTML, "Rust")
	assert.NotContains(t, preview.Data.HTML, "Java")
	assert.Len(t, s.upstream.Records(apiclient.PathSkills, r.ID), 2)

	javaPath := fmt.Sprintf("/skills/%d/", javaID)
	s.upstream.Fail(http.MethodDelete, javaPath, http.StatusInternalServerError)
	failed := doPost[web.Draft](t, s.server, "/resume/section/sync", web.SectionReq{ResumeId: r.ID, Kind: "skill"})
	assert.Equal(t, 515006, failed.Code)
	assert.True(t, failed.Data.Dirty)
	require.Len(t, failed.Data.Items, 2)
	assert.Equal(t, "k1", failed.Data.Items[1].Key)
	assert.Len(t, s.upstream.Records(apiclient.PathSkills, r.ID), 2)
	assert.Zero(t, s.upstream.Calls(http.MethodPut, fmt.Sprintf("/skills/%d/", goID)))

	s.upstream.ClearFailures()
	synced := doPost[web.Draft](t, s.server, "/resume/section/sync", web.SectionReq{ResumeId: r.ID, Kind: "skill"})
	require.Zero(t, synced.Code)
	assert.False(t, synced.Data.Dirty)
	require.Len(t, synced.Data.Items, 2)
	assert.Equal(t, goID, synced.Data.Items[0].Id)
	assert.True(t, synced.Data.Items[1].Id > 0)
	assert.Equal(t, 2, s.upstream.Calls(http.MethodDelete, javaPath))
	assert.Equal(t, 1, s.upstream.Calls(http.MethodPut, fmt.Sprintf("/skills/%d/", goID)))
	records := s.upstream.Records(apiclient.PathSkills, r.ID)
	require.Len(t, records, 2)
	assert.Equal(t, "advanced", records[0]["level"])
	assert.Equal(t, "Rust", records[1]["name"])

	// 已经同步过，再次同步不会访问后端
	again := doPost[web.Draft](t, s.server, "/resume/section/sync", web.SectionReq{ResumeId: r.ID, Kind: "skill"})
	require.Zero(t, again.Code)
	assert.Equal(t, 1, s.upstream.Calls(http.MethodPut, fmt.Sprintf("/skills/%d/", goID)))

	_ = doPost[web.Draft](t, s.server, "/resume/section/draft/save", web.SaveDraftReq{
		ResumeId: r.ID,
		Kind:     "skill",
		Items:    []web.Item{},
	})
	discarded := doPost[web.Draft](t, s.server, "/resume/section/draft/discard", web.SectionReq{ResumeId: r.ID, Kind: "skill"})
	assert.False(t, discarded.Data.Dirty)
	assert.Len(t, discarded.Data.Items, 2)

	deleted := doPost[any](t, s.server, "/resume/delete", web.IdReq{Id: r.ID})
	assert.Equal(t, "OK", deleted.Msg)
	err = s.db.Model(&dao.SectionDraft{}).Where("resume_id = ?", r.ID).Count(&count).Error
	require.NoError(t, err)
	assert.Zero(t, count)
}

func (s *HandlerTestSuite) TestPDF() {
	t := s.T()
	r := s.upstream.AddResume(apiclient.Resume{Title: "My Resume", Name: "Tom"})

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("/resume/pdf?id=%d", r.ID), nil)
	require.NoError(t, err)
	recorder := httptest.NewRecorder()
	s.server.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/pdf", recorder.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=My_Resume.pdf`, recorder.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4 My Resume", recorder.Body.String())
}

func TestResumeHandler(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
