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

// Package apiclienttest 内存里的简历后端，只实现简历和条目相关的接口，测试用。
package apiclienttest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ecodeclub/resumebuilder/internal/pkg/apiclient"
	"github.com/gin-gonic/gin"
)

const (
	AccessToken  = "test-access"
	RefreshToken = "test-refresh"
)

var sectionNames = []string{"education", "experience", "projects", "skills", "certifications", "achievements"}

type Server struct {
	*httptest.Server
	Client *apiclient.Client

	mu       sync.Mutex
	nextID   int64
	resumes  map[int64]apiclient.Resume
	sections map[string]map[int64]map[string]any
	calls    map[string]int
	failures map[string]int
}

func NewServer() *Server {
	s := &Server{
		nextID:   100,
		resumes:  make(map[int64]apiclient.Resume),
		sections: make(map[string]map[int64]map[string]any, len(sectionNames)),
		calls:    make(map[string]int),
		failures: make(map[string]int),
	}
	for _, name := range sectionNames {
		s.sections[name] = make(map[int64]map[string]any)
	}
	s.Server = httptest.NewServer(s.handler())
	s.Client = apiclient.NewClient(apiclient.Config{
		BaseURL: s.URL + "/api",
		Timeout: time.Second * 3,
	})
	return s
}

// Session 所有用户都用同一个合法的 token
func (s *Server) Session(uid int64) *apiclient.Session {
	store := apiclient.NewMemoryTokenStore()
	_ = store.Save(context.Background(), apiclient.Tokens{Access: AccessToken, Refresh: RefreshToken})
	return s.Client.Session(store)
}

func (s *Server) AddResume(r apiclient.Resume) apiclient.Resume {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addResume(r)
}

func (s *Server) addResume(r apiclient.Resume) apiclient.Resume {
	s.nextID++
	r.ID = s.nextID
	r.UUID = fmt.Sprintf("uuid-%d", r.ID)
	r.CreatedAt = "2024-01-01T00:00:00Z"
	r.UpdatedAt = r.CreatedAt
	s.resumes[r.ID] = r
	return r
}

func (s *Server) Resume(id int64) (apiclient.Resume, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resumes[id]
	return r, ok
}

// AddSection path 可以是 apiclient.PathSkills 这种
func (s *Server) AddSection(path string, resumeID int64, fields map[string]any) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addSection(strings.Trim(path, "/"), resumeID, fields)
}

func (s *Server) addSection(name string, resumeID int64, fields map[string]any) int64 {
	s.nextID++
	rec := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		rec[k] = v
	}
	rec["id"] = s.nextID
	rec["resume"] = resumeID
	rec["created_at"] = "2024-01-01T00:00:00Z"
	s.sections[name][s.nextID] = rec
	return s.nextID
}

// Records 某份简历下的条目，按照 id 升序
func (s *Server) Records(path string, resumeID int64) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records(strings.Trim(path, "/"), resumeID)
}

func (s *Server) records(name string, resumeID int64) []map[string]any {
	res := make([]map[string]any, 0, 4)
	for _, rec := range s.sections[name] {
		if toInt64(rec["resume"]) == resumeID {
			res = append(res, rec)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		return toInt64(res[i]["id"]) < toInt64(res[j]["id"])
	})
	return res
}

// Fail 之后对 method path 的请求都返回 status，path 不带 /api 前缀
func (s *Server) Fail(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = status
}

func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]int)
}

// Calls 收到的 method path 请求次数
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method+" "+path]
}

func (s *Server) handler() http.Handler {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api", s.intercept, s.auth)
	api.GET("/resumes/", s.listResumes)
	api.POST("/resumes/", s.createResume)
	api.GET("/resumes/:id/", s.getResume)
	api.PUT("/resumes/:id/", s.updateResume)
	api.DELETE("/resumes/:id/", s.deleteResume)
	api.POST("/resumes/:id/duplicate/", s.duplicateResume)
	api.GET("/resumes/:id/download-pdf/", s.downloadPDF)
	for _, name := range sectionNames {
		name := name
		api.GET("/"+name+"/", func(ctx *gin.Context) { s.listSections(ctx, name) })
		api.POST("/"+name+"/", func(ctx *gin.Context) { s.createSection(ctx, name) })
		api.PUT("/"+name+"/:id/", func(ctx *gin.Context) { s.updateSection(ctx, name) })
		api.DELETE("/"+name+"/:id/", func(ctx *gin.Context) { s.deleteSection(ctx, name) })
	}
	return r
}

func (s *Server) intercept(ctx *gin.Context) {
	key := ctx.Request.Method + " " + strings.TrimPrefix(ctx.Request.URL.Path, "/api")
	s.mu.Lock()
	s.calls[key]++
	status, ok := s.failures[key]
	s.mu.Unlock()
	if ok {
		ctx.AbortWithStatusJSON(status, gin.H{"detail": "injected failure"})
	}
}

func (s *Server) auth(ctx *gin.Context) {
	if ctx.GetHeader("Authorization") != "Bearer "+AccessToken {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Given token not valid for any token type"})
	}
}

func notFound(ctx *gin.Context) {
	ctx.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
}

func (s *Server) listResumes(ctx *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]apiclient.Resume, 0, len(s.resumes))
	for _, r := range s.resumes {
		res = append(res, r)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	ctx.JSON(http.StatusOK, res)
}

func (s *Server) createResume(ctx *gin.Context) {
	var r apiclient.Resume
	if err := ctx.BindJSON(&r); err != nil {
		return
	}
	if r.Title == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"title": []string{"This field may not be blank."}})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx.JSON(http.StatusCreated, s.addResume(r))
}

func (s *Server) getResume(ctx *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resumes[paramID(ctx)]
	if !ok {
		notFound(ctx)
		return
	}
	ctx.JSON(http.StatusOK, r)
}

func (s *Server) updateResume(ctx *gin.Context) {
	var r apiclient.Resume
	if err := ctx.BindJSON(&r); err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.resumes[paramID(ctx)]
	if !ok {
		notFound(ctx)
		return
	}
	r.ID = old.ID
	r.UUID = old.UUID
	r.CreatedAt = old.CreatedAt
	r.UpdatedAt = "2024-01-02T00:00:00Z"
	s.resumes[r.ID] = r
	ctx.JSON(http.StatusOK, r)
}

func (s *Server) deleteResume(ctx *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := paramID(ctx)
	if _, ok := s.resumes[id]; !ok {
		notFound(ctx)
		return
	}
	delete(s.resumes, id)
	for _, recs := range s.sections {
		for rid, rec := range recs {
			if toInt64(rec["resume"]) == id {
				delete(recs, rid)
			}
		}
	}
	ctx.Status(http.StatusNoContent)
}

func (s *Server) duplicateResume(ctx *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := paramID(ctx)
	old, ok := s.resumes[id]
	if !ok {
		notFound(ctx)
		return
	}
	old.Title = old.Title + " (Copy)"
	r := s.addResume(old)
	for _, name := range sectionNames {
		for _, rec := range s.records(name, id) {
			s.addSection(name, r.ID, rec)
		}
	}
	ctx.JSON(http.StatusCreated, r)
}

func (s *Server) downloadPDF(ctx *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resumes[paramID(ctx)]
	if !ok {
		notFound(ctx)
		return
	}
	ctx.Data(http.StatusOK, "application/pdf", []byte("%PDF-1.4 "+r.Title))
}

func (s *Server) listSections(ctx *gin.Context, name string) {
	resumeID, _ := strconv.ParseInt(ctx.Query("resume"), 10, 64)
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx.JSON(http.StatusOK, s.records(name, resumeID))
}

func (s *Server) createSection(ctx *gin.Context, name string) {
	var rec map[string]any
	if err := ctx.BindJSON(&rec); err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	resumeID := toInt64(rec["resume"])
	if _, ok := s.resumes[resumeID]; !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"resume": []string{"Invalid pk - object does not exist."}})
		return
	}
	id := s.addSection(name, resumeID, rec)
	ctx.JSON(http.StatusCreated, s.sections[name][id])
}

func (s *Server) updateSection(ctx *gin.Context, name string) {
	var rec map[string]any
	if err := ctx.BindJSON(&rec); err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := paramID(ctx)
	old, ok := s.sections[name][id]
	if !ok {
		notFound(ctx)
		return
	}
	rec["id"] = id
	rec["created_at"] = old["created_at"]
	s.sections[name][id] = rec
	ctx.JSON(http.StatusOK, rec)
}

func (s *Server) deleteSection(ctx *gin.Context, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := paramID(ctx)
	if _, ok := s.sections[name][id]; !ok {
		notFound(ctx)
		return
	}
	delete(s.sections[name], id)
	ctx.Status(http.StatusNoContent)
}

func paramID(ctx *gin.Context) int64 {
	id, _ := strconv.ParseInt(ctx.Param("id"), 10, 64)
	return id
}

func toInt64(v any) int64 {
	switch val := v.(type) {
	case int64:
		return val
	case float64:
		return int64(val)
	case int:
		return int64(val)
	default:
		return 0
	}
}
