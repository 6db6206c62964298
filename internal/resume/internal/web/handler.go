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

package web

import (
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/resumebuilder/internal/resume/internal/domain"
	"github.com/ecodeclub/resumebuilder/internal/resume/internal/errs"
	"github.com/ecodeclub/resumebuilder/internal/resume/internal/service"
	"github.com/gin-gonic/gin"
)

var _ ginx.Handler = &Handler{}

type Handler struct {
	resumeSvc  service.ResumeService
	editorSvc  service.EditorService
	previewSvc service.PreviewService
}

func NewHandler(resumeSvc service.ResumeService,
	editorSvc service.EditorService,
	previewSvc service.PreviewService) *Handler {
	return &Handler{
		resumeSvc:  resumeSvc,
		editorSvc:  editorSvc,
		previewSvc: previewSvc,
	}
}

func (h *Handler) PublicRoutes(server *gin.Engine) {}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/resume")
	g.POST("/list", ginx.S(h.List))
	g.POST("/detail", ginx.BS[IdReq](h.Detail))
	g.POST("/create", ginx.BS[Resume](h.Create))
	g.POST("/save", ginx.BS[Resume](h.Save))
	g.POST("/delete", ginx.BS[IdReq](h.Delete))
	g.POST("/duplicate", ginx.BS[IdReq](h.Duplicate))
	g.POST("/editor", ginx.BS[IdReq](h.Editor))
	g.POST("/preview", ginx.BS[IdReq](h.Preview))
	g.GET("/pdf", ginx.S(h.PDF))

	section := g.Group("/section")
	section.POST("/draft", ginx.BS[SectionReq](h.Draft))
	section.POST("/draft/save", ginx.BS[SaveDraftReq](h.SaveDraft))
	section.POST("/draft/discard", ginx.BS[SectionReq](h.Discard))
	section.POST("/sync", ginx.BS[SectionReq](h.Sync))
}

func (h *Handler) List(ctx *ginx.Context, sess session.Session) (ginx.Result, error) {
	rs, err := h.resumeSvc.List(ctx, sess.Claims().Uid)
	if err != nil {
		return errorResult(err)
	}
	return ginx.Result{
		Data: slice.Map(rs, func(idx int, src domain.Resume) Resume {
			return newResume(src)
		}),
	}, nil
}

func (h *Handler) Detail(ctx *ginx.Context, req IdReq, sess session.Session) (ginx.Result, error) {
	r, err := h.resumeSvc.Detail(ctx, sess.Claims().Uid, req.Id)
	if err != nil {
		return errorResult(err)
	}
	return ginx.Result{Data: newResume(r)}, nil
}

func (h *Handler) Create(ctx *ginx.Context, req Resume, sess session.Session) (ginx.Result, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return codeResult(errs.InvalidInput.WithMsg("标题不能为空")), nil
	}
	r, err := h.resumeSvc.Create(ctx, sess.Claims().Uid, req.toDomain())
	if err != nil {
		return errorResult(err)
	}
	return ginx.Result{Data: newResume(r)}, nil
}

func (h *Handler) Save(ctx *ginx.Context, req Resume, sess session.Session) (ginx.Result, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Id <= 0 || req.Title == "" {
		return codeResult(errs.InvalidInput.WithMsg("id 和标题不能为空")), nil
	}
	r, err := h.resumeSvc.Save(ctx, sess.Claims().Uid, req.toDomain())
	if err != nil {
		return errorResult(err)
	}
	return ginx.Result{Data: newResume(r)}, nil
}

func (h *Handler) Delete(ctx *ginx.Context, req IdReq, sess session.Session) (ginx.Result, error) {
	err := h.resumeSvc.Delete(ctx, sess.Claims().Uid, req.Id)
	if err != nil {
		return errorResult(err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *Handler) Duplicate(ctx *ginx.Context, req IdReq, sess session.Session) (ginx.Result, error) {
	r, err := h.resumeSvc.Duplicate(ctx, sess.Claims().Uid, req.Id)
	if err != nil {
		return errorResult(err)
	}
	return ginx.Result{Data: newResume(r)}, nil
}

// Editor 打开编辑器，丢弃本地所有没有保存的修改
func (h *Handler) Editor(ctx *ginx.Context, req IdReq, sess session.Session) (ginx.Result, error) {
	e, err := h.editorSvc.Load(ctx, sess.Claims().Uid, req.Id)
	if err != nil {
		return errorResult(err)
	}
	return ginx.Result{
		Data: Editor{
			Resume:   newResume(e.Resume),
			Sections: slice.Map(e.Drafts, func(idx int, src domain.Draft) Draft { return newDraft(src) }),
		},
	}, nil
}

func (h *Handler) Draft(ctx *ginx.Context, req SectionReq, sess session.Session) (ginx.Result, error) {
	d, err := h.editorSvc.Draft(ctx, sess.Claims().Uid, req.ResumeId, domain.Kind(req.Kind))
	if err != nil {
		return errorResult(err)
	}
	return ginx.Result{Data: newDraft(d)}, nil
}

func (h *Handler) SaveDraft(ctx *ginx.Context, req SaveDraftReq, sess session.Session) (ginx.Result, error) {
	d, err := h.editorSvc.SaveDraft(ctx, sess.Claims().Uid, req.ResumeId, domain.Kind(req.Kind),
		slice.Map(req.Items, func(idx int, src Item) domain.ItemInput { return src.toDomain() }))
	if err != nil {
		return errorResult(err)
	}
	return ginx.Result{Data: newDraft(d)}, nil
}

func (h *Handler) Discard(ctx *ginx.Context, req SectionReq, sess session.Session) (ginx.Result, error) {
	d, err := h.editorSvc.Discard(ctx, sess.Claims().Uid, req.ResumeId, domain.Kind(req.Kind))
	if err != nil {
		return errorResult(err)
	}
	return ginx.Result{Data: newDraft(d)}, nil
}

// Sync 失败的时候同样返回草稿，前端据此展示哪些已经保存
func (h *Handler) Sync(ctx *ginx.Context, req SectionReq, sess session.Session) (ginx.Result, error) {
	uid := sess.Claims().Uid
	d, err := h.editorSvc.Sync(ctx, uid, req.ResumeId, domain.Kind(req.Kind))
	switch {
	case err == nil:
		return ginx.Result{Data: newDraft(d)}, nil
	case errors.Is(err, service.ErrUnauthenticated):
		return errorResult(err)
	case errors.Is(err, service.ErrSyncFailed):
		// service 里已经记过日志了
		return ginx.Result{
			Code: errs.SyncFailed.Code,
			Msg:  errs.SyncFailed.Msg,
			Data: newDraft(d),
		}, nil
	default:
		return errorResult(err)
	}
}

func (h *Handler) Preview(ctx *ginx.Context, req IdReq, sess session.Session) (ginx.Result, error) {
	html, err := h.previewSvc.Preview(ctx, sess.Claims().Uid, req.Id)
	if err != nil {
		return errorResult(err)
	}
	return ginx.Result{Data: PreviewResp{HTML: html}}, nil
}

// PDF 直接返回文件
func (h *Handler) PDF(ctx *ginx.Context, sess session.Session) (ginx.Result, error) {
	id, err := strconv.ParseInt(ctx.Context.Query("id"), 10, 64)
	if err != nil || id <= 0 {
		return codeResult(errs.InvalidInput.WithMsg("id 不合法")), nil
	}
	res, err := h.previewSvc.PDF(ctx, sess.Claims().Uid, id)
	if err != nil {
		return errorResult(err)
	}
	ctx.Context.Header("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename}))
	ctx.Context.Data(http.StatusOK, "application/pdf", res.Data)
	return ginx.Result{}, ginx.ErrNoResponse
}
