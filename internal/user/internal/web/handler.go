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
	"strings"

	regexp "github.com/dlclark/regexp2"
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/resumebuilder/internal/user/internal/domain"
	"github.com/ecodeclub/resumebuilder/internal/user/internal/errs"
	"github.com/ecodeclub/resumebuilder/internal/user/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/elog"
)

const (
	emailRegexPattern    = `^\w+([-+.]\w+)*@\w+([-.]\w+)*\.\w+([-.]\w+)*$`
	passwordRegexPattern = `^.{8,}$`
)

var _ ginx.Handler = &Handler{}

type Handler struct {
	userSvc     service.UserService
	emailExp    *regexp.Regexp
	passwordExp *regexp.Regexp
	logger      *elog.Component
}

func NewHandler(userSvc service.UserService) *Handler {
	return &Handler{
		userSvc:     userSvc,
		emailExp:    regexp.MustCompile(emailRegexPattern, regexp.None),
		passwordExp: regexp.MustCompile(passwordRegexPattern, regexp.None),
		logger:      elog.DefaultLogger,
	}
}

func (h *Handler) PublicRoutes(server *gin.Engine) {
	users := server.Group("/users")
	users.POST("/register", ginx.B[RegisterReq](h.Register))
	users.POST("/login", ginx.B[LoginReq](h.Login))
	users.POST("/token/refresh", ginx.W(h.RefreshAccessToken))
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	users := server.Group("/users")
	users.POST("/logout", ginx.S(h.Logout))
	users.GET("/me", ginx.S(h.Me))
	users.GET("/profile", ginx.S(h.Profile))
	users.POST("/profile", ginx.BS[EditProfileReq](h.EditProfile))
}

func (h *Handler) Register(ctx *ginx.Context, req RegisterReq) (ginx.Result, error) {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		return codeResult(errs.InvalidInput.WithMsg("用户名不能为空")), nil
	}
	ok, err := h.emailExp.MatchString(req.Email)
	if err != nil {
		return systemErrorResult, err
	}
	if !ok {
		return codeResult(errs.InvalidInput.WithMsg("邮箱格式不正确")), nil
	}
	ok, err = h.passwordExp.MatchString(req.Password)
	if err != nil {
		return systemErrorResult, err
	}
	if !ok {
		return codeResult(errs.InvalidInput.WithMsg("密码长度不能小于 8 位")), nil
	}
	u, err := h.userSvc.Register(ctx, domain.Registration{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errorResult(err)
	}
	return ginx.Result{Data: newUser(u)}, nil
}

func (h *Handler) Login(ctx *ginx.Context, req LoginReq) (ginx.Result, error) {
	if req.Username == "" || req.Password == "" {
		return codeResult(errs.InvalidInput.WithMsg("用户名和密码不能为空")), nil
	}
	u, err := h.userSvc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return errorResult(err)
	}
	_, err = session.NewSessionBuilder(ctx, u.Id).
		SetJwtData(map[string]string{"username": u.Username}).
		Build()
	if err != nil {
		// 会话建立失败，后端的 token 也不要留着
		if err1 := h.userSvc.Logout(ctx, u.Id); err1 != nil {
			h.logger.Error("清理 token 失败", elog.FieldErr(err1), elog.Int64("uid", u.Id))
		}
		return systemErrorResult, err
	}
	return ginx.Result{Data: newUser(u)}, nil
}

func (h *Handler) RefreshAccessToken(ctx *ginx.Context) (ginx.Result, error) {
	err := session.RenewAccessToken(ctx)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *Handler) Logout(ctx *ginx.Context, sess session.Session) (ginx.Result, error) {
	err := h.userSvc.Logout(ctx, sess.Claims().Uid)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *Handler) Me(ctx *ginx.Context, sess session.Session) (ginx.Result, error) {
	u, err := h.userSvc.Me(ctx, sess.Claims().Uid)
	if err != nil {
		return errorResult(err)
	}
	return ginx.Result{Data: newUser(u)}, nil
}

func (h *Handler) Profile(ctx *ginx.Context, sess session.Session) (ginx.Result, error) {
	p, err := h.userSvc.Profile(ctx, sess.Claims().Uid)
	if err != nil {
		return errorResult(err)
	}
	return ginx.Result{Data: newProfile(p)}, nil
}

func (h *Handler) EditProfile(ctx *ginx.Context, req EditProfileReq, sess session.Session) (ginx.Result, error) {
	p, err := h.userSvc.UpdateProfile(ctx, sess.Claims().Uid,
		strings.TrimSpace(req.City), strings.TrimSpace(req.Country))
	if err != nil {
		return errorResult(err)
	}
	return ginx.Result{Data: newProfile(p)}, nil
}
