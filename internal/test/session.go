package test

import (
	"errors"

	"github.com/ecodeclub/ginx/gctx"
	"github.com/ecodeclub/ginx/session"
)

// 测试里面不依赖 redis，登录拿到的是内存 session
func init() {
	session.SetDefaultProvider(&SessionProvider{})
}

type SessionProvider struct {
}

func (s *SessionProvider) NewSession(ctx *gctx.Context, uid int64, jwtData map[string]string, sessData map[string]any) (session.Session, error) {
	sess := session.NewMemorySession(session.Claims{Uid: uid, Data: jwtData})
	ctx.Set("_session", sess)
	return sess, nil
}

// Get 用例通过中间件把 session 放进 _session
func (s *SessionProvider) Get(ctx *gctx.Context) (session.Session, error) {
	val, _ := ctx.Get("_session")
	return val.(session.Session), nil
}

var errNotSupported = errors.New("测试 session provider 不支持该操作")

func (s *SessionProvider) Destroy(ctx *gctx.Context) error {
	return errNotSupported
}

func (s *SessionProvider) UpdateClaims(ctx *gctx.Context, claims session.Claims) error {
	return errNotSupported
}

func (s *SessionProvider) RenewAccessToken(ctx *gctx.Context) error {
	return errNotSupported
}
