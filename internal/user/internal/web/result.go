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
	"fmt"

	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/resumebuilder/internal/pkg/apiclient"
	"github.com/ecodeclub/resumebuilder/internal/user/internal/errs"
	"github.com/ecodeclub/resumebuilder/internal/user/internal/service"
)

var (
	systemErrorResult = ginx.Result{
		Code: errs.SystemError.Code,
		Msg:  errs.SystemError.Msg,
	}
)

func codeResult(code errs.ErrorCode) ginx.Result {
	return ginx.Result{Code: code.Code, Msg: code.Msg}
}

// errorResult 把 service 返回的错误转成响应
func errorResult(err error) (ginx.Result, error) {
	var apiErr *apiclient.APIError
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		// 后端的 token 已经失效，需要重新登录
		return ginx.Result{}, fmt.Errorf("%w: %w", ginx.ErrUnauthorized, err)
	case errors.Is(err, service.ErrInvalidCredentials):
		return codeResult(errs.InvalidCredentials), nil
	case errors.Is(err, service.ErrUsernameDuplicate):
		return codeResult(errs.UsernameDuplicate), nil
	case errors.As(err, &apiErr):
		return codeResult(errs.InvalidInput.WithMsg(firstMessage(apiErr))), nil
	default:
		return systemErrorResult, err
	}
}

func firstMessage(e *apiclient.APIError) string {
	for _, field := range []string{"username", "email", "password", "city", "country", "non_field_errors"} {
		if msg, ok := e.FieldError(field); ok {
			return msg
		}
	}
	return ""
}
