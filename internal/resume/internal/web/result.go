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
	"sort"

	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/resumebuilder/internal/pkg/apiclient"
	"github.com/ecodeclub/resumebuilder/internal/resume/internal/errs"
	"github.com/ecodeclub/resumebuilder/internal/resume/internal/service"
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

func errorResult(err error) (ginx.Result, error) {
	var apiErr *apiclient.APIError
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return ginx.Result{}, fmt.Errorf("%w: %w", ginx.ErrUnauthorized, err)
	case errors.Is(err, service.ErrNotFound):
		return codeResult(errs.NotFound), nil
	case errors.Is(err, service.ErrUnknownKind):
		return codeResult(errs.UnknownKind), nil
	case errors.Is(err, service.ErrInvalidSection):
		return codeResult(errs.InvalidSection.WithMsg(err.Error())), nil
	case errors.As(err, &apiErr):
		return codeResult(errs.InvalidInput.WithMsg(firstMessage(apiErr))), nil
	default:
		return systemErrorResult, err
	}
}

// firstMessage 字段错误优先，按照字段名排序保证每次返回的一样
func firstMessage(e *apiclient.APIError) string {
	if len(e.Fields) == 0 {
		return e.Detail
	}
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields[0] + ": " + e.Fields[fields[0]]
}
