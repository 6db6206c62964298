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

package apiclient

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

var (
	// ErrUnauthenticated 刷新失败或者没有 token，本地的 token 已经被清空，需要重新登录
	ErrUnauthenticated = errors.New("未登录或者登录已过期")
	// ErrInvalidCredentials 用户名或者密码错误
	ErrInvalidCredentials = errors.New("用户名或者密码错误")
	ErrNotFound           = errors.New("资源不存在")
	ErrServer             = errors.New("上游服务错误")
)

// APIError 上游返回的 4xx
type APIError struct {
	Status int
	// 上游的 detail 字段，没有的话就是原始响应
	Detail string
	// 字段级别的错误，字段名 => 第一条错误
	Fields map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("上游返回 %d: %s", e.Status, e.Detail)
}

// FieldError 某个字段的错误信息
func (e *APIError) FieldError(field string) (string, bool) {
	msg, ok := e.Fields[field]
	return msg, ok
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status, Detail: string(body)}
	if !gjson.ValidBytes(body) {
		return e
	}
	res := gjson.ParseBytes(body)
	if detail := res.Get("detail"); detail.Exists() {
		e.Detail = detail.String()
	}
	if !res.IsObject() {
		return e
	}
	res.ForEach(func(key, value gjson.Result) bool {
		if key.String() == "detail" {
			return true
		}
		if e.Fields == nil {
			e.Fields = make(map[string]string, 4)
		}
		if value.IsArray() {
			arr := value.Array()
			if len(arr) > 0 {
				e.Fields[key.String()] = arr[0].String()
			}
			return true
		}
		e.Fields[key.String()] = value.String()
		return true
	})
	return e
}

// statusError 把状态码转换成错误，2xx 返回 nil
func statusError(status int, body []byte) error {
	switch {
	case status >= http.StatusOK && status < http.StatusMultipleChoices:
		return nil
	case status == http.StatusUnauthorized:
		return ErrUnauthenticated
	case status == http.StatusNotFound:
		return ErrNotFound
	case status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %d", ErrServer, status)
	default:
		return newAPIError(status, body)
	}
}
