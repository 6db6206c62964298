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

package errs

var (
	SystemError    = ErrorCode{Code: 515001, Msg: "系统错误"}
	NotFound       = ErrorCode{Code: 515002, Msg: "简历不存在"}
	InvalidSection = ErrorCode{Code: 515003, Msg: "条目内容不合法"}
	UnknownKind    = ErrorCode{Code: 515004, Msg: "未知的条目类型"}
	InvalidInput   = ErrorCode{Code: 515005, Msg: "输入有误"}
	// 部分条目已经保存，草稿里保留了没有完成的部分
	SyncFailed = ErrorCode{Code: 515006, Msg: "保存失败，请重试"}
)

type ErrorCode struct {
	Code int
	Msg  string
}

func (e ErrorCode) WithMsg(msg string) ErrorCode {
	if msg == "" {
		return e
	}
	return ErrorCode{Code: e.Code, Msg: msg}
}
