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

package domain

import "time"

// User 用户，Id 就是后端签发的 token 里面的 user_id
type User struct {
	Id       int64
	Username string
	Email    string
	// 最近一次登录
	LastLogin time.Time
}

type Profile struct {
	User    User
	City    string
	Country string
}

type Registration struct {
	Username string
	Email    string
	Password string
}
