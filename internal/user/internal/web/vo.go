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

import "github.com/ecodeclub/resumebuilder/internal/user/internal/domain"

type RegisterReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type EditProfileReq struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

type User struct {
	Id       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func newUser(u domain.User) User {
	return User{
		Id:       u.Id,
		Username: u.Username,
		Email:    u.Email,
	}
}

type Profile struct {
	User
	City    string `json:"city"`
	Country string `json:"country"`
}

func newProfile(p domain.Profile) Profile {
	return Profile{
		User:    newUser(p.User),
		City:    p.City,
		Country: p.Country,
	}
}
