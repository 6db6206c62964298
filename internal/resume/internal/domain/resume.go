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

// Resume 简历本身以及抬头部分的信息
type Resume struct {
	Id        int64
	Title     string
	UUID      string
	CreatedAt string
	UpdatedAt string

	Name              string
	ProfessionalTitle string
	Phone             string
	Email             string
	Location          string
	Summary           string
	LinkedinURL       string
	GithubURL         string
	WebsiteURL        string
	TwitterURL        string
}

// PDF 导出的文件
type PDF struct {
	Filename string
	Data     []byte
}
