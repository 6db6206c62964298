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

package service

import (
	"bytes"
	"embed"
	"html/template"
	"regexp"
	"strings"

	"github.com/ecodeclub/resumebuilder/internal/resume/internal/domain"
)

//go:embed templates/resume.html
var templateFS embed.FS

var resumeTemplate = template.Must(template.New("resume.html").Funcs(template.FuncMap{
	"linebreaksToList": linebreaksToList,
	"formatDateRange":  formatDateRange,
	"phoneFormat":      phoneFormat,
	"lines":            lines,
	"skillGroups":      skillGroups,
	"join":             strings.Join,
}).ParseFS(templateFS, "templates/resume.html"))

// Render 把简历渲染成 HTML，预览和本地导出 PDF 用的是同一份
func Render(doc domain.Document) (string, error) {
	var buf bytes.Buffer
	if err := resumeTemplate.Execute(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// lines 按行拆开，去掉空行
func lines(s string) []string {
	parts := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}

func linebreaksToList(s string) template.HTML {
	ls := lines(s)
	if len(ls) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("<ul>")
	for _, l := range ls {
		sb.WriteString("<li>")
		sb.WriteString(template.HTMLEscapeString(l))
		sb.WriteString("</li>")
	}
	sb.WriteString("</ul>")
	return template.HTML(sb.String())
}

// formatDateRange 只显示年份，没有结束时间的显示 Present
func formatDateRange(start, end domain.Date) string {
	if start == "" {
		return ""
	}
	if end == "" {
		return start.Year() + " - Present"
	}
	return start.Year() + " - " + end.Year()
}

var nonDigit = regexp.MustCompile(`\D`)

// phoneFormat 10 位数字格式化成 (XXX) XXX-XXXX，其它的原样返回
func phoneFormat(s string) string {
	digits := nonDigit.ReplaceAllString(s, "")
	if len(digits) != 10 {
		return s
	}
	return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
}

type SkillGroup struct {
	Category string
	Names    []string
}

// skillGroups 按照分类聚合技能，分类的顺序就是第一次出现的顺序
func skillGroups(skills []domain.Skill) []SkillGroup {
	res := make([]SkillGroup, 0, len(skills))
	idx := make(map[string]int, len(skills))
	for _, s := range skills {
		category := s.Category
		if category == "" {
			category = "Other"
		}
		i, ok := idx[category]
		if !ok {
			i = len(res)
			idx[category] = i
			res = append(res, SkillGroup{Category: category})
		}
		res[i].Names = append(res[i].Names, s.Name)
	}
	return res
}
