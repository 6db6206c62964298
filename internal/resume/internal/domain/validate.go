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

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// 报错的时候用 json 字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("gpa", validateGPA)
	v.RegisterStructValidation(educationStructValidation, Education{})
	v.RegisterStructValidation(experienceStructValidation, Experience{})
	v.RegisterStructValidation(projectStructValidation, Project{})
	v.RegisterStructValidation(certificationStructValidation, Certification{})
	return v
}

// validateGPA decimal(3,2)
func validateGPA(fl validator.FieldLevel) bool {
	gpa, ok := Decimal(fl.Field().String()).Float()
	return ok && gpa >= 0 && gpa <= 9.99
}

func educationStructValidation(sl validator.StructLevel) {
	e := sl.Current().Interface().(Education)
	reportRange(sl, e.StartDate, e.EndDate, e.EndDate, "EndDate", "end_date")
}

func experienceStructValidation(sl validator.StructLevel) {
	e := sl.Current().Interface().(Experience)
	reportRange(sl, e.StartDate, e.EndDate, e.EndDate, "EndDate", "end_date")
}

func projectStructValidation(sl validator.StructLevel) {
	p := sl.Current().Interface().(Project)
	reportRange(sl, p.StartDate, p.EndDate, p.EndDate, "EndDate", "end_date")
}

func certificationStructValidation(sl validator.StructLevel) {
	c := sl.Current().Interface().(Certification)
	reportRange(sl, c.IssueDate, c.ExpirationDate, c.ExpirationDate, "ExpirationDate", "expiration_date")
}

// reportRange 结束日期不能早于开始日期，格式不对的交给 datetime 规则
func reportRange(sl validator.StructLevel, start, end Date, val any, field, tag string) {
	st, ok := start.Time()
	if !ok {
		return
	}
	et, ok := end.Time()
	if !ok {
		return
	}
	if et.Before(st) {
		sl.ReportError(val, field, tag, "after_start", "")
	}
}

func validateSection(s section) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSection, err)
	}
	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s 不能为空", ErrInvalidSection, fe.Field())
	case "datetime":
		return fmt.Errorf("%w: %s 日期格式应该是 YYYY-MM-DD", ErrInvalidSection, fe.Field())
	case "after_start":
		return fmt.Errorf("%w: %s 早于开始日期", ErrInvalidSection, fe.Field())
	case "http_url":
		return fmt.Errorf("%w: %s 不是合法的链接", ErrInvalidSection, fe.Field())
	case "oneof":
		return fmt.Errorf("%w: %s 只能是 %s", ErrInvalidSection, fe.Field(), fe.Param())
	case "min":
		return fmt.Errorf("%w: %s 不能小于 %s", ErrInvalidSection, fe.Field(), fe.Param())
	case "gpa":
		return fmt.Errorf("%w: gpa 应该在 0 到 9.99 之间", ErrInvalidSection)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidSection, fe.Error())
	}
}
