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

// Package pdf 把渲染好的简历 HTML 打印成 PDF
package pdf

import (
	"context"
)

//go:generate mockgen -source=./pdf.go -destination=./mocks/pdf.mock.go -package=pdfmocks Converter
type Converter interface {
	ConvertHTMLToPDF(ctx context.Context, html string, opts ...Option) ([]byte, error)
}

// Options 打印参数，长度单位都是英寸
type Options struct {
	PaperWidthInch   float64
	PaperHeightInch  float64
	MarginTopInch    float64
	MarginBottomInch float64
	MarginLeftInch   float64
	MarginRightInch  float64
	Landscape        bool
	// 打印背景色，简历的标题栏依赖这个
	PrintBackground bool
}

type Option func(*Options)

// DefaultOptions A4 纸，常规边距
func DefaultOptions() Options {
	opts := Options{PrintBackground: true}
	PaperA4(&opts)
	MarginsNormal(&opts)
	return opts
}
