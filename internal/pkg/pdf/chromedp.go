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

package pdf

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"golang.org/x/sync/semaphore"
)

type ChromeConfig struct {
	// 远程 Chrome 的 DevTools 地址，例如 ws://chrome:9222，为空的时候在本机启动 headless Chrome
	RemoteURL string `yaml:"remoteURL"`
	// 本机 Chrome 的路径，为空的时候由 chromedp 自己查找
	ExecPath string        `yaml:"execPath"`
	Timeout  time.Duration `yaml:"timeout"`
	// 同时打开的标签页上限
	MaxTabs int64 `yaml:"maxTabs"`
}

// ChromeDPConverter 借助 Chrome 的打印功能生成 PDF
type ChromeDPConverter struct {
	cfg      ChromeConfig
	defaults Options
	tabs     *semaphore.Weighted
}

func NewChromeDPConverter(cfg ChromeConfig, opts ...Option) *ChromeDPConverter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	if cfg.MaxTabs <= 0 {
		cfg.MaxTabs = 4
	}
	defaults := DefaultOptions()
	for _, opt := range opts {
		opt(&defaults)
	}
	return &ChromeDPConverter{
		cfg:      cfg,
		defaults: defaults,
		tabs:     semaphore.NewWeighted(cfg.MaxTabs),
	}
}

func (c *ChromeDPConverter) allocator(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.RemoteURL != "" {
		return chromedp.NewRemoteAllocator(ctx, c.cfg.RemoteURL)
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox)
	if c.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.cfg.ExecPath))
	}
	return chromedp.NewExecAllocator(ctx, opts...)
}

func (c *ChromeDPConverter) ConvertHTMLToPDF(ctx context.Context, html string, opts ...Option) ([]byte, error) {
	options := c.defaults
	for _, opt := range opts {
		opt(&options)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()
	if err := c.tabs.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("等待 Chrome 标签页超时: %w", err)
	}
	defer c.tabs.Release(1)

	allocCtx, allocCancel := c.allocator(ctx)
	defer allocCancel()
	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	params := page.PrintToPDF().
		WithPrintBackground(options.PrintBackground).
		WithPreferCSSPageSize(true).
		WithLandscape(options.Landscape).
		WithMarginTop(options.MarginTopInch).
		WithMarginRight(options.MarginRightInch).
		WithMarginBottom(options.MarginBottomInch).
		WithMarginLeft(options.MarginLeftInch)
	if options.PaperWidthInch > 0 && options.PaperHeightInch > 0 {
		params = params.
			WithPaperWidth(options.PaperWidthInch).
			WithPaperHeight(options.PaperHeightInch)
	}

	var data []byte
	err := chromedp.Run(taskCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			data, _, err = params.Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("Chrome 生成 PDF 失败: %w", err)
	}
	return data, nil
}
