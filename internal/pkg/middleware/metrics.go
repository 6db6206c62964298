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

package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsBuilder 统计每个路由的请求数和耗时
type MetricsBuilder struct {
	Namespace string
	Subsystem string
	// 不需要统计的路径，例如健康检查
	ignore map[string]struct{}

	summaryVec *prometheus.SummaryVec
	counterVec *prometheus.CounterVec
}

func NewMetricsBuilder(namespace, subsystem string) *MetricsBuilder {
	return &MetricsBuilder{
		Namespace: namespace,
		Subsystem: subsystem,
		ignore:    map[string]struct{}{},
	}
}

func (b *MetricsBuilder) IgnorePaths(paths ...string) *MetricsBuilder {
	for _, p := range paths {
		b.ignore[p] = struct{}{}
	}
	return b
}

// Register 注册到 reg 上，测试的时候可以传入独立的 Registry
func (b *MetricsBuilder) Register(reg prometheus.Registerer) *MetricsBuilder {
	labels := []string{"method", "path", "status_code"}
	b.summaryVec = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace: b.Namespace,
		Subsystem: b.Subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP 请求耗时",
		Objectives: map[float64]float64{
			0.5:  0.05,
			0.9:  0.01,
			0.99: 0.001,
		},
	}, labels)
	b.counterVec = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: b.Namespace,
		Subsystem: b.Subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP 请求数",
	}, labels)
	reg.MustRegister(b.summaryVec, b.counterVec)
	return b
}

func (b *MetricsBuilder) Build() gin.HandlerFunc {
	if b.summaryVec == nil {
		b.Register(prometheus.DefaultRegisterer)
	}
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		path := ctx.FullPath()
		if path == "" {
			// 没有匹配上路由，避免 label 爆炸
			path = "unknown"
		}
		if _, ok := b.ignore[path]; ok {
			return
		}
		method := ctx.Request.Method
		status := strconv.Itoa(ctx.Writer.Status())
		b.summaryVec.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
		b.counterVec.WithLabelValues(method, path, status).Inc()
	}
}
