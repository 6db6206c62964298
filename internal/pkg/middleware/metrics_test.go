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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsBuilder_Build(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	builder := NewMetricsBuilder("resumebuilder", "web").
		IgnorePaths("/health").
		Register(reg)

	server := gin.New()
	server.Use(builder.Build())
	server.GET("/health", func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})
	server.POST("/resume/list", func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	for _, path := range []string{"/resume/list", "/resume/list", "/health"} {
		method := http.MethodPost
		if path == "/health" {
			method = http.MethodGet
		}
		req := httptest.NewRequest(method, path, nil)
		server.ServeHTTP(httptest.NewRecorder(), req)
	}
	req := httptest.NewRequest(http.MethodGet, "/not-exist", nil)
	server.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 2.0, testutil.ToFloat64(builder.counterVec.WithLabelValues(http.MethodPost, "/resume/list", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(builder.counterVec.WithLabelValues(http.MethodGet, "/health", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(builder.counterVec.WithLabelValues(http.MethodGet, "unknown", "404")))
}
