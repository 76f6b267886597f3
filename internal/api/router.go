// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"net/http"

	"github.com/alvinbaena/pwdguard/internal/evaluate"
	"github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Fits the longest accepted password even when every code point is JSON escaped.
const maxRequestBodySize = 16 << 10

// limitBody makes reads past maxRequestBodySize fail, which the JSON binding reports as a bad request.
func limitBody(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBodySize)
	c.Next()
}

// NewRouter builds the gin engine serving the v1 API. Request bodies are never logged.
func NewRouter(evaluator *evaluate.Evaluator) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(limitBody)
	router.Use(logger.SetLogger(logger.WithLogger(func(c *gin.Context, z zerolog.Logger) zerolog.Logger {
		return zerolog.New(gin.DefaultWriter).With().Timestamp().Logger()
	})))

	RegisterQueryApi(router.Group("/v1"), evaluator)
	return router
}
