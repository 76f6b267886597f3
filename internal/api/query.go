// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"errors"
	"net/http"

	"github.com/alvinbaena/pwdguard/internal/evaluate"
	"github.com/alvinbaena/pwdguard/pkg/hibp"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type queryApi struct {
	evaluator *evaluate.Evaluator
}

// checkPassword answers 200 even when the breach lookup fails: the strength report is still valid and the
// breach status says "unknown".
func (q *queryApi) checkPassword(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v := q.evaluator.Evaluate(c.Request.Context(), req.Password)
	if v.Breach.Err != nil {
		log.Warn().Err(v.Breach.Err).Msg("breach status unknown")
	}

	c.JSON(http.StatusOK, queryResponse{Strength: v.Strength, Breach: v.Breach})
}

func (q *queryApi) checkHash(c *gin.Context) {
	var req hashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := q.evaluator.CheckHash(c.Request.Context(), req.Hash)
	if err != nil {
		if errors.Is(err, hibp.ErrInvalidDigest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if status.Err != nil {
		log.Warn().Err(status.Err).Msg("breach status unknown")
		c.JSON(http.StatusBadGateway, hashResponse{Breach: status})
		return
	}

	c.JSON(http.StatusOK, hashResponse{Breach: status})
}

func (q *queryApi) score(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, scoreResponse{Strength: q.evaluator.Score(req.Password)})
}

// RegisterQueryApi mounts the check and score endpoints on the v1 group.
func RegisterQueryApi(v1 *gin.RouterGroup, evaluator *evaluate.Evaluator) {
	q := &queryApi{evaluator: evaluator}

	check := v1.Group("/check")
	check.POST("/password", q.checkPassword)
	check.POST("/hash", q.checkHash)

	v1.POST("/score", q.score)
}
