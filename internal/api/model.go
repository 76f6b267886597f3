// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"github.com/alvinbaena/pwdguard/internal/evaluate"
	"github.com/alvinbaena/pwdguard/pkg/strength"
)

// Bounds on request inputs. max counts code points.
const (
	maxPasswordLength = 1024
	maxHashLength     = 128
)

type queryRequest struct {
	Password string `json:"password" binding:"required,max=1024"`
}

type hashRequest struct {
	Hash string `json:"hash" binding:"required,max=128"`
}

type queryResponse struct {
	Strength strength.Report       `json:"strength"`
	Breach   evaluate.BreachStatus `json:"breach"`
}

type hashResponse struct {
	Breach evaluate.BreachStatus `json:"breach"`
}

type scoreResponse struct {
	Strength strength.Report `json:"strength"`
}
