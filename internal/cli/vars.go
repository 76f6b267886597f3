// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import "time"

var (
	// root
	verbose bool
	// root
	profile bool
	// root
	pprofPort uint16
	// check, score
	interactive bool
	// check
	hashed bool
	// check
	inputFile string
	// check
	threads int
	// check
	rate int
	// check, serve
	mode string
	// check, serve
	padding bool
	// check, serve
	timeout time.Duration
	// check, serve
	retries int
	// check, serve
	apiURL string
	// serve
	selfTLS bool
	// serve
	tlsCert string
	// serve
	tlsKey string
	// serve
	port uint16
)
