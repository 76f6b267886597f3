// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/alvinbaena/pwdguard/internal/api"
	"github.com/alvinbaena/pwdguard/internal/config"
	"github.com/alvinbaena/pwdguard/internal/evaluate"
	"github.com/alvinbaena/pwdguard/internal/server"
	"github.com/alvinbaena/pwdguard/pkg/hibp"
	"github.com/alvinbaena/pwdguard/pkg/strength"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("error loading configuration")
	}

	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		gin.SetMode(gin.ReleaseMode)
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	client := hibp.NewClient(cfg.Hibp.ClientConfig())
	evaluator := evaluate.New(&strength.Scorer{}, hibp.NewChecker(client, cfg.Hibp.HashMode()))

	srv, err := server.New(fmt.Sprintf(":%s", cfg.Port), api.NewRouter(evaluator), server.TLS{
		CertFile:   cfg.TLSCert,
		KeyFile:    cfg.TLSKey,
		SelfSigned: cfg.SelfTLS,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("error initializing server")
	}

	if err = server.Run(srv); err != nil {
		log.Fatal().Err(err).Msg("error starting server")
	}
}
