// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"

	"github.com/alvinbaena/pwdguard/internal/api"
	"github.com/alvinbaena/pwdguard/internal/server"
	"github.com/alvinbaena/pwdguard/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var (
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the API for scoring and checking passwords",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCommand()
		},
	}
)

func init() {
	serveCmd.Flags().BoolVar(&selfTLS, "self-tls", false,
		"If the server should use a self-signed certificate when starting. The certificate is renewed on each server restart")
	serveCmd.Flags().StringVar(&tlsCert, "tls-cert", "", "Path to the PEM encoded TLS certificate to be used by the server")
	serveCmd.Flags().StringVar(&tlsKey, "tls-key", "", "Path to the PEM encoded TLS private key to be used by the server")
	serveCmd.Flags().Uint16VarP(&port, "port", "p", 3100, "Port to be used by the server")
	addLookupFlags(serveCmd)

	rootCmd.AddCommand(serveCmd)
}

func serveCommand() error {
	util.ApplyCliSettings(verbose, profile, pprofPort)
	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	evaluator, err := newEvaluator()
	if err != nil {
		return err
	}

	srv, err := server.New(fmt.Sprintf(":%d", port), api.NewRouter(evaluator), server.TLS{
		CertFile:   tlsCert,
		KeyFile:    tlsKey,
		SelfSigned: selfTLS,
	})
	if err != nil {
		return fmt.Errorf("error initializing server: %w. "+
			"Please use either the --self-tls flag or set a certificate with the --tls-cert and --tls-key flags", err)
	}

	return server.Run(srv)
}
