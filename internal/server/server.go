// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/likexian/selfca"
	"github.com/rs/zerolog/log"
)

var ErrNoTLS = errors.New("server requires TLS configuration to start")

// TLS selects the certificate source. Files win over SelfSigned when both are set.
type TLS struct {
	CertFile   string
	KeyFile    string
	SelfSigned bool
}

func (t TLS) hasFiles() bool {
	return t.CertFile != "" && t.KeyFile != ""
}

// selfSignedConfig generates a 30 day self-signed certificate. It is renewed on each restart.
func selfSignedConfig() (*tls.Config, error) {
	caConfig := selfca.Certificate{
		IsCA:      true,
		KeySize:   2048,
		NotBefore: time.Now(),
		NotAfter:  time.Now().Add(time.Duration(30*24) * time.Hour),
	}

	certificate, key, err := selfca.GenerateCertificate(caConfig)
	if err != nil {
		return nil, err
	}

	pair, err := tls.X509KeyPair(
		pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certificate}),
		pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}),
	)
	if err != nil {
		return nil, err
	}

	return &tls.Config{
		MinVersion:   tls.VersionTLS12,
		Certificates: []tls.Certificate{pair},
	}, nil
}

// New prepares the HTTPS server. The TLS material is resolved here so configuration errors surface before
// the server starts listening.
func New(addr string, handler http.Handler, t TLS) (*http.Server, error) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	switch {
	case t.hasFiles():
		pair, err := tls.LoadX509KeyPair(t.CertFile, t.KeyFile)
		if err != nil {
			return nil, err
		}
		srv.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12, Certificates: []tls.Certificate{pair}}
	case t.SelfSigned:
		log.Warn().Msgf("using auto self-signed certificate for TLS. This is not recommended for production. Please consider using your own certificates.")
		cfg, err := selfSignedConfig()
		if err != nil {
			return nil, err
		}
		srv.TLSConfig = cfg
	default:
		return nil, ErrNoTLS
	}

	return srv, nil
}

// Run serves srv until SIGINT or SIGTERM, then shuts it down gracefully.
func Run(srv *http.Server) error {
	errs := make(chan error, 1)
	go func() {
		log.Info().Msgf("starting TLS Server on address: %s", srv.Addr)
		// certificates are already in srv.TLSConfig, no need to pass files
		if err := srv.ListenAndServeTLS("", ""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errs:
		return err
	case <-quit:
	}
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("server Shutdown.")
	}

	log.Info().Msg("server exiting...")
	return nil
}
