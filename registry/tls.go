package registry

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
)

// clientTLS builds the mutual-TLS configuration for the etcd client.
// A nil or disabled config yields a nil tls.Config; an enabled config
// must name all three certificate files.
func clientTLS(cfg *TLSConfig) (*tls.Config, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	files := []struct{ path, what string }{
		{cfg.CertFile, "cert"},
		{cfg.KeyFile, "key"},
		{cfg.CAFile, "CA"},
	}
	for _, f := range files {
		if f.path == "" {
			return nil, fmt.Errorf("TLS %s file is required when TLS is enabled", f.what)
		}
	}

	cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("load client key pair: %w", err)
	}

	caPEM, err := os.ReadFile(cfg.CAFile)
	if err != nil {
		return nil, fmt.Errorf("read CA certificate: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, errors.New("CA file contains no usable certificates")
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      pool,
		MinVersion:   tls.VersionTLS12,
	}, nil
}
