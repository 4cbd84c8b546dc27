package sensorbridge

import (
	"io"
)

// ServerBuilderOption is a functional option for configuring a Server.
type ServerBuilderOption func(*serverImpl)

// WithAddr sets the listen address.
//
// Parameters:
//   - addr: host:port to listen on
//
// Returns:
//   - ServerBuilderOption: a function that sets the address
func WithAddr(addr string) ServerBuilderOption {
	return func(s *serverImpl) {
		s.addr = addr
	}
}

// WithTLS serves the bridge over TLS. Phones only grant motion access to secure pages.
//
// Parameters:
//   - certFile: PEM certificate path
//   - keyFile: PEM private key path
//
// Returns:
//   - ServerBuilderOption: a function that sets the certificate pair
func WithTLS(certFile, keyFile string) ServerBuilderOption {
	return func(s *serverImpl) {
		s.certFile = certFile
		s.keyFile = keyFile
	}
}

// WithLogWriter sets where HTTP access logs go. Defaults to stdout.
func WithLogWriter(w io.Writer) ServerBuilderOption {
	return func(s *serverImpl) {
		s.logWriter = w
	}
}

// WithOnChange registers a callback run when a phone announces itself or disconnects.
// The viewer uses it to re-evaluate touch capability.
//
// Parameters:
//   - fn: the callback, run on the connection's goroutine
//
// Returns:
//   - ServerBuilderOption: a function that sets the callback
func WithOnChange(fn func()) ServerBuilderOption {
	return func(s *serverImpl) {
		s.onChange = fn
	}
}
