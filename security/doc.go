// Package security builds the TLS settings used by the server transport's
// secure client.
//
//	cfg := security.TLSConfig{
//	    CAFile:   "/etc/isoclient/ca.pem",
//	    CertFile: "/etc/isoclient/client.pem",
//	    KeyFile:  "/etc/isoclient/client-key.pem",
//	}
//
//	tlsConfig, err := cfg.Build()
package security
