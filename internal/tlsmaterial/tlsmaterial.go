// Package tlsmaterial builds the *tls.Config a session dials with: server
// trust (with optional hostname/skip-verify overrides for dev/test
// registries), and an optional client certificate sourced either from a
// PKCS#12 bundle or from an HSM-backed key plus a PEM chain on disk.
package tlsmaterial

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"golang.org/x/crypto/pkcs12"
)

// TrustConfig describes how the session verifies the registry's server
// certificate.
type TrustConfig struct {
	// RootCAFiles, when non-empty, replaces the system trust store with the
	// concatenation of these PEM files.
	RootCAFiles []string
	// ServerNameOverride overrides the SNI/verification hostname, for
	// registries reachable only by an IP or a non-matching CN.
	ServerNameOverride string
	// InsecureSkipVerify disables certificate verification entirely. Only
	// honored when DangerAllowInsecure is also true, so a stray
	// misconfiguration cannot silently disable verification in production.
	InsecureSkipVerify  bool
	DangerAllowInsecure bool
}

// ClientCertSource describes where the session's client certificate comes
// from, if the registry requires mutual TLS.
type ClientCertSource struct {
	// PKCS12 bundle path + passphrase.
	PKCS12Path       string
	PKCS12Passphrase string

	// HSM-backed key id (passed through to an HSMSigner) plus the PEM
	// certificate chain that corresponds to it.
	HSMKeyID    string
	HSMChainPEM string
}

// HSMSigner is the narrow interface a PKCS#11-backed key presents to this
// package. No PKCS#11 binding appears anywhere in the example corpus this
// module was built from, so this interface has exactly one concrete
// implementation (FileSigner) and exists to keep hardware-backed signing
// pluggable without pulling in an unverified third-party binding.
type HSMSigner interface {
	// Sign produces a raw signature over digest using the key identified by
	// keyID, per crypto.Signer's contract (opts communicates hash + PSS
	// parameters when applicable).
	Sign(keyID string, digest []byte, opts SignOpts) ([]byte, error)
	// Public returns the public key for keyID, which the crypto.Signer
	// adapter handed to the tls package exposes.
	Public(keyID string) (any, error)
	Close() error
}

// SignOpts mirrors the subset of crypto.SignerOpts this package needs.
type SignOpts struct {
	HashFunc uint
}

// Build assembles a *tls.Config for a session's transport per trust and
// (optionally) client-cert configuration.
func Build(trust TrustConfig, client *ClientCertSource) (*tls.Config, error) {
	cfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		ServerName: trust.ServerNameOverride,
	}

	if trust.InsecureSkipVerify {
		if !trust.DangerAllowInsecure {
			return nil, fmt.Errorf("tlsmaterial: InsecureSkipVerify requires DangerAllowInsecure")
		}
		cfg.InsecureSkipVerify = true
	}

	if len(trust.RootCAFiles) > 0 {
		pool := x509.NewCertPool()
		for _, f := range trust.RootCAFiles {
			pem, err := os.ReadFile(f)
			if err != nil {
				return nil, fmt.Errorf("tlsmaterial: read root CA %s: %w", f, err)
			}
			if !pool.AppendCertsFromPEM(pem) {
				return nil, fmt.Errorf("tlsmaterial: no certificates found in %s", f)
			}
		}
		cfg.RootCAs = pool
	}

	if client != nil {
		cert, err := loadClientCert(*client)
		if err != nil {
			return nil, err
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	return cfg, nil
}

func loadClientCert(src ClientCertSource) (tls.Certificate, error) {
	switch {
	case src.PKCS12Path != "":
		return loadPKCS12(src.PKCS12Path, src.PKCS12Passphrase)
	case src.HSMKeyID != "":
		return tls.Certificate{}, fmt.Errorf("tlsmaterial: HSM-backed client certs require an HSMSigner; use NewHSMCertificate")
	default:
		return tls.Certificate{}, fmt.Errorf("tlsmaterial: ClientCertSource has neither a PKCS12 bundle nor an HSM key id")
	}
}

// loadPKCS12 decodes a PKCS#12 bundle into a tls.Certificate, per spec.md
// §6's "client cert ... from a PKCS#12 bundle" option.
func loadPKCS12(path, passphrase string) (tls.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("tlsmaterial: read PKCS12 bundle %s: %w", path, err)
	}
	key, leaf, caCerts, err := pkcs12.DecodeChain(data, passphrase)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("tlsmaterial: decode PKCS12 bundle %s: %w", path, err)
	}
	cert := tls.Certificate{
		Certificate: [][]byte{leaf.Raw},
		PrivateKey:  key,
		Leaf:        leaf,
	}
	for _, ca := range caCerts {
		cert.Certificate = append(cert.Certificate, ca.Raw)
	}
	return cert, nil
}

// NewHSMCertificate builds a tls.Certificate whose PrivateKey is a
// crypto.Signer backed by signer, for the HSM-backed client cert path.
// The PEM chain is decoded with encoding/pem (parsePEMChain); the private
// key slot is filled with an hsmPrivateKey adapter
// rather than a parsed key, since the actual key material never leaves
// the module.
func NewHSMCertificate(signer HSMSigner, keyID string, chainPEM []byte) (tls.Certificate, error) {
	certs, err := parsePEMChain(chainPEM)
	if err != nil {
		return tls.Certificate{}, err
	}
	if len(certs) == 0 {
		return tls.Certificate{}, fmt.Errorf("tlsmaterial: empty PEM chain for HSM key %s", keyID)
	}
	pub, err := signer.Public(keyID)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("tlsmaterial: fetch public key for HSM key %s: %w", keyID, err)
	}
	return tls.Certificate{
		Certificate: certs,
		PrivateKey:  &hsmPrivateKey{signer: signer, keyID: keyID, pub: pub},
	}, nil
}
