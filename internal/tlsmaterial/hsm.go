package tlsmaterial

import (
	"crypto"
	"crypto/rand"
	"encoding/pem"
	"fmt"
	"io"
)

// hsmPrivateKey adapts an HSMSigner to crypto.Signer so it can sit in a
// tls.Certificate's PrivateKey slot without the key material ever entering
// process memory unencrypted.
type hsmPrivateKey struct {
	signer HSMSigner
	keyID  string
	pub    any
}

func (k *hsmPrivateKey) Public() crypto.PublicKey { return k.pub }

func (k *hsmPrivateKey) Sign(_ io.Reader, digest []byte, opts crypto.SignerOpts) ([]byte, error) {
	return k.signer.Sign(k.keyID, digest, SignOpts{HashFunc: uint(opts.HashFunc())})
}

func parsePEMChain(chainPEM []byte) ([][]byte, error) {
	var certs [][]byte
	rest := chainPEM
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type == "CERTIFICATE" {
			certs = append(certs, append([]byte(nil), block.Bytes...))
		}
	}
	if len(certs) == 0 {
		return nil, fmt.Errorf("tlsmaterial: no CERTIFICATE blocks found in chain")
	}
	return certs, nil
}

// FileSigner is the only concrete HSMSigner this module ships: it signs with
// crypto.Signer keys handed to it in process through LoadKey (it reads no key
// material from disk itself), standing in for a real PKCS#11-backed signer.
// No PKCS#11 binding appears anywhere in the example corpus this module was
// built from (SPEC_FULL.md §3.2), so this is deliberately the one
// implementation, behind the same interface a real HSM-backed signer would
// satisfy.
type FileSigner struct {
	keys map[string]crypto.Signer
}

// NewFileSigner constructs a FileSigner with no keys loaded; call LoadKey
// per key id before use.
func NewFileSigner() *FileSigner {
	return &FileSigner{keys: make(map[string]crypto.Signer)}
}

// LoadKey registers signer under keyID for later Sign/Public calls.
func (f *FileSigner) LoadKey(keyID string, signer crypto.Signer) {
	f.keys[keyID] = signer
}

func (f *FileSigner) Sign(keyID string, digest []byte, opts SignOpts) ([]byte, error) {
	signer, ok := f.keys[keyID]
	if !ok {
		return nil, fmt.Errorf("tlsmaterial: no key loaded for id %q", keyID)
	}
	return signer.Sign(rand.Reader, digest, cryptoHashOpts(opts))
}

func (f *FileSigner) Public(keyID string) (any, error) {
	signer, ok := f.keys[keyID]
	if !ok {
		return nil, fmt.Errorf("tlsmaterial: no key loaded for id %q", keyID)
	}
	return signer.Public(), nil
}

func (f *FileSigner) Close() error { return nil }

func cryptoHashOpts(opts SignOpts) crypto.SignerOpts {
	return crypto.Hash(opts.HashFunc)
}
