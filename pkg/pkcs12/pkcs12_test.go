package pkcs12

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gopkcs12 "software.sslmate.com/src/go-pkcs12"
)

func selfSignedBundle(t *testing.T, password string) []byte {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "localhost"},
		DNSNames:     []string{"localhost"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	pfx, err := gopkcs12.LegacyDES.Encode(key, cert, nil, password)
	require.NoError(t, err)
	return pfx
}

func TestToPEM(t *testing.T) {
	blocks, err := ToPEM(selfSignedBundle(t, "pw"), "pw")
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "CERTIFICATE", blocks[0].Type)
	assert.Equal(t, "PRIVATE KEY", blocks[1].Type)
}

func TestLoadTLSConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.p12")
	require.NoError(t, os.WriteFile(path, selfSignedBundle(t, "pw"), 0o600))

	cfg, err := LoadTLSConfig(path, "pw")
	require.NoError(t, err)
	require.Len(t, cfg.Certificates, 1)

	_, err = LoadTLSConfig(path, "wrong")
	require.Error(t, err)

	_, err = LoadTLSConfig(filepath.Join(t.TempDir(), "missing.p12"), "pw")
	require.Error(t, err)
}
