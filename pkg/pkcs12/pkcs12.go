package pkcs12

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"software.sslmate.com/src/go-pkcs12"
)

// ErrIncompleteBundle ocorre quando o arquivo não traz certificado e chave
var ErrIncompleteBundle = errors.New("arquivo PKCS12 sem certificado ou chave privada")

// ToPEM converte um certificado PKCS12 para blocos PEM
func ToPEM(pfxData []byte, password string) ([]*pem.Block, error) {
	// Decodificar o arquivo PKCS12
	privateKey, certificate, caCerts, err := pkcs12.DecodeChain(pfxData, password)
	if err != nil {
		return nil, err
	}

	var blocks []*pem.Block

	// Certificado principal
	if certificate != nil {
		blocks = append(blocks, &pem.Block{
			Type:  "CERTIFICATE",
			Bytes: certificate.Raw,
		})
	}

	// Certificados da cadeia (CA)
	for _, cert := range caCerts {
		blocks = append(blocks, &pem.Block{
			Type:  "CERTIFICATE",
			Bytes: cert.Raw,
		})
	}

	// Chave privada
	if privateKey != nil {
		pkData, err := x509.MarshalPKCS8PrivateKey(privateKey)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, &pem.Block{
			Type:  "PRIVATE KEY",
			Bytes: pkData,
		})
	}

	return blocks, nil
}

// TLSCertificate monta um tls.Certificate a partir do conteúdo PKCS12
func TLSCertificate(pfxData []byte, password string) (tls.Certificate, error) {
	blocks, err := ToPEM(pfxData, password)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("erro ao decodificar PKCS12: %w", err)
	}

	var certPEM, keyPEM []byte
	for _, block := range blocks {
		if block.Type == "PRIVATE KEY" {
			keyPEM = append(keyPEM, pem.EncodeToMemory(block)...)
			continue
		}
		certPEM = append(certPEM, pem.EncodeToMemory(block)...)
	}
	if len(certPEM) == 0 || len(keyPEM) == 0 {
		return tls.Certificate{}, ErrIncompleteBundle
	}

	return tls.X509KeyPair(certPEM, keyPEM)
}

// LoadTLSConfig lê o arquivo .p12/.pfx e retorna a configuração TLS do servidor
func LoadTLSConfig(path, password string) (*tls.Config, error) {
	pfxData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler certificado: %w", err)
	}

	cert, err := TLSCertificate(pfxData, password)
	if err != nil {
		return nil, err
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
