package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials ocorre quando e-mail ou senha não conferem
var ErrInvalidCredentials = errors.New("credenciais inválidas")

// HashPassword gera o hash bcrypt de uma senha
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// AdminAuthenticator verifica as credenciais do único administrador configurado
type AdminAuthenticator struct {
	email        string
	passwordHash []byte
}

// NewAdminAuthenticator cria um autenticador a partir do e-mail e do hash bcrypt
func NewAdminAuthenticator(email, passwordHash string) *AdminAuthenticator {
	return &AdminAuthenticator{
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: []byte(passwordHash),
	}
}

// Authenticate retorna ErrInvalidCredentials se e-mail ou senha não conferirem
func (a *AdminAuthenticator) Authenticate(email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(a.email)) == 1

	// A senha é sempre verificada para não revelar qual campo falhou pelo tempo de resposta
	passwordErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))

	if !emailOK || passwordErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}
