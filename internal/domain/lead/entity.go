package lead

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrLeadNotFound ocorre quando um lead não é encontrado
var ErrLeadNotFound = errors.New("lead não encontrado")

// Tamanhos máximos aceitos para cada campo
const (
	MaxNameLength    = 255
	MaxEmailLength   = 255
	MaxCompanyLength = 255
	MaxMessageLength = 5000
)

var validate = validator.New()

// ValidationError descreve o primeiro campo inválido de um lead
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Lead representa um contato capturado pelo formulário de interesse
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"required,max=255"`
	Email     string    `json:"email" validate:"required,email,max=255"`
	Company   *string   `json:"company" validate:"omitempty,max=255"`
	Message   *string   `json:"message" validate:"omitempty,max=5000"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewLead cria e valida um novo lead. Campos opcionais vazios viram nil.
func NewLead(name, email string, company, message *string) (*Lead, error) {
	l := &Lead{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		Company:   normalizeOptional(company),
		Message:   normalizeOptional(message),
		CreatedAt: time.Now().UTC(),
	}

	if err := Validate(l); err != nil {
		return nil, err
	}
	return l, nil
}

// Validate aplica as regras de validação ao lead e retorna um *ValidationError
func Validate(l *Lead) error {
	err := validate.Struct(l)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Field: "", Message: err.Error()}
	}

	fe := fieldErrs[0]
	return &ValidationError{
		Field:   jsonFieldName(fe.Field()),
		Message: describe(fe),
	}
}

// describe traduz a regra violada em uma mensagem legível
func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obrigatório"
	case "email":
		return "email inválido"
	case "max":
		return fmt.Sprintf("deve ter no máximo %s caracteres", fe.Param())
	default:
		return fmt.Sprintf("valor inválido (%s)", fe.Tag())
	}
}

func jsonFieldName(structField string) string {
	switch structField {
	case "Name":
		return "name"
	case "Email":
		return "email"
	case "Company":
		return "company"
	case "Message":
		return "message"
	}
	return strings.ToLower(structField)
}

func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
