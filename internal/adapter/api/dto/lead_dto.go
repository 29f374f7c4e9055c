package dto

import (
	"time"

	"github.com/hugohenrick/pitchdeck/internal/domain/lead"
)

// CreateLeadRequest representa os dados enviados pelo formulário de contato
type CreateLeadRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Company *string `json:"company"`
	Message *string `json:"message"`
}

// LeadResponse representa um lead cadastrado
type LeadResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   *string   `json:"company"`
	Message   *string   `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// LeadListResponse representa uma página de leads
type LeadListResponse struct {
	Leads      []LeadResponse `json:"leads"`
	TotalCount int            `json:"totalCount"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

// ToLeadResponse converte um lead para o DTO de resposta
func ToLeadResponse(l *lead.Lead) LeadResponse {
	return LeadResponse{
		ID:        l.ID,
		Name:      l.Name,
		Email:     l.Email,
		Company:   l.Company,
		Message:   l.Message,
		CreatedAt: l.CreatedAt,
	}
}

// ToLeadListResponse converte uma página de leads
func ToLeadListResponse(leads []*lead.Lead, totalCount int, p Pagination) LeadListResponse {
	response := LeadListResponse{
		Leads:      make([]LeadResponse, 0, len(leads)),
		TotalCount: totalCount,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: calculateTotalPages(totalCount, p.PageSize),
	}
	for _, l := range leads {
		response.Leads = append(response.Leads, ToLeadResponse(l))
	}
	return response
}
