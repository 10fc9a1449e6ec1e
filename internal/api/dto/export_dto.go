package dto

import "github.com/telaviv/ops-dashboard/internal/domain"

// ExportRequest is the optional date window of the HR export.
type ExportRequest struct {
	Start  string `json:"start"`
	Finish string `json:"finish"`
}

// CollaboratorResponse is one preview row, keyed like the spreadsheet.
type CollaboratorResponse struct {
	GeneratedAt  string `json:"hora"`
	Company      string `json:"empresa"`
	Client       string `json:"cliente"`
	BusinessUnit string `json:"negocio"`
	Workplace    string `json:"posto"`
	Name         string `json:"colaborador"`
	Registration string `json:"matricula"`
	CPF          string `json:"cpf"`
	JobTitle     string `json:"cargo"`
	Schedule     string `json:"cronograma"`
	Hours        string `json:"horario"`
	Shift        string `json:"turno"`
}

// NewCollaboratorResponses maps preview rows.
func NewCollaboratorResponses(rows []domain.Collaborator) []CollaboratorResponse {
	out := make([]CollaboratorResponse, 0, len(rows))
	for _, c := range rows {
		out = append(out, CollaboratorResponse{
			GeneratedAt:  c.GeneratedAt,
			Company:      c.Company,
			Client:       c.Client,
			BusinessUnit: c.BusinessUnit,
			Workplace:    c.Workplace,
			Name:         c.Name,
			Registration: c.Registration,
			CPF:          c.CPF,
			JobTitle:     c.JobTitle,
			Schedule:     c.Schedule,
			Hours:        c.Hours,
			Shift:        c.Shift,
		})
	}
	return out
}
