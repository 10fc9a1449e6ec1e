package domain

// Collaborator is one row of the external HR snapshot used by the export.
type Collaborator struct {
	GeneratedAt  string
	Company      string
	Client       string
	BusinessUnit string
	Workplace    string
	Name         string
	Registration string
	CPF          string
	JobTitle     string
	Schedule     string
	Hours        string
	Shift        string
}
