package dto

// RoleCheckResponse reports whether a company's role mapping is complete.
type RoleCheckResponse struct {
	CompanyID string `json:"companyID"`
	Valid     bool   `json:"valid"`
	Problem   string `json:"problem,omitempty"`
}
