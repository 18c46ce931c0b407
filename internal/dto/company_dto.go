package dto

type UpdateCompanyRequest struct {
	Name    string  `json:"name"    validate:"required,min=2,max=120"`
	TaxID   *string `json:"tax_id"  validate:"omitempty,max=32"`
	Address *string `json:"address" validate:"omitempty,max=160"`
	City    *string `json:"city"    validate:"omitempty,max=80"`
	Contact *string `json:"contact" validate:"omitempty,max=160"`
}

type CompanyResponse struct {
	Name    string  `json:"name"`
	TaxID   *string `json:"tax_id"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	Contact *string `json:"contact"`
}
