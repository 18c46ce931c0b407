package dto

type CreateContractRequest struct {
	CustomerID     string  `json:"customer_id"     validate:"required,uuid"`
	PlanID         string  `json:"plan_id"         validate:"required,uuid"`
	InstallAddress string  `json:"install_address" validate:"required,max=200"`
	InstalledOn    *string `json:"installed_on"    validate:"omitempty,datetime=2006-01-02"`
}

// UpdateContractRequest: pointer presence marks which fields were supplied.
// Status transitions go through the dedicated activate/suspend/terminate
// actions, not through this update.
type UpdateContractRequest struct {
	PlanID         *string `json:"plan_id"         validate:"omitempty,uuid"`
	InstallAddress *string `json:"install_address" validate:"omitempty,min=1,max=200"`
}

type ContractCursorRequest struct {
	Limit      int     `json:"limit"        validate:"omitempty,min=1,max=100"`
	LastSeenID *string `json:"last_seen_id" validate:"omitempty,uuid"`
}

type ContractResponse struct {
	ID             string  `json:"id"`
	CustomerID     string  `json:"customer_id"`
	PlanID         string  `json:"plan_id"`
	InstallAddress string  `json:"install_address"`
	Status         string  `json:"status"`
	InstalledOn    *string `json:"installed_on"`
	ActivatedOn    *string `json:"activated_on"`
	SuspendedOn    *string `json:"suspended_on"`
	TerminatedOn   *string `json:"terminated_on"`
	CreatedAt      string  `json:"created_at"`
}

type ContractCursorResponse struct {
	Contracts  []ContractResponse `json:"contracts"`
	NextCursor *string            `json:"next_cursor"`
}
