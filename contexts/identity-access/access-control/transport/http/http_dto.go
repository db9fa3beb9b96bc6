package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type InitializeRequest struct {
	Owner string `json:"owner"`
}

type TransferRoleRequest struct {
	To string `json:"to"`
}

type RolesResponse struct {
	Owner         string `json:"owner"`
	Withdrawer    string `json:"withdrawer"`
	InitializedAt string `json:"initialized_at"`
	UpdatedAt     string `json:"updated_at"`
}
