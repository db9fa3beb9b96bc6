package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AssetDTO names an asset on the wire. Kind is "native" or "token"; a token
// carries its contract address.
type AssetDTO struct {
	Kind         string `json:"kind"`
	TokenAddress string `json:"token_address,omitempty"`
}

type DepositDirectRequest struct {
	Asset          AssetDTO `json:"asset"`
	Recipients     []string `json:"recipients"`
	AmountPerShare string   `json:"amount_per_share"`
	Deadline       string   `json:"deadline"`
	GasAllowance   string   `json:"gas_allowance,omitempty"`
	AttachedValue  string   `json:"attached_value"`
}

type DepositRoomRequest struct {
	Asset          AssetDTO `json:"asset"`
	RoomID         string   `json:"room_id"`
	AmountPerShare string   `json:"amount_per_share"`
	ShareCount     int64    `json:"share_count"`
	Deadline       string   `json:"deadline"`
	GasAllowance   string   `json:"gas_allowance,omitempty"`
	AttachedValue  string   `json:"attached_value"`
}

type ClaimRequest struct {
	Recipient string `json:"recipient"`
	Amount    string `json:"amount,omitempty"`
}

type EntryDTO struct {
	EntryID            uint64          `json:"entry_id"`
	Asset              AssetDTO        `json:"asset"`
	Depositor          string          `json:"depositor"`
	Deadline           string          `json:"deadline"`
	Mode               string          `json:"mode"`
	Recipients         []string        `json:"recipients,omitempty"`
	RoomID             string          `json:"room_id,omitempty"`
	AmountPerShare     string          `json:"amount_per_share"`
	ShareCount         int64           `json:"share_count"`
	Total              string          `json:"total"`
	Remaining          string          `json:"remaining"`
	Fee                string          `json:"fee"`
	GasAllowance       string          `json:"gas_allowance"`
	AllowanceRemaining string          `json:"allowance_remaining"`
	Claimed            map[string]string `json:"claimed,omitempty"`
	Refunded           bool            `json:"refunded"`
	Expired            bool            `json:"expired"`
	CreatedAt          string          `json:"created_at"`
	UpdatedAt          string          `json:"updated_at"`
}

type DepositResponse struct {
	Entry EntryDTO `json:"entry"`
}

type ClaimResponse struct {
	EntryID    uint64 `json:"entry_id"`
	Recipient  string `json:"recipient"`
	Paid       string `json:"paid"`
	Reimbursed string `json:"reimbursed"`
	Remaining  string `json:"remaining"`
}

type RefundResponse struct {
	EntryID           uint64 `json:"entry_id"`
	Refunded          string `json:"refunded"`
	AllowanceReturned string `json:"allowance_returned"`
}

type EntryListResponse struct {
	Entries []EntryDTO `json:"entries"`
}

type RoomBalanceResponse struct {
	RoomID  string   `json:"room_id"`
	Asset   AssetDTO `json:"asset"`
	Balance string   `json:"balance"`
}
