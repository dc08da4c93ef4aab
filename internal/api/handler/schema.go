package handler

// --- Request / Response types ---

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"omitempty,email"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type logoutResponse struct {
	Status string `json:"status"`
}

type listItemsQuery struct {
	Search    string `query:"search"`
	SortBy    string `query:"sort_by"    validate:"omitempty,oneof=name price stock"`
	SortOrder string `query:"sort_order" validate:"omitempty,oneof=asc desc"`
}

// itemResponse renders an item snapshot. Price is serialized as an exact
// decimal string; ClaimedBy is the holder's username, omitted when free.
type itemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	ClaimedBy   string `json:"claimed_by,omitempty"`
}
