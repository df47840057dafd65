package dto

// StatusResponse is the uniform body for mutations and errors:
// {status: bool, message: string}.
type StatusResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// PaginationQuery: shared query params for list endpoints
type PaginationQuery struct {
	Page    int    `form:"page,default=1" binding:"omitempty,min=1"`
	PerPage int    `form:"perPage,default=10" binding:"omitempty,min=1"`
	Search  string `form:"search"`
}
