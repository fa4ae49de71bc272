package dto

import "time"

// APIResponse is the envelope every successful endpoint returns.
type APIResponse struct {
	Success    bool            `json:"success" example:"true"`
	Data       interface{}     `json:"data,omitempty"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
	Error      *ErrorDetail    `json:"error,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}

// PaginationInfo represents pagination metadata
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage" example:"1"`
	TotalPages  int   `json:"totalPages" example:"5"`
	PageSize    int   `json:"pageSize" example:"20"`
	TotalItems  int64 `json:"totalItems" example:"93"`
}

// NewSuccessResponse wraps data in a successful APIResponse.
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewPaginatedResponse wraps a page of items together with its pagination metadata.
func NewPaginatedResponse(data interface{}, pagination PaginationInfo) APIResponse {
	resp := NewSuccessResponse(data)
	resp.Pagination = &pagination
	return resp
}
