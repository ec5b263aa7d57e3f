package dto

type ListApplicationsQuery struct {
	Status   string `form:"status" validate:"omitempty,app_status"`
	VisaType string `form:"visa_type" validate:"omitempty,visa_type"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" validate:"required,oneof=in_review approved rejected"`
	Note   string `json:"note" validate:"omitempty,max=2000"`
}

type ListUsersQuery struct {
	Role     string `form:"role" validate:"omitempty,oneof=user agent admin"`
	Search   string `form:"search" validate:"omitempty,max=100"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}
