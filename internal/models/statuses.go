package models

type UserRole string
type VisaType string
type ApplicationStatus string
type PostCategory string
type PostStatus string
type PaymentStatus string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAgent UserRole = "agent"
	UserRoleAdmin UserRole = "admin"

	VisaTypeTourist  VisaType = "tourist"
	VisaTypeStudent  VisaType = "student"
	VisaTypeWork     VisaType = "work"
	VisaTypeFamily   VisaType = "family"
	VisaTypeBusiness VisaType = "business"

	ApplicationStatusDraft     ApplicationStatus = "draft"
	ApplicationStatusSubmitted ApplicationStatus = "submitted"
	ApplicationStatusInReview  ApplicationStatus = "in_review"
	ApplicationStatusApproved  ApplicationStatus = "approved"
	ApplicationStatusRejected  ApplicationStatus = "rejected"

	PostCategoryBlog PostCategory = "blog"
	PostCategoryNews PostCategory = "news"

	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"

	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
	PaymentStatusExpired PaymentStatus = "expired"
)

// AllVisaTypes - список поддерживаемых типов виз
var AllVisaTypes = []VisaType{
	VisaTypeTourist, VisaTypeStudent, VisaTypeWork, VisaTypeFamily, VisaTypeBusiness,
}
