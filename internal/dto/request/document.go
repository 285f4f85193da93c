package request

// UploadDocumentRequest carries the multipart form fields next to the file part
type UploadDocumentRequest struct {
	Title        string  `validate:"required,max=200"`
	Description  *string `validate:"omitempty,max=2000"`
	DocumentType string  `validate:"required"`
	PrivacyLevel string  `validate:"omitempty,oneof=private shared_with_lawyer public"`
}

type UpdateDocumentRequest struct {
	Title        *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	DocumentType *string `json:"document_type,omitempty"`
	PrivacyLevel *string `json:"privacy_level,omitempty" validate:"omitempty,oneof=private shared_with_lawyer public"`
}

type DocumentListRequest struct {
	PaginatedRequest
	DocumentType string
}

type ShareDocumentRequest struct {
	SharedWith      string  `json:"shared_with" validate:"required,uuid"`
	PermissionLevel string  `json:"permission_level" validate:"omitempty,oneof=view comment edit"`
	Message         *string `json:"message,omitempty" validate:"omitempty,max=1000"`
}

type CommentRequest struct {
	Comment    string `json:"comment" validate:"required,max=2000"`
	IsInternal bool   `json:"is_internal"`
}
