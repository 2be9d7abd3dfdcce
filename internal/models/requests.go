package models

// Request DTOs bound from the browser. Validation stops at what the forms
// enforce; anything deeper is the backend's job.

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the backend token alongside the identity. The token
// is never forwarded to the browser; the session keeps it.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type OTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

type CreateEventRequest struct {
	EventName     string `json:"eventname" binding:"required"`
	EventDesc     string `json:"eventdesc"`
	EventDate     string `json:"eventdate"`
	EventTime     string `json:"eventtime"`
	EventLocation string `json:"eventlocation"`
	Visibility    string `json:"visibility" binding:"required"`
}

type CreateInviteRequest struct {
	Role      string  `json:"role" binding:"required"`
	ExpiresAt *string `json:"expires_at"`
}

type AddCommentRequest struct {
	Photo       int    `json:"photo" binding:"required"`
	CommentText string `json:"commentText" binding:"required"`
}

type BulkDeleteRequest struct {
	PhotoIDs []int `json:"photo_ids" binding:"required"`
}

// EditFieldRequest drives the draft editors: start/change/revert act on one
// named field at a time.
type EditFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

type UpdateDraftRequest struct {
	PhotoDesc     *string  `json:"photoDesc"`
	ExtractedTags []string `json:"extractedTags"`
}
