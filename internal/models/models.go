// Package models holds the entity records mirrored from the KeepEvents API.
// The front end does not own these beyond session lifetime; they are decoded
// from the backend's JSON and rendered back to the browser as-is. One schema
// per entity: comment/photo shapes are canonical here even where the source
// API is tolerant about nesting.
package models

// User is the identity record returned by /api/me/ and /api/users/{id}/.
type User struct {
	UserID       int     `json:"userid"`
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	EnrollmentNo *int    `json:"enrollmentNo"`
	Dept         *string `json:"dept"`
	Batch        *int    `json:"batch"`
	UserProfile  *string `json:"userProfile"`
	UserBio      *string `json:"userbio"`

	IsActive    bool `json:"is_active"`
	IsStaff     bool `json:"is_staff"`
	IsSuperuser bool `json:"is_superuser"`

	LastLogin  *string `json:"last_login"`
	DateJoined string  `json:"date_joined"`

	Groups []int `json:"groups"`
}

// Event mirrors the backend event record. Dates and times stay strings
// (YYYY-MM-DD / HH:MM:SS) because the UI only passes them through.
type Event struct {
	EventID       int     `json:"eventid"`
	EventName     string  `json:"eventname"`
	EventDesc     *string `json:"eventdesc"`
	EventDate     *string `json:"eventdate"`
	EventTime     *string `json:"eventtime"`
	EventLocation *string `json:"eventlocation"`

	EventCoverPhoto    *string `json:"eventCoverPhoto"`
	EventCoverPhotoURL *string `json:"eventCoverPhoto_url"`

	EventCreator       int   `json:"eventCreator"`
	EventCreatorDetail *User `json:"eventCreator_detail,omitempty"`

	Visibility string `json:"visibility"`

	// Capability marker for the requesting user: owner, editor, or empty
	// (viewer-implied).
	MyRole string `json:"my_role,omitempty"`
}

// Photo is the canonical photo shape. The requesting user's like state
// travels with the record so galleries can seed their toggles.
type Photo struct {
	PhotoID       int      `json:"photoid"`
	PhotoDesc     string   `json:"photoDesc"`
	PhotoFile     string   `json:"photoFile"`
	UploadDate    string   `json:"uploadDate"`
	ExtractedTags []string `json:"extractedTags"`

	Likes     int `json:"likecount"`
	Views     int `json:"viewcount"`
	Downloads int `json:"downloadcount"`
	Comments  int `json:"commentcount"`

	EventID    int   `json:"event"`
	UploadedBy *User `json:"uploadedBy,omitempty"`

	LikedByMe bool `json:"liked_by_me"`
}

// Comment references its photo by id only, never as a nested object.
type Comment struct {
	CommentID   int    `json:"commentid"`
	CommentText string `json:"commentText"`
	CommentedAt string `json:"commentedAt"`
	User        *User  `json:"user,omitempty"`
	Photo       int    `json:"photo"`
}

// Like rows are only read; creation and removal go through the toggle
// endpoint.
type Like struct {
	LikeID  int    `json:"likeid"`
	LikedAt string `json:"likedAt"`
	User    *User  `json:"user,omitempty"`
	Photo   int    `json:"photo"`
}

// Invite is the response of POST /api/events/{id}/invite/.
type Invite struct {
	InviteURL string `json:"invite_url"`
	Role      string `json:"role"`
}

// InviteAcceptance is the response of POST /api/invite/{token}/accept/.
type InviteAcceptance struct {
	EventID int    `json:"event_id"`
	Role    string `json:"role"`
}

// LikeStatus is the authoritative state returned by the toggle endpoint.
type LikeStatus struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

// BulkDeleteResult partitions a bulk delete into what went through and what
// the backend refused for lack of permission.
type BulkDeleteResult struct {
	Deleted             []int `json:"deleted"`
	SkippedNoPermission []int `json:"skipped_no_permission"`
}

// TagCount is one entry of the activity summary's top-tags list.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// LocationCount is one entry of the activity summary's top-locations list.
type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// MajorEvent pairs an event with the caller's photo count in it.
type MajorEvent struct {
	Event      Event `json:"event"`
	PhotoCount int   `json:"photo_count"`
}

// ActivitySummary is the aggregated stats block of the activity page.
type ActivitySummary struct {
	TotalPhotos    int             `json:"total_photos"`
	TotalLikes     int             `json:"total_likes"`
	TotalViews     int             `json:"total_views"`
	TotalDownloads int             `json:"total_downloads"`
	TopTags        []TagCount      `json:"top_tags"`
	TopLocations   []LocationCount `json:"top_locations"`
	MajorEvents    []MajorEvent    `json:"major_events"`
}

// Page is the paginated envelope every list endpoint returns. Next and
// Previous, when present, are complete URLs; they are stored verbatim and
// re-issued, never decomposed into offsets.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}
