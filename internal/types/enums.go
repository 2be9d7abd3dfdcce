package types

// Event visibility values
const (
	VisibilityPublic  = "public"
	VisibilityAdmin   = "admin"
	VisibilityImg     = "img"
	VisibilityPrivate = "private"
)

// Invite roles
const (
	InviteRoleViewer = "viewer"
	InviteRoleEditor = "editor"
)

// My-role markers on an event
const (
	MyRoleOwner  = "owner"
	MyRoleEditor = "editor"
	MyRoleViewer = "viewer"
)

// Group id that marks an elevated (admin-capable) account
const ElevatedGroup = 1

// Valid values for validation
var ValidVisibilities = []string{
	VisibilityPublic, VisibilityAdmin, VisibilityImg, VisibilityPrivate,
}

// Visibilities offered by the create form. "private" only appears on the
// edit form, never on creation.
var CreateVisibilities = []string{
	VisibilityPublic, VisibilityAdmin, VisibilityImg,
}

var ValidInviteRoles = []string{InviteRoleViewer, InviteRoleEditor}

// Orderings the list pages expose
var ValidPhotoOrderings = []string{
	"uploadDate", "-uploadDate", "photoid", "-photoid",
}

var ValidEventOrderings = []string{
	"eventdate", "-eventdate", "eventname", "-eventname", "-uploadDate",
}

// Helper functions for validation
func IsValidVisibility(v string) bool {
	for _, s := range ValidVisibilities {
		if s == v {
			return true
		}
	}
	return false
}

func IsCreateVisibility(v string) bool {
	for _, s := range CreateVisibilities {
		if s == v {
			return true
		}
	}
	return false
}

func IsValidInviteRole(role string) bool {
	for _, r := range ValidInviteRoles {
		if r == role {
			return true
		}
	}
	return false
}

func IsValidPhotoOrdering(o string) bool {
	for _, s := range ValidPhotoOrderings {
		if s == o {
			return true
		}
	}
	return false
}

func IsValidEventOrdering(o string) bool {
	for _, s := range ValidEventOrderings {
		if s == o {
			return true
		}
	}
	return false
}

// CanEdit reports whether a user's group memberships carry the elevated
// capability used to gate edit/delete affordances.
func CanEdit(groups []int) bool {
	for _, g := range groups {
		if g == ElevatedGroup {
			return true
		}
	}
	return false
}
