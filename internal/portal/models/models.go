package models

import "time"

// Issue is a portal submission that failed and needs an operator to finish it by hand.
// Completed flips to true once and never reverts.
type Issue struct {
	ID            string     `json:"id"`
	PortalName    string     `json:"portalName"`
	FailureReason string     `json:"failureReason"`
	PortalURL     string     `json:"portalUrl"`
	Username      string     `json:"username"`
	Password      string     `json:"password"`
	Completed     bool       `json:"completed"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
}

// DefaultIssues are the issues the dashboard starts with.
func DefaultIssues() []Issue {
	return []Issue{
		{
			ID:            "1",
			PortalName:    "Tokio Marine Portal",
			FailureReason: "Session timeout during data submission. The portal requires re-authentication.",
			PortalURL:     "https://example.com/tokio",
			Username:      "tokio_user_123",
			Password:      "SecurePass123!",
		},
		{
			ID:            "2",
			PortalName:    "Sukoon Insurance Portal",
			FailureReason: "CAPTCHA verification failed after multiple attempts.",
			PortalURL:     "https://example.com/sukoon",
			Username:      "sukoon_admin",
			Password:      "AdminPass456#",
		},
	}
}
