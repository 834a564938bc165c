package domain

import "time"

// UserProfile extends an authenticated user identity. The identity
// itself (credentials, signup) lives in the outer auth layer; this holds
// the canonical preference vector and engagement statistics.
type UserProfile struct {
	UserID      string      `json:"user_id"`
	Preferences Preferences `json:"preferences"`

	Language string `json:"preferred_language"`
	Country  string `json:"country,omitempty"`

	EmailNotifications bool `json:"email_notifications"`
	ShowImages         bool `json:"show_images"`
	DarkMode           bool `json:"dark_mode"`

	ArticlesRead   int `json:"total_articles_read"`
	UpvotesGiven   int `json:"total_upvotes"`
	DownvotesGiven int `json:"total_downvotes"`
	CommentsPosted int `json:"total_comments"`

	Bio    string `json:"bio,omitempty"`
	Avatar string `json:"avatar,omitempty"`

	OnboardingComplete bool      `json:"onboarding_complete"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// EngagementScore summarizes how active a user is.
func (p *UserProfile) EngagementScore() float64 {
	return float64(p.UpvotesGiven) + float64(p.CommentsPosted)*2 + float64(p.ArticlesRead)*0.5
}
