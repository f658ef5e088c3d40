package dto

type SessionRequest struct {
	AccessToken string `json:"access_token"`
}

type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

type SessionResponse struct {
	OK           bool        `json:"ok"`
	Token        string      `json:"token"`
	ExpiresInSec int64       `json:"expires_in_sec"`
	User         SessionUser `json:"user"`
}

type LogoutResponse struct {
	OK bool `json:"ok"`
}
