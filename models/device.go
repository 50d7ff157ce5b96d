package models

// Device types the backend understands for push-token registration.
const (
	DeviceTypeApple   = "Apple"
	DeviceTypeAndroid = "Android"
	DeviceTypeWeb     = "Web"
)

// RegisterTokenRequest is the body of POST /api/Notification/register-token.
// DeviceID mirrors the FCM token by convention.
type RegisterTokenRequest struct {
	UserID     string `json:"userId"`
	Token      string `json:"token"`
	DeviceType string `json:"deviceType"`
	DeviceID   string `json:"deviceId"`
	AppVersion string `json:"appVersion"`
}

// TestPushRequest is the body of POST /api/Notification/test.
type TestPushRequest struct {
	Token string            `json:"token"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// FirstResetRequest is the body of POST /Auth/first-reset.
type FirstResetRequest struct {
	UserID      string `json:"userId"`
	TenantID    string `json:"tenantId"`
	NewPassword string `json:"newPassword"`
}
