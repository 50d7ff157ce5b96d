// Package store is the durable key-value state of the client app: the
// Go-side analog of the packaged app's local storage. Values are plain
// strings; JSON-encoded payloads are the caller's concern.
package store

import "context"

// Persisted keys. These names are part of the on-disk contract shared
// with earlier app builds and must not change.
const (
	KeyAuthToken       = "authToken"
	KeyAuthRole        = "authRole"
	KeyAuthUserGUID    = "authUserGuid"
	KeyAuthUserID      = "authUserId"
	KeyAuthStudentData = "authStudentData"
	KeyMasterClasses   = "masterDataClasses"
	KeyMasterSubjects  = "masterDataSubjects"
	KeyNotifications   = "app_notifications"
	KeyUnreadCount     = "unread_notification_count"
	KeyPushToken       = "pushNotificationToken"
)

// SessionKeys is every key wiped on logout or failed validation.
var SessionKeys = []string{
	KeyAuthToken,
	KeyAuthRole,
	KeyAuthUserGUID,
	KeyAuthUserID,
	KeyAuthStudentData,
	KeyMasterClasses,
	KeyMasterSubjects,
}

// KV is durable string storage. Storage failure is unrecoverable for
// the session and is absorbed here: Set/Del silently no-op and Get
// reports absence. Callers never see storage errors.
type KV interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
	Del(ctx context.Context, keys ...string)
}
