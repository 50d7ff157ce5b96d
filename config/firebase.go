package config

// FirebaseServiceAccountKeyPath points at the JSON key used by the push
// dev tooling to talk to FCM directly. Empty disables direct sends.
var FirebaseServiceAccountKeyPath = "serviceAccountKey.json"
