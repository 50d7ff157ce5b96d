package push

import "go.uber.org/zap"

// LocalNotifier schedules a system tray entry for a foreground
// delivery, so the user still sees one while the app is active.
type LocalNotifier interface {
	Schedule(title, body string)
}

// LogNotifier is the headless tray: it records the entry in the log.
type LogNotifier struct{}

func (LogNotifier) Schedule(title, body string) {
	zap.L().Info("local notification scheduled",
		zap.String("title", title),
		zap.String("body", body))
}
