// pushtool sends a push straight to a device token over FCM. It needs
// the Firebase service account key configured in config/firebase.go.
package main

import (
	"context"
	"flag"
	"log"

	"edunest/config"
	"edunest/utils"

	"firebase.google.com/go/v4/messaging"
)

func main() {
	token := flag.String("token", "", "FCM device token to target")
	title := flag.String("title", "Test Notification", "notification title")
	body := flag.String("body", "This is a test push notification from EduNest ERP", "notification body")
	screen := flag.String("screen", "", "optional deep-link route for the tap handler")
	flag.Parse()

	if *token == "" {
		log.Fatal("pushtool: -token is required")
	}

	config.LoadConfig()
	utils.FirebaseInit()

	data := map[string]string{}
	if *screen != "" {
		data["screen"] = *screen
	}

	msg := &messaging.Message{
		Token: *token,
		Notification: &messaging.Notification{
			Title: *title,
			Body:  *body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	id, err := utils.FCMClient.Send(context.Background(), msg)
	if err != nil {
		log.Fatalf("pushtool: failed to send FCM message: %v", err)
	}
	log.Printf("pushtool: message sent: %s", id)
}
