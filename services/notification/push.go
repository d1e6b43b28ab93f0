package notification

import (
	"context"
	"fmt"

	"datex/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// SendPush delivers an FCM push to a single device token. Push is a
// best-effort channel on top of email and in-app reminders; callers log
// and move on when it fails.
func SendPush(ctx context.Context, token, title, body string, data map[string]string) error {
	if utils.FCMClient == nil {
		return fmt.Errorf("SendPush: FCM client not configured")
	}
	if token == "" {
		return fmt.Errorf("SendPush: empty device token")
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	response, err := utils.FCMClient.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("SendPush: failed to send FCM message: %w", err)
	}

	utils.GetLogger().Debug("SendPush: message sent", zap.String("response", response))
	return nil
}
