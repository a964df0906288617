package push

import (
	"context"
	"log"

	"firebase.google.com/go/v4/messaging"
	"github.com/reelweek/backend/internal/repositories"
)

// SendRequest carries one outbound push message. Data values must already be
// strings; the delivery provider rejects anything else.
type SendRequest struct {
	To       string
	Title    string
	Body     string
	Data     map[string]string
	Priority string
}

// Sender delivers one push message and returns the provider-assigned message id
type Sender interface {
	Send(ctx context.Context, req SendRequest) (string, error)
}

// FCMSender implements Sender over Firebase Cloud Messaging
type FCMSender struct {
	client *messaging.Client
}

// NewFCMSender creates a new FCMSender
func NewFCMSender(client *messaging.Client) *FCMSender {
	return &FCMSender{client: client}
}

// Send delivers a message through FCM
func (s *FCMSender) Send(ctx context.Context, req SendRequest) (string, error) {
	message := &messaging.Message{
		Token: req.To,
		Notification: &messaging.Notification{
			Title: req.Title,
			Body:  req.Body,
		},
		Data: req.Data,
	}
	if req.Priority != "" {
		message.Android = &messaging.AndroidConfig{Priority: req.Priority}
	}
	return s.client.Send(ctx, message)
}

// Dispatcher resolves a recipient's device token and requests delivery.
// Delivery is best-effort: at most one send attempt per call, no retries, and
// no error surfaced to the event that triggered the dispatch.
type Dispatcher struct {
	tokens repositories.DeviceTokenRepository
	sender Sender
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(tokens repositories.DeviceTokenRepository, sender Sender) *Dispatcher {
	return &Dispatcher{tokens: tokens, sender: sender}
}

// Dispatch sends a push to the recipient's registered device, if any.
// A missing token abandons the dispatch; the triggering event is unaffected.
func (d *Dispatcher) Dispatch(ctx context.Context, recipientID uint, title, body string, data map[string]string) {
	token, err := d.tokens.GetByUserID(recipientID)
	if err != nil || token == "" {
		log.Printf("push: no device token for user %d, dropping dispatch", recipientID)
		return
	}

	messageID, err := d.sender.Send(ctx, SendRequest{
		To:       token,
		Title:    title,
		Body:     body,
		Data:     data,
		Priority: "high",
	})
	if err != nil {
		log.Printf("push: send to user %d failed: %v", recipientID, err)
		return
	}
	log.Printf("push: sent %s to user %d", messageID, recipientID)
}
