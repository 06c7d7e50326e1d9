package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
)

type Resend struct {
	client *resend.Client
}

func NewResend(apiKey string) (*Resend, error) {
	if apiKey == "" {
		return nil, errors.New("resend api key is empty")
	}
	return &Resend{client: resend.NewClient(apiKey)}, nil
}

func (r *Resend) Send(ctx context.Context, msg Message) (string, error) {
	req := &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		ReplyTo: msg.ReplyTo,
	}

	sent, err := r.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		return "", fmt.Errorf("resend: %w", err)
	}
	if sent == nil || sent.Id == "" {
		return "", errors.New("resend: empty message id")
	}
	return sent.Id, nil
}
