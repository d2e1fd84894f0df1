package clients

import (
	"context"
	"fmt"

	ws "nacospay/internal/transport/websocket"
)

// WebSocketClient pushes payment events to a member's open dashboard
// sessions so the paid/pending view refreshes without a reload.
type WebSocketClient struct {
	hub *ws.Hub
}

func NewWebSocketClient(hub *ws.Hub) *WebSocketClient {
	return &WebSocketClient{
		hub: hub,
	}
}

func (c *WebSocketClient) NotifyPaymentRecorded(
	ctx context.Context,
	memberID string,
	reference string,
	paymentType string,
	amount int64,
) error {
	if c == nil || c.hub == nil {
		return nil
	}

	channel := fmt.Sprintf("notify_member_payment_recorded#%s", memberID)
	message := &ws.Message{
		Type:    "payment_recorded",
		Channel: channel,
		Data: map[string]interface{}{
			"reference":    reference,
			"payment_type": paymentType,
			"amount":       amount,
		},
	}

	c.hub.Broadcast(memberID, message)
	return nil
}

func (c *WebSocketClient) NotifyReceiptReady(
	ctx context.Context,
	memberID string,
	reference string,
	url string,
	filename string,
) error {
	if c == nil || c.hub == nil {
		return nil
	}

	channel := fmt.Sprintf("notify_member_receipt_ready#%s", memberID)
	message := &ws.Message{
		Type:    "receipt_ready",
		Channel: channel,
		Data: map[string]interface{}{
			"reference": reference,
			"url":       url,
			"filename":  filename,
		},
	}

	c.hub.Broadcast(memberID, message)
	return nil
}
