package domain

import (
	"encoding/json"
	"time"
)

type EventType string

const (
	EventCardMinted         EventType = "CardMinted"
	EventNativePriceUpdated EventType = "NativePriceUpdated"
	EventTokenConfigured    EventType = "TokenConfigured"
	EventTokenRemoved       EventType = "TokenRemoved"
	EventPaymentWithdrawn   EventType = "PaymentWithdrawn"
)

// Event is one registry event, persisted alongside the state change that
// produced it and pushed to feed subscribers.
type Event struct {
	ID        uint            `json:"id"`
	Type      EventType       `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

func NewCardMintedEvent(c Card) Event {
	return newEvent(EventCardMinted, map[string]any{
		"token_id":  c.TokenID,
		"to":        c.Owner,
		"username":  c.Username,
		"timestamp": c.MintedAt.Unix(),
	})
}

func NewNativePriceUpdatedEvent(price Amount) Event {
	return newEvent(EventNativePriceUpdated, map[string]any{
		"price": price,
	})
}

func NewTokenConfiguredEvent(token string, price Amount) Event {
	return newEvent(EventTokenConfigured, map[string]any{
		"token": token,
		"price": price,
	})
}

func NewTokenRemovedEvent(token string) Event {
	return newEvent(EventTokenRemoved, map[string]any{
		"token": token,
	})
}

func NewPaymentWithdrawnEvent(asset string, amount Amount) Event {
	return newEvent(EventPaymentWithdrawn, map[string]any{
		"token":  asset,
		"amount": amount,
	})
}

func newEvent(t EventType, payload map[string]any) Event {
	data, err := json.Marshal(payload)
	if err != nil {
		// Payload maps above only hold marshalable values.
		data = []byte("{}")
	}
	return Event{Type: t, Payload: data}
}
