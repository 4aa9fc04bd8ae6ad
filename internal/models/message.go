package models

import "encoding/json"

// MessageType discriminates inbound realtime frames
type MessageType string

const (
	TypePing          MessageType = "ping"
	TypePointsAwarded MessageType = "points_awarded"
	TypeOrderStatus   MessageType = "order_status"
)

// Message is one inbound realtime frame after normalization. Servers send
// order_status frames with either db_status (a full enum value) or ui_status
// (the condensed vocabulary); both are resolved through Status so nothing
// past this boundary branches on payload shape.
type Message struct {
	Type         MessageType    `json:"type"`
	OrderID      string         `json:"order_id"`
	RewardPoints int            `json:"reward_points"`
	DBStatus     string         `json:"db_status"`
	UIStatus     string         `json:"ui_status"`
	Staff        *DeliveryStaff `json:"staff"`
}

// ParseMessage decodes a raw frame. Malformed frames and frames without a
// recognized type report ok=false and are dropped by the channel.
func ParseMessage(frame []byte) (Message, bool) {
	var m Message
	if err := json.Unmarshal(frame, &m); err != nil {
		return Message{}, false
	}
	switch m.Type {
	case TypePing, TypePointsAwarded, TypeOrderStatus:
		return m, true
	default:
		return Message{}, false
	}
}

// Status resolves the frame's status field, preferring db_status over
// ui_status. ok=false means the frame carries no applicable status.
func (m Message) Status() (OrderStatus, bool) {
	if m.DBStatus != "" {
		return ParseStatus(m.DBStatus)
	}
	if m.UIStatus != "" {
		return StatusFromUI(m.UIStatus)
	}
	return "", false
}
