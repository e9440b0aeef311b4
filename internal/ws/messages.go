package ws

import (
	deviceUsecase "security-monitor/internal/usecase/device"
	eventUsecase "security-monitor/internal/usecase/event"
)

// InitialStateMessage is the snapshot sent to a subscriber right after it
// connects: the full device list plus the most recent events.
type InitialStateMessage struct {
	Type    string                         `json:"type"`
	Devices []deviceUsecase.DeviceResponse `json:"devices"`
	Events  []eventUsecase.EventResponse   `json:"events"`
}

func NewInitialState(devices []deviceUsecase.DeviceResponse, events []eventUsecase.EventResponse) InitialStateMessage {
	return InitialStateMessage{
		Type:    "initial_state",
		Devices: devices,
		Events:  events,
	}
}

// AckMessage answers any inbound client text. Inbound payloads are not
// parsed; acknowledgement is the only two-way traffic in this protocol.
type AckMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewAck() AckMessage {
	return AckMessage{Type: "ack", Message: "Message received"}
}
