package ingestion

import "encoding/json"

// StatusMessage is a device state report arriving over MQTT. It carries the
// same fields as the HTTP trigger request.
type StatusMessage struct {
	DeviceID  string `json:"device_id"`
	NewStatus string `json:"new_status"`
	Battery   *int   `json:"battery"`
}

// HeartbeatMessage only proves the device is alive; it moves last_seen and
// nothing else.
type HeartbeatMessage struct {
	DeviceID string `json:"device_id"`
}

func ParseStatusMessage(payload []byte) (*StatusMessage, error) {
	var msg StatusMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func ParseHeartbeatMessage(payload []byte) (*HeartbeatMessage, error) {
	var msg HeartbeatMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
