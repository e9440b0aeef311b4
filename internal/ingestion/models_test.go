package ingestion

import "testing"

func TestParseStatusMessage(t *testing.T) {
	payload := []byte(`{"device_id":"c9b1e7a2-2f1a-4a89-9d0e-5a6f1b2c3d4e","new_status":"open","battery":42}`)

	msg, err := ParseStatusMessage(payload)
	if err != nil {
		t.Fatalf("ParseStatusMessage returned error: %v", err)
	}

	if msg.DeviceID != "c9b1e7a2-2f1a-4a89-9d0e-5a6f1b2c3d4e" {
		t.Errorf("device_id = %q", msg.DeviceID)
	}
	if msg.NewStatus != "open" {
		t.Errorf("new_status = %q, want open", msg.NewStatus)
	}
	if msg.Battery == nil || *msg.Battery != 42 {
		t.Errorf("battery = %v, want 42", msg.Battery)
	}
}

func TestParseStatusMessageWithoutBattery(t *testing.T) {
	msg, err := ParseStatusMessage([]byte(`{"device_id":"abc","new_status":"closed"}`))
	if err != nil {
		t.Fatalf("ParseStatusMessage returned error: %v", err)
	}
	if msg.Battery != nil {
		t.Errorf("battery = %v, want nil when absent", *msg.Battery)
	}
}

func TestParseStatusMessageMalformed(t *testing.T) {
	if _, err := ParseStatusMessage([]byte(`{not json`)); err == nil {
		t.Error("expected error for malformed payload")
	}
}

func TestParseHeartbeatMessage(t *testing.T) {
	msg, err := ParseHeartbeatMessage([]byte(`{"device_id":"abc"}`))
	if err != nil {
		t.Fatalf("ParseHeartbeatMessage returned error: %v", err)
	}
	if msg.DeviceID != "abc" {
		t.Errorf("device_id = %q, want abc", msg.DeviceID)
	}
}
