package device

import "errors"

var (
	ErrDeviceNotFound = errors.New("device not found")
	ErrInvalidStatus  = errors.New("invalid device status")
	ErrInvalidBattery = errors.New("battery must be between 0 and 100")
)
