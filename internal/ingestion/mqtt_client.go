package ingestion

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"security-monitor/internal/logger"
	deviceUsecase "security-monitor/internal/usecase/device"
	pkgmqtt "security-monitor/pkg/mqtt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DeviceService is the slice of the device use cases the bridge drives.
type DeviceService interface {
	Trigger(ctx context.Context, deviceID uuid.UUID, req *deviceUsecase.TriggerRequest) (*deviceUsecase.TriggerResponse, error)
	Touch(ctx context.Context, deviceID uuid.UUID) error
}

// MQTTBridgeConfig describes the topics and MQTT connection parameters.
type MQTTBridgeConfig struct {
	ClientConfig   *pkgmqtt.Config
	StatusTopic    string
	HeartbeatTopic string
	QoS            byte
}

// MQTTBridge routes device reports arriving over MQTT into the same trigger
// orchestration the HTTP surface uses. Malformed payloads and failed triggers
// are logged and dropped; the subscription stays up.
type MQTTBridge struct {
	cfg     *MQTTBridgeConfig
	client  *pkgmqtt.Client
	devices DeviceService

	mu            sync.Mutex
	started       bool
	subscriptions []string
}

func NewMQTTBridge(cfg *MQTTBridgeConfig, devices DeviceService) (*MQTTBridge, error) {
	if cfg == nil || cfg.ClientConfig == nil {
		return nil, errors.New("mqtt bridge config is not configured")
	}
	if devices == nil {
		return nil, errors.New("device service is required")
	}

	return &MQTTBridge{
		cfg:     cfg,
		client:  pkgmqtt.NewClient(cfg.ClientConfig),
		devices: devices,
	}, nil
}

// Start establishes the MQTT connection and subscribes to the topics.
func (b *MQTTBridge) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started {
		return nil
	}

	if err := b.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}

	type subscription struct {
		topic   string
		handler pkgmqtt.MessageHandler
	}

	subs := []subscription{}
	if b.cfg.StatusTopic != "" {
		subs = append(subs, subscription{topic: b.cfg.StatusTopic, handler: b.handleStatusMessage})
	}
	if b.cfg.HeartbeatTopic != "" {
		subs = append(subs, subscription{topic: b.cfg.HeartbeatTopic, handler: b.handleHeartbeatMessage})
	}

	if len(subs) == 0 {
		return errors.New("no MQTT topics configured")
	}

	qos := b.cfg.QoS
	for _, sub := range subs {
		if err := b.client.Subscribe(sub.topic, qos, sub.handler); err != nil {
			b.client.Disconnect()
			return fmt.Errorf("subscribe failed for topic %s: %w", sub.topic, err)
		}
		b.subscriptions = append(b.subscriptions, sub.topic)
	}

	b.started = true
	return nil
}

// Stop unsubscribes and disconnects from the broker.
func (b *MQTTBridge) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.started {
		return
	}

	if len(b.subscriptions) > 0 {
		if err := b.client.Unsubscribe(b.subscriptions...); err != nil {
			logger.Error("Failed to unsubscribe from MQTT topics", zap.Error(err))
		}
	}

	b.client.Disconnect()
	b.started = false
	b.subscriptions = nil
}

func (b *MQTTBridge) handleStatusMessage(topic string, payload []byte) {
	msg, err := ParseStatusMessage(payload)
	if err != nil {
		logger.Warn("Invalid status payload", zap.String("topic", topic), zap.Error(err))
		return
	}

	deviceID, err := uuid.Parse(msg.DeviceID)
	if err != nil {
		logger.Warn("Invalid device id in status payload", zap.String("device_id", msg.DeviceID))
		return
	}

	req := &deviceUsecase.TriggerRequest{
		NewStatus: msg.NewStatus,
		Battery:   msg.Battery,
	}
	if _, err := b.devices.Trigger(context.Background(), deviceID, req); err != nil {
		logger.Warn("MQTT trigger rejected",
			zap.String("device_id", msg.DeviceID),
			zap.String("new_status", msg.NewStatus),
			zap.Error(err),
		)
	}
}

func (b *MQTTBridge) handleHeartbeatMessage(topic string, payload []byte) {
	msg, err := ParseHeartbeatMessage(payload)
	if err != nil {
		logger.Warn("Invalid heartbeat payload", zap.String("topic", topic), zap.Error(err))
		return
	}

	deviceID, err := uuid.Parse(msg.DeviceID)
	if err != nil {
		logger.Warn("Invalid device id in heartbeat payload", zap.String("device_id", msg.DeviceID))
		return
	}

	if err := b.devices.Touch(context.Background(), deviceID); err != nil {
		logger.Warn("Heartbeat for unknown device",
			zap.String("device_id", msg.DeviceID),
			zap.Error(err),
		)
	}
}
