package notify

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"
)

// BrokerSink publishes sync announcements to an MQTT topic at QoS 0.
// Connection lifecycle (connect, reconnect with backoff, disconnect) is
// handled by the paho client; when the broker is unreachable, publishes are
// skipped rather than queued.
type BrokerSink struct {
	client mqtt.Client
	topic  string
	log    *logrus.Entry
}

type brokerMessage struct {
	MajorVersion int64 `json:"major_version"`
	MinorVersion int64 `json:"minor_version"`
}

// NewBrokerSink connects to the broker at brokerURL and returns the sink.
// The initial connect is attempted in the background so a down broker never
// blocks service startup.
func NewBrokerSink(brokerURL, clientID, topic string, logger *logrus.Logger) *BrokerSink {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	log := logger.WithField("component", "mqtt")

	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(30 * time.Second).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetConnectTimeout(10 * time.Second).
		SetOnConnectHandler(func(mqtt.Client) {
			log.WithField("broker", brokerURL).Info("connected to broker")
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.WithError(err).Warn("broker connection lost")
		})

	client := mqtt.NewClient(opts)
	// Token resolves in the background; Publish checks IsConnected.
	client.Connect()

	return &BrokerSink{client: client, topic: topic, log: log}
}

// Name identifies the sink in logs.
func (s *BrokerSink) Name() string { return "mqtt" }

// Publish sends {major_version, minor_version} to the sync topic at QoS 0.
// Skipped silently when the broker is not connected.
func (s *BrokerSink) Publish(majorVersion, minorVersion int64) error {
	if !s.client.IsConnected() {
		s.log.Debug("broker not connected, skipping publish")
		return nil
	}

	payload, err := json.Marshal(brokerMessage{
		MajorVersion: majorVersion,
		MinorVersion: minorVersion,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal broker message: %w", err)
	}

	// QoS 0, fire and forget. The token is not waited on: a slow broker
	// must not stall the write path.
	s.client.Publish(s.topic, 0, false, payload)
	return nil
}

// Close disconnects from the broker.
func (s *BrokerSink) Close() {
	s.client.Disconnect(250)
}
