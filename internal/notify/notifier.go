// Package notify pushes best-effort sync announcements to connected clients
// over an MQTT broker and a WebSocket hub. Delivery is advisory only: the
// catch-up protocol never depends on a notification arriving.
package notify

import (
	"github.com/sirupsen/logrus"
)

// Sink is one delivery channel for (major, minor) version announcements.
type Sink interface {
	Name() string
	Publish(majorVersion, minorVersion int64) error
}

// Notifier fans an announcement out to every sink. A failing or panicking
// sink is logged and skipped; no outcome is ever reported to the caller.
type Notifier struct {
	sinks []Sink
	log   *logrus.Entry
}

// NewNotifier creates a Notifier over the given sinks.
func NewNotifier(logger *logrus.Logger, sinks ...Sink) *Notifier {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Notifier{
		sinks: sinks,
		log:   logger.WithField("component", "notify"),
	}
}

// Publish announces a committed change to all sinks, best-effort.
func (n *Notifier) Publish(majorVersion, minorVersion int64) {
	for _, sink := range n.sinks {
		n.publishOne(sink, majorVersion, minorVersion)
	}
}

func (n *Notifier) publishOne(sink Sink, majorVersion, minorVersion int64) {
	defer func() {
		if r := recover(); r != nil {
			n.log.WithFields(logrus.Fields{
				"sink":  sink.Name(),
				"panic": r,
			}).Warn("notification sink panicked")
		}
	}()
	if err := sink.Publish(majorVersion, minorVersion); err != nil {
		n.log.WithFields(logrus.Fields{
			"sink":          sink.Name(),
			"major_version": majorVersion,
			"minor_version": minorVersion,
		}).WithError(err).Warn("notification publish failed")
	}
}
