package control

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// ErrInsecureContext is returned when orientation access is requested from an insecure origin.
var ErrInsecureContext = errors.New("device orientation requires a secure context")

// PermissionResult is the outcome of an orientation permission request.
type PermissionResult int

const (
	PermissionDenied PermissionResult = iota
	PermissionGranted
)

func (r PermissionResult) String() string {
	if r == PermissionGranted {
		return "granted"
	}
	return "denied"
}

// Messages are the user-facing notices raised by the negotiator.
type Messages struct {
	HTTPSRequired      string
	OrientationEnabled string
	OrientationError   string
}

// DefaultMessages returns the English notices.
func DefaultMessages() Messages {
	return Messages{
		HTTPSRequired:      "Device orientation requires HTTPS",
		OrientationEnabled: "Device orientation enabled! Move your device to look around.",
		OrientationError:   "Could not enable device orientation. Please check your device settings.",
	}
}

// Notifier shows a message to the user.
type Notifier func(message string)

// Negotiator decides whether the sensor path may be used on the current device.
type Negotiator struct {
	source   SensorSource
	messages Messages
	notify   Notifier
}

// NewNegotiator creates a negotiator for the given source. A nil notify discards messages.
func NewNegotiator(source SensorSource, messages Messages, notify Notifier) *Negotiator {
	if notify == nil {
		notify = func(string) {}
	}
	return &Negotiator{source: source, messages: messages, notify: notify}
}

// IsTouchDevice reports whether the input device is touch-capable.
func (n *Negotiator) IsTouchDevice() bool {
	if n.source == nil || !n.source.Available() {
		return false
	}
	return n.source.Platform().Touch
}

// RequestOrientationPermission resolves sensor access for the current device.
// Insecure contexts fail without prompting. Permission-gated iOS devices are
// prompted; every other device is granted directly. Failures are reported to
// the user here; success is announced by the caller through NotifyEnabled once
// the grant has taken effect.
//
// Parameters:
//   - ctx: context bounding the request
//
// Returns:
//   - PermissionResult: granted or denied
//   - error: ErrInsecureContext, ErrSensorUnavailable or the request failure
func (n *Negotiator) RequestOrientationPermission(ctx context.Context) (PermissionResult, error) {
	if n.source == nil || !n.source.Available() {
		n.notify(n.messages.OrientationError)
		return PermissionDenied, ErrSensorUnavailable
	}

	platform := n.source.Platform()
	if !platform.SecureContext {
		n.notify(n.messages.HTTPSRequired)
		return PermissionDenied, ErrInsecureContext
	}

	if platform.IOS && platform.PermissionGated {
		granted, err := n.source.RequestPermission(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return PermissionDenied, err
			}
			log.Printf("[Permission] orientation request failed: %v", err)
			n.notify(n.messages.OrientationError)
			return PermissionDenied, fmt.Errorf("failed to request orientation permission: %w", err)
		}
		if !granted {
			return PermissionDenied, nil
		}
	}
	return PermissionGranted, nil
}

// NotifyEnabled tells the user that the sensor path is active.
func (n *Negotiator) NotifyEnabled() {
	n.notify(n.messages.OrientationEnabled)
}
