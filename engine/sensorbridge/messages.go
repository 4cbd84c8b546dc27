package sensorbridge

import (
	"encoding/json"

	"github.com/Carmen-Shannon/oxy-explorer/engine/control"
)

// Message types exchanged with the phone page. Frames are JSON text messages.
const (
	// phone -> app
	TypeHello       = "hello"
	TypePermission  = "permission"
	TypeOrientation = "orientation"

	// app -> phone
	TypePermissionRequest = "permission-request"
	TypeSubscribe         = "subscribe"
	TypeUnsubscribe       = "unsubscribe"
)

type envelope struct {
	Type string `json:"type"`
}

// PlatformInfo is the capability report a phone sends in its hello message.
type PlatformInfo struct {
	IOS           bool `json:"ios"`
	Secure        bool `json:"secure"`
	Touch         bool `json:"touch"`
	PermissionAPI bool `json:"permissionApi"`
}

// Platform converts the report to the control package's capability set.
func (p PlatformInfo) Platform() control.Platform {
	return control.Platform{
		Touch:           p.Touch,
		SecureContext:   p.Secure,
		IOS:             p.IOS,
		PermissionGated: p.PermissionAPI,
	}
}

// HelloMessage announces a phone and its capabilities.
type HelloMessage struct {
	Type     string       `json:"type"`
	Platform PlatformInfo `json:"platform"`
}

// PermissionMessage answers a permission request.
type PermissionMessage struct {
	Type    string `json:"type"`
	Granted bool   `json:"granted"`
	Error   string `json:"error,omitempty"`
}

// OrientationMessage carries one deviceorientation event. Angles are degrees and
// may be null when the browser did not report them.
type OrientationMessage struct {
	Type   string   `json:"type"`
	Alpha  *float64 `json:"alpha"`
	Beta   *float64 `json:"beta"`
	Gamma  *float64 `json:"gamma"`
	Screen float64  `json:"screen"`
}

// Sample converts the message to an orientation sample.
func (m OrientationMessage) Sample() control.OrientationSample {
	return control.OrientationSample{
		Alpha:       m.Alpha,
		Beta:        m.Beta,
		Gamma:       m.Gamma,
		ScreenAngle: m.Screen,
	}
}

// CommandMessage is sent from the app to the phone.
type CommandMessage struct {
	Type string `json:"type"`
}

func command(kind string) []byte {
	b, _ := json.Marshal(CommandMessage{Type: kind})
	return b
}
