package control

import (
	"context"
	"errors"
	"sync"
)

// ErrSensorUnavailable is returned when no orientation sensor can be reached.
var ErrSensorUnavailable = errors.New("orientation sensor unavailable")

// OrientationSample is one device orientation reading in degrees.
// Any of Alpha, Beta or Gamma may be nil when the platform did not report it.
type OrientationSample struct {
	Alpha *float64
	Beta  *float64
	Gamma *float64

	// ScreenAngle is the screen orientation angle in degrees (0, 90, 180, 270 or -90).
	ScreenAngle float64
}

// Valid reports whether all three angles are present, finite and inside the
// ranges a device reports: alpha in [0, 360], beta in [-180, 180] and gamma in
// [-90, 90].
func (s OrientationSample) Valid() bool {
	if s.Alpha == nil || s.Beta == nil || s.Gamma == nil {
		return false
	}
	return inRange(*s.Alpha, 0, 360) &&
		inRange(*s.Beta, -180, 180) &&
		inRange(*s.Gamma, -90, 90) &&
		inRange(s.ScreenAngle, -360, 360)
}

// inRange is false for NaN.
func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

// NewSample builds a fully populated sample.
func NewSample(alpha, beta, gamma, screen float64) OrientationSample {
	return OrientationSample{Alpha: &alpha, Beta: &beta, Gamma: &gamma, ScreenAngle: screen}
}

// Platform describes the capabilities of the device that provides input.
type Platform struct {
	// Touch is true for touch-capable devices; they get sensor mode instead of pointer lock.
	Touch bool
	// SecureContext is true when the sensor page is served over a secure origin.
	SecureContext bool
	// IOS is true for iOS-class devices.
	IOS bool
	// PermissionGated is true when the sensor API requires an explicit permission request.
	PermissionGated bool
}

// SensorSource is a provider of device orientation samples.
type SensorSource interface {
	// Platform returns the capabilities of the device behind this source.
	//
	// Returns:
	//   - Platform: the device capabilities
	Platform() Platform

	// Available reports whether a device is currently connected.
	//
	// Returns:
	//   - bool: true if samples can be delivered
	Available() bool

	// RequestPermission asks the device for sensor access. Blocks until answered
	// or ctx is done.
	//
	// Parameters:
	//   - ctx: context bounding the request
	//
	// Returns:
	//   - bool: true if access was granted
	//   - error: error if the request could not be completed
	RequestPermission(ctx context.Context) (bool, error)

	// Subscribe starts delivering samples to fn. A new subscription replaces the previous one.
	//
	// Parameters:
	//   - fn: sample callback, invoked from the source's goroutine
	Subscribe(fn func(OrientationSample))

	// Unsubscribe stops sample delivery.
	Unsubscribe()
}

// SyntheticSource is an in-process SensorSource driven by Emit.
// Used for headless runs and tests.
type SyntheticSource struct {
	mu *sync.Mutex

	platform  Platform
	available bool
	grant     bool
	grantErr  error
	requests  int

	fn func(OrientationSample)
}

var _ SensorSource = &SyntheticSource{}

// NewSyntheticSource creates a connected synthetic source that grants permission.
func NewSyntheticSource(platform Platform) *SyntheticSource {
	return &SyntheticSource{
		mu:        &sync.Mutex{},
		platform:  platform,
		available: true,
		grant:     true,
	}
}

// SetPermission sets the answer returned by RequestPermission.
func (s *SyntheticSource) SetPermission(granted bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grant = granted
	s.grantErr = err
}

// SetPlatform replaces the reported platform.
func (s *SyntheticSource) SetPlatform(p Platform) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.platform = p
}

// Requests returns how many permission requests were made.
func (s *SyntheticSource) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// Subscribed reports whether a subscriber is registered.
func (s *SyntheticSource) Subscribed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fn != nil
}

// Emit delivers a sample to the subscriber, if any.
func (s *SyntheticSource) Emit(sample OrientationSample) {
	s.mu.Lock()
	fn := s.fn
	s.mu.Unlock()
	if fn != nil {
		fn(sample)
	}
}

func (s *SyntheticSource) Platform() Platform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.platform
}

func (s *SyntheticSource) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.available
}

func (s *SyntheticSource) RequestPermission(ctx context.Context) (bool, error) {
	s.mu.Lock()
	s.requests++
	grant, err := s.grant, s.grantErr
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}
	return grant, err
}

func (s *SyntheticSource) Subscribe(fn func(OrientationSample)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fn = fn
}

func (s *SyntheticSource) Unsubscribe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fn = nil
}
