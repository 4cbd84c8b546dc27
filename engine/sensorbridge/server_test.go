package sensorbridge

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-explorer/engine/control"
	"github.com/gorilla/websocket"
)

func newBridge(t *testing.T) (Server, *httptest.Server, *int32) {
	t.Helper()
	var changes int32
	s := NewServer(WithLogWriter(io.Discard), WithOnChange(func() { atomic.AddInt32(&changes, 1) }))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.Close()
		ts.Close()
	})
	return s, ts, &changes
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func hello(t *testing.T, conn *websocket.Conn, p PlatformInfo) {
	t.Helper()
	if err := conn.WriteJSON(HelloMessage{Type: TypeHello, Platform: p}); err != nil {
		t.Fatalf("write hello: %v", err)
	}
}

func expectCommand(t *testing.T, conn *websocket.Conn, want string) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var m CommandMessage
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatalf("waiting for %q: %v", want, err)
	}
	if m.Type != want {
		t.Fatalf("expected command %q, got %q", want, m.Type)
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func orientation(alpha, beta float64, gamma *float64) OrientationMessage {
	return OrientationMessage{Type: TypeOrientation, Alpha: &alpha, Beta: &beta, Gamma: gamma, Screen: 90}
}

func TestPageIsServed(t *testing.T) {
	_, ts, _ := newBridge(t)
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "deviceorientation") {
		t.Fatalf("expected the sensor page, got %d bytes", len(body))
	}
}

func TestHelloMakesPhoneAvailable(t *testing.T) {
	s, ts, changes := newBridge(t)
	if s.Available() || s.Platform() != (control.Platform{}) {
		t.Fatalf("expected no phone before connecting")
	}

	conn := dial(t, ts)
	waitFor(t, "registration", func() bool { return s.Clients() == 1 })
	if s.Available() {
		t.Fatalf("expected the phone to be unavailable before hello")
	}

	hello(t, conn, PlatformInfo{IOS: true, Secure: true, Touch: true, PermissionAPI: true})
	waitFor(t, "hello", s.Available)
	want := control.Platform{Touch: true, SecureContext: true, IOS: true, PermissionGated: true}
	if got := s.Platform(); got != want {
		t.Fatalf("expected platform %+v, got %+v", want, got)
	}
	if atomic.LoadInt32(changes) < 1 {
		t.Fatalf("expected the change callback after hello")
	}

	conn.Close()
	waitFor(t, "disconnect", func() bool { return !s.Available() && s.Clients() == 0 })
	if atomic.LoadInt32(changes) < 2 {
		t.Fatalf("expected the change callback after disconnect")
	}
}

func TestPermissionRoundTrip(t *testing.T) {
	s, ts, _ := newBridge(t)
	conn := dial(t, ts)
	hello(t, conn, PlatformInfo{IOS: true, Secure: true, Touch: true, PermissionAPI: true})
	waitFor(t, "hello", s.Available)

	type answer struct {
		granted bool
		err     error
	}
	ask := func() chan answer {
		ch := make(chan answer, 1)
		go func() {
			g, err := s.RequestPermission(context.Background())
			ch <- answer{g, err}
		}()
		return ch
	}

	ch := ask()
	expectCommand(t, conn, TypePermissionRequest)
	conn.WriteJSON(PermissionMessage{Type: TypePermission, Granted: true})
	if a := <-ch; !a.granted || a.err != nil {
		t.Fatalf("expected grant, got %+v", a)
	}

	ch = ask()
	expectCommand(t, conn, TypePermissionRequest)
	conn.WriteJSON(PermissionMessage{Type: TypePermission, Granted: false, Error: "NotAllowedError"})
	if a := <-ch; a.granted || a.err == nil {
		t.Fatalf("expected an error from the phone, got %+v", a)
	}
}

func TestRequestPermissionFailures(t *testing.T) {
	s, ts, _ := newBridge(t)
	if _, err := s.RequestPermission(context.Background()); !errors.Is(err, ErrNoClient) {
		t.Fatalf("expected ErrNoClient, got %v", err)
	}

	conn := dial(t, ts)
	hello(t, conn, PlatformInfo{Secure: true, Touch: true})
	waitFor(t, "hello", s.Available)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := s.RequestPermission(ctx)
		done <- err
	}()
	expectCommand(t, conn, TypePermissionRequest)
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	go func() {
		_, err := s.RequestPermission(context.Background())
		done <- err
	}()
	expectCommand(t, conn, TypePermissionRequest)
	conn.Close()
	select {
	case err := <-done:
		if !errors.Is(err, ErrNoClient) {
			t.Fatalf("expected ErrNoClient after disconnect, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("request did not finish after disconnect")
	}
}

func TestSubscribeStreamsSamples(t *testing.T) {
	s, ts, _ := newBridge(t)
	conn := dial(t, ts)
	hello(t, conn, PlatformInfo{Secure: true, Touch: true})
	waitFor(t, "hello", s.Available)

	samples := make(chan control.OrientationSample, 8)
	s.Subscribe(func(sample control.OrientationSample) { samples <- sample })
	expectCommand(t, conn, TypeSubscribe)

	gamma := 5.0
	conn.WriteJSON(orientation(10, 80, &gamma))
	select {
	case got := <-samples:
		if !got.Valid() || *got.Alpha != 10 || *got.Beta != 80 || *got.Gamma != 5 || got.ScreenAngle != 90 {
			t.Fatalf("unexpected sample %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no sample delivered")
	}

	conn.WriteJSON(orientation(10, 80, nil))
	select {
	case got := <-samples:
		if got.Valid() {
			t.Fatalf("expected a sample with a missing angle to be invalid")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no sample delivered")
	}

	s.Unsubscribe()
	expectCommand(t, conn, TypeUnsubscribe)
	conn.WriteJSON(orientation(1, 2, &gamma))
	select {
	case got := <-samples:
		t.Fatalf("unexpected sample after unsubscribe: %+v", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNewestPhoneIsActive(t *testing.T) {
	s, ts, _ := newBridge(t)
	first := dial(t, ts)
	hello(t, first, PlatformInfo{Secure: true, Touch: true})
	waitFor(t, "first hello", s.Available)

	samples := make(chan control.OrientationSample, 8)
	s.Subscribe(func(sample control.OrientationSample) { samples <- sample })
	expectCommand(t, first, TypeSubscribe)

	second := dial(t, ts)
	expectCommand(t, first, TypeUnsubscribe)
	hello(t, second, PlatformInfo{Secure: true, Touch: true, IOS: true})
	expectCommand(t, second, TypeSubscribe)
	if !s.Platform().IOS {
		t.Fatalf("expected the newest phone's platform")
	}

	gamma := 0.0
	first.WriteJSON(orientation(111, 0, &gamma))
	second.WriteJSON(orientation(222, 0, &gamma))
	select {
	case got := <-samples:
		if *got.Alpha != 222 {
			t.Fatalf("expected only the active phone's samples, got alpha %v", *got.Alpha)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no sample delivered")
	}

	second.Close()
	expectCommand(t, first, TypeSubscribe)
	waitFor(t, "fallback", func() bool { return s.Clients() == 1 && s.Available() })
	if s.Platform().IOS {
		t.Fatalf("expected the remaining phone's platform")
	}
}
