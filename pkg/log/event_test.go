package log

import (
	"bytes"
	"testing"
	"time"
)

func TestEventCBORRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 4, 9, 12, 45, 123456789, time.UTC)
	original := Event{
		Timestamp:    ts,
		ConnectionID: "abc12345-def6-7890-abcd-ef1234567890",
		Direction:    DirectionOut,
		Layer:        LayerTransport,
		Category:     CategoryMessage,
		Serial:       "PSI-0042",
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !decoded.Timestamp.Equal(original.Timestamp) {
		t.Errorf("Timestamp: got %v, want %v", decoded.Timestamp, original.Timestamp)
	}
	if decoded.ConnectionID != original.ConnectionID {
		t.Errorf("ConnectionID: got %q, want %q", decoded.ConnectionID, original.ConnectionID)
	}
	if decoded.Direction != original.Direction {
		t.Errorf("Direction: got %v, want %v", decoded.Direction, original.Direction)
	}
	if decoded.Layer != original.Layer {
		t.Errorf("Layer: got %v, want %v", decoded.Layer, original.Layer)
	}
	if decoded.Serial != original.Serial {
		t.Errorf("Serial: got %q, want %q", decoded.Serial, original.Serial)
	}
	if decoded.Frame != nil || decoded.Capture != nil || decoded.StateChange != nil || decoded.Error != nil {
		t.Error("payloads should be nil when not set")
	}
}

func TestFrameEventCBORRoundTrip(t *testing.T) {
	original := Event{
		Timestamp:    time.Now(),
		ConnectionID: "conn-123",
		Direction:    DirectionOut,
		Layer:        LayerTransport,
		Category:     CategoryMessage,
		Frame:        NewFrameEvent([]byte{0, 0, 0, 0, 0, 0x10, 0x01, 0x00, 0x12, 0x34, 0xff}).WithOpcode(0x10),
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if decoded.Frame == nil {
		t.Fatal("Frame is nil")
	}
	if decoded.Frame.Size != 11 {
		t.Errorf("Frame.Size: got %d, want 11", decoded.Frame.Size)
	}
	if !bytes.Equal(decoded.Frame.Data, original.Frame.Data) {
		t.Errorf("Frame.Data: got %x, want %x", decoded.Frame.Data, original.Frame.Data)
	}
	if decoded.Frame.Opcode == nil || *decoded.Frame.Opcode != 0x10 {
		t.Errorf("Frame.Opcode: got %v, want 0x10", decoded.Frame.Opcode)
	}
	if decoded.Frame.Truncated {
		t.Error("Frame.Truncated should be false")
	}
}

func TestNewFrameEventTruncates(t *testing.T) {
	plane := make([]byte, MaxFrameData*3)
	plane[0] = 0xaa

	fe := NewFrameEvent(plane)
	if fe.Size != len(plane) {
		t.Errorf("Size: got %d, want %d", fe.Size, len(plane))
	}
	if len(fe.Data) != MaxFrameData {
		t.Errorf("len(Data): got %d, want %d", len(fe.Data), MaxFrameData)
	}
	if !fe.Truncated {
		t.Error("expected Truncated")
	}

	// The event must not alias the caller's buffer.
	plane[0] = 0x00
	if fe.Data[0] != 0xaa {
		t.Error("frame data aliases the source buffer")
	}
}

func TestCaptureEventCBORRoundTrip(t *testing.T) {
	original := Event{
		Timestamp: time.Now(),
		Layer:     LayerCapture,
		Category:  CategoryMessage,
		Capture: &CaptureEvent{
			Width:    748,
			Height:   476,
			Bytes:    752 * 480,
			Duration: 34 * time.Millisecond,
			Mode:     "BayerColour",
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if decoded.Capture == nil {
		t.Fatal("Capture is nil")
	}
	if *decoded.Capture != *original.Capture {
		t.Errorf("Capture: got %+v, want %+v", *decoded.Capture, *original.Capture)
	}
}

func TestStateChangeEventCBORRoundTrip(t *testing.T) {
	original := Event{
		Timestamp:    time.Now(),
		ConnectionID: "conn-123",
		Layer:        LayerTransport,
		Category:     CategoryState,
		StateChange: &StateChangeEvent{
			Entity:   StateEntityConnection,
			OldState: "connected",
			NewState: "disconnected",
			Reason:   "NoDevice",
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if decoded.StateChange == nil {
		t.Fatal("StateChange is nil")
	}
	if *decoded.StateChange != *original.StateChange {
		t.Errorf("StateChange: got %+v, want %+v", *decoded.StateChange, *original.StateChange)
	}
}

func TestErrorEventCBORRoundTrip(t *testing.T) {
	code := -7
	original := Event{
		Timestamp: time.Now(),
		Layer:     LayerTransport,
		Category:  CategoryError,
		Error: &ErrorEventData{
			Layer:   LayerTransport,
			Message: "usb: Timeout",
			Code:    &code,
			Context: "bulk read",
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if decoded.Error == nil {
		t.Fatal("Error is nil")
	}
	if decoded.Error.Message != "usb: Timeout" {
		t.Errorf("Error.Message: got %q", decoded.Error.Message)
	}
	if decoded.Error.Code == nil || *decoded.Error.Code != -7 {
		t.Errorf("Error.Code: got %v, want -7", decoded.Error.Code)
	}
	if decoded.Error.Context != "bulk read" {
		t.Errorf("Error.Context: got %q", decoded.Error.Context)
	}
}

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{DirectionIn.String(), "IN"},
		{DirectionOut.String(), "OUT"},
		{Direction(9).String(), "UNKNOWN"},
		{LayerTransport.String(), "TRANSPORT"},
		{LayerDriver.String(), "DRIVER"},
		{LayerCapture.String(), "CAPTURE"},
		{Layer(9).String(), "UNKNOWN"},
		{CategoryMessage.String(), "MESSAGE"},
		{CategoryState.String(), "STATE"},
		{CategoryError.String(), "ERROR"},
		{Category(9).String(), "UNKNOWN"},
		{StateEntityConnection.String(), "CONNECTION"},
		{StateEntityAcquisition.String(), "ACQUISITION"},
		{StateEntityContext.String(), "CONTEXT"},
		{StateEntity(9).String(), "UNKNOWN"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
