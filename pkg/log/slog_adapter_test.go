package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

func logJSON(t *testing.T, event Event) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	NewSlogAdapter(slog.New(handler)).Log(event)

	if buf.Len() == 0 {
		t.Fatal("no output produced")
	}
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	return entry
}

func TestSlogAdapterLogsFrameEvent(t *testing.T) {
	entry := logJSON(t, Event{
		Timestamp:    time.Now(),
		ConnectionID: "conn-123",
		Serial:       "PSI-0042",
		Direction:    DirectionOut,
		Layer:        LayerTransport,
		Category:     CategoryMessage,
		Frame:        &FrameEvent{Size: 16, Flush: true, Opcode: func() *uint8 { v := uint8(0x12); return &v }()},
	})

	if entry["conn_id"] != "conn-123" {
		t.Errorf("conn_id: got %v", entry["conn_id"])
	}
	if entry["serial"] != "PSI-0042" {
		t.Errorf("serial: got %v", entry["serial"])
	}
	if entry["direction"] != "OUT" {
		t.Errorf("direction: got %v", entry["direction"])
	}
	if entry["frame_size"] != float64(16) {
		t.Errorf("frame_size: got %v", entry["frame_size"])
	}
	if entry["opcode"] != float64(0x12) {
		t.Errorf("opcode: got %v", entry["opcode"])
	}
	if entry["flush"] != true {
		t.Errorf("flush: got %v", entry["flush"])
	}
}

func TestSlogAdapterLogsCaptureEvent(t *testing.T) {
	entry := logJSON(t, Event{
		Timestamp: time.Now(),
		Layer:     LayerCapture,
		Category:  CategoryMessage,
		Capture:   &CaptureEvent{Width: 748, Height: 476, Bytes: 360960, Mode: "BayerGrey"},
	})

	if entry["layer"] != "CAPTURE" {
		t.Errorf("layer: got %v", entry["layer"])
	}
	if entry["width"] != float64(748) || entry["height"] != float64(476) {
		t.Errorf("size: got %vx%v", entry["width"], entry["height"])
	}
	if entry["mode"] != "BayerGrey" {
		t.Errorf("mode: got %v", entry["mode"])
	}
}

func TestSlogAdapterLogsStateAndError(t *testing.T) {
	entry := logJSON(t, Event{
		Timestamp: time.Now(),
		Category:  CategoryState,
		StateChange: &StateChangeEvent{
			Entity:   StateEntityAcquisition,
			OldState: "running",
			NewState: "paused",
		},
	})
	if entry["entity"] != "ACQUISITION" || entry["new_state"] != "paused" {
		t.Errorf("state entry: %v", entry)
	}
	if _, ok := entry["reason"]; ok {
		t.Error("reason should be omitted when empty")
	}

	code := -4
	entry = logJSON(t, Event{
		Timestamp: time.Now(),
		Category:  CategoryError,
		Error:     &ErrorEventData{Layer: LayerTransport, Message: "usb: NoDevice", Code: &code},
	})
	if entry["error_msg"] != "usb: NoDevice" {
		t.Errorf("error_msg: got %v", entry["error_msg"])
	}
	if entry["error_code"] != float64(-4) {
		t.Errorf("error_code: got %v", entry["error_code"])
	}
}

func TestSlogAdapterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	NewSlogAdapter(slog.New(handler)).Log(Event{Timestamp: time.Now()})

	if buf.Len() != 0 {
		t.Errorf("expected no output at info level, got %q", buf.String())
	}
}
