package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/psinc/psinc-go/pkg/log"
)

func TestFormatFrameEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents()[0])
	output := buf.String()

	for _, want := range []string{
		"2026-03-02T09:30:00.000000Z",
		"[conn:abc12345]",
		"OUT",
		"TRANSPORT",
		"ReadRegisterPage",
		"Serial: PSI-0001",
		"Size: 8 bytes",
		"Data: 00000000001300ff",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestFormatTruncatedFlushFrame(t *testing.T) {
	event := log.Event{
		Timestamp: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
		Frame:     &log.FrameEvent{Size: 9000, Data: []byte{0xaa}, Truncated: true, Flush: true},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "9000 bytes (flush)") {
		t.Errorf("expected flush marker, got:\n%s", output)
	}
	if !strings.Contains(output, "aa (truncated)") {
		t.Errorf("expected truncated marker, got:\n%s", output)
	}
	if !strings.Contains(output, " Frame\n") {
		t.Errorf("expected Frame label without opcode, got:\n%s", output)
	}
}

func TestFormatCaptureEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents()[2])
	output := buf.String()

	for _, want := range []string{"CAPTURE Capture", "Image: 748x476 colour", "Raw: 360960 bytes", "Duration: 12.000ms"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestFormatStateAndError(t *testing.T) {
	events := sampleEvents()

	var buf bytes.Buffer
	formatEvent(&buf, events[3])
	formatEvent(&buf, events[4])
	output := buf.String()

	for _, want := range []string{
		"Message: NoDevice",
		"Code: -4",
		"Context: bulk write",
		"Entity: CONNECTION",
		"disconnected -> connected",
		"Reason: claimed",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Nanosecond, "0.500us"},
		{1500 * time.Microsecond, "1.500ms"},
		{2500 * time.Millisecond, "2.500s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestParseFlags(t *testing.T) {
	if l, err := ParseLayerFlag("Driver"); err != nil || l != log.LayerDriver {
		t.Errorf("ParseLayerFlag(Driver) = %v, %v", l, err)
	}
	if _, err := ParseLayerFlag("wire"); err == nil {
		t.Error("expected error for unknown layer")
	}
	if d, err := ParseDirectionFlag("OUT"); err != nil || d != log.DirectionOut {
		t.Errorf("ParseDirectionFlag(OUT) = %v, %v", d, err)
	}
	if c, err := ParseCategoryFlag("error"); err != nil || c != log.CategoryError {
		t.Errorf("ParseCategoryFlag(error) = %v, %v", c, err)
	}
	if _, err := ParseCategoryFlag("snapshot"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestRunViewFilters(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	layer := log.LayerCapture

	tests := []struct {
		name   string
		filter ViewFilter
		want   int
	}{
		{"All", ViewFilter{}, 5},
		{"Layer", ViewFilter{Layer: &layer}, 1},
		{"Serial", ViewFilter{Serial: "PSI-0002"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := RunView(path, tt.filter, &buf); err != nil {
				t.Fatalf("RunView failed: %v", err)
			}
			if got := strings.Count(buf.String(), "[conn:"); got != tt.want {
				t.Errorf("got %d events, want %d", got, tt.want)
			}
		})
	}
}
