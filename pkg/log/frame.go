package log

// MaxFrameData is the number of payload bytes kept in a FrameEvent.
// Image planes are hundreds of kilobytes, so only their head is captured.
const MaxFrameData = 4096

// NewFrameEvent builds a FrameEvent for data, truncating to MaxFrameData.
// The data is copied so callers may reuse their buffers.
func NewFrameEvent(data []byte) *FrameEvent {
	fe := &FrameEvent{Size: len(data)}
	n := len(data)
	if n > MaxFrameData {
		n = MaxFrameData
		fe.Truncated = true
	}
	fe.Data = append([]byte(nil), data[:n]...)
	return fe
}

// WithOpcode records the opcode the frame carries or answers.
func (f *FrameEvent) WithOpcode(op uint8) *FrameEvent {
	f.Opcode = &op
	return f
}
