package media

// Recorder receives accounting events from a bridge.
type Recorder interface {
	CommandIssued(action string)
	NotificationDispatched(kind MessageKind)
	NotificationDropped(reason string)
	HandlesLive(n int)
}

// Drop reasons reported to Recorder.NotificationDropped.
const (
	DropUnknownHandle = "unknown_handle"
	DropUnrecognized  = "unrecognized"
	DropMalformed     = "malformed"
)

type nopRecorder struct{}

func (nopRecorder) CommandIssued(string)               {}
func (nopRecorder) NotificationDispatched(MessageKind) {}
func (nopRecorder) NotificationDropped(string)         {}
func (nopRecorder) HandlesLive(int)                    {}
