package driver

// Stage is a translation phase reported to progress sinks.
type Stage string

const (
	StageLoad  Stage = "load"
	StageEmit  Stage = "emit"
	StageWrite Stage = "write"
)

// Status is the state of a file within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for one input. File is the label the caller
// chose (batch uses the path relative to the input directory).
type Event struct {
	File   string
	Stage  Stage
	Status Status
}

// ProgressSink receives progress events. Implementations must be safe for
// concurrent use; batch translations report from several goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func report(sink ProgressSink, file string, stage Stage, status Status) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{File: file, Stage: stage, Status: status})
}
