package constant

// Service is the target subsystem name carried by every command sent to the native side.
const Service = "Media"

// Native action names. These strings are part of the native contract and must not change.
const (
	ActionCreate              = "create"
	ActionStartPlaying        = "startPlayingAudio"
	ActionStopPlaying         = "stopPlayingAudio"
	ActionPausePlaying        = "pausePlayingAudio"
	ActionSeekTo              = "seekToAudio"
	ActionGetCurrentPosition  = "getCurrentPositionAudio"
	ActionStartRecording      = "startRecordingAudio"
	ActionStopRecording       = "stopRecordingAudio"
	ActionPauseRecording      = "pauseRecordingAudio"
	ActionResumeRecording     = "resumeRecordingAudio"
	ActionRelease             = "release"
	ActionSetVolume           = "setVolume"
	ActionSetRate             = "setRate"
	ActionGetCurrentAmplitude = "getCurrentAmplitudeAudio"
	ActionMessageChannel      = "messageChannel"
)

// MessageActionStatus is the only action the native side pushes through the message channel.
const MessageActionStatus = "status"
