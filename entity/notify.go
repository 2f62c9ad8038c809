package entity

// NotificationEvent is the type of the events sent by Passage to the notification
// channel, which is accessible externally with NotifyChannel().
type NotificationEvent struct {

	// The notification level
	Level string

	// Timestamp of the event on the format "2006-01-02T15:04:05.000000Z"
	Timestamp string

	// The entity type of the sender, e.g. "executor", "service", etc
	Sender string

	// The unique instance ID of the sender
	Instance string

	// The stream ID, if applicable
	Stream string

	Message string

	// Location and stack info, from where notification was sent.
	// Func is always provided.
	// File and Line are added when notification level is WARN or above.
	// StackTrace is added when notification level is ERROR.
	Func       string
	File       string
	Line       int
	StackTrace string
}

type NotifyChan chan NotificationEvent

const (
	NotifyLevelInvalid = iota
	NotifyLevelDebug
	NotifyLevelInfo
	NotifyLevelWarn
	NotifyLevelError
)

const (
	NotifyLevelStrDebug = "DEBUG"
	NotifyLevelStrInfo  = "INFO"
	NotifyLevelStrWarn  = "WARN"
	NotifyLevelStrError = "ERROR"
)

var notifyLevelName = map[int]string{
	NotifyLevelInvalid: "INVALID",
	NotifyLevelDebug:   NotifyLevelStrDebug,
	NotifyLevelInfo:    NotifyLevelStrInfo,
	NotifyLevelWarn:    NotifyLevelStrWarn,
	NotifyLevelError:   NotifyLevelStrError,
}

func NotifyLevelName(notifyLevel int) string {
	name, ok := notifyLevelName[notifyLevel]
	if !ok {
		name = "INVALID"
	}
	return name
}

// NotifyLevel returns the level value for a level name, e.g. as provided in the
// LOG_LEVEL env variable. Unknown names give NotifyLevelInvalid.
func NotifyLevel(name string) int {
	for level, levelName := range notifyLevelName {
		if levelName == name {
			return level
		}
	}
	return NotifyLevelInvalid
}
