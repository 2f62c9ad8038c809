// Package notify is used internally by Passage to send/log operational events.
// It is made externally accessible mainly for source/sink entity development,
// since entity internals also should send important events to this channel.
// The common notify channel is passed to the entity in its Config.
package notify

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/teltech/logger"

	"github.com/pvallin/passage/entity"
)

// Notifier provides a way to send notification/log events to both an externally
// accessible channel and to the log framework.
type Notifier struct {
	ch             entity.NotifyChan
	minNotifyLevel int
	log            *logger.Log
	callerLevel    int
	sender         string
	instance       string
	stream         string
}

// New creates a new Notifier. For proper value on the caller func name, set
// `callerLevel` to:
//
//	1 - if the notifying func is immediately above the called Notify()
//	2 - if the notifying func is two levels above
//	... etc
//
// The minimum log level to use is taken from the OS env variable "LOG_LEVEL".
// If not found or invalid it is set to "INFO".
func New(ch entity.NotifyChan, log *logger.Log, callerLevel int, sender, instance, stream string) *Notifier {

	notifyLevel := entity.NotifyLevel(os.Getenv("LOG_LEVEL"))
	if notifyLevel == entity.NotifyLevelInvalid {
		notifyLevel = entity.NotifyLevelInfo
	}

	return &Notifier{
		ch:             ch,
		minNotifyLevel: notifyLevel,
		log:            log,
		callerLevel:    callerLevel,
		sender:         sender,
		instance:       instance,
		stream:         stream,
	}
}

func (n *Notifier) Sender() string {
	return n.sender
}

func (n *Notifier) Instance() string {
	return n.instance
}

func (n *Notifier) Stream() string {
	return n.stream
}

func (n *Notifier) SetNotifyLevel(level int) {
	n.minNotifyLevel = level
}

// Notify sends the provided data to the notify channel (and optionally the log
// framework), together with additional data depending on notification level:
//
//	DEBUG and INFO: name of calling func
//	WARN: as INFO plus file and line number
//	ERROR: as WARN plus the full stack trace.
func (n *Notifier) Notify(level int, message string, args ...any) {

	if level < n.minNotifyLevel {
		return
	}

	msg := fmt.Sprintf(message, args...)
	n.sendNotificationEvent(level, msg)

	if n.log == nil {
		return
	}

	var streamPrefix, streamSuffix string
	if n.stream != "" {
		streamPrefix = "(stream: "
		streamSuffix = ")"
	}

	const fmtstr = "[%s:%s]%s%s%s %s"
	switch level {
	case entity.NotifyLevelDebug:
		n.log.Debugf(fmtstr, n.sender, n.instance, streamPrefix, n.stream, streamSuffix, msg)
	case entity.NotifyLevelInfo:
		n.log.Infof(fmtstr, n.sender, n.instance, streamPrefix, n.stream, streamSuffix, msg)
	case entity.NotifyLevelWarn:
		n.log.Warnf(fmtstr, n.sender, n.instance, streamPrefix, n.stream, streamSuffix, msg)
	case entity.NotifyLevelError:
		n.log.Errorf(fmtstr, n.sender, n.instance, streamPrefix, n.stream, streamSuffix, msg)
	}
}

// sendNotificationEvent enriches the event with func, file, line and call stack
// info as applicable for the level, and sends it to the channel. The send is
// non-blocking so a full or absent channel never stalls a run.
func (n *Notifier) sendNotificationEvent(notifyLevel int, msg string) {

	pc, file, line, _ := runtime.Caller(n.callerLevel)
	funcName := "unknown"
	if f := runtime.FuncForPC(pc); f != nil {
		_, funcName = filepath.Split(f.Name())
	}

	event := entity.NotificationEvent{
		Level:     entity.NotifyLevelName(notifyLevel),
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05.000000Z"),
		Sender:    n.sender,
		Instance:  n.instance,
		Stream:    n.stream,
		Message:   msg,
		Func:      funcName,
	}

	if notifyLevel >= entity.NotifyLevelWarn {
		event.File = file
		event.Line = line
	}

	if notifyLevel == entity.NotifyLevelError {
		stackTrace := make([]byte, 1024)
		stackTrace = stackTrace[:runtime.Stack(stackTrace, false)]
		event.StackTrace = string(stackTrace)
	}

	select {
	case n.ch <- event:
	default:
	}
}
