package engine

import (
	"github.com/pvallin/passage/entity"
)

type Config struct {
	// NotifyChan is the common channel for operational events from all executors
	NotifyChan entity.NotifyChan

	// If set to true native logging is used in addition to the notify channel
	Log bool

	// Client-provided row hooks, called before/after the transform of each row
	PreTransformHookFunc  entity.PreTransformHookFunc
	PostTransformHookFunc entity.PostTransformHookFunc
}
