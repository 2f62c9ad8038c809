package entity

import "context"

type HookAction int

const (
	HookActionInvalid HookAction = iota // default, not to be used
	HookActionProceed                   // continue processing of this row
	HookActionSkip                      // skip this row and take next
	HookActionError                     // fail the run with this row as the cause
)

// PreTransformHookFunc is a client-provided function which a dataset's Executor
// calls prior to sending each row to the Transformer. This way the client can
// modify/enrich rows before they are processed according to the transform part of
// the spec (e.g. with the EnrichRow API function).
// The row is provided as a mutable argument to avoid requiring the client to
// always return data even if not used.
// The spec governing the provided row is included for context and filtering logic,
// since the function is called for all registered datasets.
type PreTransformHookFunc func(ctx context.Context, spec *Spec, row *[]byte) HookAction

// PostTransformHookFunc serves the same purpose and functionality as the
// PreTransformHookFunc but is called after the row transformations.
type PostTransformHookFunc func(ctx context.Context, spec *Spec, cleaned *[]*Transformed) HookAction
