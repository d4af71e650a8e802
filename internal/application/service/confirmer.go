package service

import "context"

// Destructive actions that need confirmation.
const (
	ActionRefund       = "refund"
	ActionClearToday   = "clear_today"
	ActionClearAll     = "clear_all"
	ActionResetCatalog = "reset_catalog"
)

// Confirmer asks whoever is at the till whether a destructive action may go
// ahead. A false answer means the action must not run.
type Confirmer interface {
	Confirm(ctx context.Context, action string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, action string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, action string) bool {
	return f(ctx, action)
}

// Fixed answers, mostly for tests and scripted jobs.
var (
	AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, string) bool { return true })
	NeverConfirm  Confirmer = ConfirmFunc(func(context.Context, string) bool { return false })
)

func confirmed(ctx context.Context, c Confirmer, action string) bool {
	return c != nil && c.Confirm(ctx, action)
}
