package app

import "context"

// Notifier shows a short user-visible notice.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(msg string) { f(msg) }

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmerFunc adapts a function to Confirmer.
type ConfirmerFunc func(ctx context.Context, prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmerFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// Answer is a Confirmer that always gives the same reply.
type Answer bool

// Confirm implements Confirmer.
func (a Answer) Confirm(context.Context, string) bool { return bool(a) }

type notifierKey struct{}
type confirmerKey struct{}

// WithNotifier routes notices raised while handling ctx to n instead of the
// controller's default notifier.
func WithNotifier(ctx context.Context, n Notifier) context.Context {
	return context.WithValue(ctx, notifierKey{}, n)
}

// WithConfirmer answers confirmations raised while handling ctx with c.
func WithConfirmer(ctx context.Context, c Confirmer) context.Context {
	return context.WithValue(ctx, confirmerKey{}, c)
}

// Notices collects notices, for callers that return them in a response.
type Notices struct {
	List []string
}

// Notify implements Notifier.
func (n *Notices) Notify(msg string) { n.List = append(n.List, msg) }
