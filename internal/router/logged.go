package router

import (
	"go.uber.org/zap"

	"navsync/internal/narrow"
)

// Logged implements every collaborator by logging the call. It stands in
// for real views when the router drives a page it does not render.
type Logged struct {
	Logger *zap.Logger
}

// Collaborators binds every collaborator to l.
func (l Logged) Collaborators() Collaborators {
	return Collaborators{
		Views:    l,
		Narrow:   l,
		Overlays: l,
		Modals:   l,
		Focus:    l,
		Floating: l,
		Badge:    l,
	}
}

func (l Logged) log(msg string, fields ...zap.Field) {
	if l.Logger != nil {
		l.Logger.Info(msg, fields...)
	}
}

func (l Logged) ActivateTab(id string) { l.log("activate tab", zap.String("tab", id)) }

func (l Logged) Activate(f narrow.Filter, opts ActivateOptions) {
	l.log("narrow",
		zap.String("filter", f.String()),
		zap.String("trigger", opts.Trigger),
		zap.Int64("then_select_id", opts.ThenSelectID))
}

func (l Logged) Deactivate()         { l.log("narrow cleared") }
func (l Logged) SubscriptionsSetup() { l.log("overlay setup", zap.String("overlay", "subscriptions")) }
func (l Logged) SettingsSetup()      { l.log("overlay setup", zap.String("overlay", "settings")) }
func (l Logged) AdministrationSetup() {
	l.log("overlay setup", zap.String("overlay", "administration"))
}
func (l Logged) CloseAll()   { l.log("modals closed") }
func (l Logged) BlurActive() { l.log("focus blurred") }
func (l Logged) Update()     { l.log("floating bar updated") }
func (l Logged) Reset()      { l.log("unread badge reset") }

// BeforeChange logs an application-initiated fragment change. Register it
// with Writer.OnBeforeChange.
func (l Logged) BeforeChange() { l.log("fragment change starting") }
