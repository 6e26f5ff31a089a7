package browser

import (
	"encoding/json"

	"github.com/go-rod/rod/lib/proto"

	"navsync/internal/location"
)

// hashChangeMarker tags the console message the page hook emits for every
// hashchange event.
const hashChangeMarker = "__navsync_hashchange__"

// hookFunc reports hashchange events over the console, where rod can
// observe them. It is idempotent per document.
const hookFunc = `() => {
	if (window.__navsyncHooked) return;
	window.__navsyncHooked = true;
	window.addEventListener('hashchange', (ev) => {
		console.debug('` + hashChangeMarker + `', JSON.stringify({old: ev.oldURL, new: ev.newURL}));
	});
}`

// hookScript runs hookFunc on every new document.
const hookScript = "(" + hookFunc + ")();"

type hashChangePayload struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// decodeHashChange extracts a change from a console event. Other console
// traffic is rejected.
func decodeHashChange(ev *proto.RuntimeConsoleAPICalled) (location.Change, bool) {
	if ev == nil || ev.Type != proto.RuntimeConsoleAPICalledTypeDebug || len(ev.Args) != 2 {
		return location.Change{}, false
	}
	if ev.Args[0] == nil || ev.Args[1] == nil || ev.Args[0].Value.Str() != hashChangeMarker {
		return location.Change{}, false
	}
	var p hashChangePayload
	if err := json.Unmarshal([]byte(ev.Args[1].Value.Str()), &p); err != nil {
		return location.Change{}, false
	}
	return location.NewChange(p.Old, p.New), true
}
