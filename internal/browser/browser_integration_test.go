//go:build integration

package browser_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"navsync/internal/browser"
	"navsync/internal/router"
)

func TestSession_RoutesRealPage_Integration(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "<html><body><input id='q' autofocus></body></html>")
	}))
	defer ts.Close()

	cfg := browser.DefaultConfig()
	cfg.StartURL = ts.URL + "/app#narrow/stream/Denmark"
	cfg.NavigationTimeout = 10 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s := browser.NewSession(cfg, nil)
	require.NoError(t, s.Start(ctx), "Failed to start browser")
	defer func() {
		if err := s.Shutdown(); err != nil {
			t.Logf("Shutdown error: %v", err)
		}
	}()

	loc := s.Location()
	h, err := loc.Hash()
	require.NoError(t, err)
	require.Equal(t, "#narrow/stream/Denmark", h)
	path, err := loc.Pathname()
	require.NoError(t, err)
	require.Equal(t, "/app", path)
	require.True(t, loc.CanPushState())

	rec := &router.Recorder{}
	collab := rec.Collaborators()
	collab.Focus = loc
	r := router.New(loc, collab, router.Options{InitialPointer: 5})

	runCtx, stopRun := context.WithCancel(ctx)
	defer stopRun()
	go func() { _ = r.Run(runCtx, s) }()

	require.Eventually(t, func() bool { return rec.Count("narrow.activate") == 1 }, 10*time.Second, 20*time.Millisecond)
	assert.Equal(t, int64(5), rec.LastOptions().ThenSelectID)

	// A real hashchange reaches the router.
	require.NoError(t, loc.SetHash("#settings"))
	require.Eventually(t, func() bool { return rec.Count("overlay.settings") == 1 }, 10*time.Second, 20*time.Millisecond)

	// pushState does not fire hashchange.
	require.NoError(t, r.Do(ctx, func() { _ = r.ChangeTo("#narrow/is/private") }))
	require.Eventually(t, func() bool {
		h, _ := loc.Hash()
		return h == "#narrow/is/private"
	}, 10*time.Second, 20*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 1, rec.Count("narrow.activate"))
}
