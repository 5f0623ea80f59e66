// Package testing provides fakes and builders for animation host tests.
//
// # Quick Start
//
// Wire a recording client to a host, register an element and drive frames:
//
//	func TestFade(t *testing.T) {
//	    client := animtest.NewRecordingClient()
//	    host := animhost.NewMainHost(client)
//	    client.SetHost(host)
//	    client.RegisterElement(1, animation.ListActive)
//
//	    // attach a timeline and player, then
//	    animtest.AddOpacityTransition(player, host.IDs(), time.Second, 0, 1, false)
//	    host.AnimateLayers(animtest.Ticks(1 * time.Second))
//
//	    if v, _ := client.Opacity(1, animation.ListActive); v != 0 {
//	        t.Errorf("opacity = %v, want 0", v)
//	    }
//	}
//
// # Snapshot Testing
//
// Compare the recorded mutation log against a golden file:
//
//	client.Snapshot().MatchesFile(t, "testdata/fade.snapshot.json")
//
// Update snapshots with:
//
//	COMPOSITOR_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import animtest "github.com/go-drift/compositor/pkg/testing"
package testing
