package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-drift/compositor/pkg/animation"
	"github.com/go-drift/compositor/pkg/animhost"
	"github.com/go-drift/compositor/pkg/errors"
)

// AnimationState is the serialized form of one animation.
type AnimationState struct {
	ID        int    `json:"id"`
	Group     int    `json:"group"`
	Property  string `json:"property"`
	RunState  string `json:"runState"`
	StartTime int64  `json:"startTime,omitempty"`
	ImplOnly  bool   `json:"implOnly,omitempty"`
}

// ElementState is the serialized animation state of one element on both
// sides of the commit.
type ElementState struct {
	Element    uint64           `json:"element"`
	Active     bool             `json:"active"`
	Pending    bool             `json:"pending"`
	Main       []AnimationState `json:"main,omitempty"`
	Impl       []AnimationState `json:"impl,omitempty"`
	ImplTicked bool             `json:"implTicked"`
}

// Elements returns the animation state of every element added to c.
func (c *Compositor) Elements() []ElementState {
	c.mu.Lock()
	defer c.mu.Unlock()

	ticking := make(map[animation.ElementID]bool)
	for _, id := range c.impl.ActiveElements() {
		ticking[id] = true
	}
	out := make([]ElementState, 0, len(c.players))
	for _, id := range slices.Sorted(maps.Keys(c.players)) {
		out = append(out, ElementState{
			Element:    uint64(id),
			Active:     c.implTree.IsElementInList(id, animation.ListActive),
			Pending:    c.implTree.IsElementInList(id, animation.ListPending),
			Main:       animationStates(c.main.GetElementAnimationsForElementID(id)),
			Impl:       animationStates(c.impl.GetElementAnimationsForElementID(id)),
			ImplTicked: ticking[id],
		})
	}
	return out
}

func animationStates(e *animhost.ElementAnimations) []AnimationState {
	if e == nil {
		return nil
	}
	out := make([]AnimationState, 0, len(e.Animations()))
	for _, a := range e.Animations() {
		out = append(out, AnimationState{
			ID:        a.ID(),
			Group:     a.Group(),
			Property:  a.TargetProperty().String(),
			RunState:  a.RunState().String(),
			StartTime: int64(a.StartTime()),
			ImplOnly:  a.IsImplOnly(),
		})
	}
	return out
}

// Handler returns the debug endpoints:
//
//	/health    liveness check
//	/frames    recent frame samples (filters: limit, min_interval_ms, committed)
//	/elements  per element animation state
//	/runtime   heap and host size samples (with WithRuntimeSampling)
//	/debug     frame count and ticking set sizes
func (c *Compositor) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/frames", c.handleFrameTimeline)
	mux.HandleFunc("/elements", c.handleElements)
	mux.HandleFunc("/runtime", c.handleRuntime)
	mux.HandleFunc("/debug", c.handleDebug)
	return mux
}

// StartDebugServer serves Handler on port and returns the bound port, which
// differs from port when port is zero. Calling it again while running
// returns the current port.
func (c *Compositor) StartDebugServer(port int) (int, error) {
	c.debugMu.Lock()
	defer c.debugMu.Unlock()

	if c.debugServer != nil {
		return c.debugListener.Addr().(*net.TCPAddr).Port, nil
	}

	// Bind first to fail fast on port conflicts.
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return 0, fmt.Errorf("debug server listen: %w", err)
	}
	server := &http.Server{Handler: c.Handler()}
	c.debugServer = server
	c.debugListener = listener

	go func() {
		defer errors.Recover("engine.debugServer")
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.debugMu.Lock()
			if c.debugServer == server {
				c.debugServer = nil
				c.debugListener = nil
			}
			c.debugMu.Unlock()
			animation.Logger().Error("debug server stopped", "err", err)
		}
	}()
	return listener.Addr().(*net.TCPAddr).Port, nil
}

// StopDebugServer shuts the debug server down, waiting up to two seconds
// for open requests.
func (c *Compositor) StopDebugServer() {
	c.debugMu.Lock()
	server := c.debugServer
	c.debugServer = nil
	c.debugListener = nil
	c.debugMu.Unlock()

	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	server.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (c *Compositor) handleFrameTimeline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	resp := c.trace.Snapshot()
	applyFrameFilters(r, &resp)
	writeJSON(w, resp)
}

func (c *Compositor) handleElements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, struct {
		Elements []ElementState `json:"elements"`
	}{c.Elements()})
}

func (c *Compositor) handleRuntime(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if c.runtime == nil {
		http.Error(w, "runtime sampling disabled", http.StatusNotFound)
		return
	}
	writeJSON(w, struct {
		EveryFrames int             `json:"everyFrames"`
		Samples     []RuntimeSample `json:"samples"`
	}{c.runtime.Every(), c.runtime.Snapshot()})
}

func (c *Compositor) handleDebug(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	c.mu.Lock()
	info := struct {
		Frames      int    `json:"frames"`
		Now         int64  `json:"now"`
		MainTicking int    `json:"mainTicking"`
		ImplTicking int    `json:"implTicking"`
		Schema      string `json:"schema"`
	}{
		Frames:      c.frame,
		Now:         int64(c.Now()),
		MainTicking: len(c.main.ActiveElements()),
		ImplTicking: len(c.impl.ActiveElements()),
		Schema:      c.settings.Schema,
	}
	c.mu.Unlock()
	writeJSON(w, info)
}

func writeJSON(w http.ResponseWriter, v any) {
	// Encode to a buffer first so errors still produce a clean response.
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func applyFrameFilters(r *http.Request, resp *FrameTimeline) {
	query := r.URL.Query()
	limit := 0
	if value := query.Get("limit"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	var filters []func(FrameSample) bool
	if value := query.Get("min_interval_ms"); value != "" {
		if v, err := strconv.ParseFloat(value, 64); err == nil && v > 0 {
			filters = append(filters, func(s FrameSample) bool { return s.IntervalMs >= v })
		}
	}
	if value := query.Get("committed"); value != "" {
		if want, err := strconv.ParseBool(value); err == nil {
			filters = append(filters, func(s FrameSample) bool { return s.Flags.Committed == want })
		}
	}

	if len(filters) > 0 {
		filtered := make([]FrameSample, 0, len(resp.Samples))
	outer:
		for _, sample := range resp.Samples {
			for _, f := range filters {
				if !f(sample) {
					continue outer
				}
			}
			filtered = append(filtered, sample)
		}
		resp.Samples = filtered
	}

	if limit > 0 && len(resp.Samples) > limit {
		resp.Samples = resp.Samples[len(resp.Samples)-limit:]
	}
}
