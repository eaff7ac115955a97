// Package app provides application lifecycle management, configuration, and events.
package app

import (
	"fmt"
	"sync"

	"curve-viewer/internal/dataset"
	"curve-viewer/internal/view"
	"curve-viewer/pkg/geometry"

	"github.com/sgostarter/i/l"
)

// State owns the view controller and serializes every call into it. Input
// from the UI thread and from the hover throttle goroutine both go through
// State, so the controller itself never sees concurrent calls.
type State struct {
	mu   sync.Mutex
	ctrl *view.Controller

	logger l.Wrapper

	// events raised while mu is held, delivered after it is released
	pending []pendingEvent

	lmu       sync.RWMutex
	listeners map[EventType][]EventListener
}

type pendingEvent struct {
	event EventType
	data  interface{}
}

// EventType identifies different application events.
type EventType int

const (
	EventDatasetLoaded EventType = iota
	EventSubsetChanged
	EventSelectionChanged
	EventMarkingChanged
	EventModeChanged
	EventConfigChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates the application state around a renderer.
func NewState(renderer view.Renderer, cfg view.Config, logger l.Wrapper) *State {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}
	s := &State{
		logger:    logger.WithFields(l.StringField(l.ClsKey, "appState")),
		listeners: make(map[EventType][]EventListener),
	}
	s.ctrl = view.NewController(renderer, cfg, logger)
	s.ctrl.OnSelectionChanged(func(rows []int) {
		s.queue(EventSelectionChanged, rows)
	})
	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.lmu.RLock()
	listeners := s.listeners[event]
	s.lmu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// queue must be called with mu held.
func (s *State) queue(event EventType, data interface{}) {
	s.pending = append(s.pending, pendingEvent{event, data})
}

// do runs fn against the controller under the lock, then delivers the events
// fn raised. A mode change is reported as EventModeChanged.
func (s *State) do(fn func(c *view.Controller)) {
	s.mu.Lock()
	before := s.ctrl.Mode()
	fn(s.ctrl)
	if after := s.ctrl.Mode(); after != before {
		s.queue(EventModeChanged, after)
	}
	events := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, e := range events {
		s.Emit(e.event, e.data)
	}
}

// LoadDataset replaces the plotted curves. Listeners receive
// EventDatasetLoaded followed by an empty EventSelectionChanged.
func (s *State) LoadDataset(d *dataset.Dataset) {
	s.do(func(c *view.Controller) {
		s.queue(EventDatasetLoaded, d)
		c.LoadDataset(d)
	})
	s.logger.WithFields(l.IntField("curves", d.Len())).Debug("dataset replaced")
}

// SetSubset replaces the subset overlay; nil clears it.
func (s *State) SetSubset(ids []dataset.ID) {
	s.do(func(c *view.Controller) {
		c.SetSubsetIDs(ids)
		s.queue(EventSubsetChanged, ids)
	})
}

// SelectionOutput returns the selected curves ordered by source row, or nil
// when nothing is selected.
func (s *State) SelectionOutput() []*dataset.Curve {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Dataset().SelectedCurves()
}

// Dataset returns the loaded dataset, or nil.
func (s *State) Dataset() *dataset.Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Dataset()
}

// Mode returns the current interaction mode.
func (s *State) Mode() view.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Mode()
}

// Config returns the controller configuration.
func (s *State) Config() view.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Config()
}

// SetConfig replaces the controller configuration.
func (s *State) SetConfig(cfg view.Config) {
	s.do(func(c *view.Controller) {
		c.SetConfig(cfg)
		s.queue(EventConfigChanged, cfg)
	})
}

// History returns the zoom history length and pointer.
func (s *State) History() (length, pointer int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.ctrl.History()
	return h.Len(), h.Pointer()
}

func (s *State) Hover(pos geometry.Point2D) {
	s.do(func(c *view.Controller) { c.Hover(pos) })
}

func (s *State) Click(ev view.PointerEvent) {
	s.do(func(c *view.Controller) { c.Click(ev) })
}

func (s *State) Drag(ev view.DragEvent) {
	s.do(func(c *view.Controller) { c.Drag(ev) })
}

func (s *State) EnterZoomMode() {
	s.do(func(c *view.Controller) { c.EnterZoomMode() })
}

func (s *State) FitView() {
	s.do(func(c *view.Controller) { c.FitView() })
}

func (s *State) ZoomBack() {
	s.do(func(c *view.Controller) { c.ZoomBack() })
}

func (s *State) ZoomForward() {
	s.do(func(c *view.Controller) { c.ZoomForward() })
}

// AddMarking registers an overlay region. Range changes made through the
// marking are reported as EventMarkingChanged.
func (s *State) AddMarking(m *view.Marking) {
	m.OnChange(func(m *view.Marking) {
		lo, hi := m.Range()
		s.logger.WithFields(l.StringField("marking", m.Name),
			l.StringField("range", fmt.Sprintf("%g..%g", lo, hi))).Debug("marking changed")
		s.Emit(EventMarkingChanged, m)
	})
	s.do(func(c *view.Controller) { c.AddMarking(m) })
}
