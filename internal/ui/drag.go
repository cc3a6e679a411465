// Copyright (c) Liam Stanley <liam@liam.sh>. All rights reserved. Use of
// this source code is governed by the MIT license that can be found in
// the LICENSE file.

package ui

import tea "github.com/charmbracelet/bubbletea"

// DragPhase is the stage of a drag gesture.
type DragPhase int

const (
	DragNone DragPhase = iota
	DragBegan
	DragChanged
	DragEnded
)

// Gesture is one step of a drag. Translation is the horizontal distance in
// cells from where the press started, not the delta since the last motion.
type Gesture struct {
	Phase       DragPhase
	ID          string
	Translation int
}

// HitTest reports which draggable target, if any, a press landed on.
type HitTest func(msg tea.MouseMsg) (id string, ok bool)

// DragHandler turns raw mouse events into a single-pointer drag gesture.
type DragHandler struct {
	dragging bool
	id       string
	startX   int
	lastX    int
}

// HandleMouseEvent processes msg. A gesture with phase DragNone means the
// event was not consumed.
func (d *DragHandler) HandleMouseEvent(msg tea.MouseMsg, hit HitTest) Gesture {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || d.dragging {
			break
		}
		if id, ok := hit(msg); ok {
			d.dragging = true
			d.id = id
			d.startX, d.lastX = msg.X, msg.X
			return Gesture{Phase: DragBegan, ID: id}
		}
	case tea.MouseActionMotion:
		if d.dragging && msg.X != d.lastX {
			d.lastX = msg.X
			return Gesture{Phase: DragChanged, ID: d.id, Translation: msg.X - d.startX}
		}
		if d.dragging {
			// Vertical motion still belongs to the gesture.
			return Gesture{Phase: DragChanged, ID: d.id, Translation: d.lastX - d.startX}
		}
	case tea.MouseActionRelease:
		// Terminals report the released button inconsistently, so any
		// release ends the gesture.
		if d.dragging {
			g := Gesture{Phase: DragEnded, ID: d.id, Translation: d.lastX - d.startX}
			d.dragging = false
			d.id = ""
			return g
		}
	}
	return Gesture{}
}

// IsDragging reports whether a gesture is in progress.
func (d *DragHandler) IsDragging() bool {
	return d.dragging
}

// DragID is the target of the current gesture.
func (d *DragHandler) DragID() string {
	return d.id
}
