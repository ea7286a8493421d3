/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package command implements the designer's edit operations as reversible
// command objects and the bounded undo/redo manager that runs them. Commands
// capture everything they need at construction time and talk to the canvas
// only through the Canvas interface, so they can be replayed in either
// direction long after the interaction that created them.
package command

import (
	"errors"
	"sync"
)

// Command is one reversible edit. Execute applies the forward transition,
// Undo applies the reverse. Both must be safe to call repeatedly in
// alternation (execute, undo, execute, ...); the manager guarantees the
// ordering.
type Command interface {
	Execute() error
	Undo() error
	// Description is a short human-readable label for menus ("Undo Align left").
	Description() string
}

// SelectionReporter is implemented by commands that change what should be
// selected after they run. The designer applies the reported selection after
// a successful Execute/Redo or Undo.
type SelectionReporter interface {
	SelectionAfterExecute() []string
	SelectionAfterUndo() []string
}

// DefaultMaxDepth bounds the undo history. Beyond this the oldest entry is
// dropped silently.
const DefaultMaxDepth = 50

// ErrNothingToUndo is returned by Undo on an empty stack.
var ErrNothingToUndo = errors.New("nothing to undo")

// ErrNothingToRedo is returned by Redo on an empty stack.
var ErrNothingToRedo = errors.New("nothing to redo")

// Manager owns the undo and redo stacks. It is safe for concurrent use,
// although the designer drives it from a single goroutine.
type Manager struct {
	mu       sync.Mutex
	maxDepth int
	undo     []Command
	redo     []Command
	onChange func()
}

// NewManager creates a manager. maxDepth <= 0 selects DefaultMaxDepth.
func NewManager(maxDepth int) *Manager {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Manager{maxDepth: maxDepth}
}

// SetOnChange registers the single change callback. It fires after every
// successful Execute, Undo, Redo, or Clear, with no locks held.
func (m *Manager) SetOnChange(fn func()) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// Execute runs cmd and records it for undo. A new edit invalidates the redo
// stack. When the command fails, nothing is recorded and the error is
// returned.
func (m *Manager) Execute(cmd Command) error {
	if cmd == nil {
		return errors.New("nil command")
	}
	if err := cmd.Execute(); err != nil {
		return err
	}
	m.mu.Lock()
	m.undo = append(m.undo, cmd)
	if len(m.undo) > m.maxDepth {
		m.undo = m.undo[len(m.undo)-m.maxDepth:]
	}
	m.redo = m.redo[:0]
	fn := m.onChange
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
	return nil
}

// Undo reverses the most recent command and moves it to the redo stack. When
// the command's Undo fails it is pushed back onto the undo stack so the
// stacks stay consistent best-effort, and the error is returned along with
// the command.
func (m *Manager) Undo() (Command, error) {
	m.mu.Lock()
	if len(m.undo) == 0 {
		m.mu.Unlock()
		return nil, ErrNothingToUndo
	}
	cmd := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.mu.Unlock()

	if err := cmd.Undo(); err != nil {
		m.mu.Lock()
		m.undo = append(m.undo, cmd)
		m.mu.Unlock()
		return cmd, err
	}

	m.mu.Lock()
	m.redo = append(m.redo, cmd)
	fn := m.onChange
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
	return cmd, nil
}

// Redo re-applies the most recently undone command. Failure handling mirrors
// Undo: the command goes back onto the redo stack and the error propagates.
func (m *Manager) Redo() (Command, error) {
	m.mu.Lock()
	if len(m.redo) == 0 {
		m.mu.Unlock()
		return nil, ErrNothingToRedo
	}
	cmd := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.mu.Unlock()

	if err := cmd.Execute(); err != nil {
		m.mu.Lock()
		m.redo = append(m.redo, cmd)
		m.mu.Unlock()
		return cmd, err
	}

	m.mu.Lock()
	m.undo = append(m.undo, cmd)
	if len(m.undo) > m.maxDepth {
		m.undo = m.undo[len(m.undo)-m.maxDepth:]
	}
	fn := m.onChange
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
	return cmd, nil
}

// CanUndo reports whether the undo stack is non-empty.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo) > 0
}

// CanRedo reports whether the redo stack is non-empty.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo) > 0
}

// UndoDescription returns the label of the next command Undo would reverse.
func (m *Manager) UndoDescription() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.undo) == 0 {
		return "", false
	}
	return m.undo[len(m.undo)-1].Description(), true
}

// RedoDescription returns the label of the next command Redo would re-apply.
func (m *Manager) RedoDescription() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.redo) == 0 {
		return "", false
	}
	return m.redo[len(m.redo)-1].Description(), true
}

// Depth returns the current undo stack depth.
func (m *Manager) Depth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo)
}

// Clear drops both stacks, for example after loading a different layout.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.undo = nil
	m.redo = nil
	fn := m.onChange
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}
