package nodeskema

import (
	json "github.com/goccy/go-json"
)

// History returns a copy of the snapshot buffer (oldest first).
func (m *DataModel) History() []string { return append([]string(nil), m.history...) }

// HistoryIndex is the cursor into History.
func (m *DataModel) HistoryIndex() int { return m.historyIndex }

// HistoryMax is the snapshot buffer bound.
func (m *DataModel) HistoryMax() int { return m.historyMax }

// CanUndo reports whether an older snapshot is available.
func (m *DataModel) CanUndo() bool { return m.historyIndex > 0 }

// CanRedo reports whether a newer snapshot is available.
func (m *DataModel) CanRedo() bool { return m.historyIndex < len(m.history)-1 }

// Undo restores the previous snapshot, validates it strictly and notifies
// listeners without recording. It reports whether the cursor moved.
func (m *DataModel) Undo() bool {
	if !m.CanUndo() {
		return false
	}
	return m.restore(m.historyIndex - 1)
}

// Redo restores the next snapshot; see Undo.
func (m *DataModel) Redo() bool {
	if !m.CanRedo() {
		return false
	}
	return m.restore(m.historyIndex + 1)
}

func (m *DataModel) restore(idx int) bool {
	var v any
	if err := json.Unmarshal([]byte(m.history[idx]), &v); err != nil {
		m.logger.Error("history snapshot is not valid JSON", "index", idx, "error", err)
		return false
	}
	m.historyIndex = idx
	m.data = v
	m.invalidate(false, false)
	return true
}

// record appends the serialization of the current data, dropping any redo
// tail and the oldest entries beyond historyMax. A snapshot equal to the one
// under the cursor is not duplicated.
func (m *DataModel) record() {
	b, err := json.Marshal(m.data)
	if err != nil {
		m.logger.Error("cannot snapshot model data", "error", err)
		return
	}
	snap := string(b)
	if m.historyIndex >= 0 && m.history[m.historyIndex] == snap {
		return
	}
	m.history = append(m.history[:m.historyIndex+1], snap)
	if over := len(m.history) - m.historyMax; over > 0 {
		m.history = append([]string(nil), m.history[over:]...)
	}
	m.historyIndex = len(m.history) - 1
}
