package commitmanager

import (
	"context"
	"fmt"

	"github.com/utkarsh5026/rgit/pkg/objects"
)

// History walks parent links from start, newest first. A zero start means
// HEAD; a repository without commits has an empty history. limit <= 0
// means no limit.
func (m *Manager) History(ctx context.Context, start objects.Digest, limit int) ([]HistoryEntry, error) {
	current := start
	if current.IsZero() {
		_, head, err := m.refs.ResolveHead()
		if err != nil {
			return nil, err
		}
		current = head
	}

	var history []HistoryEntry
	visited := make(map[objects.Digest]bool)

	for !current.IsZero() && (limit <= 0 || len(history) < limit) {
		if visited[current] {
			return history, fmt.Errorf("commit %s reached twice in history", current.Short())
		}
		visited[current] = true

		c, err := m.GetCommit(ctx, current)
		if err != nil {
			return history, err
		}

		history = append(history, HistoryEntry{Digest: current, Commit: c})
		current = c.Parent
	}

	return history, nil
}
