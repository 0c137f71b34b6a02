package tree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Node is implemented by hierarchical content entries (menu items,
// taxonomy terms). The self-referential type parameter lets Build
// return concretely typed forests without reflection.
type Node[T any] interface {
	NodeID() uuid.UUID
	NodeParentID() *uuid.UUID
	NodeContainerID() uuid.UUID
	NodePosition() int
	NodeLabel() string
	AddChild(T)
	ResetChildren()
	ChildNodes() []T
}

// InvalidEntry describes one fetched row whose identity failed validation.
type InvalidEntry struct {
	ID          uuid.UUID  `json:"id"`
	ContainerID uuid.UUID  `json:"container_id"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Label       string     `json:"label"`
}

// IntegrityError aggregates every invalid entry found in a fetched row
// set. The fetch that produced it must be abandoned: a corrupted id
// would silently break parent linking downstream.
type IntegrityError struct {
	Entries []InvalidEntry
}

func (e *IntegrityError) Error() string {
	labels := make([]string, len(e.Entries))
	for i, entry := range e.Entries {
		labels[i] = entry.Label
	}
	return fmt.Sprintf("%d entries with invalid identity: %s", len(e.Entries), strings.Join(labels, ", "))
}

// ValidateEntries verifies every fetched entry carries a usable identity.
// All offenders are collected before failing so the error names each one,
// not just the first. A nil return means the set is safe to link.
func ValidateEntries[T Node[T]](entries []T) error {
	var invalid []InvalidEntry
	for _, entry := range entries {
		if entry.NodeID() == uuid.Nil {
			invalid = append(invalid, InvalidEntry{
				ID:          entry.NodeID(),
				ContainerID: entry.NodeContainerID(),
				ParentID:    entry.NodeParentID(),
				Label:       entry.NodeLabel(),
			})
		}
	}
	if len(invalid) > 0 {
		return &IntegrityError{Entries: invalid}
	}
	return nil
}

// Build assembles the ordered forest for one container from a flat,
// pre-validated entry list. Entries whose parent id is absent from the
// set become roots rather than being dropped. Every level is sorted by
// position ascending with a locale-aware label tie-break.
func Build[T Node[T]](entries []T) []T {
	index := make(map[uuid.UUID]T, len(entries))
	for _, entry := range entries {
		entry.ResetChildren()
		index[entry.NodeID()] = entry
	}

	roots := []T{}
	for _, entry := range entries {
		parentID := entry.NodeParentID()
		// A self-referencing row can only come from writes that bypassed
		// the parent validators; treating it as a root keeps Build from
		// recursing into its own subtree.
		if parentID != nil && *parentID != entry.NodeID() {
			if parent, ok := index[*parentID]; ok {
				parent.AddChild(entry)
				continue
			}
		}
		roots = append(roots, entry)
	}

	sortForest(collate.New(language.English), roots)
	return roots
}

// GroupByContainer splits one batched fetch into per-container entry
// lists, preserving fetch order within each container.
func GroupByContainer[T Node[T]](entries []T) map[uuid.UUID][]T {
	grouped := make(map[uuid.UUID][]T)
	for _, entry := range entries {
		grouped[entry.NodeContainerID()] = append(grouped[entry.NodeContainerID()], entry)
	}
	return grouped
}

func sortForest[T Node[T]](collator *collate.Collator, nodes []T) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].NodePosition() != nodes[j].NodePosition() {
			return nodes[i].NodePosition() < nodes[j].NodePosition()
		}
		return collator.CompareString(nodes[i].NodeLabel(), nodes[j].NodeLabel()) < 0
	})
	for _, node := range nodes {
		sortForest(collator, node.ChildNodes())
	}
}
