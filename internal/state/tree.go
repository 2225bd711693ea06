package state

import (
	"time"

	"github.com/atomicstack/navshell/internal/navtree"
)

// TreeStore holds the last fetched navigation tree and how the fetch went.
type TreeStore interface {
	Tree() *navtree.Model
	SetTree(*navtree.Model)
	Err() error
	SetErr(error)
	FetchedAt() time.Time
	SetFetchedAt(time.Time)
	Fetches() int
}

type treeStore struct {
	tree      *navtree.Model
	err       error
	fetchedAt time.Time
	fetches   int
}

func NewTreeStore() TreeStore {
	return &treeStore{tree: navtree.Empty()}
}

func (s *treeStore) Tree() *navtree.Model {
	return s.tree
}

// SetTree replaces the tree. Nil stores an empty tree.
func (s *treeStore) SetTree(tree *navtree.Model) {
	if tree == nil {
		tree = navtree.Empty()
	}
	s.tree = tree
	s.fetches++
}

func (s *treeStore) Err() error {
	return s.err
}

func (s *treeStore) SetErr(err error) {
	s.err = err
}

func (s *treeStore) FetchedAt() time.Time {
	return s.fetchedAt
}

func (s *treeStore) SetFetchedAt(at time.Time) {
	s.fetchedAt = at
}

// Fetches counts SetTree calls.
func (s *treeStore) Fetches() int {
	return s.fetches
}
