package dispatcher

import (
	"github.com/atomicstack/navshell/internal/backend"
	"github.com/atomicstack/navshell/internal/navtree"
	"github.com/atomicstack/navshell/internal/state"
)

// Loader receives each fetched tree. *navigation.Coordinator satisfies it.
type Loader interface {
	Load(*navtree.Model)
}

type Result struct {
	TreeUpdated bool
	Sections    int
	Err         error
}

type Dispatcher struct {
	trees  state.TreeStore
	loader Loader
}

func New(trees state.TreeStore, loader Loader) *Dispatcher {
	return &Dispatcher{trees: trees, loader: loader}
}

// Handle records evt and hands its tree to the loader. A failed fetch still
// delivers its empty tree so the shell degrades to no navigation.
func (d *Dispatcher) Handle(evt backend.Event) Result {
	tree := evt.Tree
	if tree == nil {
		tree = navtree.Empty()
	}
	d.trees.SetTree(tree)
	d.trees.SetErr(evt.Err)
	d.trees.SetFetchedAt(evt.FetchedAt)
	if d.loader != nil {
		d.loader.Load(tree)
	}
	return Result{TreeUpdated: true, Sections: len(tree.Sections()), Err: evt.Err}
}
