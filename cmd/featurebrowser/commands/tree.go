package commands

import (
	"path"

	"github.com/disiqueira/gotree/v3"
)

// visualTree renders slash separated paths as a directory tree.
type visualTree struct {
	tree gotree.Tree
	dirs map[string]gotree.Tree
}

func newVisualTree(rootLabel string) visualTree {
	return visualTree{tree: gotree.New(rootLabel), dirs: make(map[string]gotree.Tree)}
}

func (t visualTree) dir(dirPath string) gotree.Tree {
	if dirPath == "" || dirPath == "." {
		return t.tree
	}
	d := t.dirs[dirPath]
	if d == nil {
		d = t.dir(path.Dir(dirPath)).Add(path.Base(dirPath) + "/")
		t.dirs[dirPath] = d
	}
	return d
}

func (t visualTree) add(dirPath, label string) {
	t.dir(dirPath).Add(label)
}

func (t visualTree) branch(label string) gotree.Tree {
	return t.tree.Add(label)
}

func (t visualTree) String() string {
	return t.tree.Print()
}
