package explorer

import (
	"sort"
	"strings"
)

// Node is one entry in the derived file tree. The tree is rebuilt from the
// flat file list whenever it is needed and never stored in state.
type Node struct {
	Name     string // base name
	Path     string // full slash path from the root
	IsDir    bool
	Children []*Node
	File     *File // nil for directories
}

// BuildTree folds the flat file list into a forest. Every level is ordered
// directories first, then alphabetically within each group.
func BuildTree(files []File) []*Node {
	root := &Node{IsDir: true}
	index := map[string]*Node{"": root}

	for i := range files {
		f := &files[i]
		parts := strings.Split(f.Name, "/")

		parentPath := ""
		for depth := 0; depth < len(parts)-1; depth++ {
			path := strings.Join(parts[:depth+1], "/")
			if _, ok := index[path]; !ok {
				dir := &Node{Name: parts[depth], Path: path, IsDir: true}
				parent := index[parentPath]
				parent.Children = append(parent.Children, dir)
				index[path] = dir
			}
			parentPath = path
		}

		leaf := &Node{Name: parts[len(parts)-1], Path: f.Name, File: f}
		parent := index[parentPath]
		parent.Children = append(parent.Children, leaf)
	}

	sortNodes(root.Children)
	return root.Children
}

func sortNodes(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return a.Name < b.Name
	})
	for _, n := range nodes {
		if n.IsDir {
			sortNodes(n.Children)
		}
	}
}

// Flatten walks the forest depth-first and returns the files in tree order.
// Flatten(BuildTree(files)) yields the same set as files, reordered to the
// tree's directory-first traversal.
func Flatten(nodes []*Node) []File {
	var out []File
	var walk func(ns []*Node)
	walk = func(ns []*Node) {
		for _, n := range ns {
			if n.IsDir {
				walk(n.Children)
			} else {
				out = append(out, *n.File)
			}
		}
	}
	walk(nodes)
	return out
}
