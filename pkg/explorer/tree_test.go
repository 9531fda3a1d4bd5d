package explorer

import (
	"testing"
)

func TestBuildTreeOrdersDirsBeforeFiles(t *testing.T) {
	files := []File{
		{Name: "a.js"},
		{Name: "a/b.js"},
	}
	tree := BuildTree(files)

	if len(tree) != 2 {
		t.Fatalf("expected 2 root nodes, got %d", len(tree))
	}
	if !tree[0].IsDir || tree[0].Name != "a" {
		t.Fatalf("expected directory %q first, got %+v", "a", tree[0])
	}
	if tree[1].IsDir || tree[1].Name != "a.js" {
		t.Fatalf("expected file %q second, got %+v", "a.js", tree[1])
	}
}

func TestBuildTreeSortsAlphabeticallyWithinGroups(t *testing.T) {
	files := []File{
		{Name: "zeta.go"},
		{Name: "alpha.go"},
		{Name: "src/z.go"},
		{Name: "lib/a.go"},
	}
	tree := BuildTree(files)

	var names []string
	for _, n := range tree {
		names = append(names, n.Name)
	}
	want := []string{"lib", "src", "alpha.go", "zeta.go"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected root order %v, got %v", want, names)
		}
	}
}

func TestBuildTreeNestsByPath(t *testing.T) {
	files := []File{
		{Name: "src/ui/button.go", Content: "b"},
		{Name: "src/main.go", Content: "m"},
	}
	tree := BuildTree(files)

	if len(tree) != 1 || tree[0].Name != "src" {
		t.Fatalf("expected single src root, got %+v", tree)
	}
	src := tree[0]
	if len(src.Children) != 2 {
		t.Fatalf("expected 2 children under src, got %d", len(src.Children))
	}
	if !src.Children[0].IsDir || src.Children[0].Path != "src/ui" {
		t.Fatalf("expected src/ui first, got %+v", src.Children[0])
	}
	if src.Children[1].File == nil || src.Children[1].File.Content != "m" {
		t.Fatalf("expected file node carrying content, got %+v", src.Children[1])
	}
}

func TestFlattenRoundTripsFileSet(t *testing.T) {
	files := []File{
		{Name: "readme.md", Content: "r"},
		{Name: "src/main.go", Content: "m"},
		{Name: "src/util.go", Content: "u"},
	}
	flat := Flatten(BuildTree(files))

	if len(flat) != len(files) {
		t.Fatalf("expected %d files, got %d", len(files), len(flat))
	}
	seen := map[string]string{}
	for _, f := range flat {
		seen[f.Name] = f.Content
	}
	for _, f := range files {
		if seen[f.Name] != f.Content {
			t.Fatalf("file %q lost in round trip", f.Name)
		}
	}
	// Tree order puts the src directory's files before the root-level file.
	if flat[0].Name != "src/main.go" || flat[2].Name != "readme.md" {
		t.Fatalf("expected tree-order traversal, got %v", flat)
	}
}
