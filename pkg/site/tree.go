package site

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	nodeDir  = "dir"
	nodeFile = "file"
)

// ignoreDirs are never scanned for notebooks.
var ignoreDirs = map[string]bool{
	".git":         true,
	".github":      true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
	"node_modules": true,
	".script":      true,
	"site":         true,
}

// Node is one entry in the notebook tree embedded into the studies page.
type Node struct {
	Type     string
	Name     string
	Path     string
	NbHTML   string
	Children []*Node
}

// MarshalJSON writes the shape the tree renderer expects: dir nodes always
// carry a children array, file nodes carry nb_html instead.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n.Type == nodeFile {
		return json.Marshal(struct {
			Type   string `json:"type"`
			Name   string `json:"name"`
			Path   string `json:"path"`
			NbHTML string `json:"nb_html"`
		}{n.Type, n.Name, n.Path, n.NbHTML})
	}

	children := n.Children
	if children == nil {
		children = []*Node{}
	}
	return json.Marshal(struct {
		Type     string  `json:"type"`
		Name     string  `json:"name"`
		Path     string  `json:"path"`
		Children []*Node `json:"children"`
	}{n.Type, n.Name, n.Path, children})
}

// TreeJSON renders the tree for inline embedding in a <script> block. A
// literal "</" inside the JSON could close the surrounding script element
// early, so it is broken up.
func TreeJSON(root *Node) (string, error) {
	data, err := json.Marshal(root)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(string(data), "</", `<\/`), nil
}

// collectTree walks src, converts every notebook into out and builds the
// tree for the studies page. Directories without any notebook beneath them
// are pruned from the tree.
func (b *Builder) collectTree(src, out string, execute bool) (*Node, int, error) {
	root := &Node{Type: nodeDir, Name: filepath.Base(src), Path: "", Children: []*Node{}}
	dirs := map[string]*Node{src: root}
	count := 0

	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if p == src {
			return nil
		}
		// Never descend into the output directory
		if p == out || strings.HasPrefix(p, out+string(filepath.Separator)) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if ignoreDirs[d.Name()] {
				return fs.SkipDir
			}
			rel, err := filepath.Rel(src, p)
			if err != nil {
				return err
			}
			node := &Node{Type: nodeDir, Name: d.Name(), Path: filepath.ToSlash(rel), Children: []*Node{}}
			parent := dirs[filepath.Dir(p)]
			parent.Children = append(parent.Children, node)
			dirs[p] = node
			return nil
		}

		if !strings.EqualFold(filepath.Ext(p), ".ipynb") {
			return nil
		}

		if err := EnsureRenderableCell(p); err != nil {
			return err
		}

		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		htmlRel := strings.TrimSuffix(rel, filepath.Ext(rel)) + ".html"
		outPath := filepath.Join(out, htmlRel)
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return err
		}
		if err := b.conv.Convert(p, filepath.Dir(outPath), filepath.Base(outPath), execute); err != nil {
			return err
		}
		widenNotebookHTML(outPath)

		parent := dirs[filepath.Dir(p)]
		parent.Children = append(parent.Children, &Node{
			Type:   nodeFile,
			Name:   d.Name(),
			Path:   filepath.ToSlash(rel),
			NbHTML: filepath.ToSlash(htmlRel),
		})
		count++
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	if pruned := pruneEmptyDirs(root); pruned != nil {
		return pruned, count, nil
	}
	return &Node{Type: nodeDir, Name: filepath.Base(src), Path: "", Children: []*Node{}}, count, nil
}

// pruneEmptyDirs drops directories with no notebooks anywhere beneath them.
// It returns nil when the whole subtree is notebook-free.
func pruneEmptyDirs(n *Node) *Node {
	if n.Type == nodeFile {
		return n
	}

	kept := make([]*Node, 0, len(n.Children))
	for _, child := range n.Children {
		if p := pruneEmptyDirs(child); p != nil {
			kept = append(kept, p)
		}
	}
	n.Children = kept

	if len(kept) == 0 {
		return nil
	}
	return n
}
