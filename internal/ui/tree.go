package ui

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

// FileOwners is a changed path with the owners that matched it.
type FileOwners struct {
	Path   string   `json:"path"`
	Owners []string `json:"owners"`
}

type treeNode struct {
	name     string
	isFile   bool
	owners   []string
	children map[string]*treeNode
}

// PrintOwnersTree prints changed files as a directory tree, each file
// annotated with its owners.
func PrintOwnersTree(w io.Writer, files []FileOwners, header string) {
	if len(files) == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "\n%s\n", header)
	printTree(w, buildFileTree(files), "", true)
}

func buildFileTree(files []FileOwners) *treeNode {
	root := &treeNode{children: make(map[string]*treeNode)}

	for _, f := range files {
		parts := strings.Split(strings.Trim(f.Path, "/"), "/")
		current := root

		for i, part := range parts {
			isFile := i == len(parts)-1
			if current.children[part] == nil {
				current.children[part] = &treeNode{
					name:     part,
					isFile:   isFile,
					children: make(map[string]*treeNode),
				}
			}
			if isFile {
				current.children[part].owners = f.Owners
			}
			current = current.children[part]
		}
	}
	return root
}

func printTree(w io.Writer, node *treeNode, prefix string, isLast bool) {
	if node.name != "" {
		connector := "├── "
		if isLast {
			connector = "└── "
		}

		name := node.name
		if !node.isFile {
			name = Info.Sprint(name + "/")
		}

		owners := ""
		if node.isFile {
			if len(node.owners) == 0 {
				owners = Dim.Sprint(" (no owner)")
			} else {
				owners = Success.Sprintf(" (%s)", strings.Join(node.owners, ", "))
			}
		}

		_, _ = fmt.Fprintf(w, "%s%s%s%s\n", prefix, connector, name, owners)
	}

	childPrefix := prefix
	if node.name != "" {
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	}

	keys := make([]string, 0, len(node.children))
	for key := range node.children {
		keys = append(keys, key)
	}
	sortFileTree(keys, node.children)

	for i, key := range keys {
		printTree(w, node.children[key], childPrefix, i == len(keys)-1)
	}
}

// sortFileTree sorts the keys: directories first, then files, each by name.
func sortFileTree(keys []string, nodes map[string]*treeNode) {
	slices.SortFunc(keys, func(a, b string) int {
		na, nb := nodes[a], nodes[b]
		if na.isFile != nb.isFile {
			if na.isFile {
				return 1
			}
			return -1
		}
		return strings.Compare(a, b)
	})
}
