package services

import (
	"sort"

	"github.com/koesnuj/portfolio-sub001/internal/models"
)

// folderIndex is an in-memory view of the folder forest built from a single
// bulk read, so structural checks never need one query per level.
type folderIndex struct {
	byID     map[uint]*models.Folder
	children map[uint][]uint
	roots    []uint
}

func newFolderIndex(folders []models.Folder) *folderIndex {
	idx := &folderIndex{
		byID:     make(map[uint]*models.Folder, len(folders)),
		children: make(map[uint][]uint),
	}
	for i := range folders {
		idx.byID[folders[i].ID] = &folders[i]
	}
	for i := range folders {
		f := &folders[i]
		if f.ParentID == nil {
			idx.roots = append(idx.roots, f.ID)
			continue
		}
		if _, ok := idx.byID[*f.ParentID]; !ok {
			// Dangling parent reference: surface the folder at the root level.
			idx.roots = append(idx.roots, f.ID)
			continue
		}
		idx.children[*f.ParentID] = append(idx.children[*f.ParentID], f.ID)
	}
	return idx
}

func (idx *folderIndex) exists(id uint) bool {
	_, ok := idx.byID[id]
	return ok
}

// descendants returns every folder below id, breadth first, excluding id itself.
func (idx *folderIndex) descendants(id uint) []uint {
	var out []uint
	seen := map[uint]bool{id: true}
	queue := append([]uint(nil), idx.children[id]...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		out = append(out, cur)
		queue = append(queue, idx.children[cur]...)
	}
	return out
}

// depth is 1 for a root folder and grows by one per ancestor. A nil id (the
// root level) has depth 0.
func (idx *folderIndex) depth(id *uint) int {
	d := 0
	cur := id
	for cur != nil && d <= len(idx.byID) {
		f, ok := idx.byID[*cur]
		if !ok {
			break
		}
		d++
		cur = f.ParentID
	}
	return d
}

// maxDescendantDepth is the length of the longest child chain under id; 0 for a leaf.
func (idx *folderIndex) maxDescendantDepth(id uint) int {
	levels := 0
	seen := map[uint]bool{id: true}
	frontier := idx.children[id]
	for len(frontier) > 0 {
		var next []uint
		for _, c := range frontier {
			if seen[c] {
				continue
			}
			seen[c] = true
			next = append(next, idx.children[c]...)
		}
		levels++
		frontier = next
	}
	return levels
}

// closure returns the given ids plus all their descendants, without duplicates.
func (idx *folderIndex) closure(ids []uint) []uint {
	seen := make(map[uint]bool)
	var out []uint
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
		for _, d := range idx.descendants(id) {
			if !seen[d] {
				seen[d] = true
				out = append(out, d)
			}
		}
	}
	return out
}

// deepestFirst groups ids by absolute depth and returns the groups from the
// deepest level up, so children are always removed before their parents.
func (idx *folderIndex) deepestFirst(ids []uint) [][]uint {
	byDepth := make(map[int][]uint)
	maxDepth := 0
	for _, id := range ids {
		d := idx.depth(&id)
		byDepth[d] = append(byDepth[d], id)
		if d > maxDepth {
			maxDepth = d
		}
	}
	var groups [][]uint
	for d := maxDepth; d >= 0; d-- {
		if len(byDepth[d]) > 0 {
			groups = append(groups, byDepth[d])
		}
	}
	return groups
}

// nextOrder returns 1 + the highest order among the children of parentID (0 when empty).
func (idx *folderIndex) nextOrder(parentID *uint, exclude uint) int {
	var siblings []uint
	if parentID == nil {
		siblings = idx.roots
	} else {
		siblings = idx.children[*parentID]
	}
	next := 0
	for _, id := range siblings {
		if id == exclude {
			continue
		}
		if o := idx.byID[id].SortOrder + 1; o > next {
			next = o
		}
	}
	return next
}

// buildTree links folders into a forest. Siblings are sorted by order; equal
// orders keep the input order, which callers load sorted by name.
func buildTree(folders []models.Folder, caseCounts map[uint]int) []*models.FolderNode {
	nodes := make(map[uint]*models.FolderNode, len(folders))
	for _, f := range folders {
		nodes[f.ID] = &models.FolderNode{
			ID:            f.ID,
			Name:          f.Name,
			ParentID:      f.ParentID,
			SortOrder:     f.SortOrder,
			TestCaseCount: caseCounts[f.ID],
			Children:      []*models.FolderNode{},
		}
	}

	roots := []*models.FolderNode{}
	for _, f := range folders {
		node := nodes[f.ID]
		if f.ParentID != nil {
			if parent, ok := nodes[*f.ParentID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	sortNodes(roots)
	for _, node := range nodes {
		sortNodes(node.Children)
	}
	return roots
}

func sortNodes(nodes []*models.FolderNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].SortOrder < nodes[j].SortOrder
	})
}
