package rewrite

import (
	"sort"
	"strings"

	"github.com/kestrel-oss/typegraph/attr"
	"github.com/kestrel-oss/typegraph/typegraph"
	"github.com/kestrel-oss/typegraph/typegraph/build"
	"github.com/kestrel-oss/typegraph/typegraph/recon"
)

// CombineClasses merges nominal classes that look like the same shape into a
// single class, folding every source member onto one destination node.
//
// firstPass controls how strict the similarity check is: on the first pass
// (run early, against classes gathered from many independent samples of what
// is meant to be one logical type) two classes are combined whenever their
// property name sets overlap enough to look like partial observations of
// the same shape. On later passes (finalPass) only classes with the exact
// same property names and property types are combined, since
// by then remaining differences are genuine alternatives rather than
// sampling gaps.
func CombineClasses(g *typegraph.TypeGraph, firstPass, finalPass bool) (*typegraph.TypeGraph, bool) {
	groups := groupSimilarClasses(g, firstPass, finalPass)
	if len(groups) == 0 {
		return g, false
	}

	changed := false
	for _, grp := range groups {
		if len(grp) >= 2 {
			changed = true
			break
		}
	}
	if !changed {
		return g, false
	}

	dest := build.New(g.StringTypeMapping(), false)
	w := recon.NewWalker(g, dest, recon.IdentityMap)

	for _, grp := range groups {
		if len(grp) < 2 {
			continue
		}
		placeholder := dest.Reserve()
		for _, m := range grp {
			w.Alias(m, placeholder)
		}
		merged := buildMergedClass(g, w, grp)
		dest.Fill(placeholder, merged)
	}

	for _, tl := range g.TopLevels() {
		dest.AddTopLevel(tl.Name, w.Walk(tl.Type))
	}

	return dest.Finish(), true
}

func buildMergedClass(g *typegraph.TypeGraph, w *recon.Walker, members []typegraph.Ref) typegraph.Type {
	var order []string
	byName := map[string]typegraph.ClassProperty{}
	presentIn := map[string]int{}

	for _, m := range members {
		cls := g.At(m)
		for _, p := range cls.Properties {
			presentIn[p.Name]++
			destType := w.Walk(p.Type)
			if existing, ok := byName[p.Name]; ok {
				if existing.Type != destType {
					merged, _ := w.Builder().AddUnion([]typegraph.Ref{existing.Type, destType}, attr.Empty)
					existing.Type = merged
				}
				existing.Optional = existing.Optional || p.Optional
				byName[p.Name] = existing
			} else {
				byName[p.Name] = typegraph.ClassProperty{Name: p.Name, Type: destType, Optional: p.Optional}
				order = append(order, p.Name)
			}
		}
	}

	props := make([]typegraph.ClassProperty, 0, len(order))
	var combinedAttrs attr.Bundle
	for _, m := range members {
		combinedAttrs = combinedAttrs.Combine(g.At(m).Attributes)
	}
	for _, name := range order {
		p := byName[name]
		if presentIn[name] < len(members) {
			p.Optional = true
		}
		props = append(props, p)
	}
	return typegraph.Type{Kind: typegraph.KindClass, Properties: props, Nominal: true, Attributes: combinedAttrs}
}

// groupSimilarClasses partitions every reachable nominal class into merge
// groups. Groups of size 1 are not merge candidates.
func groupSimilarClasses(g *typegraph.TypeGraph, firstPass, finalPass bool) [][]typegraph.Ref {
	var refs []typegraph.Ref
	for i := 0; i < g.Len(); i++ {
		ref := typegraph.Ref(i)
		t := g.At(ref)
		if t.Kind != typegraph.KindClass || !t.Nominal {
			continue
		}
		refs = append(refs, ref)
	}

	if finalPass {
		return groupByExactKey(g, refs)
	}
	return groupBySubsetOverlap(g, refs)
}

// groupByExactKey groups classes whose property names and types match
// exactly, the finalPass rule: by then remaining differences are genuine
// alternatives, not sampling gaps.
func groupByExactKey(g *typegraph.TypeGraph, refs []typegraph.Ref) [][]typegraph.Ref {
	byKey := map[string][]typegraph.Ref{}
	var order []string
	for _, ref := range refs {
		key := classExactKey(g.At(ref))
		if _, ok := byKey[key]; !ok {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], ref)
	}
	groups := make([][]typegraph.Ref, 0, len(order))
	for _, k := range order {
		groups = append(groups, byKey[k])
	}
	return groups
}

func classExactKey(t typegraph.Type) string {
	names := make([]string, len(t.Properties))
	for i, p := range t.Properties {
		names[i] = p.Name
	}
	sort.Strings(names)
	byName := map[string]typegraph.Ref{}
	for _, p := range t.Properties {
		byName[p.Name] = p.Type
	}
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + "=" + byName[n].String()
	}
	return strings.Join(parts, ",")
}

// groupBySubsetOverlap unions two classes into the same merge group when
// one's property-name set is a subset of the other's (the firstPass rule):
// a sample that happened to omit some of a logical type's fields looks
// exactly like this, including the degenerate case of a sample that was an
// empty object, which is a subset of every other shape. Classes with no
// properties in common and neither a subset of the other are left apart,
// matching the case of two genuinely distinct record shapes.
func groupBySubsetOverlap(g *typegraph.TypeGraph, refs []typegraph.Ref) [][]typegraph.Ref {
	nameSets := make([]map[string]struct{}, len(refs))
	for i, ref := range refs {
		names := map[string]struct{}{}
		for _, p := range g.At(ref).Properties {
			names[p.Name] = struct{}{}
		}
		nameSets[i] = names
	}

	uf := newUnionFind(len(refs))
	for i := range refs {
		for j := i + 1; j < len(refs); j++ {
			if isSubset(nameSets[i], nameSets[j]) || isSubset(nameSets[j], nameSets[i]) {
				uf.union(i, j)
			}
		}
	}

	byRoot := map[int][]typegraph.Ref{}
	var order []int
	for i, ref := range refs {
		root := uf.find(i)
		if _, ok := byRoot[root]; !ok {
			order = append(order, root)
		}
		byRoot[root] = append(byRoot[root], ref)
	}
	groups := make([][]typegraph.Ref, 0, len(order))
	for _, root := range order {
		groups = append(groups, byRoot[root])
	}
	return groups
}

func isSubset(a, b map[string]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// unionFind is a minimal disjoint-set structure for grouping class indices
// that transitively overlap (A subset-of B, B subset-of C implies A, B, C
// belong in one merge group even though A and C alone might not compare).
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return &unionFind{parent: p}
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[ra] = rb
	}
}
