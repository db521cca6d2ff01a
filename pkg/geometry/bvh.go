package geometry

import (
	"fmt"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// SplitMethod selects how interior BVH nodes partition their primitives
type SplitMethod int

const (
	SplitSAH SplitMethod = iota
	SplitMiddle
	SplitEqualCounts
)

func (m SplitMethod) String() string {
	switch m {
	case SplitSAH:
		return "sah"
	case SplitMiddle:
		return "middle"
	case SplitEqualCounts:
		return "equal"
	default:
		return fmt.Sprintf("SplitMethod(%d)", int(m))
	}
}

// ParseSplitMethod accepts "sah", "middle" or "equal". An empty name means SAH.
func ParseSplitMethod(name string) (SplitMethod, error) {
	switch strings.ToLower(name) {
	case "", "sah":
		return SplitSAH, nil
	case "middle":
		return SplitMiddle, nil
	case "equal", "equalcounts":
		return SplitEqualCounts, nil
	}
	return SplitSAH, fmt.Errorf("unknown BVH split method %q", name)
}

const (
	DefaultMaxPrimsInNode = 4
	maxPrimsInNodeLimit   = 255
	sahBuckets            = 12
	maxTraversalDepth     = 64

	// From this depth on subtrees are split by equal counts, which adds at most
	// log2(n) <= 31 levels, so traversal never outgrows its stack
	balancedBuildDepth = maxTraversalDepth - 32
)

// bvhPrimitiveInfo caches the bound and centroid of one primitive during the build
type bvhPrimitiveInfo struct {
	primitiveNumber int
	bounds          core.AABB
	centroid        core.Vec3
}

// bvhBuildNode is the pointer tree produced by the build and discarded after flattening
type bvhBuildNode struct {
	bounds          core.AABB
	children        [2]*bvhBuildNode
	splitAxis       int
	firstPrimOffset int
	nPrimitives     int
}

// linearBVHNode is one node of the flattened tree. For leaves Offset is the first
// primitive; for interior nodes it is the second child and the first child follows directly.
type linearBVHNode struct {
	Bounds      core.AABB
	Offset      int32
	NPrimitives int32
	Axis        uint8
}

// BVHStats describes the shape of a built hierarchy
type BVHStats struct {
	TotalNodes        int
	LeafNodes         int
	InteriorNodes     int
	MaxDepth          int
	Primitives        int
	MaxLeafPrimitives int
}

// BVH is a bounding volume hierarchy over primitives, flattened for iterative traversal
type BVH struct {
	maxPrimsInNode int
	splitMethod    SplitMethod
	primitives     []Primitive
	nodes          []linearBVHNode
	stats          BVHStats
}

// NewBVH builds a hierarchy over prims. The caller's slice is not modified.
func NewBVH(prims []Primitive, maxPrimsInNode int, method SplitMethod) *BVH {
	if maxPrimsInNode <= 0 {
		maxPrimsInNode = DefaultMaxPrimsInNode
	}
	bvh := &BVH{
		maxPrimsInNode: min(maxPrimsInNode, maxPrimsInNodeLimit),
		splitMethod:    method,
	}
	if len(prims) == 0 {
		return bvh
	}

	info := make([]bvhPrimitiveInfo, len(prims))
	for i, p := range prims {
		b := p.WorldBound()
		info[i] = bvhPrimitiveInfo{primitiveNumber: i, bounds: b, centroid: b.Center()}
	}

	ordered := make([]Primitive, 0, len(prims))
	totalNodes := 0
	root := bvh.recursiveBuild(prims, info, 0, len(prims), 0, &totalNodes, &ordered)
	bvh.primitives = ordered

	bvh.nodes = make([]linearBVHNode, 0, totalNodes)
	bvh.flatten(root, 0)
	bvh.stats.Primitives = len(ordered)
	return bvh
}

func (bvh *BVH) recursiveBuild(prims []Primitive, info []bvhPrimitiveInfo, start, end, depth int, totalNodes *int, ordered *[]Primitive) *bvhBuildNode {
	*totalNodes++
	node := &bvhBuildNode{}

	bounds := core.EmptyAABB()
	for i := start; i < end; i++ {
		bounds = bounds.Union(info[i].bounds)
	}

	n := end - start
	if n == 1 || depth >= maxTraversalDepth {
		return bvh.makeLeaf(node, prims, info, start, end, bounds, ordered)
	}

	centroidBounds := core.EmptyAABB()
	for i := start; i < end; i++ {
		centroidBounds = centroidBounds.UnionPoint(info[i].centroid)
	}
	dim := centroidBounds.Size().MaxDimension()

	// All centroids coincide, nothing to split on
	if centroidBounds.Max.Component(dim) == centroidBounds.Min.Component(dim) {
		return bvh.makeLeaf(node, prims, info, start, end, bounds, ordered)
	}

	mid, ok := 0, true
	if depth >= balancedBuildDepth {
		mid = splitEqualCounts(info, start, end, dim)
	} else {
		mid, ok = bvh.partition(info, start, end, dim, bounds, centroidBounds)
	}
	if !ok {
		return bvh.makeLeaf(node, prims, info, start, end, bounds, ordered)
	}

	node.bounds = bounds
	node.splitAxis = dim
	node.children[0] = bvh.recursiveBuild(prims, info, start, mid, depth+1, totalNodes, ordered)
	node.children[1] = bvh.recursiveBuild(prims, info, mid, end, depth+1, totalNodes, ordered)
	return node
}

func (bvh *BVH) makeLeaf(node *bvhBuildNode, prims []Primitive, info []bvhPrimitiveInfo, start, end int, bounds core.AABB, ordered *[]Primitive) *bvhBuildNode {
	node.bounds = bounds
	node.firstPrimOffset = len(*ordered)
	node.nPrimitives = end - start
	for i := start; i < end; i++ {
		*ordered = append(*ordered, prims[info[i].primitiveNumber])
	}
	return node
}

// partition splits info[start:end] along dim and returns the split index.
// ok is false when the node should become a leaf.
func (bvh *BVH) partition(info []bvhPrimitiveInfo, start, end, dim int, bounds, centroidBounds core.AABB) (int, bool) {
	switch bvh.splitMethod {
	case SplitMiddle:
		pmid := 0.5 * (centroidBounds.Min.Component(dim) + centroidBounds.Max.Component(dim))
		mid := partitionInfo(info[start:end], func(pi *bvhPrimitiveInfo) bool {
			return pi.centroid.Component(dim) < pmid
		}) + start
		if mid != start && mid != end {
			return mid, true
		}
		return splitEqualCounts(info, start, end, dim), true

	case SplitEqualCounts:
		return splitEqualCounts(info, start, end, dim), true

	default:
		return bvh.splitSAH(info, start, end, dim, bounds, centroidBounds)
	}
}

func splitEqualCounts(info []bvhPrimitiveInfo, start, end, dim int) int {
	mid := (start + end) / 2
	nthElement(info[start:end], mid-start, dim)
	return mid
}

type sahBucket struct {
	count  int
	bounds core.AABB
}

func (bvh *BVH) splitSAH(info []bvhPrimitiveInfo, start, end, dim int, bounds, centroidBounds core.AABB) (int, bool) {
	n := end - start
	if n <= 2 {
		return splitEqualCounts(info, start, end, dim), true
	}
	area := bounds.SurfaceArea()
	if area <= 0 {
		return splitEqualCounts(info, start, end, dim), true
	}

	bucketIndex := func(pi *bvhPrimitiveInfo) int {
		b := int(sahBuckets * centroidBounds.Offset(pi.centroid).Component(dim))
		return min(max(b, 0), sahBuckets-1)
	}

	var buckets [sahBuckets]sahBucket
	for i := range buckets {
		buckets[i].bounds = core.EmptyAABB()
	}
	for i := start; i < end; i++ {
		b := bucketIndex(&info[i])
		buckets[b].count++
		buckets[b].bounds = buckets[b].bounds.Union(info[i].bounds)
	}

	// Cost of splitting after each bucket
	var cost [sahBuckets - 1]float64
	for i := range cost {
		b0, b1 := core.EmptyAABB(), core.EmptyAABB()
		count0, count1 := 0, 0
		for j := 0; j <= i; j++ {
			b0 = b0.Union(buckets[j].bounds)
			count0 += buckets[j].count
		}
		for j := i + 1; j < sahBuckets; j++ {
			b1 = b1.Union(buckets[j].bounds)
			count1 += buckets[j].count
		}
		cost[i] = 0.125 + (float64(count0)*b0.SurfaceArea()+float64(count1)*b1.SurfaceArea())/area
	}

	minCost := cost[0]
	minCostSplitBucket := 0
	for i := 1; i < len(cost); i++ {
		if cost[i] < minCost {
			minCost = cost[i]
			minCostSplitBucket = i
		}
	}

	leafCost := float64(n)
	if n <= bvh.maxPrimsInNode && minCost >= leafCost {
		return 0, false
	}

	mid := partitionInfo(info[start:end], func(pi *bvhPrimitiveInfo) bool {
		return bucketIndex(pi) <= minCostSplitBucket
	}) + start
	if mid == start || mid == end {
		return splitEqualCounts(info, start, end, dim), true
	}
	return mid, true
}

// partitionInfo moves the elements satisfying pred to the front and returns their count
func partitionInfo(info []bvhPrimitiveInfo, pred func(*bvhPrimitiveInfo) bool) int {
	first := 0
	for i := range info {
		if pred(&info[i]) {
			info[first], info[i] = info[i], info[first]
			first++
		}
	}
	return first
}

// nthElement reorders info so that info[k] holds the element that would be there if
// sorted by centroid along dim, with no larger element before it and no smaller after it.
func nthElement(info []bvhPrimitiveInfo, k, dim int) {
	lo, hi := 0, len(info)-1
	for lo < hi {
		pivot := info[(lo+hi)/2].centroid.Component(dim)
		i, j := lo, hi
		for i <= j {
			for info[i].centroid.Component(dim) < pivot {
				i++
			}
			for info[j].centroid.Component(dim) > pivot {
				j--
			}
			if i <= j {
				info[i], info[j] = info[j], info[i]
				i++
				j--
			}
		}
		switch {
		case k <= j:
			hi = j
		case k >= i:
			lo = i
		default:
			return
		}
	}
}

// flatten writes the subtree depth first and returns the index of its root
func (bvh *BVH) flatten(node *bvhBuildNode, depth int) int {
	offset := len(bvh.nodes)
	bvh.nodes = append(bvh.nodes, linearBVHNode{Bounds: node.bounds})
	bvh.stats.TotalNodes++
	bvh.stats.MaxDepth = max(bvh.stats.MaxDepth, depth)

	if node.nPrimitives > 0 {
		bvh.nodes[offset].Offset = int32(node.firstPrimOffset)
		bvh.nodes[offset].NPrimitives = int32(node.nPrimitives)
		bvh.stats.LeafNodes++
		bvh.stats.MaxLeafPrimitives = max(bvh.stats.MaxLeafPrimitives, node.nPrimitives)
		return offset
	}

	bvh.nodes[offset].Axis = uint8(node.splitAxis)
	bvh.stats.InteriorNodes++
	bvh.flatten(node.children[0], depth+1)
	second := bvh.flatten(node.children[1], depth+1)
	bvh.nodes[offset].Offset = int32(second)
	return offset
}

// Intersect finds the closest hit, fills si and shrinks r.TMax to its distance
func (bvh *BVH) Intersect(r *core.Ray, si *material.SurfaceInteraction) bool {
	if len(bvh.nodes) == 0 {
		return false
	}
	hit := false
	invDir := core.NewVec3(1/r.Direction.X, 1/r.Direction.Y, 1/r.Direction.Z)
	dirIsNeg := [3]bool{invDir.X < 0, invDir.Y < 0, invDir.Z < 0}

	var nodesToVisit [maxTraversalDepth]int
	toVisitOffset, current := 0, 0
	for {
		node := &bvh.nodes[current]
		if node.Bounds.IntersectP(*r, invDir, dirIsNeg) {
			if node.NPrimitives > 0 {
				first := int(node.Offset)
				for i := first; i < first+int(node.NPrimitives); i++ {
					if bvh.primitives[i].Intersect(r, si) {
						hit = true
					}
				}
				if toVisitOffset == 0 {
					break
				}
				toVisitOffset--
				current = nodesToVisit[toVisitOffset]
			} else {
				// Visit the near child first
				if dirIsNeg[node.Axis] {
					nodesToVisit[toVisitOffset] = current + 1
					current = int(node.Offset)
				} else {
					nodesToVisit[toVisitOffset] = int(node.Offset)
					current = current + 1
				}
				toVisitOffset++
			}
		} else {
			if toVisitOffset == 0 {
				break
			}
			toVisitOffset--
			current = nodesToVisit[toVisitOffset]
		}
	}
	return hit
}

// IntersectP reports whether any primitive is hit in (0, r.TMax)
func (bvh *BVH) IntersectP(r core.Ray) bool {
	if len(bvh.nodes) == 0 {
		return false
	}
	invDir := core.NewVec3(1/r.Direction.X, 1/r.Direction.Y, 1/r.Direction.Z)
	dirIsNeg := [3]bool{invDir.X < 0, invDir.Y < 0, invDir.Z < 0}

	var nodesToVisit [maxTraversalDepth]int
	toVisitOffset, current := 0, 0
	for {
		node := &bvh.nodes[current]
		if node.Bounds.IntersectP(r, invDir, dirIsNeg) {
			if node.NPrimitives > 0 {
				first := int(node.Offset)
				for i := first; i < first+int(node.NPrimitives); i++ {
					if bvh.primitives[i].IntersectP(r) {
						return true
					}
				}
				if toVisitOffset == 0 {
					break
				}
				toVisitOffset--
				current = nodesToVisit[toVisitOffset]
			} else {
				if dirIsNeg[node.Axis] {
					nodesToVisit[toVisitOffset] = current + 1
					current = int(node.Offset)
				} else {
					nodesToVisit[toVisitOffset] = int(node.Offset)
					current = current + 1
				}
				toVisitOffset++
			}
		} else {
			if toVisitOffset == 0 {
				break
			}
			toVisitOffset--
			current = nodesToVisit[toVisitOffset]
		}
	}
	return false
}

// WorldBound returns the bound of every primitive, or an empty box when there are none
func (bvh *BVH) WorldBound() core.AABB {
	if len(bvh.nodes) == 0 {
		return core.EmptyAABB()
	}
	return bvh.nodes[0].Bounds
}

func (bvh *BVH) Stats() BVHStats {
	return bvh.stats
}

// SplitMethod returns the partitioning strategy the hierarchy was built with
func (bvh *BVH) SplitMethod() SplitMethod {
	return bvh.splitMethod
}

// Primitives returns the primitives in leaf order
func (bvh *BVH) Primitives() []Primitive {
	return bvh.primitives
}
