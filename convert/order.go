package convert

import (
	"slices"

	"github.com/spineapi/skelfile"
)

// orders returns a pointer to the order of every constraint of sd.
func orders(sd *skelfile.SkeletonData) []*int {
	var list []*int
	for _, c := range sd.IKConstraints {
		list = append(list, &c.Order)
	}
	for _, c := range sd.TransformConstraints {
		list = append(list, &c.Order)
	}
	for _, c := range sd.PathConstraints {
		list = append(list, &c.Order)
	}
	for _, c := range sd.PhysicsConstraints {
		list = append(list, &c.Order)
	}
	return list
}

// RenumberOrder replaces the order of every constraint with its rank among
// the distinct orders of sd, so that orders become 0, 1, 2 and so on without
// gaps. Constraints that share an order keep sharing it.
func RenumberOrder(sd *skelfile.SkeletonData) {
	list := orders(sd)
	distinct := make([]int, 0, len(list))
	for _, o := range list {
		distinct = append(distinct, *o)
	}
	slices.Sort(distinct)
	distinct = slices.Compact(distinct)
	for _, o := range list {
		*o, _ = slices.BinarySearch(distinct, *o)
	}
}
