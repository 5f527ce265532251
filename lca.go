package proptree

// treeNode is satisfied by the four node pointer types.
type treeNode[N any] interface {
	comparable
	parentNode() N
}

// LeastCommonAncestor returns the nearest node that is an ancestor of (or
// equal to) both a and b. It returns the zero value when the nodes are in
// disconnected trees or either is nil.
func LeastCommonAncestor[N treeNode[N]](a, b N) N {
	var zero N
	if a == zero || b == zero {
		return zero
	}

	depthA, depthB := nodeDepth(a), nodeDepth(b)
	for depthA > depthB {
		a = a.parentNode()
		depthA--
	}
	for depthB > depthA {
		b = b.parentNode()
		depthB--
	}
	for a != b {
		a = a.parentNode()
		b = b.parentNode()
		if a == zero || b == zero {
			return zero
		}
	}
	return a
}

// IsAncestorOf reports whether ancestor is node or one of its ancestors.
func IsAncestorOf[N treeNode[N]](ancestor, node N) bool {
	var zero N
	for n := node; n != zero; n = n.parentNode() {
		if n == ancestor {
			return true
		}
	}
	return false
}

func nodeDepth[N treeNode[N]](n N) int {
	var zero N
	depth := 0
	for p := n.parentNode(); p != zero; p = p.parentNode() {
		depth++
	}
	return depth
}
