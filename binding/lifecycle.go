// Package binding connects stores to a host tree of nodes. A Provider
// publishes a store's raw state to the subtree below it and a Consumer
// renders its own derived view of that state.
package binding

// Node is any element of the host tree.
type Node interface{}

// Lifecycle is implemented by nodes that need mount/unmount hooks.
type Lifecycle interface {
	Mount()
	Unmount()
}

// Parent is implemented by nodes with children.
type Parent interface {
	ChildNodes() []Node
}

// MountTree mounts root before its children, so a Provider is live by the
// time its Consumers mount.
func MountTree(root Node) {
	if root == nil {
		return
	}
	if m, ok := root.(Lifecycle); ok {
		m.Mount()
	}
	if parent, ok := root.(Parent); ok {
		for _, child := range parent.ChildNodes() {
			MountTree(child)
		}
	}
}

// UnmountTree unmounts children before root.
func UnmountTree(root Node) {
	if root == nil {
		return
	}
	if parent, ok := root.(Parent); ok {
		for _, child := range parent.ChildNodes() {
			UnmountTree(child)
		}
	}
	if m, ok := root.(Lifecycle); ok {
		m.Unmount()
	}
}
