package renderer

// Node is a host node. The renderer never inspects it; it only hands it
// back to the adapter.
type Node = any

// HostAdapter performs the host tree mutations the renderer decides on.
type HostAdapter interface {
	CreateElement(tag string) Node
	CreateText(content string) Node
	SetText(node Node, content string)
	SetElementText(node Node, content string)
	Insert(node, container, anchor Node) // anchor nil appends
	Remove(node Node)
	PatchProp(node Node, key string, prev, next any)
	NextSibling(node Node) Node
}
