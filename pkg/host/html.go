package host

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vango-dev/vmini/pkg/vdom"
)

// HTML serializes node and its descendants. Event handlers are not
// serialized; attributes are sorted for deterministic output.
func HTML(node *Node) string {
	var b strings.Builder
	writeNode(&b, node)
	return b.String()
}

// InnerHTML serializes the children of node.
func InnerHTML(node *Node) string {
	var b strings.Builder
	for _, c := range node.Children {
		writeNode(&b, c)
	}
	return b.String()
}

func writeNode(b *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	if n.IsText() {
		b.WriteString(escapeText(n.Text))
		return
	}

	b.WriteByte('<')
	b.WriteString(n.Tag)
	writeAttrs(b, n.Attrs)
	b.WriteByte('>')

	if vdom.IsVoidElement(n.Tag) {
		return
	}
	for _, c := range n.Children {
		writeNode(b, c)
	}
	fmt.Fprintf(b, "</%s>", n.Tag)
}

func writeAttrs(b *strings.Builder, attrs map[string]any) {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := attrs[k].(type) {
		case bool:
			// Boolean attributes: present when true
			if v {
				b.WriteByte(' ')
				b.WriteString(k)
			}
		default:
			fmt.Fprintf(b, ` %s="%s"`, k, escapeAttr(fmt.Sprint(v)))
		}
	}
}
