// Package vdom provides the virtual node model for vmini.
//
// A VNode describes one node of the desired UI tree for a single render
// pass. The renderer compares two VNode trees and applies the difference to
// a host tree; after mounting, a VNode carries the host handle it was
// rendered into (El).
//
// # Core Types
//
// VNode is the building block for elements, text, fragments and
// components. Kind says what a node is. ShapeFlags classify the node and
// its children representation (text, array or slots) so the renderer can
// branch without type switches. Props holds attributes and event handlers.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), Key("row-1"),
//	    H1("Title"),
//	    Button(OnClick(handler), "Save"),
//	)
//
// A lone string argument becomes the element's text content; strings mixed
// with other children become text nodes.
//
// # Events
//
// Event handler props are named "on" followed by an upper-case letter
// ("onClick", "onUpdate:value"). IsOn reports whether a prop key is one.
//
// # Keyed lists
//
// LIS computes the longest increasing subsequence used by the keyed child
// diff to keep the largest set of nodes in place and move the rest.
package vdom
