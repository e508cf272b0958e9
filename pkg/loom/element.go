package loom

import (
	"fmt"
	"reflect"
)

// Props is the property map of an element. The keys "key" and "children" are
// reserved: CreateElement extracts them into the Element itself. All other
// keys are opaque to the reconciler and are passed through to the host tree
// or the component function.
type Props map[string]any

// Component is a function from props to an element. Components hold local
// state with UseState and run side effects with UseEffect; both may only be
// called while the component is being rendered.
type Component func(Props) Element

// ElementType identifies what an element renders to: either a host primitive,
// named by a tag string, or a component function.
type ElementType struct {
	tag  string
	comp Component
	// Component functions are compared by code pointer; two elements created
	// from the same function have the same type.
	compPtr uintptr
}

// HostType returns the ElementType for the host primitive with the given tag.
func HostType(tag string) ElementType {
	return ElementType{tag: tag}
}

// ComponentType returns the ElementType for a component function.
func ComponentType(f Component) ElementType {
	return ElementType{comp: f, compPtr: reflect.ValueOf(f).Pointer()}
}

// IsComponent reports whether the type refers to a component function.
func (t ElementType) IsComponent() bool { return t.comp != nil }

// Tag returns the host tag, or "" for component types.
func (t ElementType) Tag() string { return t.tag }

func (t ElementType) String() string {
	if t.IsComponent() {
		return fmt.Sprintf("component(%#x)", t.compPtr)
	}
	return t.tag
}

func sameType(a, b ElementType) bool {
	if a.IsComponent() != b.IsComponent() {
		return false
	}
	if a.IsComponent() {
		return a.compPtr == b.compPtr
	}
	return a.tag == b.tag
}

// Tags of the builtin host primitives.
const (
	BoxTag  = "box"
	TextTag = "text"
)

// Element is an immutable description of what should exist at one slot of the
// UI tree for one render pass.
type Element struct {
	Type     ElementType
	Props    Props
	Key      string
	Children []Element
}

// IsZero reports whether the element is the zero value, which a component may
// return to render nothing.
func (el Element) IsZero() bool {
	return !el.Type.IsComponent() && el.Type.tag == ""
}

// CreateElement builds an Element. The props map is copied; a "key" entry is
// extracted into the element's Key field and a "children" entry is treated as
// an additional child list. The children arguments are normalized: nested
// slices are flattened, strings and numbers become text elements, nil and
// bool children are dropped.
func CreateElement(typ ElementType, props Props, children ...any) Element {
	el := Element{Type: typ}
	var fromProps any
	if len(props) > 0 {
		el.Props = make(Props, len(props))
		for k, v := range props {
			switch k {
			case "key":
				if s, ok := v.(string); ok {
					el.Key = s
				} else {
					el.Key = fmt.Sprint(v)
				}
			case "children":
				fromProps = v
			default:
				el.Props[k] = v
			}
		}
	}
	if fromProps != nil {
		el.Children = appendChildren(el.Children, fromProps)
	}
	for _, child := range children {
		el.Children = appendChildren(el.Children, child)
	}
	if typ.IsComponent() && len(el.Children) > 0 {
		if el.Props == nil {
			el.Props = make(Props, 1)
		}
		el.Props["children"] = el.Children
	}
	return el
}

func appendChildren(dst []Element, child any) []Element {
	switch child := child.(type) {
	case nil:
		return dst
	case bool:
		// Booleans are dropped so that "cond && element" patterns can be
		// spelled as a plain conditional argument.
		return dst
	case Element:
		if child.IsZero() {
			return dst
		}
		return append(dst, child)
	case []Element:
		for _, c := range child {
			dst = appendChildren(dst, c)
		}
		return dst
	case []any:
		for _, c := range child {
			dst = appendChildren(dst, c)
		}
		return dst
	case string:
		return append(dst, textElement(child))
	default:
		return append(dst, textElement(fmt.Sprint(child)))
	}
}

func textElement(s string) Element {
	return Element{Type: HostType(TextTag), Props: Props{"text": s}}
}

// Box returns a box element, the container host primitive.
func Box(props Props, children ...any) Element {
	return CreateElement(HostType(BoxTag), props, children...)
}

// Text returns a text element. The optional props carry styling.
func Text(s string, props ...Props) Element {
	var p Props
	if len(props) > 0 {
		p = props[0]
	}
	el := CreateElement(HostType(TextTag), p)
	if el.Props == nil {
		el.Props = Props{"text": s}
	} else {
		el.Props["text"] = s
	}
	return el
}

// C returns a component element.
func C(f Component, props Props, children ...any) Element {
	return CreateElement(ComponentType(f), props, children...)
}
