package vdom

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrNotSVG is returned when a document has no <svg> root element
var ErrNotSVG = errors.New("document has no svg root")

// SVGNamespace is the namespace used to create SVG elements in a browser document
const SVGNamespace = "http://www.w3.org/2000/svg"

// ParseSVG reads an SVG document and returns its <svg> root as a VNode tree.
// XML declarations, doctypes, comments and whitespace-only text between
// elements are dropped. Namespace prefixes are kept verbatim.
func ParseSVG(r io.Reader) (*VNode, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false

	var stack []*VNode
	var root *VNode

	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse svg: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &VNode{
				Kind:  KindElement,
				Tag:   qualifiedName(t.Name),
				Props: make(Props, len(t.Attr)),
			}
			for _, attr := range t.Attr {
				node.Props[qualifiedName(attr.Name)] = attr.Value
			}
			if len(stack) == 0 && root != nil {
				return nil, fmt.Errorf("parse svg: multiple root elements")
			}
			stack = append(stack, node)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("parse svg: unexpected </%s>", qualifiedName(t.Name))
			}
			node := stack[len(stack)-1]
			if name := qualifiedName(t.Name); name != node.Tag {
				return nil, fmt.Errorf("parse svg: </%s> closes <%s>", name, node.Tag)
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Kids = append(parent.Kids, *node)
			}

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			text := string(t)
			if strings.TrimSpace(text) == "" {
				continue
			}
			parent := stack[len(stack)-1]
			parent.Kids = append(parent.Kids, VNode{Kind: KindText, Text: text})
		}
	}

	if len(stack) != 0 {
		return nil, fmt.Errorf("parse svg: unclosed <%s>", stack[len(stack)-1].Tag)
	}
	if root == nil || localName(root.Tag) != "svg" {
		return nil, ErrNotSVG
	}
	return root, nil
}

// ParseSVGString is a convenience wrapper around ParseSVG
func ParseSVGString(s string) (*VNode, error) {
	return ParseSVG(strings.NewReader(s))
}

func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func localName(tag string) string {
	if i := strings.IndexByte(tag, ':'); i >= 0 {
		return tag[i+1:]
	}
	return tag
}

// FormatValue formats an attribute value the way appliers write it out
func FormatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprintf("%v", v)
	}
}
