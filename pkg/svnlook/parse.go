package svnlook

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Info is the parsed output of svnlook info.
type Info struct {
	Author  string `json:"author"`
	Date    string `json:"date"`
	Size    string `json:"size"`
	Message string `json:"message"`
}

// Lock is the parsed output of svnlook lock, keyed by field name
// ("UUID Token", "Owner", "Created", ...).
type Lock map[string]string

// Property is a single entry of a proplist result.
type Property struct {
	Target string
	Name   string
	Value  string
}

func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// ParseInfo reads svnlook info output positionally: author, date, log
// message size and log message, one per line. Missing lines leave the
// matching fields empty, and only the first line of the message is kept.
func ParseInfo(output string) Info {
	lines := splitLines(output)
	field := func(i int) string {
		if i < len(lines) {
			return lines[i]
		}
		return ""
	}
	return Info{
		Author:  field(0),
		Date:    field(1),
		Size:    field(2),
		Message: field(3),
	}
}

// ParseLock reads the "Key: value" lines of svnlook lock output. Lines with
// nothing after their first colon, and lines without a colon, are skipped.
func ParseLock(output string) Lock {
	lock := Lock{}
	for _, line := range splitLines(output) {
		key, value, ok := strings.Cut(line, ":")
		if !ok || value == "" {
			continue
		}
		lock[key] = strings.TrimSpace(value)
	}
	return lock
}

// ParseXML converts an XML document into nested maps mirroring its element
// hierarchy. The root element itself is dropped. Attributes are stored under
// "$" and text that sits beside attributes or child elements under "_".
// Elements holding only text become strings, and repeated siblings become a
// []any in document order.
func ParseXML(data []byte) (map[string]any, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		stack []*xmlElement
		root  any
		done  bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 && done {
				return nil, fmt.Errorf("%w: multiple root elements", ErrParse)
			}
			stack = append(stack, newXMLElement(t))
		case xml.CharData:
			if len(stack) == 0 {
				if strings.TrimSpace(string(t)) != "" {
					return nil, fmt.Errorf("%w: text outside the root element", ErrParse)
				}
				continue
			}
			stack[len(stack)-1].text.Write(t)
		case xml.EndElement:
			el := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				root, done = el.value(), true
				continue
			}
			stack[len(stack)-1].addChild(el.name, el.value())
		}
	}

	if !done {
		return nil, fmt.Errorf("%w: no root element", ErrParse)
	}
	switch v := root.(type) {
	case map[string]any:
		return v, nil
	case string:
		if v == "" {
			return map[string]any{}, nil
		}
		return map[string]any{"_": v}, nil
	}
	return map[string]any{}, nil
}

type xmlElement struct {
	name     string
	attrs    map[string]any
	children map[string]any
	text     strings.Builder
}

func newXMLElement(t xml.StartElement) *xmlElement {
	el := &xmlElement{name: xmlName(t.Name)}
	for _, a := range t.Attr {
		if el.attrs == nil {
			el.attrs = map[string]any{}
		}
		el.attrs[xmlName(a.Name)] = a.Value
	}
	return el
}

func xmlName(n xml.Name) string {
	if n.Space == "xmlns" {
		return "xmlns:" + n.Local
	}
	return n.Local
}

func (el *xmlElement) addChild(name string, v any) {
	if el.children == nil {
		el.children = map[string]any{}
	}
	existing, ok := el.children[name]
	if !ok {
		el.children[name] = v
		return
	}
	if list, ok := existing.([]any); ok {
		el.children[name] = append(list, v)
		return
	}
	el.children[name] = []any{existing, v}
}

func (el *xmlElement) value() any {
	text := el.text.String()
	hasText := strings.TrimSpace(text) != ""
	if len(el.attrs) == 0 && len(el.children) == 0 {
		if hasText {
			return text
		}
		return ""
	}

	obj := make(map[string]any, len(el.children)+2)
	if len(el.attrs) > 0 {
		obj["$"] = el.attrs
	}
	if hasText {
		obj["_"] = text
	}
	for k, v := range el.children {
		obj[k] = v
	}
	return obj
}

// Properties flattens a parsed proplist document into its property entries,
// ordered by target and then name. Values are only present when svnlook was
// asked for them.
func Properties(doc map[string]any) []Property {
	var props []Property
	collectProperties(doc, "", &props)
	slices.SortStableFunc(props, func(a, b Property) int {
		if c := strings.Compare(a.Target, b.Target); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return props
}

func collectProperties(node any, target string, out *[]Property) {
	switch n := node.(type) {
	case []any:
		for _, item := range n {
			collectProperties(item, target, out)
		}
	case map[string]any:
		if attrs, ok := n["$"].(map[string]any); ok {
			if path, ok := attrs["path"].(string); ok {
				target = path
			}
			if rev, ok := attrs["rev"].(string); ok {
				target = "r" + rev
			}
		}
		for _, key := range lo.Keys(n) {
			if key == "$" || key == "_" {
				continue
			}
			if key == "property" {
				collectProperty(n[key], target, out)
				continue
			}
			collectProperties(n[key], target, out)
		}
	}
}

func collectProperty(node any, target string, out *[]Property) {
	switch p := node.(type) {
	case []any:
		for _, item := range p {
			collectProperty(item, target, out)
		}
	case map[string]any:
		prop := Property{Target: target}
		if attrs, ok := p["$"].(map[string]any); ok {
			prop.Name, _ = attrs["name"].(string)
		}
		prop.Value, _ = p["_"].(string)
		*out = append(*out, prop)
	}
}
