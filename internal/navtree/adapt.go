package navtree

import "strings"

// node is the canonical form of any navigation entry, whatever field names
// the payload used for it.
type node struct {
	Title    string
	Href     string
	Key      string
	Owner    string
	Order    float64
	HasOrder bool
	Children []node
}

type group struct {
	Name     string
	Key      string
	Href     string
	Order    float64
	HasOrder bool
	Subs     []node
}

// rawTree is what every payload shape is adapted into before normalization.
type rawTree struct {
	Groups  []group
	TabKeys []string
	Tabs    map[string][]node
}

func (t *rawTree) addTabs(owner string, tabs []node) {
	if owner == "" || len(tabs) == 0 {
		return
	}
	if t.Tabs == nil {
		t.Tabs = map[string][]node{}
	}
	if _, ok := t.Tabs[owner]; !ok {
		t.TabKeys = append(t.TabKeys, owner)
	}
	t.Tabs[owner] = append(t.Tabs[owner], tabs...)
}

// toNode converts one payload entry. Hidden entries and non-objects are
// rejected.
func toNode(v Value) (node, bool) {
	if v.Kind != KindObject {
		return node{}, false
	}
	if hidden, ok := v.Get("hidden"); ok && hidden.Truthy() {
		return node{}, false
	}
	if visible, ok := v.Get("visible"); ok && visible.Kind != KindNull && !visible.Truthy() {
		return node{}, false
	}
	n := node{}
	if f, ok := v.First("text", "title", "name", "label"); ok {
		n.Title = f.Text()
	}
	if f, ok := v.First("href", "path", "url"); ok {
		n.Href = f.Text()
	}
	if f, ok := v.Get("key"); ok {
		n.Key = f.Text()
	}
	if f, ok := v.First("ownerKey", "ownerHref", "owner"); ok {
		n.Owner = f.Text()
	}
	if f, ok := v.Get("order"); ok {
		n.Order, n.HasOrder = f.Number()
	}
	if f, ok := v.First("children", "items", "tabs"); ok {
		n.Children = toNodes(f)
	}
	return n, true
}

func toNodes(v Value) []node {
	if v.Kind != KindArray {
		return nil
	}
	out := make([]node, 0, len(v.Items))
	for _, item := range v.Items {
		if n, ok := toNode(item); ok {
			out = append(out, n)
		}
	}
	return out
}

// adapt recognises the payload shape and produces the canonical raw tree.
func adapt(root Value) rawTree {
	switch root.Kind {
	case KindArray:
		return adaptNested(root, Value{})
	case KindObject:
	default:
		return rawTree{}
	}
	if sections, ok := root.First("sections", "menu"); ok && sections.Kind == KindObject {
		return adaptSectionMap(sections, tabsOf(root))
	}
	if l1, ok := root.Get("l1"); ok && l1.Kind == KindArray {
		return adaptFlat(root)
	}
	if items, ok := root.First("items", "data"); ok {
		switch items.Kind {
		case KindArray:
			return adaptNested(items, tabsOf(root))
		case KindObject:
			return adapt(items)
		}
	}
	if nav, ok := root.Get("nav"); ok {
		return adapt(nav)
	}
	return rawTree{}
}

func tabsOf(root Value) Value {
	tabs, _ := root.First("tabs", "l3")
	return tabs
}

// adaptSectionMap handles {"sections": {name: [sub...]}, "tabs": {subHref: [tab...]}}.
func adaptSectionMap(sections Value, tabs Value) rawTree {
	var t rawTree
	for _, name := range sections.Keys {
		g := group{Name: strings.TrimSpace(name)}
		val := sections.Fields[name]
		switch val.Kind {
		case KindArray:
			g.Subs = toNodes(val)
		case KindObject:
			if n, ok := toNode(val); ok {
				g.Href = n.Href
				g.Order, g.HasOrder = n.Order, n.HasOrder
				if n.Title != "" {
					g.Name = n.Title
				}
				g.Subs = n.Children
			} else {
				continue
			}
		default:
			continue
		}
		t.Groups = append(t.Groups, g)
		for _, sub := range g.Subs {
			t.addTabs(sub.Href, sub.Children)
		}
	}
	addTabSource(&t, tabs)
	return t
}

// adaptFlat handles {"l1": [...], "l2": [...], "tabs": [...]} where children
// point at their owner by key or href.
func adaptFlat(root Value) rawTree {
	var t rawTree
	l1, _ := root.Get("l1")
	index := map[string]int{}
	for _, n := range toNodes(l1) {
		key := firstNonEmpty(n.Key, n.Href, n.Title)
		if key == "" {
			continue
		}
		if _, dup := index[key]; dup {
			continue
		}
		index[key] = len(t.Groups)
		t.Groups = append(t.Groups, group{
			Name:     n.Title,
			Key:      key,
			Href:     n.Href,
			Order:    n.Order,
			HasOrder: n.HasOrder,
		})
	}
	attach := func(owner string, subs []node) {
		if i, ok := index[owner]; ok {
			t.Groups[i].Subs = append(t.Groups[i].Subs, subs...)
		}
	}
	if l2, ok := root.Get("l2"); ok {
		switch l2.Kind {
		case KindArray:
			for _, n := range toNodes(l2) {
				attach(n.Owner, []node{n})
			}
		case KindObject:
			for _, key := range l2.Keys {
				attach(key, toNodes(l2.Fields[key]))
			}
		}
	}
	addTabSource(&t, tabsOf(root))
	return t
}

// adaptNested handles trees of {title, path, children: [...]}, where a
// sub-section's own children are its tabs.
func adaptNested(items Value, tabs Value) rawTree {
	var t rawTree
	for _, n := range toNodes(items) {
		g := group{
			Name:     n.Title,
			Key:      n.Key,
			Href:     n.Href,
			Order:    n.Order,
			HasOrder: n.HasOrder,
			Subs:     n.Children,
		}
		t.Groups = append(t.Groups, g)
		for _, sub := range g.Subs {
			t.addTabs(sub.Href, sub.Children)
		}
	}
	addTabSource(&t, tabs)
	return t
}

// addTabSource accepts either a map keyed by sub-section href or a flat list
// whose entries carry an owner href.
func addTabSource(t *rawTree, tabs Value) {
	switch tabs.Kind {
	case KindObject:
		for _, key := range tabs.Keys {
			t.addTabs(strings.TrimSpace(key), toNodes(tabs.Fields[key]))
		}
	case KindArray:
		for _, n := range toNodes(tabs) {
			t.addTabs(n.Owner, []node{n})
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
