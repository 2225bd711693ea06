// Package navtree turns a fetched navigation payload into the three-level
// section → sub-section → tab model the shell navigates.
//
// Payloads arrive in several historical shapes. Decode keeps the raw document
// as an ordered tagged union, adapt folds every shape into one canonical raw
// tree, and build applies the structural rules: owner paths, default orders,
// stable sorting and first-seen deduplication.
package navtree

import (
	"sort"
	"strings"
)

const (
	// DefaultSubOrder applies to sub-sections without an explicit order.
	DefaultSubOrder = 100
	// DefaultTabOrder applies to tabs without an explicit order.
	DefaultTabOrder = 9999
	// defaultSectionOrder only matters when some sections carry an order.
	defaultSectionOrder = 9999
)

type Section struct {
	Key   string
	Text  string
	Href  string
	Order int
}

type SubSection struct {
	OwnerKey string
	Text     string
	Href     string
	Order    float64
}

type Tab struct {
	OwnerHref string
	Key       string
	Text      string
	Href      string
	Order     float64
}

// Link is one entry of the depth-first flattened list.
type Link struct {
	Text  string
	Href  string
	Depth int
}

// Location is a fully resolved selection triple.
type Location struct {
	Section string
	Sub     string
	Tab     string
}

// Model is an immutable normalized navigation tree. A nil *Model behaves as
// an empty tree.
type Model struct {
	sections []Section
	subs     map[string][]SubSection
	tabs     map[string][]Tab
	links    []Link
}

// Empty returns a tree with no sections.
func Empty() *Model {
	return &Model{subs: map[string][]SubSection{}, tabs: map[string][]Tab{}}
}

// ParseBytes decodes and normalizes a payload. On malformed input it returns
// an empty tree together with the decode error.
func ParseBytes(data []byte) (*Model, error) {
	root, err := Decode(data)
	if err != nil {
		return Empty(), err
	}
	return FromValue(root), nil
}

// Parse is ParseBytes without the error.
func Parse(data []byte) *Model {
	m, _ := ParseBytes(data)
	return m
}

// FromValue normalizes an already decoded document.
func FromValue(root Value) *Model {
	m := build(adapt(root))
	m.links = flatten(root)
	return m
}

func build(raw rawTree) *Model {
	m := Empty()

	groups := append([]group(nil), raw.Groups...)
	sort.SliceStable(groups, func(i, j int) bool {
		return groupOrder(groups[i]) < groupOrder(groups[j])
	})

	index := map[string]int{}
	for _, g := range groups {
		subs := dedupeNodes(g.Subs)
		sortNodes(subs, DefaultSubOrder)
		owner := "/"
		if len(subs) > 0 {
			owner = OwnerPath(subs[0].Href)
		} else if g.Href != "" {
			owner = OwnerPath(g.Href)
		}

		if i, ok := index[owner]; ok {
			existing := m.subs[m.sections[i].Key]
			m.subs[m.sections[i].Key] = mergeSubs(existing, subs, owner)
			continue
		}
		text := firstNonEmpty(g.Name, g.Key, owner)
		index[owner] = len(m.sections)
		m.sections = append(m.sections, Section{Key: owner, Text: text, Href: owner, Order: len(m.sections)})
		m.subs[owner] = mergeSubs(nil, subs, owner)
	}

	for _, key := range raw.TabKeys {
		owner := canonicalHref(key)
		if owner == "" {
			continue
		}
		m.tabs[owner] = mergeTabs(m.tabs[owner], raw.Tabs[key], owner)
	}
	return m
}

func groupOrder(g group) float64 {
	if g.HasOrder {
		return g.Order
	}
	return defaultSectionOrder
}

func nodeOrder(n node, fallback float64) float64 {
	if n.HasOrder {
		return n.Order
	}
	return fallback
}

// dedupeNodes drops entries without an href and later duplicates.
func dedupeNodes(nodes []node) []node {
	seen := map[string]struct{}{}
	out := make([]node, 0, len(nodes))
	for _, n := range nodes {
		if n.Href == "" {
			continue
		}
		if _, dup := seen[n.Href]; dup {
			continue
		}
		seen[n.Href] = struct{}{}
		out = append(out, n)
	}
	return out
}

func sortNodes(nodes []node, fallback float64) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodeOrder(nodes[i], fallback) < nodeOrder(nodes[j], fallback)
	})
}

func mergeSubs(existing []SubSection, nodes []node, owner string) []SubSection {
	seen := map[string]struct{}{}
	for _, s := range existing {
		seen[s.Href] = struct{}{}
	}
	out := append([]SubSection(nil), existing...)
	for _, n := range nodes {
		if _, dup := seen[n.Href]; dup {
			continue
		}
		seen[n.Href] = struct{}{}
		out = append(out, SubSection{
			OwnerKey: owner,
			Text:     firstNonEmpty(n.Title, n.Href),
			Href:     n.Href,
			Order:    nodeOrder(n, DefaultSubOrder),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func mergeTabs(existing []Tab, nodes []node, owner string) []Tab {
	seen := map[string]struct{}{}
	for _, t := range existing {
		seen[t.Href] = struct{}{}
	}
	out := append([]Tab(nil), existing...)
	for _, n := range nodes {
		if n.Href == "" {
			continue
		}
		if _, dup := seen[n.Href]; dup {
			continue
		}
		seen[n.Href] = struct{}{}
		out = append(out, Tab{
			OwnerHref: owner,
			Key:       firstNonEmpty(n.Key, n.Href, n.Title),
			Text:      firstNonEmpty(n.Title, n.Href),
			Href:      n.Href,
			Order:     nodeOrder(n, DefaultTabOrder),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// OwnerPath returns "/" plus the first path segment of href, or "/" when
// href has no segment.
func OwnerPath(href string) string {
	href = strings.TrimSpace(href)
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	for _, seg := range strings.Split(href, "/") {
		if seg != "" {
			return "/" + seg
		}
	}
	return "/"
}

func canonicalHref(href string) string {
	href = strings.TrimSpace(href)
	if len(href) > 1 {
		href = strings.TrimRight(href, "/")
		if href == "" {
			return "/"
		}
	}
	return href
}

// IsEmpty reports whether the tree has no sections.
func (m *Model) IsEmpty() bool {
	return m == nil || len(m.sections) == 0
}

// Sections returns the sections in rail order.
func (m *Model) Sections() []Section {
	if m == nil {
		return nil
	}
	return append([]Section(nil), m.sections...)
}

// Section looks up a section by href.
func (m *Model) Section(href string) (Section, bool) {
	if m == nil {
		return Section{}, false
	}
	for _, s := range m.sections {
		if s.Href == href {
			return s, true
		}
	}
	return Section{}, false
}

// HasSection reports whether href names a section.
func (m *Model) HasSection(href string) bool {
	_, ok := m.Section(href)
	return ok
}

// FirstSection returns the href of the first section, or "".
func (m *Model) FirstSection() string {
	if m.IsEmpty() {
		return ""
	}
	return m.sections[0].Href
}

// Subs returns the sub-sections owned by sectionKey.
func (m *Model) Subs(sectionKey string) []SubSection {
	if m == nil {
		return nil
	}
	return append([]SubSection(nil), m.subs[sectionKey]...)
}

// FirstSub returns the href of the first sub-section of sectionKey, or "".
func (m *Model) FirstSub(sectionKey string) string {
	if m == nil {
		return ""
	}
	if subs := m.subs[sectionKey]; len(subs) > 0 {
		return subs[0].Href
	}
	return ""
}

// HasSub reports whether subHref belongs to sectionKey.
func (m *Model) HasSub(sectionKey, subHref string) bool {
	if m == nil || subHref == "" {
		return false
	}
	for _, s := range m.subs[sectionKey] {
		if s.Href == subHref {
			return true
		}
	}
	return false
}

// OwnerOf returns the key of the first section containing subHref.
func (m *Model) OwnerOf(subHref string) (string, bool) {
	if m == nil || subHref == "" {
		return "", false
	}
	for _, sec := range m.sections {
		if m.HasSub(sec.Key, subHref) {
			return sec.Key, true
		}
	}
	return "", false
}

// Tabs returns the tabs of subHref. A trailing slash on either side of the
// lookup is ignored.
func (m *Model) Tabs(subHref string) []Tab {
	if m == nil || subHref == "" {
		return nil
	}
	return append([]Tab(nil), m.tabs[canonicalHref(subHref)]...)
}

// FirstTab returns the href of the first tab of subHref, or "".
func (m *Model) FirstTab(subHref string) string {
	if tabs := m.Tabs(subHref); len(tabs) > 0 {
		return tabs[0].Href
	}
	return ""
}

// HasTab reports whether tabHref belongs to subHref.
func (m *Model) HasTab(subHref, tabHref string) bool {
	if tabHref == "" {
		return false
	}
	for _, t := range m.Tabs(subHref) {
		if t.Href == tabHref {
			return true
		}
	}
	return false
}

// Locate resolves href, which may name a section, a sub-section or a tab,
// into a full triple using first-child defaults below it.
func (m *Model) Locate(href string) (Location, bool) {
	if m.IsEmpty() || href == "" {
		return Location{}, false
	}
	if m.HasSection(href) {
		sub := m.FirstSub(href)
		return Location{Section: href, Sub: sub, Tab: m.FirstTab(sub)}, true
	}
	if owner, ok := m.OwnerOf(href); ok {
		return Location{Section: owner, Sub: href, Tab: m.FirstTab(href)}, true
	}
	for _, sec := range m.sections {
		for _, sub := range m.subs[sec.Key] {
			if m.HasTab(sub.Href, href) {
				return Location{Section: sec.Key, Sub: sub.Href, Tab: href}, true
			}
		}
	}
	return Location{}, false
}

// Links returns the depth-first flattened list of every entry in the
// payload that exposes an href.
func (m *Model) Links() []Link {
	if m == nil {
		return nil
	}
	return append([]Link(nil), m.links...)
}
