package navtree

// flatten walks the raw document depth first and collects every visible
// object exposing an href or path, first occurrence wins.
func flatten(root Value) []Link {
	var links []Link
	seen := map[string]struct{}{}
	var walk func(v Value, depth int)
	walk = func(v Value, depth int) {
		switch v.Kind {
		case KindArray:
			for _, item := range v.Items {
				walk(item, depth)
			}
		case KindObject:
			next := depth
			if n, ok := toNode(v); ok {
				if n.Href != "" {
					if _, dup := seen[n.Href]; !dup {
						seen[n.Href] = struct{}{}
						links = append(links, Link{Text: firstNonEmpty(n.Title, n.Href), Href: n.Href, Depth: depth})
					}
					next = depth + 1
				}
			} else {
				// hidden subtree
				return
			}
			for _, key := range v.Keys {
				walk(v.Fields[key], next)
			}
		}
	}
	walk(root, 0)
	return links
}
