package seo

import "strings"

const (
	defaultRobots = IndexFollow
	robotsSuffix  = ", max-image-preview:large, max-snippet:-1, max-video-preview:-1"
)

// ResolveTitle returns the editor title, or the item's own title when unset.
func ResolveTitle(item ContentItem, meta Metadata) string {
	if meta.Title != "" {
		return meta.Title
	}
	return item.Title
}

// ResolveDescription returns the editor description, or the item's excerpt.
func ResolveDescription(item ContentItem, meta Metadata) string {
	if meta.Description != "" {
		return meta.Description
	}
	return item.Excerpt
}

// ResolveRobots returns the normalized robots directive with the preview
// and snippet rules appended. Unknown directives pass through verbatim.
// The default directive is emitted in its stored form, "index,follow".
// Only an unset value takes the default; a whitespace-only value is kept
// and normalizes to nothing.
func ResolveRobots(meta Metadata) string {
	raw := string(meta.Robots)
	if raw == "" {
		return string(defaultRobots) + robotsSuffix
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ", ") + robotsSuffix
}

// ResolveCanonical returns the editor canonical URL, or the item's permalink.
func ResolveCanonical(item ContentItem, meta Metadata) string {
	if meta.Canonical != "" {
		return meta.Canonical
	}
	return item.Permalink
}

// DocumentTitle overrides the computed document title on singular pages
// that carry an editor title. Everything else passes through unchanged.
func DocumentTitle(page Page, computed string) string {
	if page.Singular && page.Meta.Title != "" {
		return page.Meta.Title
	}
	return computed
}
