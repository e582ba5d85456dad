// Package markdown parses, expands and renders the narrow markdown dialect
// used to author API reference documents.
//
// The grammar knows five node kinds: headers, text lines, fenced code,
// opaque `<!-- GEN` generator blocks and list items. Text is first folded
// into logical lines (Normalize), then arranged into a forest (Build) where
// headers nest by depth and list items nest by two-space indentation under
// the current header.
//
// Reusable argument descriptions are written once as templates and pulled
// in with macros:
//
//   - `options` = %%-navigation-options-%%
//   - option-inline- = %%-navigation-option-list-%%
//
// ExpandTemplates resolves them in place. Render writes a forest back with
// paragraphs wrapped to a column limit.
//
// A forest is owned by one goroutine at a time; nothing in the package holds
// shared mutable state.
package markdown
