// Package fragment implements deferred HTML fragments for templates.
//
// A template builds tokens through a run-scoped Registry: HTML and Markup
// produce sequences of literal markup and values, Safe marks a value as
// trusted markup, and Route declares output pages together with the content
// each page shows at that position. Nothing is rendered while the template
// runs. Once it returns, every declared page is produced by resolving the
// root token for that page:
//
//   - the current-page token resolves to the page itself
//   - a route token resolves to the content declared for the page, or ""
//   - a sequence resolves to the concatenation of its parts
//   - a safe token resolves to its value without escaping
//   - any other value is HTML escaped
//
// Tokens only ever reference tokens created before them, so resolution always
// terminates.
package fragment
