package minify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "document whitespace",
			in:   "<!doctype html>\n<html>\n  <head>\n    <title>Hi</title>\n  </head>\n  <body>\n    <h1>  Hello\n   world </h1>\n  </body>\n</html>\n",
			want: "<!doctype html><html><head><title>Hi</title></head><body><h1> Hello world </h1>",
		},
		{
			name: "comments removed",
			in:   "<p>a<!-- hidden -->b</p>",
			want: "<p>ab</p>",
		},
		{
			name: "boolean attributes",
			in:   `<input type="checkbox" checked="checked" disabled="">`,
			want: `<input type=checkbox checked disabled>`,
		},
		{
			name: "quotes kept when needed",
			in:   `<a href="/posts/foo/" title="two words">x</a>`,
			want: `<a href=/posts/foo/ title="two words">x</a>`,
		},
		{
			name: "empty and redundant attributes",
			in:   `<div class="" id=" " style="" data-x="">x</div><input type="text" name="q"><script type="text/javascript">1</script>`,
			want: `<div data-x="">x</div><input name=q><script>1</script>`,
		},
		{
			name: "pre preserved",
			in:   "<pre>  a\n   <b>b</b>\n</pre>\n<p> c   d </p>",
			want: "<pre>  a\n   <b>b</b>\n</pre><p> c d </p>",
		},
		{
			name: "script and style preserved",
			in:   "<script>\n  if (a  <  b) {}\n</script><style>\n p { }\n</style>",
			want: "<script>\n  if (a  <  b) {}\n</script><style>\n p { }\n</style>",
		},
		{
			name: "entities kept",
			in:   "<p>Tom &amp; Jerry &lt;3</p>",
			want: "<p>Tom &amp; Jerry &lt;3</p>",
		},
		{
			name: "attribute values escaped",
			in:   `<a href="/x?a=1&amp;b=2" title='say "hi"'>x</a>`,
			want: `<a href="/x?a=1&amp;b=2" title="say &#34;hi&#34;">x</a>`,
		},
		{
			name: "optional list end tags",
			in:   "<ul>\n  <li>a</li>\n  <li>b</li>\n</ul><p>after</p>",
			want: "<ul><li>a<li>b</ul><p>after</p>",
		},
		{
			name: "optional table end tags",
			in:   "<table><tbody><tr><th>h</th><td>1</td></tr><tr><td>2</td></tr></tbody></table>",
			want: "<table><tbody><tr><th>h<td>1<tr><td>2</table>",
		},
		{
			name: "dt end tag kept before parent end",
			in:   "<dl><dt>a</dt><dd>b</dd><dt>c</dt></dl>",
			want: "<dl><dt>a<dd>b<dt>c</dt></dl>",
		},
		{
			name: "end tag kept before text",
			in:   "<li>a</li>tail",
			want: "<li>a</li>tail",
		},
		{
			name: "end tag kept at end of fragment",
			in:   "<ol><li>a</li>",
			want: "<ol><li>a</li>",
		},
		{
			name: "select and thead end tags",
			in:   "<select><option>a</option><option>b</option></select><table><thead><tr><td>x</td></tr></thead><tbody></tbody></table>",
			want: "<select><option>a<option>b</select><table><thead><tr><td>x<tbody></table>",
		},
		{
			name: "self closing",
			in:   `<br/><img src="a.png" />`,
			want: `<br/><img src="a.png"/>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HTML(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHTMLEmpty(t *testing.T) {
	got, err := HTML("")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}
