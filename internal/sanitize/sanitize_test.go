package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "inline script removed",
			in:   `<p>a</p><script>const m = '<div class="calendly-inline-widget"></div>';</script><p>b</p>`,
			want: `<p>a</p><p>b</p>`,
		},
		{
			name: "external script kept",
			in:   `<script src="https://assets.calendly.com/assets/embed/embed.js"></script>`,
			want: `<script src="https://assets.calendly.com/assets/embed/embed.js"></script>`,
		},
		{
			name: "external script with attributes kept",
			in:   `<script async type="text/javascript" src='https://js.callrail.com/x.js'></script>`,
			want: `<script async type="text/javascript" src='https://js.callrail.com/x.js'></script>`,
		},
		{
			name: "json-ld removed",
			in:   "<head><script type=\"application/ld+json\">\n{\"description\": \"data-dialpad-widget\"}\n</script></head>",
			want: `<head></head>`,
		},
		{
			name: "json-ld with src removed",
			in:   `<script type='application/ld+json' src="/schema.json"></script><p>x</p>`,
			want: `<p>x</p>`,
		},
		{
			name: "style removed",
			in:   "<style media=\"all\">\n.calendly-popup { color: red }\n</style><div>ok</div>",
			want: `<div>ok</div>`,
		},
		{
			name: "data-src is not src",
			in:   `<script data-src="https://dialpad.com/widget/embed.js">load()</script>`,
			want: ``,
		},
		{
			name: "case insensitive and multiline",
			in:   "<SCRIPT>\nvar a = 1;\n</SCRIPT ><b>x</b>",
			want: `<b>x</b>`,
		},
		{
			name: "mixed",
			in:   `<script>// analytics</script><script src="https://dialpad.com/widget/embed.js"></script><script>x()</script>`,
			want: `<script src="https://dialpad.com/widget/embed.js"></script>`,
		},
		{
			name: "comments and other tags untouched",
			in:   `<!-- note --><pre><code>&lt;script&gt;</code></pre><noscript><img src="p.gif"></noscript>`,
			want: `<!-- note --><pre><code>&lt;script&gt;</code></pre><noscript><img src="p.gif"></noscript>`,
		},
		{
			name: "unterminated script left in place",
			in:   `<p>a</p><script>var x = 1;`,
			want: `<p>a</p><script>var x = 1;`,
		},
		{
			name: "empty",
			in:   ``,
			want: ``,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTML(tt.in))
		})
	}
}

func TestHTML_Idempotent(t *testing.T) {
	in := `<style>a{}</style><script>x</script><script src="s.js"></script><div class="a">b</div>`
	once := HTML(in)
	assert.Equal(t, once, HTML(once))
	assert.False(t, strings.Contains(once, "<style"))
}
