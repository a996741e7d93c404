package macro

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFootnoteSession_Reference(t *testing.T) {
	s := NewFootnoteSession()

	num, ref := s.Reference("a", "note a")
	assert.Equal(t, 1, num)
	assert.Equal(t, "fndef-1", ref)

	num, ref = s.Reference("b", "note b")
	assert.Equal(t, 2, num)
	assert.Equal(t, "fndef-2", ref)

	// repeated stub reuses the footnote but gets its own anchor
	num, ref = s.Reference("a", "")
	assert.Equal(t, 1, num)
	assert.Equal(t, "fndef-3", ref)

	assert.Equal(t, 2, s.Len())
}

func TestFootnoteSession_List(t *testing.T) {
	s := NewFootnoteSession()
	s.Reference("a", "note a")
	s.Reference("b", "*note b*")
	s.Reference("a", "")

	want := `<ol class="footnotes">` +
		`<li>^ <sup class="tex2jax_ignore"><a href="#fndef-1">a</a></sup> <sup class="tex2jax_ignore"><a href="#fndef-3">b</a></sup> <span id="fnref-1"></span>note a</li>` +
		`<li><a href="#fndef-2">^</a> <span id="fnref-2"></span><em>note b</em></li>` +
		`</ol>`
	assert.Equal(t, want, s.List())

	// listing resets the session
	assert.Equal(t, 0, s.Len())
	_, ref := s.Reference("c", "note c")
	assert.Equal(t, "fndef-1", ref)
}

func TestFootnoteMacro_Render(t *testing.T) {
	session := NewFootnoteSession()
	m := NewFootnoteMacro(session)
	ctx := context.Background()

	out, err := m.Render(ctx, &Call{Args: "I am a footnote"})
	require.NoError(t, err)
	assert.Equal(t, `<sup id="fndef-1" class="tex2jax_ignore"><a href="#fnref-1">&#91;1&#93;</a></sup>`, out)

	out, err = m.Render(ctx, &Call{Args: "src | The source"})
	require.NoError(t, err)
	assert.Equal(t, `<sup id="fndef-2" class="tex2jax_ignore"><a href="#fnref-2">&#91;2&#93;</a></sup>`, out)

	out, err = m.Render(ctx, &Call{Args: "src"})
	require.NoError(t, err)
	assert.Equal(t, `<sup id="fndef-3" class="tex2jax_ignore"><a href="#fnref-2">&#91;2&#93;</a></sup>`, out)

	out, err = m.Render(ctx, &Call{})
	require.NoError(t, err)
	assert.Contains(t, out, `<span id="fnref-1"></span>I am a footnote</li>`)
	assert.Contains(t, out, `<span id="fnref-2"></span>The source</li>`)
}

func TestFootnoteMacro_EmptyList(t *testing.T) {
	out, err := NewFootnoteMacro(nil).Render(context.Background(), &Call{})
	require.NoError(t, err)
	assert.Equal(t, `<ol class="footnotes"></ol>`, out)
}

func TestBackrefLabel(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "a"},
		{1, "b"},
		{25, "z"},
		{26, "aa"},
		{27, "ab"},
		{52, "ba"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, backrefLabel(tt.n))
	}
}
