package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch_LiteralPath(t *testing.T) {
	p := Compile("/healthz")
	params, ok := p.Match("/healthz")
	require := assert.New(t)
	require.True(ok)
	require.Empty(params)

	_, ok = p.Match("/healthy")
	require.False(ok)
}

func TestMatch_StringDirective(t *testing.T) {
	p := Compile("/user/%s")
	params, ok := p.Match("/user/alice")
	assert.True(t, ok)
	assert.Equal(t, "alice", params.At(0))
}

func TestMatch_IntDirective(t *testing.T) {
	p := Compile("/file/%d")
	params, ok := p.Match("/file/42")
	assert.True(t, ok)
	assert.Equal(t, "42", params.At(0))

	_, ok = p.Match("/file/notanumber")
	assert.False(t, ok)
}

func TestMatch_IntDirectiveRejectsTrailingGarbage(t *testing.T) {
	p := Compile("/file/%d")
	_, ok := p.Match("/file/123abc")
	assert.False(t, ok)
}

func TestMatch_MultipleDirectives(t *testing.T) {
	p := Compile("/user/%s/file/%d")
	params, ok := p.Match("/user/bob/file/7")
	assert.True(t, ok)
	assert.Equal(t, "bob", params.At(0))
	assert.Equal(t, "7", params.At(1))
}

func TestMatch_SegmentCountMismatch(t *testing.T) {
	p := Compile("/user/%s")
	_, ok := p.Match("/user/bob/extra")
	assert.False(t, ok)

	_, ok = p.Match("/user")
	assert.False(t, ok)
}

func TestMatch_LiteralSegmentMustMatchExactly(t *testing.T) {
	p := Compile("/user/%s/profile")
	_, ok := p.Match("/user/bob/settings")
	assert.False(t, ok)

	params, ok := p.Match("/user/bob/profile")
	assert.True(t, ok)
	assert.Equal(t, "bob", params.At(0))
}

func TestParams_AtOutOfRange(t *testing.T) {
	var p Params
	assert.Equal(t, "", p.At(0))
	assert.Equal(t, "", p.At(-1))
}

func TestPattern_String(t *testing.T) {
	p := Compile("/user/%s/file/%d")
	assert.Equal(t, "/user/%s/file/%d", p.String())
}
