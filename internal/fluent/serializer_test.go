package fluent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSerialize_SimpleMessageRoundTrips(t *testing.T) {
	src := []byte("hello = Hello, world!\n")
	res := Parse(src)
	assert.Equal(t, src, Serialize(res))
}

func TestSerialize_MessageWithPlaceableRoundTrips(t *testing.T) {
	src := []byte("greeting = Hello, { $name }!\n")
	res := Parse(src)
	assert.Equal(t, src, Serialize(res))
}

func TestSerialize_TermRoundTrips(t *testing.T) {
	src := []byte("-brand-name = Firefox\n")
	res := Parse(src)
	assert.Equal(t, src, Serialize(res))
}

func TestSerialize_CommentRoundTrips(t *testing.T) {
	src := []byte("# line one\n# line two\n")
	res := Parse(src)
	assert.Equal(t, src, Serialize(res))
}

func TestSerialize_AttributeRoundTrips(t *testing.T) {
	res := &Resource{Body: []Entry{
		&Message{
			ID: Identifier{Name: "login"},
			Attributes: []Attribute{
				{ID: Identifier{Name: "title"}, Value: Pattern{Elements: []PatternElement{TextElement{Value: "Log in"}}}},
			},
		},
	}}
	got := string(Serialize(res))
	assert.Equal(t, "login =\n    .title = Log in\n", got)
}

func TestSerializeEntry_NoTrailingSeparator(t *testing.T) {
	msg := &Message{ID: Identifier{Name: "key"}, Value: &Pattern{Elements: []PatternElement{TextElement{Value: "value"}}}}
	got := string(SerializeEntry(msg))
	assert.Equal(t, "key = value\n", got)
}

func TestSerialize_TwoEntriesSeparatedByBlankLine(t *testing.T) {
	res := &Resource{Body: []Entry{
		&Message{ID: Identifier{Name: "a"}, Value: &Pattern{Elements: []PatternElement{TextElement{Value: "A"}}}},
		&Message{ID: Identifier{Name: "b"}, Value: &Pattern{Elements: []PatternElement{TextElement{Value: "B"}}}},
	}}
	assert.Equal(t, "a = A\n\nb = B\n", string(Serialize(res)))
}
