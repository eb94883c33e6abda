package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFAGaming/quick-yaml.db/internal/codec"
	"github.com/TFAGaming/quick-yaml.db/internal/document"
)

func TestDecodeEmptyContent(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{name: "nil", data: nil},
		{name: "empty", data: []byte{}},
		{name: "whitespace", data: []byte("   \n\t\n")},
		{name: "comment only", data: []byte("# nothing here\n")},
		{name: "explicit null", data: []byte("null\n")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := codec.Decode(tc.data)
			require.NoError(t, err)
			assert.Zero(t, doc.Len())
		})
	}
}

func TestDecodePreservesKeyOrder(t *testing.T) {
	data := []byte("zebra: 1\napple: 2\nmiddle: 3\n")
	doc, err := codec.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"zebra", "apple", "middle"}, doc.Keys())
}

func TestDecodeValueShapes(t *testing.T) {
	data := []byte(`str: hello
num: 42
pi: 3.14
flag: true
nothing: null
seq:
  - a
  - 2
nested:
  inner:
    - true
`)
	doc, err := codec.Decode(data)
	require.NoError(t, err)

	str, _ := doc.Get("str")
	assert.Equal(t, "hello", str)
	num, _ := doc.Get("num")
	assert.Equal(t, 42, num)
	pi, _ := doc.Get("pi")
	assert.Equal(t, 3.14, pi)
	flag, _ := doc.Get("flag")
	assert.Equal(t, true, flag)
	nothing, exists := doc.Get("nothing")
	assert.True(t, exists)
	assert.Nil(t, nothing)
	seq, _ := doc.Get("seq")
	assert.Equal(t, []interface{}{"a", 2}, seq)
	nested, _ := doc.Get("nested")
	assert.Equal(t, map[string]interface{}{"inner": []interface{}{true}}, nested)
}

func TestDecodeRejectsNonMapping(t *testing.T) {
	_, err := codec.Decode([]byte("- a\n- b\n"))
	require.Error(t, err)

	_, err = codec.Decode([]byte("just a scalar\n"))
	require.Error(t, err)
}

func TestDecodeRejectsMalformedYAML(t *testing.T) {
	_, err := codec.Decode([]byte("key: [unterminated\n"))
	require.Error(t, err)
}

func TestDecodeDuplicateKeysLastWins(t *testing.T) {
	doc, err := codec.Decode([]byte("k: first\nother: 1\nk: second\n"))
	require.NoError(t, err)
	v, _ := doc.Get("k")
	assert.Equal(t, "second", v)
	// The first occurrence keeps its position.
	assert.Equal(t, []string{"k", "other"}, doc.Keys())
}

func TestRoundTrip(t *testing.T) {
	doc := document.New()
	doc.Set("name", "John")
	doc.Set("age", 24)
	doc.Set("scores", []interface{}{1, 2.5, "three", nil})
	doc.Set("profile", map[string]interface{}{
		"active": true,
		"tags":   []interface{}{"x", "y"},
	})

	data, err := codec.Encode(doc)
	require.NoError(t, err)

	decoded, err := codec.Decode(data)
	require.NoError(t, err)

	assert.Equal(t, doc.Keys(), decoded.Keys(), "encode order must match document order")
	for _, key := range doc.Keys() {
		want, _ := doc.Get(key)
		got, _ := decoded.Get(key)
		assert.Equal(t, want, got, "value for '%s' must survive the round trip", key)
	}
}

func TestEncodeOrderFollowsDocument(t *testing.T) {
	doc := document.New()
	doc.Set("c", 3)
	doc.Set("a", 1)
	doc.Set("b", 2)

	data, err := codec.Encode(doc)
	require.NoError(t, err)

	decoded, err := codec.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, decoded.Keys())
}
