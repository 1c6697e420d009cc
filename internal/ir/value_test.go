package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAny(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want IRValue
	}{
		{"string", "talker", IRString("talker")},
		{"int", 3, IRInt(3)},
		{"int64", int64(-7), IRInt(-7)},
		{"uint64", uint64(12), IRInt(12)},
		{"integral float", float64(10), IRInt(10)},
		{"bool", true, IRBool(true)},
		{"array", []any{1, "a"}, IRArray{IRInt(1), IRString("a")}},
		{"object", map[string]any{"rate": 10}, IRObject{"rate": IRInt(10)}},
		{"already IR", IRString("x"), IRString("x")},
		{"json number", json.Number("42"), IRInt(42)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromAny_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		wantErr string
	}{
		{"null", nil, "null"},
		{"fraction", 0.5, "floats are not valid literals"},
		{"json fraction", json.Number("0.5"), "floats are not valid literals"},
		{"nested fraction", map[string]any{"period": 2.5}, "period"},
		{"array null", []any{1, nil}, "[1]"},
		{"struct", struct{}{}, "unsupported literal type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromAny(tt.in)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestObjectFromAny_Nil(t *testing.T) {
	obj, err := ObjectFromAny(nil)
	require.NoError(t, err)
	assert.NotNil(t, obj)
	assert.Empty(t, obj)
}

func TestSortedKeys_UTF16Order(t *testing.T) {
	// U+1F600 encodes to a surrogate pair (0xD83D...) which sorts before
	// U+FB01 (0xFB01) in UTF-16 but after it in UTF-8.
	obj := IRObject{
		"\U0001F600": IRInt(1),
		"\ufb01":     IRInt(2),
		"a":          IRInt(3),
	}
	assert.Equal(t, []string{"a", "\U0001F600", "\ufb01"}, obj.SortedKeys())
}

func TestClone_DoesNotAlias(t *testing.T) {
	orig := IRObject{"a": IRInt(1)}
	c := orig.Clone()
	c["b"] = IRInt(2)
	assert.Len(t, orig, 1)

	assert.NotNil(t, IRObject(nil).Clone())
}

func TestRender(t *testing.T) {
	assert.Equal(t, "1", Render(IRInt(1)))
	assert.Equal(t, `"1"`, Render(IRString("1")))
	assert.Equal(t, "true", Render(IRBool(true)))
	assert.Equal(t, `[1,"a"]`, Render(IRArray{IRInt(1), IRString("a")}))
	assert.Equal(t, `{"a":1,"b":2}`, Render(IRObject{"b": IRInt(2), "a": IRInt(1)}))
}

func TestToAny(t *testing.T) {
	v := IRObject{
		"list": IRArray{IRInt(1), IRBool(false)},
		"name": IRString("x"),
	}
	assert.Equal(t, map[string]any{
		"list": []any{int64(1), false},
		"name": "x",
	}, ToAny(v))
	assert.Nil(t, ToAny(IRNull{}))
}
