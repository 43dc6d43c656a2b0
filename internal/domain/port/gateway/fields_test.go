package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFields(t *testing.T) {
	testCases := []struct {
		name string
		body string
		ok   bool
	}{
		{"Object", `{"response": {"token": "ch_1"}}`, true},
		{"Empty object", `{}`, true},
		{"Array", `[1, 2]`, false},
		{"HTML", `<html>Bad Gateway</html>`, false},
		{"Empty", ``, false},
		{"Trailing garbage", `{} {}`, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := DecodeFields([]byte(tc.body))
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestFieldsAccessors(t *testing.T) {
	f, ok := DecodeFields([]byte(`{
		"token": "ch_lfUYEBK14zotCTykezJkfg",
		"total_fees": 500,
		"big": 9007199254740993,
		"as_string": "42",
		"fraction": 1.5,
		"success": true,
		"nothing": null,
		"card": {"scheme": "visa", "primary": true},
		"messages": [{"message": "Description can't be blank"}, "junk"],
		"created_at": "2013-06-27T00:39:07Z"
	}`))
	require.True(t, ok)

	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "ch_lfUYEBK14zotCTykezJkfg", f.String("token"))
		assert.Equal(t, "500", f.String("total_fees"))
		assert.Equal(t, "true", f.String("success"))
		assert.Equal(t, "", f.String("nothing"))
		assert.Equal(t, "", f.String("missing"))
	})

	t.Run("Int64", func(t *testing.T) {
		assert.Equal(t, int64(500), f.Int64("total_fees"))
		assert.Equal(t, int64(9007199254740993), f.Int64("big"))
		assert.Equal(t, int64(42), f.Int64("as_string"))
		assert.Equal(t, int64(0), f.Int64("fraction"))

		_, present := f.OptionalInt64("nothing")
		assert.False(t, present)
	})

	t.Run("Nested", func(t *testing.T) {
		card := f.Object("card")
		assert.Equal(t, "visa", card.String("scheme"))
		assert.True(t, card.Bool("primary"))
		assert.Empty(t, f.Object("missing"))

		msgs := f.List("messages")
		require.Len(t, msgs, 1)
		assert.Equal(t, "Description can't be blank", msgs[0].String("message"))
		assert.Nil(t, f.List("token"))
	})

	t.Run("Time", func(t *testing.T) {
		ts := f.Time("created_at")
		require.NotNil(t, ts)
		assert.Equal(t, 2013, ts.Year())
		assert.Nil(t, f.Time("token"))
	})

	t.Run("Has", func(t *testing.T) {
		assert.True(t, f.Has("nothing"))
		assert.False(t, f.Has("missing"))
	})
}
