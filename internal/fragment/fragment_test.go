package fragment_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotr/internal/fragment"
)

func isEncoded(s string) bool { return strings.HasPrefix(s, "?OTR:") }

func TestFragmenter_PassThroughShortMessage(t *testing.T) {
	require := require.New(t)
	f := fragment.New(isEncoded)
	out, err := f.Split("?OTR:short.", 1, 2, 1024)
	require.NoError(err)
	require.Equal([]string{"?OTR:short."}, out)
}

func TestFragmenter_PassThroughNonEncoded(t *testing.T) {
	require := require.New(t)
	f := fragment.New(isEncoded)
	out, err := f.Split("hello world", 1, 2, 4)
	require.NoError(err)
	require.Equal([]string{"hello world"}, out)
}

func TestFragmenter_AssemblerRoundTrip(t *testing.T) {
	require := require.New(t)
	f := fragment.New(isEncoded)
	original := "?OTR:" + strings.Repeat("AAAABBBBCCCCDDDD", 20) + "."

	pieces, err := f.Split(original, 7, 9, 100)
	require.NoError(err)
	require.Greater(len(pieces), 1, "expected multiple fragments")

	a := fragment.NewAssembler()
	var result string
	var ok bool
	for i, p := range pieces {
		result, ok, err = a.Feed(p, 9)
		require.NoErrorf(err, "Feed piece %d", i)
		if ok && i != len(pieces)-1 {
			t.Fatalf("completed early at piece %d", i)
		}
	}
	require.True(ok, "assembly never completed")
	require.Equal(original, result)
}

func TestFragmenter_AssemblerRejectsWrongInstance(t *testing.T) {
	a := fragment.NewAssembler()
	_, _, err := a.Feed("?OTR|1|2,1,1,xx,", 99)
	require.Equal(t, fragment.ErrUnknownInstance, err)
}

func TestFragmenter_AssemblerRejectsMalformed(t *testing.T) {
	a := fragment.NewAssembler()
	cases := []string{
		"?OTR|1|2,0,1,x,",
		"?OTR|1|2,2,1,x,",
		"?OTR|1,1,1,x,",
		"?OTR|1|2,1,1,x",
	}
	for _, c := range cases {
		_, _, err := a.Feed(c, 0)
		assert.EqualErrorf(t, err, fragment.ErrInvalidFragment.Error(), "Feed(%q)", c)
	}
}
