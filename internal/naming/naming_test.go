package naming

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultOutputName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"song.adf", "song.mp3"},
		{"archive.v1.adf", "archive.v1.mp3"},
		{"FLASH.ADF", "FLASH.mp3"},
		{"noext", "noext.mp3"},
		{"song.mp3", "song.mp3"},
		{filepath.Join("Audio", "WILD.adf"), filepath.Join("Audio", "WILD.mp3")},
		{filepath.Join("my.dir", "noext"), filepath.Join("my.dir", "noext.mp3")},
	}
	for _, tc := range cases {
		got, err := DefaultOutputName(tc.in)
		require.NoError(t, err, "in=%q", tc.in)
		require.Equal(t, tc.want, got, "in=%q", tc.in)
	}
}

func TestDefaultOutputName_Invalid(t *testing.T) {
	sep := string(filepath.Separator)
	for _, in := range []string{"", "   ", ".", "..", "Audio" + sep, "Audio" + sep + "..", ".adf"} {
		_, err := DefaultOutputName(in)
		require.Error(t, err, "in=%q", in)

		var ie *InvalidNameError
		require.True(t, errors.As(err, &ie), "in=%q 期望 InvalidNameError，实际：%T %v", in, err, err)
		require.Equal(t, in, ie.Path)
	}
}
