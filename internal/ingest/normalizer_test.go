package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/at-ishikawa/systab/internal/syscalls"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureEntries() []syscalls.Entry {
	return []syscalls.Entry{
		syscalls.NewEntry("sys_read",
			syscalls.Params{"0x00", "unsigned int", "char __user *", "size_t", "-", "-"},
			"fs/read_write.c:391"),
		syscalls.NewEntry("sys_open",
			syscalls.Params{"0x02", "const char __user *", "int", "umode_t", "-", "-"},
			"fs/open.c:900"),
		syscalls.NewEntry("sys_execve",
			syscalls.Params{"0x3b", "const char __user *", "const char __user *const __user *", "const char __user *const __user *", "-", "-"},
			"fs/exec.c:1710"),
	}
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	doc, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return doc
}

func TestNormalizers_CrossFormatConsistency(t *testing.T) {
	jsonNormalizer, err := NewNormalizer(FormatJSON)
	require.NoError(t, err)
	htmlNormalizer, err := NewNormalizer(FormatHTML)
	require.NoError(t, err)

	fromJSON, err := jsonNormalizer.Normalize(readFixture(t, "syscalls.json"))
	require.NoError(t, err)
	fromHTML, err := htmlNormalizer.Normalize(readFixture(t, "syscalls.html"))
	require.NoError(t, err)

	assert.Equal(t, fixtureEntries(), fromJSON)
	assert.Equal(t, fromJSON, fromHTML)
}

func TestNewNormalizer(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		opts    []Option
		want    Normalizer
		wantErr bool
	}{
		{
			name:   "json",
			format: FormatJSON,
			want:   JSONNormalizer{},
		},
		{
			name:   "html with the default table id",
			format: FormatHTML,
			want:   HTMLNormalizer{TableID: DefaultTableID},
		},
		{
			name:   "html with a custom table id",
			format: FormatHTML,
			opts:   []Option{WithTableID("calls")},
			want:   HTMLNormalizer{TableID: "calls"},
		},
		{
			name:    "unknown format",
			format:  Format("xml"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewNormalizer(tt.format, tt.opts...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_Set(t *testing.T) {
	format := FormatJSON
	require.NoError(t, format.Set("html"))
	assert.Equal(t, FormatHTML, format)

	assert.Error(t, format.Set("yaml"))
	assert.Equal(t, FormatHTML, format)
	assert.Equal(t, "html", format.String())
}
