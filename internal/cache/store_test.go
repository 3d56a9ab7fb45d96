package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/at-ishikawa/systab/internal/syscalls"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestStore_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		entries []syscalls.Entry
	}{
		{
			name:    "empty cache",
			entries: []syscalls.Entry{},
		},
		{
			name: "order, duplicates and placeholders are preserved",
			entries: []syscalls.Entry{
				syscalls.NewEntry("sys_write", syscalls.Params{"0x01", "unsigned int", "const char __user *", "size_t", "-", "-"}, "fs/read_write.c:408"),
				syscalls.NewEntry("sys_read", syscalls.Params{"0x00", "unsigned int", "char __user *", "size_t", "-", "-"}, "fs/read_write.c:391"),
				syscalls.NewEntry("sys_read", syscalls.Params{"0x00", "unsigned int", "char __user *", "size_t", "-", "-"}, "fs/read_write.c:391"),
				syscalls.NewEntry("sys_weird", syscalls.Params{"60", "", "null", "true", "# not a comment", "key: value"}, ":"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(filepath.Join(t.TempDir(), "nested", "callcache.yml"))

			count, err := store.Save(tt.entries)
			require.NoError(t, err)
			assert.Equal(t, len(tt.entries), count)

			got, err := store.Load()
			require.NoError(t, err)
			assert.Equal(t, tt.entries, got)
		})
	}
}

func TestStore_SaveReplacesPriorContent(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "callcache.yml"))

	_, err := store.Save([]syscalls.Entry{
		syscalls.NewEntry("sys_old", syscalls.Params{"0x10", "-", "-", "-", "-", "-"}, "old.c:1"),
		syscalls.NewEntry("sys_older", syscalls.Params{"0x11", "-", "-", "-", "-", "-"}, "old.c:2"),
	})
	require.NoError(t, err)

	replacement := []syscalls.Entry{
		syscalls.NewEntry("sys_new", syscalls.Params{"0x20", "int", "-", "-", "-", "-"}, "new.c:1"),
	}
	count, err := store.Save(replacement)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, replacement, got)

	files, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	assert.Len(t, files, 1, "temporary files must not be left behind")
}

func TestStore_LoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content *string
	}{
		{name: "missing file"},
		{name: "empty file", content: ptr("")},
		{name: "not yaml", content: ptr("entries: [\n")},
		{name: "unknown field", content: ptr("entries:\n  - name: sys_read\n    arguments: []\n")},
		{name: "wrong shape", content: ptr("entries: sys_read\n")},
		{name: "entry without a name", content: ptr("entries:\n  - definition: fs/read_write.c:391\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "callcache.yml")
			if tt.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0o644))
			}

			got, err := NewStore(path).Load()
			var cacheErr *syscalls.CacheError
			require.ErrorAs(t, err, &cacheErr)
			assert.Equal(t, path, cacheErr.Path)
			assert.Nil(t, got)
		})
	}
}

func TestEncode_Format(t *testing.T) {
	data, err := encode([]syscalls.Entry{
		syscalls.NewEntry("sys_close", syscalls.Params{"0x03", "unsigned int", "-", "-", "-", "-"}, "fs/open.c:1191"),
	})
	require.NoError(t, err)

	var doc map[string][]map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.Len(t, doc["entries"], 1)

	entry := doc["entries"][0]
	assert.Equal(t, "sys_close", entry["name"])
	assert.Equal(t, "fs/open.c:1191", entry["definition"])
	assert.Equal(t, map[string]any{
		"eax": "0x03",
		"ebx": "unsigned int",
		"ecx": "-",
		"edx": "-",
		"esi": "-",
		"edi": "-",
	}, entry["params"])
}

func ptr(s string) *string {
	return &s
}
