package ingest

import (
	"testing"

	"github.com/at-ishikawa/systab/internal/syscalls"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const htmlHeader = `<tr><th>#</th><th>Name</th></tr><tr><th>eax</th></tr>`

func TestHTMLNormalizer_Normalize(t *testing.T) {
	tests := []struct {
		name    string
		tableID string
		doc     string
		want    []syscalls.Entry
		wantErr bool
	}{
		{
			name:    "cell text is trimmed and nested markup flattened",
			tableID: DefaultTableID,
			doc: `<table id="syscall_table">` + htmlHeader + `
				<tr><td>0</td><td> sys_close </td><td>0x03</td><td><b>unsigned</b> int</td>
				<td>-</td><td>-</td><td>-</td><td>-</td><td><a href="#">fs/open.c:1191</a></td></tr>
			</table>`,
			want: []syscalls.Entry{
				syscalls.NewEntry("sys_close", syscalls.Params{"0x03", "unsigned int", "-", "-", "-", "-"}, "fs/open.c:1191"),
			},
		},
		{
			name:    "extra cells are ignored",
			tableID: DefaultTableID,
			doc: `<table id="syscall_table">` + htmlHeader + `
				<tr><td>0</td><td>sys_sync</td><td>0xa2</td><td>-</td><td>-</td><td>-</td><td>-</td><td>-</td><td>fs/sync.c:111</td><td>extra</td></tr>
			</table>`,
			want: []syscalls.Entry{
				syscalls.NewEntry("sys_sync", syscalls.Params{"0xa2", "-", "-", "-", "-", "-"}, "fs/sync.c:111"),
			},
		},
		{
			name:    "only header rows",
			tableID: DefaultTableID,
			doc:     `<table id="syscall_table">` + htmlHeader + `</table>`,
			want:    []syscalls.Entry{},
		},
		{
			name:    "custom table id",
			tableID: "calls",
			doc: `<table id="other"><tr><td>ignored</td></tr></table>
				<table id="calls">` + htmlHeader + `
				<tr><td>0</td><td>sys_sync</td><td>0xa2</td><td>-</td><td>-</td><td>-</td><td>-</td><td>-</td><td>fs/sync.c:111</td></tr>
			</table>`,
			want: []syscalls.Entry{
				syscalls.NewEntry("sys_sync", syscalls.Params{"0xa2", "-", "-", "-", "-", "-"}, "fs/sync.c:111"),
			},
		},
		{
			name:    "missing table",
			tableID: DefaultTableID,
			doc:     `<html><body><p>nothing here</p></body></html>`,
			wantErr: true,
		},
		{
			name:    "row with too few cells",
			tableID: DefaultTableID,
			doc: `<table id="syscall_table">` + htmlHeader + `
				<tr><td>0</td><td>sys_read</td><td>0x00</td></tr>
			</table>`,
			wantErr: true,
		},
		{
			name:    "row with an empty name",
			tableID: DefaultTableID,
			doc: `<table id="syscall_table">` + htmlHeader + `
				<tr><td>0</td><td></td><td>0xa2</td><td>-</td><td>-</td><td>-</td><td>-</td><td>-</td><td>fs/sync.c:111</td></tr>
			</table>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HTMLNormalizer{TableID: tt.tableID}.Normalize([]byte(tt.doc))
			if tt.wantErr {
				var inputErr *syscalls.InputError
				assert.ErrorAs(t, err, &inputErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
