package export

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chatLine = "01/02/2024, 10:00 - Ana: hola"

type zipEntry struct {
	name string
	body string
}

func buildZip(t *testing.T, entries ...zipEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(e.body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtract_Text(t *testing.T) {
	t.Parallel()

	got, err := Extract("Chat with Ana.TXT", []byte(chatLine))
	require.NoError(t, err)
	assert.Equal(t, chatLine, got)
}

func TestExtract_Zip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []zipEntry
		want    string
	}{
		{
			name: "prefers chat file",
			entries: []zipEntry{
				{"notes.txt", "otra cosa"},
				{"IMG-0001.jpg", "binary"},
				{"_chat.txt", chatLine},
			},
			want: chatLine,
		},
		{
			name: "chat file in folder",
			entries: []zipEntry{
				{"export/readme.txt", "otra cosa"},
				{"export/WhatsApp_chat.txt", chatLine},
			},
			want: chatLine,
		},
		{
			name: "falls back to first text file",
			entries: []zipEntry{
				{"IMG-0001.jpg", "binary"},
				{"Chat de WhatsApp con Ana.txt", chatLine},
				{"later.txt", "no"},
			},
			want: chatLine,
		},
		{
			name: "skips resource forks",
			entries: []zipEntry{
				{"__MACOSX/._chat.txt", "junk"},
				{"_chat.txt", chatLine},
			},
			want: chatLine,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Extract("export.zip", buildZip(t, tt.entries...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filename string
		data     func(t *testing.T) []byte
		wantErr  error
	}{
		{
			name:     "unsupported extension",
			filename: "chat.pdf",
			data:     func(*testing.T) []byte { return []byte(chatLine) },
			wantErr:  ErrUnsupportedFormat,
		},
		{
			name:     "no extension",
			filename: "chat",
			data:     func(*testing.T) []byte { return []byte(chatLine) },
			wantErr:  ErrUnsupportedFormat,
		},
		{
			name:     "corrupt zip",
			filename: "chat.zip",
			data:     func(*testing.T) []byte { return []byte("not a zip") },
			wantErr:  ErrUnsupportedFormat,
		},
		{
			name:     "zip without text",
			filename: "chat.zip",
			data: func(t *testing.T) []byte {
				return buildZip(t, zipEntry{"IMG-0001.jpg", "binary"})
			},
			wantErr: ErrNoChatFile,
		},
		{
			name:     "blank text",
			filename: "chat.txt",
			data:     func(*testing.T) []byte { return []byte(" \n\r\n ") },
			wantErr:  ErrEmptyText,
		},
		{
			name:     "bom only",
			filename: "chat.txt",
			data:     func(*testing.T) []byte { return []byte{0xEF, 0xBB, 0xBF} },
			wantErr:  ErrEmptyText,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Extract(tt.filename, tt.data(t))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	utf16le := []byte{0xFF, 0xFE, 'h', 0, 'o', 0, 'l', 0, 'a', 0, 0xF1, 0}
	utf16be := []byte{0xFE, 0xFF, 0, 'h', 0, 'o', 0, 'l', 0, 'a', 0, 0xF1}

	tests := []struct {
		name string
		raw  []byte
		want string
	}{
		{"plain utf8", []byte("hola ñ"), "hola ñ"},
		{"utf8 bom", append([]byte{0xEF, 0xBB, 0xBF}, []byte("hola")...), "hola"},
		{"utf16 little endian", utf16le, "holañ"},
		{"utf16 big endian", utf16be, "holañ"},
		{"invalid utf8", []byte{'h', 0xFF, 'a'}, "h\uFFFDa"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Decode(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
