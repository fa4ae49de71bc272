package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name, content string) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestLocalStorageSaveAndDelete(t *testing.T) {
	root := t.TempDir()
	ls, err := NewLocalStorage(root, "http://localhost:8080/uploads/")
	require.NoError(t, err)

	url, err := ls.Save(fileHeader(t, "Notes.PDF", "lecture one"), "materials/7")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/materials/7/"))
	assert.True(t, strings.HasSuffix(url, ".pdf"))
	onDisk := filepath.Join(root, "materials", "7", filepath.Base(url))
	resolved, err := ls.Resolve(url)
	require.NoError(t, err)
	assert.Equal(t, onDisk, resolved)
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "lecture one", string(data))

	require.NoError(t, ls.Delete(url))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, ls.Delete(url))
}

func TestLocalStorageRejectsForeignURLs(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	assert.ErrorIs(t, ls.Delete("https://cdn.example.com/file.pdf"), ErrOutsideStorage)
	assert.ErrorIs(t, ls.Delete("http://localhost:8080/uploads/"), ErrOutsideStorage)
	_, err = ls.Resolve("https://drive.example.com/x")
	assert.ErrorIs(t, err, ErrOutsideStorage)
}

func TestLocalStorageSubPathCannotEscapeRoot(t *testing.T) {
	root := t.TempDir()
	ls, err := NewLocalStorage(root, "/uploads")
	require.NoError(t, err)

	url, err := ls.Save(fileHeader(t, "a.txt", "x"), "../../etc")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/etc/"))
	_, err = os.Stat(filepath.Join(root, "etc", filepath.Base(url)))
	assert.NoError(t, err)
}
