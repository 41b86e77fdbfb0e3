package service

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourismoam/backoffice/pkg/storage"
)

var (
	pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	pdfHeader = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")
)

func formFile(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(10 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["file"][0]
}

func newFileService(t *testing.T) (FileService, string) {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewLocal(root, FileKinds...)
	require.NoError(t, err)
	return NewFileService(store, "/files/"), root
}

func TestFileStore_DetectsTypeFromContent(t *testing.T) {
	svc, root := newFileService(t)

	stored, err := svc.Store(KindPassports, formFile(t, "scan.pdf", pngHeader))
	require.NoError(t, err)

	assert.Equal(t, "image/png", stored.MIMEType)
	assert.True(t, strings.HasSuffix(stored.Path, ".png"))
	assert.Equal(t, filepath.Join(root, KindPassports), filepath.Dir(stored.Path))
	assert.Equal(t, "/files/"+filepath.Base(stored.Path), stored.URL)
	assert.Equal(t, int64(len(pngHeader)), stored.Size)

	data, err := os.ReadFile(stored.Path)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
}

func TestFileStore_RejectsUnsupportedType(t *testing.T) {
	svc, _ := newFileService(t)

	_, err := svc.Store(KindReceipts, formFile(t, "notes.pdf", []byte("just some text")))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Invalid file type. Allowed: jpg, png, pdf", ve.Message)
}

func TestFileStore_RejectsOversizedUpload(t *testing.T) {
	svc, _ := newFileService(t)

	fh := formFile(t, "big.pdf", pdfHeader)
	fh.Size = MaxUploadSize + 1
	_, err := svc.Store(KindReceipts, fh)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "File size exceeds 5MB limit", ve.Message)
}

func TestFileStore_NoFile(t *testing.T) {
	svc, _ := newFileService(t)

	_, err := svc.Store(KindReceipts, nil)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "No file uploaded", ve.Message)
}

func TestFileResolve_StripsDirectories(t *testing.T) {
	svc, _ := newFileService(t)
	stored, err := svc.Store(KindReceipts, formFile(t, "r.pdf", pdfHeader))
	require.NoError(t, err)
	name := filepath.Base(stored.Path)

	for _, requested := range []string{name, "../../" + name, "receipts/" + name, "..%2F" + name} {
		path, mt, err := svc.Resolve(requested)
		if requested == "..%2F"+name {
			assert.ErrorIs(t, err, ErrNotFound)
			continue
		}
		require.NoError(t, err, requested)
		assert.Equal(t, stored.Path, path)
		assert.Equal(t, "application/pdf", mt)
	}

	_, _, err = svc.Resolve("missing.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = svc.Resolve("..")
	assert.ErrorIs(t, err, ErrNotFound)
}
