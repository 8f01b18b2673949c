// file: internals/helpers/upload_test.go
package helper

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckUploadAcceptsDocument(t *testing.T) {
	fh := &multipart.FileHeader{Filename: "bulletin_T1.pdf", Size: 1 << 20}
	assert.NoError(t, CheckUpload(fh, DocumentExtensions, MaxReportCardSize))
}

func TestCheckUploadRejectsExtension(t *testing.T) {
	fh := &multipart.FileHeader{Filename: "virus.exe", Size: 1024}
	err := CheckUpload(fh, DocumentExtensions, MaxReportCardSize)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Contains(t, err.Error(), ".exe")
}

func TestCheckUploadRejectsOversize(t *testing.T) {
	fh := &multipart.FileHeader{Filename: "bulletin.pdf", Size: MaxReportCardSize + 1}
	err := CheckUpload(fh, DocumentExtensions, MaxReportCardSize)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestCheckUploadExtensionIsCaseInsensitive(t *testing.T) {
	fh := &multipart.FileHeader{Filename: "PHOTO.JPG", Size: 1024}
	assert.NoError(t, CheckUpload(fh, DocumentExtensions, MaxReportCardSize))
}

func TestCheckUploadNilFile(t *testing.T) {
	err := CheckUpload(nil, DocumentExtensions, MaxReportCardSize)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}
