package cloudinary

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateImageFile(t *testing.T) {
	require.NoError(t, ValidateImageFile(&multipart.FileHeader{Filename: "camp.PNG", Size: 1024}))
	require.Error(t, ValidateImageFile(&multipart.FileHeader{Filename: "camp.pdf", Size: 1024}))
	require.Error(t, ValidateImageFile(&multipart.FileHeader{Filename: "camp.jpg", Size: MaxImageSize + 1}))
}

func TestNewService_RequiresCredentials(t *testing.T) {
	_, err := NewService("", "key", "secret", "")
	require.Error(t, err)
}
