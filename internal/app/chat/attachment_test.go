package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFileSize(t *testing.T) {
	assert.Nil(t, ValidateFileSize(1))
	assert.Nil(t, ValidateFileSize(MaxAttachmentSize))

	assert.NotNil(t, ValidateFileSize(0))
	assert.NotNil(t, ValidateFileSize(-1))
	assert.NotNil(t, ValidateFileSize(MaxAttachmentSize+1))
}

func TestValidateFileType(t *testing.T) {
	assert.Nil(t, ValidateFileType("photo.jpg", "image/jpeg"))
	assert.Nil(t, ValidateFileType("photo.JPEG", "IMAGE/JPEG"))
	assert.Nil(t, ValidateFileType("voice.ogg", "audio/ogg"))

	// Extension and MIME type must agree.
	assert.NotNil(t, ValidateFileType("photo.png", "image/jpeg"))
	// Unknown types are rejected outright.
	assert.NotNil(t, ValidateFileType("archive.zip", "application/zip"))
	assert.NotNil(t, ValidateFileType("noext", "image/png"))
	assert.NotNil(t, ValidateFileType("script.exe.jpg", "application/octet-stream"))
}
