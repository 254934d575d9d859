package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileUploadPresent(t *testing.T) {
	var missing *FileUpload
	assert.False(t, missing.Present())
	assert.True(t, (&FileUpload{Name: "empty.pdf"}).Present())
	assert.True(t, (&FileUpload{Name: "a.pdf", Data: []byte("x")}).Present())
}
