package storage

import (
	"context"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

func headers(names ...string) []*multipart.FileHeader {
	out := make([]*multipart.FileHeader, 0, len(names))
	for _, name := range names {
		out = append(out, &multipart.FileHeader{Filename: name, Size: 1024})
	}
	return out
}

func TestCheckUploads(t *testing.T) {
	assert.NoError(t, CheckUploads(nil, 0))
	assert.NoError(t, CheckUploads(headers("a.png", "b.jpg", "c.pdf", "d.PNG", "e.txt"), 2048))

	err := CheckUploads(headers("a.png", "b.png", "c.png", "d.png", "e.png", "f.png"), 2048)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	err = CheckUploads(headers("big.png"), 512)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	err = CheckUploads(headers("script.sh"), 2048)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestDisabledStore(t *testing.T) {
	_, err := DisabledStore{}.Upload(context.Background(), "a.png", "image/png", strings.NewReader("x"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStorage))
	assert.NoError(t, DisabledStore{}.Delete(context.Background(), "id"))
}

func TestObjectName(t *testing.T) {
	s := &GCSStore{prefix: "complaints"}
	name := s.objectName("Photo.JPG")
	assert.True(t, strings.HasPrefix(name, "complaints/"))
	assert.True(t, strings.HasSuffix(name, ".jpg"))
}
