package service

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeImagePNG(t *testing.T) {
	raw := []byte("not really a png, but close enough")
	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)

	decoded, err := DecodeImage(payload)
	assert.NoError(t, err)
	assert.NotNil(t, decoded)
	assert.Equal(t, raw, decoded.Data)
	assert.Equal(t, "png", decoded.Ext)
	assert.Equal(t, "image.png", decoded.Filename())
}

func TestDecodeImagePassthrough(t *testing.T) {
	decoded, err := DecodeImage("https://example.com/image.jpg")
	assert.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestDecodeImageMalformedBase64(t *testing.T) {
	decoded, err := DecodeImage("data:image/png;base64,!!!not-base64!!!")
	assert.ErrorIs(t, err, ErrInvalidField)
	assert.Nil(t, decoded)
}

func TestDecodeImageMissingDelimiter(t *testing.T) {
	decoded, err := DecodeImage("data:image/png")
	assert.ErrorIs(t, err, ErrInvalidField)
	assert.Nil(t, decoded)
}

func TestDecodeImageMissingSubtype(t *testing.T) {
	decoded, err := DecodeImage("data:image;base64,QUJD")
	assert.ErrorIs(t, err, ErrInvalidField)
	assert.Nil(t, decoded)
}
