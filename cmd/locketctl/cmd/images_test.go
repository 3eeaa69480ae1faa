package cmd

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/locketmemories/locket/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleImages(t *testing.T) []*model.Image {
	t.Helper()
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	local, err := model.NewImage("a1", "20250601_100000_a1_x.png", "/uploads/20250601_100000_a1_x.png", "biển <3", at, model.StorageLocal, "")
	require.NoError(t, err)
	remote, err := model.NewImage("b2", "y.jpg", "https://cdn/b2", "", at, model.StorageRemote, "locket_memories/b2")
	require.NoError(t, err)
	return []*model.Image{local, remote}
}

func TestWriteImagesTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeImagesTable(&buf, sampleImages(t)))

	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "a1")
	assert.Contains(t, out, "remote")
	assert.Contains(t, out, "2 image(s)")
}

func TestWriteImagesJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeImagesJSON(&buf, sampleImages(t)))
	assert.Contains(t, buf.String(), "biển <3")

	var decoded []model.Image
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "locket_memories/b2", decoded[1].RemoteID)

	buf.Reset()
	require.NoError(t, writeImagesJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestCommandTree(t *testing.T) {
	images := ImagesCmd()
	names := map[string]bool{}
	for _, c := range images.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["list"])
	assert.True(t, names["delete"])

	assert.NotNil(t, IndexCmd().Commands())
	assert.Error(t, imagesDeleteCmd().Args(imagesDeleteCmd(), nil))
}
