package backend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSampleProducts(t *testing.T) {
	list, err := LoadProducts(filepath.Join("..", "..", "data", "products.json"))
	require.NoError(t, err)
	assert.NotEmpty(t, list)
	p, ok := list.Find("1")
	require.True(t, ok)
	assert.Equal(t, "samsung", p.Brand)
}

func TestLoadProductsRejectsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	data := `[{"productId":"1","price":1,"imageUrls":["a"]},{"productId":"1","price":2,"imageUrls":["b"]}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	_, err := LoadProducts(path)
	assert.ErrorContains(t, err, "duplicate")
}

func TestLoadProductsMissingFile(t *testing.T) {
	_, err := LoadProducts(filepath.Join(t.TempDir(), "none.json"))
	assert.Error(t, err)
}
