package about

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProfileShape(t *testing.T) {
	raw, err := json.Marshal(Default())
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	for _, key := range []string{"artistName", "biography", "artistStatement", "studioImages", "contactInfo", "exhibitions"} {
		assert.Contains(t, payload, key)
	}
	contact := payload["contactInfo"].(map[string]any)
	assert.Equal(t, "Portland Arts District, Oregon", contact["studioLocation"])
}

func TestDefaultReturnsIndependentCopies(t *testing.T) {
	a := Default()
	a.Exhibitions[0].Title = "changed"
	a.StudioImages[0] = "changed"

	b := Default()
	assert.Equal(t, "Natural Abstractions", b.Exhibitions[0].Title)
	assert.Equal(t, "/images/studio-1.jpg", b.StudioImages[0])
}
