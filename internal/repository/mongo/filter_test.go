package mongo

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSearchFilter(t *testing.T) {
	filter := searchFilter("user-1", "a.b*(c)")

	assert.Equal(t, "user-1", filter["userId"])

	re, ok := filter["name"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, "i", re.Options)

	compiled := regexp.MustCompile("(?i)" + re.Pattern)
	assert.True(t, compiled.MatchString("xA.B*(C)y"))
	assert.False(t, compiled.MatchString("aXbbc"))
}

func TestRefFilter(t *testing.T) {
	assert.Nil(t, refFilter(nil))

	id := "folder-1"
	assert.Equal(t, "folder-1", refFilter(&id))
}
