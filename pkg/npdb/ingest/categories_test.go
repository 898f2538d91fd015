package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryName(t *testing.T) {
	assert.Equal(t, "Education", CategoryName("B"))
	assert.Equal(t, "Human Services", CategoryName("P"))
	assert.Equal(t, "Unknown", CategoryName("Z"))
	assert.Equal(t, "Unknown", CategoryName("7"))
	assert.Equal(t, "Unknown", CategoryName(""))
}

func TestCategoriesCoversAtoZ(t *testing.T) {
	cats := Categories()
	assert.Len(t, cats, 26)
	assert.Equal(t, "A", cats[0].Code)
	assert.Equal(t, "Arts, Culture & Humanities", cats[0].Name)
	assert.Equal(t, "Z", cats[25].Code)
}
