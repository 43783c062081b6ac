package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test data for sorting strategies
func testImages() []Image {
	return imagesFromSrcs(
		"test/01.png",
		"test/04.zip!/a.png",
		"test/08.png",
		"test/09.png",
		"test/2.png",
		"test/３.png",
	)
}

func imagesFromSrcs(srcs ...string) []Image {
	images := make([]Image, len(srcs))
	for i, src := range srcs {
		images[i] = Image{ID: src, Src: src}
	}
	return images
}

func srcsOf(images []Image) []string {
	srcs := make([]string, len(images))
	for i, img := range images {
		srcs[i] = img.Src
	}
	return srcs
}

func TestSortStrategies(t *testing.T) {
	tests := []struct {
		strategy SortStrategy
		name     string
		id       int
		expected []string
	}{
		{
			strategy: &NaturalSortStrategy{},
			name:     "Natural",
			id:       SortNatural,
			expected: []string{"test/01.png", "test/2.png", "test/04.zip!/a.png", "test/08.png", "test/09.png", "test/３.png"},
		},
		{
			strategy: &SimpleSortStrategy{},
			name:     "Simple",
			id:       SortSimple,
			expected: []string{"test/01.png", "test/04.zip!/a.png", "test/08.png", "test/09.png", "test/2.png", "test/３.png"},
		},
		{
			strategy: &EntryOrderSortStrategy{},
			name:     "Entry Order",
			id:       SortEntryOrder,
			expected: srcsOf(testImages()),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.strategy.Name())
			assert.Equal(t, tt.id, tt.strategy.ID())

			input := testImages()
			original := cloneImages(input)
			result := tt.strategy.Sort(input)

			assert.Equal(t, tt.expected, srcsOf(result))
			assert.Equal(t, original, input, "input slice must not be modified")
			assert.Empty(t, tt.strategy.Sort([]Image{}))
		})
	}
}

func TestGetSortStrategy(t *testing.T) {
	tests := []struct {
		sortMethod   int
		expectedID   int
		expectedName string
	}{
		{SortNatural, SortNatural, "Natural"},
		{SortSimple, SortSimple, "Simple"},
		{SortEntryOrder, SortEntryOrder, "Entry Order"},
		{999, SortNatural, "Natural"}, // Default fallback
	}

	for _, tt := range tests {
		t.Run(tt.expectedName, func(t *testing.T) {
			strategy := GetSortStrategy(tt.sortMethod)
			assert.Equal(t, tt.expectedID, strategy.ID())
			assert.Equal(t, tt.expectedName, strategy.Name())
		})
	}
}

func TestGetAllSortStrategies(t *testing.T) {
	strategies := GetAllSortStrategies()
	require.Len(t, strategies, 3)

	var names []string
	for _, strategy := range strategies {
		names = append(names, strategy.Name())
	}
	assert.ElementsMatch(t, []string{"Natural", "Simple", "Entry Order"}, names)
}

func TestSortStrategyEdgeCases(t *testing.T) {
	for _, strategy := range GetAllSortStrategies() {
		t.Run(strategy.Name(), func(t *testing.T) {
			single := strategy.Sort(imagesFromSrcs("test/single.png"))
			assert.Equal(t, []string{"test/single.png"}, srcsOf(single))

			identical := strategy.Sort(imagesFromSrcs("test/same.png", "test/same.png", "test/same.png"))
			assert.Equal(t, []string{"test/same.png", "test/same.png", "test/same.png"}, srcsOf(identical))
		})
	}
}

func TestParseSortMethod(t *testing.T) {
	tests := []struct {
		input    string
		expected int
		ok       bool
	}{
		{"natural", SortNatural, true},
		{"", SortNatural, true},
		{"Simple", SortSimple, true},
		{"entry-order", SortEntryOrder, true},
		{"Entry Order", SortEntryOrder, true},
		{"none", SortEntryOrder, true},
		{"random", SortNatural, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			method, ok := parseSortMethod(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, method)
		})
	}
}
