package main

import (
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// SortStrategy orders images collected from disk
type SortStrategy interface {
	// Sort returns a new sorted slice without modifying the original
	Sort(images []Image) []Image
	// Name returns the human-readable name of the strategy
	Name() string
	// ID returns the numeric identifier for config storage
	ID() int
}

// NaturalSortStrategy orders by source using natural number ordering
type NaturalSortStrategy struct{}

func (s *NaturalSortStrategy) Sort(images []Image) []Image {
	result := cloneImages(images)
	sort.SliceStable(result, func(i, j int) bool {
		return natural.Less(result[i].Src, result[j].Src)
	})
	return result
}

func (s *NaturalSortStrategy) Name() string { return "Natural" }
func (s *NaturalSortStrategy) ID() int      { return SortNatural }

// SimpleSortStrategy orders by source lexicographically
type SimpleSortStrategy struct{}

func (s *SimpleSortStrategy) Sort(images []Image) []Image {
	result := cloneImages(images)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Src < result[j].Src
	})
	return result
}

func (s *SimpleSortStrategy) Name() string { return "Simple" }
func (s *SimpleSortStrategy) ID() int      { return SortSimple }

// EntryOrderSortStrategy keeps the order images were found in
type EntryOrderSortStrategy struct{}

func (s *EntryOrderSortStrategy) Sort(images []Image) []Image {
	return cloneImages(images)
}

func (s *EntryOrderSortStrategy) Name() string { return "Entry Order" }
func (s *EntryOrderSortStrategy) ID() int      { return SortEntryOrder }

func cloneImages(images []Image) []Image {
	result := make([]Image, len(images))
	copy(result, images)
	return result
}

// GetSortStrategy returns the strategy for sortMethod, natural by default
func GetSortStrategy(sortMethod int) SortStrategy {
	switch sortMethod {
	case SortSimple:
		return &SimpleSortStrategy{}
	case SortEntryOrder:
		return &EntryOrderSortStrategy{}
	default:
		return &NaturalSortStrategy{}
	}
}

// GetAllSortStrategies returns all available sort strategies
func GetAllSortStrategies() []SortStrategy {
	return []SortStrategy{
		&NaturalSortStrategy{},
		&SimpleSortStrategy{},
		&EntryOrderSortStrategy{},
	}
}

// sortImages sorts images with the strategy for sortMethod
func sortImages(images []Image, sortMethod int) []Image {
	return GetSortStrategy(sortMethod).Sort(images)
}

// parseSortMethod maps a --sort flag value to a sort method
func parseSortMethod(name string) (int, bool) {
	switch strings.ToLower(strings.NewReplacer(" ", "", "-", "", "_", "").Replace(name)) {
	case "natural", "":
		return SortNatural, true
	case "simple":
		return SortSimple, true
	case "entry", "entryorder", "none":
		return SortEntryOrder, true
	default:
		return SortNatural, false
	}
}
