// Package letters holds the alphabet dataset shown on the letter card.
package letters

import "strings"

// Item is one alphabet entry.
type Item struct {
	Letter string
	Word   string
	Emoji  string
}

// All is the dataset in alphabetical order.
var All = []Item{
	{"A", "Apple", "🍎"},
	{"B", "Ball", "⚽"},
	{"C", "Cat", "🐱"},
	{"D", "Dog", "🐶"},
	{"E", "Elephant", "🐘"},
	{"F", "Fish", "🐟"},
	{"G", "Grapes", "🍇"},
	{"H", "House", "🏠"},
	{"I", "Ice cream", "🍦"},
	{"J", "Juice", "🧃"},
	{"K", "Kite", "🪁"},
	{"L", "Lion", "🦁"},
	{"M", "Moon", "🌙"},
	{"N", "Nest", "🪺"},
	{"O", "Orange", "🍊"},
	{"P", "Pig", "🐷"},
	{"Q", "Queen", "👑"},
	{"R", "Rabbit", "🐰"},
	{"S", "Sun", "☀️"},
	{"T", "Tree", "🌳"},
	{"U", "Umbrella", "☂️"},
	{"V", "Violin", "🎻"},
	{"W", "Whale", "🐋"},
	{"X", "Xylophone", "🎼"},
	{"Y", "Yo-yo", "🪀"},
	{"Z", "Zebra", "🦓"},
}

// Lookup returns the item for letter (case-insensitive).
func Lookup(letter string) (Item, bool) {
	target := strings.ToUpper(strings.TrimSpace(letter))
	for _, item := range All {
		if item.Letter == target {
			return item, true
		}
	}
	return Item{}, false
}

// IndexOf returns the dataset index of letter, or -1.
func IndexOf(letter string) int {
	target := strings.ToUpper(strings.TrimSpace(letter))
	for i, item := range All {
		if item.Letter == target {
			return i
		}
	}
	return -1
}
