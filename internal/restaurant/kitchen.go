// SPDX-License-Identifier: MPL-2.0

package restaurant

import "fmt"

const (
	Soup Appetizer = iota
	Salad
)

type (
	// Breakfast is a summer breakfast. Customers pick the toast; the kitchen
	// picks the fruit.
	Breakfast struct {
		Toast         string
		seasonalFruit string
	}

	// Appetizer is one of the appetizers on the menu.
	Appetizer int
)

// Summer returns a breakfast with the given toast and peaches.
func Summer(toast string) Breakfast {
	return Breakfast{Toast: toast, seasonalFruit: "peaches"}
}

func (b Breakfast) String() string {
	return fmt.Sprintf("%s toast with %s", b.Toast, b.seasonalFruit)
}

// Appetizers lists every appetizer in menu order.
func Appetizers() []Appetizer {
	return []Appetizer{Soup, Salad}
}

func (a Appetizer) String() string {
	switch a {
	case Soup:
		return "Soup"
	case Salad:
		return "Salad"
	default:
		return fmt.Sprintf("Appetizer(%d)", int(a))
	}
}

// Menu describes the summer breakfast with the requested toast, followed by
// the appetizers.
func Menu(toast string) []string {
	meal := Summer(toast)
	lines := []string{"Breakfast: " + meal.String()}
	for _, a := range Appetizers() {
		lines = append(lines, "Appetizer: "+a.String())
	}
	return lines
}
