// internal/names/names.go

// Package names generates human-readable names for freshly
// initialized tools, so a brand-new toolhead shows up as something
// friendlier than a raw uid.
package names

import (
	"fmt"
	"math/rand"
)

var adjectives = []string{
	"amber", "bitter", "crisp", "dark", "dusted", "glossy",
	"golden", "rich", "roasted", "silky", "smooth", "tempered",
	"toasted", "velvet", "warm", "whipped",
}

var nouns = []string{
	"bonbon", "brittle", "cacao", "cocoa", "fondant", "fudge",
	"ganache", "mocha", "nib", "nougat", "praline", "truffle",
}

// Generate returns a random adjective-noun name like "silky-truffle".
func Generate() string {
	return fmt.Sprintf("%s-%s",
		adjectives[rand.Intn(len(adjectives))],
		nouns[rand.Intn(len(nouns))])
}
