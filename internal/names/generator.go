// Package names produces memorable random room names like "brave-otter-42".
package names

import (
	_ "embed"
	"fmt"
	"math/rand"
	"strings"
)

//go:embed adjectives.txt
var adjectivesFile string

//go:embed animals.txt
var animalsFile string

// Generator draws random adjective-animal-number room names from the embedded
// word lists.
type Generator struct {
	adjectives []string
	animals    []string
}

// New loads the embedded word lists.
func New() *Generator {
	return &Generator{
		adjectives: parseWords(adjectivesFile),
		animals:    parseWords(animalsFile),
	}
}

// RandomName returns a name in the form adjective-animal-NN with NN in 10..99.
func (g *Generator) RandomName() string {
	return fmt.Sprintf("%s-%s-%d", g.randomAdjective(), g.randomAnimal(), 10+rand.Intn(90))
}

func (g *Generator) randomAdjective() string {
	return g.adjectives[rand.Intn(len(g.adjectives))]
}

func (g *Generator) randomAnimal() string {
	return g.animals[rand.Intn(len(g.animals))]
}

func parseWords(file string) []string {
	var words []string
	for _, line := range strings.Split(file, "\n") {
		word := strings.ToLower(strings.TrimSpace(line))
		if word != "" {
			words = append(words, word)
		}
	}
	return words
}
