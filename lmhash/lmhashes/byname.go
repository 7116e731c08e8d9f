// Package lmhashes resolves hasher names to [lmhash.Hasher] values.
package lmhashes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gordian-engine/lmerkle/lmhash"
	"github.com/gordian-engine/lmerkle/lmhash/lmblake3"
	"github.com/gordian-engine/lmerkle/lmhash/lmkeccak"
	"github.com/gordian-engine/lmerkle/lmhash/lmsha256"
)

// TaggedSuffix selects the domain-separated variant of a hasher.
const TaggedSuffix = "-tagged"

type constructors struct {
	plain, tagged func() *lmhash.Combiner
}

var byName = map[string]constructors{
	"keccak256": {plain: lmkeccak.New, tagged: lmkeccak.NewTagged},
	"sha256":    {plain: lmsha256.New, tagged: lmsha256.NewTagged},
	"blake3":    {plain: lmblake3.New, tagged: lmblake3.NewTagged},
}

// ByName returns the hasher registered under name,
// optionally followed by [TaggedSuffix].
// Names are case-insensitive.
func ByName(name string) (lmhash.Hasher, error) {
	n := strings.ToLower(name)

	tagged := strings.HasSuffix(n, TaggedSuffix)
	n = strings.TrimSuffix(n, TaggedSuffix)

	c, ok := byName[n]
	if !ok {
		return nil, fmt.Errorf(
			"unknown hasher %q (known: %s)", name, strings.Join(Names(), ", "),
		)
	}

	if tagged {
		return c.tagged(), nil
	}
	return c.plain(), nil
}

// Names returns the sorted base names accepted by [ByName].
func Names() []string {
	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
