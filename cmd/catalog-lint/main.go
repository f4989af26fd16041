package main

import (
	"fmt"
	"os"
	"regexp"

	"goaltrack/services"
)

var keyRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

func main() {
	defs := services.CatalogDefs()
	if len(defs) == 0 {
		fmt.Println("catalog is empty")
		os.Exit(1)
	}

	exitCode := 0
	seen := make(map[string]bool, len(defs))
	for i, def := range defs {
		if !keyRe.MatchString(def.Key) {
			fmt.Printf("#%d %q: key must be lower_snake_case\n", i, def.Key)
			exitCode = 1
		}
		if seen[def.Key] {
			fmt.Printf("#%d %q: duplicate key\n", i, def.Key)
			exitCode = 1
		}
		seen[def.Key] = true

		if def.Title == "" || def.Description == "" {
			fmt.Printf("#%d %q: title and description are required\n", i, def.Key)
			exitCode = 1
		}
		if def.Target <= 0 {
			fmt.Printf("#%d %q: target must be positive, got %d\n", i, def.Key, def.Target)
			exitCode = 1
		}
		if def.Points <= 0 {
			fmt.Printf("#%d %q: points must be positive, got %d\n", i, def.Key, def.Points)
			exitCode = 1
		}
		if _, ok := services.ParseTier(def.Tier.String()); !ok {
			fmt.Printf("#%d %q: unknown tier %d\n", i, def.Key, def.Tier)
			exitCode = 1
		}
	}

	if exitCode == 0 {
		fmt.Printf("catalog OK: %d achievements\n", len(defs))
	}
	os.Exit(exitCode)
}
