// Package main is a small utility for generating and parsing edge API keys.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/folio-org/edge-common-sub000/internal/apikey"
)

func main() {
	generate := flag.Bool("g", false, "Generate an API key")
	parse := flag.String("p", "", "Parse the given API key")
	salt := flag.String("s", "", "Salt to embed (generated when empty)")
	tenant := flag.String("t", "", "Tenant id")
	username := flag.String("u", "", "Institutional username")
	saltLen := flag.Int("l", apikey.DefaultSaltLen, "Generated salt length")
	flag.Parse()

	switch {
	case *generate:
		if err := runGenerate(*salt, *tenant, *username, *saltLen); err != nil {
			fail(err)
		}
	case *parse != "":
		if err := runParse(*parse); err != nil {
			fail(err)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runGenerate(salt, tenant, username string, saltLen int) error {
	if tenant == "" || username == "" {
		return fmt.Errorf("both -t and -u are required to generate a key")
	}

	if salt == "" {
		var err error
		salt, err = apikey.GenerateSalt(saltLen)
		if err != nil {
			return err
		}
	}

	key, err := apikey.Generate(apikey.Identity{
		Salt:     salt,
		TenantID: tenant,
		Username: username,
	})
	if err != nil {
		return err
	}

	fmt.Printf("salt: %s\ntenant: %s\nusername: %s\nkey: %s\n", salt, tenant, username, key)
	return nil
}

func runParse(key string) error {
	id, err := apikey.Parse(key)
	if err != nil {
		return err
	}
	fmt.Printf("salt: %s\ntenant: %s\nusername: %s\n", id.Salt, id.TenantID, id.Username)
	return nil
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
