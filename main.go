package main

import (
	"os"

	"github.com/go-ldapuser/ldapuser/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
