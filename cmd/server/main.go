package main

import (
	"log"

	"github.com/danuartha/kopistore/internal/server"

	_ "github.com/danuartha/kopistore/database/migrations"
	_ "github.com/danuartha/kopistore/database/seeders"
)

func main() {
	if err := server.Run(); err != nil {
		log.Fatal(err)
	}
}
