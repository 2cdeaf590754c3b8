package main

import (
	"log"

	"github.com/funil-crm/funil/cmd/serverrun"
)

func main() {
	if err := serverrun.Run(); err != nil {
		log.Fatal(err)
	}
}
