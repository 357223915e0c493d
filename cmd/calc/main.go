package main

import (
	"log"

	"github.com/zephyrtronium/calc/internal/cli"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("calc: ")
	if err := cli.NewRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}
