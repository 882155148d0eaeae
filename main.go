package main

import (
	"log"

	"github.com/thiagokokada/gitk-layout/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		log.Fatalf("gitk-layout: %v", err)
	}
}
