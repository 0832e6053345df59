package main

import (
	"log"

	"screening-rsvp/cmd"
)

func main() {
	if err := cmd.Start(); err != nil {
		log.Fatal(err)
	}
}
