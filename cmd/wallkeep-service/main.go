package main

import (
	"os"

	"github.com/wallkeep/wallkeep/wallkeepservice"
)

func main() {
	if err := wallkeepservice.Run(); err != nil {
		os.Exit(1)
	}
}
