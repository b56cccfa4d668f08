package main

import (
	trackbot "github.com/exercism/trackbot/internal/core"
)

func main() {
	trackbot.Start()
}
