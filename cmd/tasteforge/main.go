package main

import (
	"context"

	"github.com/ch10874/tasteforge-scraper/cmd/tasteforge/commands"
	"github.com/ch10874/tasteforge-scraper/config"
)

func main() {
	config.LoadConfig()
	commands.ExecuteContext(context.Background())
}
