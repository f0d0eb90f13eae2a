// chatstat - WhatsApp chat statistics
//
// chatstat parses an exported WhatsApp chat and reports message counts,
// activity timelines, the busiest participants, emoji usage and sentiment.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/ccollicutt/chatstat/internal/cli"
)

func main() {
	// A missing .env file is fine; real environment variables still apply
	_ = godotenv.Load()

	os.Exit(cli.Execute())
}
