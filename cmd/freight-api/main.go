// Command freight-api runs the freight broker services.
//
//	freight-api loads      serve GET /loads
//	freight-api carriers   serve GET /carriers/:mc_number
//	freight-api migrate    create the loads table
//
// All configuration comes from FREIGHT_* environment variables (a .env file
// in the working directory is loaded first).
package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
