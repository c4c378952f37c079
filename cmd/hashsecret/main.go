package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"golang.org/x/crypto/bcrypt"
)

// Generates the bcrypt hash for PAIR_SECRET_HASH. Run once when
// setting up a server, paste the output into .env.
func main() {
	if len(os.Args) < 2 {
		color.Red("Usage: hashsecret <pairing-code>")
		os.Exit(1)
	}

	code := os.Args[1]
	if len(code) < 6 {
		color.Red("Pairing code must be at least 6 characters")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		color.Red("Failed to hash: %v", err)
		os.Exit(1)
	}

	color.Green("✅ Hash generated. Add to .env:")
	fmt.Printf("\nPAIR_SECRET_HASH=%s\n", string(hash))
}
