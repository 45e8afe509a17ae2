package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
)

const SecretKeyBytesLen = 32

// Prints fresh values for JWT_SECRET and JWT_REFRESH_SECRET.
func main() {
	secret := func() string {
		b := make([]byte, SecretKeyBytesLen)

		_, err := rand.Read(b)
		if err != nil {
			fmt.Printf("error while generating secret key: %v", err)
			os.Exit(1)
		}
		return hex.EncodeToString(b)
	}

	fmt.Printf("JWT_SECRET=%s\n", secret())
	fmt.Printf("JWT_REFRESH_SECRET=%s\n", secret())
}
