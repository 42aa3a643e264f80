// Command keygen prints a random hex secret suitable for GANE_SECRET_KEY.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/dmitrijs2005/gane/internal/common"
	"github.com/dmitrijs2005/gane/internal/server/config"
)

func main() {
	size := flag.Int("n", config.MinSecretKeyLength, "number of random bytes (output is twice as many hex characters)")
	flag.Parse()

	if *size*2 < config.MinSecretKeyLength {
		log.Fatalf("-n must be at least %d", config.MinSecretKeyLength/2)
	}

	secret, err := common.MakeRandHexString(*size)
	if err != nil {
		log.Fatalf("generate secret: %v", err)
	}

	fmt.Println(secret)
}
