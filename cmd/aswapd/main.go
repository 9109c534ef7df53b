package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/htlc"
	aswapd "github.com/iov-one/htlc/cmd/aswapd/app"
	"github.com/iov-one/htlc/commands/server"
	"github.com/iov-one/htlc/crypto"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/x/aswap"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	flagHome     = "home"
	flagLogLevel = "log_level"
	varHome      *string
	varLogLevel  *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".aswapd")
	varHome = flag.String(flagHome, defaultHome, "directory to store files under")
	varLogLevel = flag.String(flagLogLevel, "info", "minimal log level: debug, info, error or none")

	flag.CommandLine.Usage = helpMessage
}

func helpMessage() {
	fmt.Println("aswapd")
	fmt.Println("          Atomic swap node")
	fmt.Println("")
	fmt.Println("help      Print this message")
	fmt.Println("init      Initialize app options in genesis file")
	fmt.Println("start     Run the abci server")
	fmt.Println("validate  Validate the app_state of genesis files")
	fmt.Println("keys      Generate a private key file and print its address")
	fmt.Println("secret    Generate a random preimage and print it with its hash")
	fmt.Println("version   Print the app version")
	fmt.Println(`
  -home string
        directory to store files under (default "$HOME/.aswapd")
  -log_level string
        minimal log level: debug, info, error or none (default "info")`)
}

func main() {
	flag.Parse()

	level, err := log.AllowLevel(*varLogLevel)
	if err != nil {
		fmt.Printf("Error: %s\n\n", err)
		helpMessage()
		os.Exit(1)
	}
	logger := log.NewFilter(log.NewTMLogger(log.NewSyncWriter(os.Stdout)), level).
		With("module", "aswap")

	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	switch cmd {
	case "help":
		helpMessage()
	case "init":
		err = server.InitCmd(aswapd.GenInitOptions, logger, *varHome, rest)
	case "start":
		err = server.StartCmd(aswapd.GenerateAppWithMetrics, logger, *varHome, rest)
	case "validate":
		err = server.ValidateGenesis(aswapd.Initializers(), rest)
	case "keys":
		err = keysCmd(*varHome, rest)
	case "secret":
		err = secretCmd()
	case "version":
		fmt.Println(htlc.Version())
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}

// keysCmd writes a new private key to the given file, or to key.priv under
// home, and prints its address.
func keysCmd(home string, args []string) error {
	path := filepath.Join(home, "key.priv")
	if len(args) > 0 {
		path = args[0]
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	key := crypto.GenPrivKeyEd25519()
	if err := crypto.SaveKey(path, key); err != nil {
		return err
	}
	fmt.Println(key.PublicKey().Address())
	return nil
}

// secretCmd prints a random preimage and the hash to lock a swap with.
func secretCmd() error {
	preimage := make([]byte, 32)
	if _, err := rand.Read(preimage); err != nil {
		return errors.Wrap(errors.ErrHuman, err.Error())
	}
	fmt.Println("preimage:", hex.EncodeToString(preimage))
	fmt.Println("hash:    ", hex.EncodeToString(aswap.HashBytes(preimage)))
	return nil
}
