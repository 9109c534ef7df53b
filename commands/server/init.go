package server

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// DirConfig is the subdirectory of home holding the genesis file
	DirConfig = "config"
	// GenesisFile is the name of the genesis file
	GenesisFile = "genesis.json"
	// AppStateKey is the genesis entry filled with the application options
	AppStateKey = "app_state"

	flagChainID = "chain-id"
	flagForce   = "f"
)

// GenOptions can parse command-line and flag to
// generate default app_options for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

// GenesisPath returns the location of the genesis file for the given home.
func GenesisPath(home string) string {
	return filepath.Join(home, DirConfig, GenesisFile)
}

func parseInitFlags(args []string) (chainID string, force bool, rest []string, err error) {
	initFlags := flag.NewFlagSet("init", flag.ContinueOnError)
	initFlags.StringVar(&chainID, flagChainID, "", "chain id used when a new genesis file is created")
	initFlags.BoolVar(&force, flagForce, false, "overwrite existing app_state")
	if err := initFlags.Parse(args); err != nil {
		return "", false, nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	if chainID != "" && !htlc.IsValidChainID(chainID) {
		return "", false, nil, errors.Wrapf(errors.ErrInput, "invalid chain id: %q", chainID)
	}
	return chainID, force, initFlags.Args(), nil
}

// InitCmd will add the application options to the genesis file under home.
// A missing genesis file is created with a random chain id, which lets
// the application be tested without running tendermint init first.
// Remaining arguments are passed to gen.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	chainID, force, rest, err := parseInitFlags(args)
	if err != nil {
		return err
	}
	options, err := gen(rest)
	if err != nil {
		return err
	}

	genFile := GenesisPath(home)
	if !fileExists(genFile) {
		if chainID == "" {
			chainID = fmt.Sprintf("test-chain-%v", cmn.RandStr(6))
		}
		if err := createGenesis(genFile, chainID); err != nil {
			return err
		}
		logger.Info("Generated genesis file", "path", genFile, "chain_id", chainID)
	}

	if err := addGenesisOptions(genFile, options, force); err != nil {
		return err
	}
	logger.Info("App initialized", "path", genFile)
	return nil
}

func fileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}

func createGenesis(filename, chainID string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	raw, err := json.Marshal(chainID)
	if err != nil {
		return errors.Wrap(errors.ErrHuman, err.Error())
	}
	return writeGenesis(filename, GenesisDoc{"chain_id": raw})
}

func addGenesisOptions(filename string, options json.RawMessage, force bool) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	if v, ok := doc[AppStateKey]; ok && !force && len(v) > 0 && string(v) != "null" {
		return errors.Wrap(errors.ErrState, "app_state already set, use -f to overwrite")
	}
	doc[AppStateKey] = options
	return writeGenesis(filename, doc)
}

func writeGenesis(filename string, doc GenesisDoc) error {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := ioutil.WriteFile(filename, out, 0600); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}
