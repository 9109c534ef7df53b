package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp implements the state related part of abci.Application: info,
// queries, genesis and commits. BaseApp embeds it and adds transaction
// processing.
//
// Failures in ABCI calls that do not carry user input (Info, InitChain,
// BeginBlock, EndBlock and Commit) leave the node in an unknown state and
// panic.
type StoreApp struct {
	name        string
	logger      log.Logger
	store       *CommitStore
	initializer htlc.Initializer
	queryRouter htlc.QueryRouter

	// chainID is written once by InitChain and reloaded on restart.
	chainID string
	// header of the current block, updated by BeginBlock.
	header abci.Header
}

// NewStoreApp loads the last committed state of store. It panics if the
// state cannot be read.
func NewStoreApp(name string, store htlc.CommitKVStore, queryRouter htlc.QueryRouter) *StoreApp {
	cs := NewCommitStore(store)
	info, err := cs.CommitInfo()
	if err != nil {
		panic(err)
	}
	chainID := mustLoadChainID(cs.DeliverStore())
	return &StoreApp{
		name:        name,
		logger:      log.NewNopLogger(),
		store:       cs,
		queryRouter: queryRouter,
		chainID:     chainID,
		header:      abci.Header{Height: info.Version, ChainID: chainID},
	}
}

func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit sets the initializer run by InitChain.
func (s *StoreApp) WithInit(init htlc.Initializer) *StoreApp {
	s.initializer = init
	return s
}

func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	return s
}

func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// BlockInfo returns the environment of the block currently processed.
// It fails if the chain was not initialized yet.
func (s *StoreApp) BlockInfo() (htlc.BlockInfo, error) {
	return htlc.NewBlockInfo(s.header, s.chainID, s.logger)
}

// DeliverStore returns the cache shared by all DeliverTx of the block.
func (s *StoreApp) DeliverStore() htlc.CacheableKVStore {
	return s.store.DeliverStore()
}

// CheckStore returns the cache used by CheckTx since the last commit.
func (s *StoreApp) CheckStore() htlc.CacheableKVStore {
	return s.store.CheckStore()
}

// loadGenesis stores the chain id and runs the initializer over the
// app_state of the genesis file. It succeeds only once per database.
func (s *StoreApp) loadGenesis(appState []byte, chainID string) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "genesis already loaded for chain %q", s.chainID)
	}
	if len(appState) == 0 {
		return errors.Wrap(errors.ErrEmpty, "genesis app_state")
	}
	var opts htlc.Options
	if err := json.Unmarshal(appState, &opts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := saveChainID(s.DeliverStore(), chainID); err != nil {
		return err
	}
	s.chainID = chainID
	s.header.ChainID = chainID
	if s.initializer == nil {
		return nil
	}
	return s.initializer.FromGenesis(opts, s.DeliverStore())
}

// Info reports the last committed height and app hash so that tendermint
// can replay missing blocks.
func (s *StoreApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.logger.Info("Info synced",
		"height", info.Version,
		"hash", fmt.Sprintf("%X", info.Hash))

	return abci.ResponseInfo{
		Data:             s.name,
		Version:          htlc.Version(),
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

// SetOption is not supported, configuration is read from the genesis file.
func (s *StoreApp) SetOption(res abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

// Query runs the handler registered for the request path against the last
// committed state. The requested height is ignored. A path may end with
// "?prefix" or another modifier understood by its handler.
//
// Key and Value of the response are ResultSets of equal length, holding
// all matching keys and values.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := splitPath(req.Path)
	qh := s.queryRouter.Handler(path)
	if qh == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "query path %q", req.Path))
	}

	info, err := s.store.CommitInfo()
	if err != nil {
		return queryError(err)
	}

	models, err := qh.Query(s.store.Committed(), mod, req.Data)
	if err != nil {
		return queryError(err)
	}

	var res abci.ResponseQuery
	res.Height = info.Version
	if res.Key, err = htlc.Marshal(ResultsFromKeys(models)); err != nil {
		return queryError(err)
	}
	if res.Value, err = htlc.Marshal(ResultsFromValues(models)); err != nil {
		return queryError(err)
	}
	return res
}

// splitPath separates the modifier following "?" from the path.
func splitPath(full string) (path, mod string) {
	if i := strings.IndexByte(full, '?'); i >= 0 {
		return full[:i], full[i+1:]
	}
	return full, ""
}

func queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{
		Log:  log,
		Code: code,
	}
}

// Commit persists the block changes and returns the new app hash.
func (s *StoreApp) Commit() abci.ResponseCommit {
	commitID, err := s.store.Commit()
	if err != nil {
		panic(err)
	}

	s.logger.Debug("Commit synced",
		"height", commitID.Version,
		"hash", fmt.Sprintf("%X", commitID.Hash),
	)
	return abci.ResponseCommit{Data: commitID.Hash}
}

func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.loadGenesis(req.AppStateBytes, req.ChainId); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock records the header that transactions of this block observe.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	s.header = req.Header
	if s.header.ChainID == "" {
		s.header.ChainID = s.chainID
	}
	return abci.ResponseBeginBlock{}
}

// EndBlock never changes the validator set.
func (s *StoreApp) EndBlock(_ abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}
