package app

import (
	"encoding/json"
	"regexp"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
)

// confKey is where the genesis configuration is stored. The "_htlc:" prefix
// is reserved for application internal data.
const confKey = "_htlc:conf"

// isAddressPrefix matches a bech32 human readable part that can be used
// with 20 byte addresses.
var isAddressPrefix = regexp.MustCompile(`^[a-z]{1,50}$`).MatchString

// Conf is the application configuration read from the genesis "conf"
// section.
type Conf struct {
	HTLC struct {
		// AddressPrefix is the bech32 human readable part of all
		// addresses.
		AddressPrefix string `json:"address_prefix"`
	} `json:"htlc"`
}

// Validate returns an error if the configuration cannot be applied.
func (c Conf) Validate() error {
	if !isAddressPrefix(c.HTLC.AddressPrefix) {
		return errors.Field("AddressPrefix", errors.ErrInput, "must be 1 to 50 lowercase letters")
	}
	return nil
}

// apply makes the configuration effective for the running process.
func (c Conf) apply() {
	htlc.AddressPrefix = c.HTLC.AddressPrefix
}

// ConfInitializer reads the configuration from the genesis file, applies it
// and stores it so that it can be restored on restart.
type ConfInitializer struct{}

var _ htlc.Initializer = (*ConfInitializer)(nil)

// FromGenesis reads the "conf" section. A missing section or prefix keeps
// the default address prefix.
func (*ConfInitializer) FromGenesis(opts htlc.Options, db htlc.KVStore) error {
	var conf Conf
	conf.HTLC.AddressPrefix = htlc.AddressPrefix
	if err := opts.ReadOptions("conf", &conf); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if conf.HTLC.AddressPrefix == "" {
		conf.HTLC.AddressPrefix = htlc.AddressPrefix
	}
	if err := conf.Validate(); err != nil {
		return errors.Wrap(err, "conf")
	}
	raw, err := json.Marshal(conf)
	if err != nil {
		return errors.Wrap(errors.ErrHuman, err.Error())
	}
	if err := db.Set([]byte(confKey), raw); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	conf.apply()
	return nil
}

// LoadConf restores the configuration stored at genesis. It does nothing if
// the chain was not initialized yet.
func LoadConf(db htlc.ReadOnlyKVStore) error {
	conf, err := readConf(db)
	if err != nil || conf == nil {
		return err
	}
	conf.apply()
	return nil
}

func readConf(db htlc.ReadOnlyKVStore) (*Conf, error) {
	raw, err := db.Get([]byte(confKey))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return nil, nil
	}
	var conf Conf
	if err := json.Unmarshal(raw, &conf); err != nil {
		return nil, errors.Wrap(errors.ErrState, err.Error())
	}
	return &conf, conf.Validate()
}

// RegisterConfQuery exposes the stored configuration under "/conf".
func RegisterConfQuery(qr htlc.QueryRouter) {
	qr.Register("/conf", confQuery{})
}

type confQuery struct{}

func (confQuery) Query(db htlc.ReadOnlyKVStore, mod string, data []byte) ([]htlc.Model, error) {
	if mod != htlc.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	raw, err := db.Get([]byte(confKey))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return nil, nil
	}
	return []htlc.Model{htlc.Pair([]byte(confKey), raw)}, nil
}
