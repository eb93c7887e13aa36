package credentials

import (
	"errors"
	"io/fs"

	"github.com/MartinCastroAlvarez/zk-proof/proving/storage"
)

const (
	addressKey  = "eth_addr"
	secretKey   = "eth_sk"
	contractKey = "contract_addr"
)

// Store persists the operator's credential pair and the deployed contract
// address, one storage key per value. Values that were never written read
// back as empty strings rather than errors.
type Store struct {
	store storage.Storage
}

func NewStore(store storage.Storage) *Store {
	return &Store{store: store}
}

func (s *Store) SaveKeyPair(address, secret string) error {
	if err := storage.WriteAll(s.store, addressKey, []byte(address)); err != nil {
		return err
	}
	return storage.WriteAll(s.store, secretKey, []byte(secret))
}

func (s *Store) LoadKeyPair() (address, secret string, err error) {
	if address, err = s.readOptional(addressKey); err != nil {
		return "", "", err
	}
	if secret, err = s.readOptional(secretKey); err != nil {
		return "", "", err
	}
	return address, secret, nil
}

func (s *Store) PublicAddress() (string, error) {
	return s.readOptional(addressKey)
}

func (s *Store) SaveContractAddress(address string) error {
	return storage.WriteAll(s.store, contractKey, []byte(address))
}

func (s *Store) ContractAddress() (string, error) {
	return s.readOptional(contractKey)
}

func (s *Store) readOptional(key string) (string, error) {
	value, err := storage.ReadAll(s.store, key)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(value), nil
}
