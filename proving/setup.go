package proving

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sync"

	"github.com/MartinCastroAlvarez/zk-proof/proving/storage"
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// ErrCorruptArtifact is returned when a persisted setup artifact cannot be
// decoded or an artifact set is only partially present. The keys are never
// regenerated over it.
var ErrCorruptArtifact = errors.New("corrupt setup artifact")

// ErrCircuitMismatch is returned when persisted artifacts were produced for
// a different circuit shape
var ErrCircuitMismatch = errors.New("persisted artifacts do not match circuit shape")

var artifactSuffixes = []string{"vk", "pk", "ccs"}

// SetupManager loads or creates Groth16 setup artifacts in a Storage, under
// the keys <name>.vk, <name>.pk and <name>.ccs.
type SetupManager struct {
	store  storage.Storage
	loaded map[string]*CompiledCircuit
	lock   sync.Mutex
	locks  map[string]*sync.Mutex
}

func NewSetupManager(store storage.Storage) *SetupManager {
	return &SetupManager{
		store:  store,
		loaded: make(map[string]*CompiledCircuit),
		locks:  make(map[string]*sync.Mutex),
	}
}

func (m *SetupManager) Store() storage.Storage {
	return m.store
}

// LoadOrCreate compiles circuit and loads the persisted artifact set for
// name, or runs the one-time randomized setup and persists it when no
// artifact exists yet. Repeated calls for the same name return the cached
// handle.
func (m *SetupManager) LoadOrCreate(name string, circuit frontend.Circuit) (*CompiledCircuit, error) {
	m.lock.Lock()
	if m.locks[name] == nil {
		m.locks[name] = new(sync.Mutex)
	}
	m.lock.Unlock()

	m.locks[name].Lock()
	defer m.locks[name].Unlock()

	if c, ok := m.loaded[name]; ok {
		return c, nil
	}

	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, circuit)
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w", name, err)
	}
	var buf bytes.Buffer
	if _, err = ccs.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serializing %s constraint system: %w", name, err)
	}
	ccsBytes := buf.Bytes()
	fingerprint := common.Hash(sha256.Sum256(ccsBytes))

	var missing []string
	for _, suffix := range artifactSuffixes {
		ok, err := m.exists(artifactKey(name, suffix))
		if err != nil {
			return nil, err
		}
		if !ok {
			missing = append(missing, suffix)
		}
	}

	var compiled *CompiledCircuit
	switch len(missing) {
	case 0:
		compiled, err = m.load(name, ccs, fingerprint)
	case len(artifactSuffixes):
		compiled, err = m.create(name, ccs, ccsBytes, fingerprint)
	default:
		return nil, fmt.Errorf("%w: artifact set %q is missing %v", ErrCorruptArtifact, name, missing)
	}
	if err != nil {
		return nil, err
	}
	m.loaded[name] = compiled
	return compiled, nil
}

func (m *SetupManager) load(name string, ccs constraint.ConstraintSystem, fingerprint common.Hash) (*CompiledCircuit, error) {
	persisted, err := storage.ReadAll(m.store, artifactKey(name, "ccs"))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s.ccs: %v", ErrCorruptArtifact, name, err)
	}
	if common.Hash(sha256.Sum256(persisted)) != fingerprint {
		return nil, fmt.Errorf("%w: %s.ccs was recorded for another shape", ErrCircuitMismatch, name)
	}

	// persisted ccs matches the fresh compilation byte for byte, reuse it
	vk := groth16.NewVerifyingKey(ecc.BN254)
	if err = m.readInto(artifactKey(name, "vk"), vk); err != nil {
		return nil, fmt.Errorf("%w: decoding %s.vk: %v", ErrCorruptArtifact, name, err)
	}
	pk := groth16.NewProvingKey(ecc.BN254)
	if err = m.readInto(artifactKey(name, "pk"), pk); err != nil {
		return nil, fmt.Errorf("%w: decoding %s.pk: %v", ErrCorruptArtifact, name, err)
	}
	log.Info("Loaded setup artifacts", "name", name, "fingerprint", fingerprint)
	return &CompiledCircuit{Ccs: ccs, Pk: pk, Vk: vk, Fingerprint: fingerprint}, nil
}

func (m *SetupManager) create(name string, ccs constraint.ConstraintSystem, ccsBytes []byte, fingerprint common.Hash) (*CompiledCircuit, error) {
	log.Info("Running one-time trusted setup", "name", name, "constraints", ccs.GetNbConstraints())
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, fmt.Errorf("setup for %s: %w", name, err)
	}
	if err = storage.WriteAll(m.store, artifactKey(name, "ccs"), ccsBytes); err != nil {
		return nil, err
	}
	if err = m.writeFrom(artifactKey(name, "vk"), vk); err != nil {
		return nil, err
	}
	if err = m.writeFrom(artifactKey(name, "pk"), pk); err != nil {
		return nil, err
	}
	log.Info("Persisted setup artifacts", "name", name, "fingerprint", fingerprint)
	return &CompiledCircuit{Ccs: ccs, Pk: pk, Vk: vk, Fingerprint: fingerprint}, nil
}

func (m *SetupManager) exists(key string) (bool, error) {
	reader, err := m.store.Reader(key)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, reader.Close()
}

func (m *SetupManager) readInto(key string, dst io.ReaderFrom) error {
	log.Info("Retrieving setup artifact", "key", key)
	reader, err := m.store.Reader(key)
	if err != nil {
		return err
	}
	if _, err = dst.ReadFrom(reader); err != nil {
		_ = reader.Close()
		return err
	}
	return reader.Close()
}

func (m *SetupManager) writeFrom(key string, src io.WriterTo) error {
	log.Info("Persisting setup artifact", "key", key)
	writer, err := m.store.Writer(key)
	if err != nil {
		return err
	}
	if _, err = src.WriteTo(writer); err != nil {
		_ = writer.Close()
		return err
	}
	return writer.Close()
}

func artifactKey(name, suffix string) string {
	return fmt.Sprintf("%s.%s", name, suffix)
}
