package circuit

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/hashicorp/go-multierror"
)

// Curve is the pairing curve proofs are made on. Its scalar field matches the MiMC
// challenge hash.
const Curve = ecc.BN254

// ErrKeyMismatch is returned when stored keys were set up for another constraint system.
var ErrKeyMismatch = errors.New("circuit keys do not match the constraint system")

// SaveProvingKey writes pk to path.
func SaveProvingKey(path string, pk groth16.ProvingKey) error {
	if err := writeKey(path, pk); err != nil {
		return fmt.Errorf("failed to save proving key %s: %w", path, err)
	}
	return nil
}

// SaveVerifyingKey writes vk to path.
func SaveVerifyingKey(path string, vk groth16.VerifyingKey) error {
	if err := writeKey(path, vk); err != nil {
		return fmt.Errorf("failed to save verifying key %s: %w", path, err)
	}
	return nil
}

// LoadProvingKey reads a proving key written by SaveProvingKey. A missing file yields an
// error matching fs.ErrNotExist.
func LoadProvingKey(path string) (groth16.ProvingKey, error) {
	pk := groth16.NewProvingKey(Curve)
	if err := readKey(path, pk); err != nil {
		return nil, fmt.Errorf("failed to load proving key %s: %w", path, err)
	}
	return pk, nil
}

// LoadVerifyingKey reads a verifying key written by SaveVerifyingKey.
func LoadVerifyingKey(path string) (groth16.VerifyingKey, error) {
	vk := groth16.NewVerifyingKey(Curve)
	if err := readKey(path, vk); err != nil {
		return nil, fmt.Errorf("failed to load verifying key %s: %w", path, err)
	}
	return vk, nil
}

// writeKey writes to a temporary file next to path and renames it into place, so a
// failed write never leaves a truncated key behind.
func writeKey(path string, key io.WriterTo) (err error) {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()
	if _, err = key.WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func readKey(path string, key io.ReaderFrom) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = key.ReadFrom(f)
	return err
}

// SetupOrLoadKeys loads the key pair when both files exist and otherwise runs a fresh
// setup and saves it. Keys that exist but cannot be read, or that belong to a circuit of
// another size, are reported instead of being replaced.
func SetupOrLoadKeys(ccs constraint.ConstraintSystem, pkPath, vkPath string) (groth16.ProvingKey, groth16.VerifyingKey, error) {
	pk, pkErr := LoadProvingKey(pkPath)
	vk, vkErr := LoadVerifyingKey(vkPath)
	if err := unreadable(pkErr, vkErr); err != nil {
		return nil, nil, err
	}
	if pkErr == nil && vkErr == nil {
		if err := checkKeys(ccs, vk); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", vkPath, err)
		}
		return pk, vk, nil
	}

	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, nil, fmt.Errorf("groth16 setup failed: %w", err)
	}
	if err := SaveProvingKey(pkPath, pk); err != nil {
		return nil, nil, err
	}
	if err := SaveVerifyingKey(vkPath, vk); err != nil {
		return nil, nil, err
	}
	return pk, vk, nil
}

// unreadable returns the load errors other than a missing file.
func unreadable(errs ...error) error {
	var result *multierror.Error
	for _, err := range errs {
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// checkKeys compares the public input count of vk with the constraint system. The
// constraint system counts the constant one wire as a public variable.
func checkKeys(ccs constraint.ConstraintSystem, vk groth16.VerifyingKey) error {
	want := ccs.GetNbPublicVariables() - 1
	if got := vk.NbPublicWitness(); got != want {
		return fmt.Errorf("%w: key takes %d public inputs, circuit has %d", ErrKeyMismatch, got, want)
	}
	return nil
}
