package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/sfh/internal/constants"
)

var (
	// ErrNotFound is returned when no password is stored for the login
	ErrNotFound = errors.New("password not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
	// ErrEmptyLogin is returned when an operation is attempted without a login id
	ErrEmptyLogin = errors.New("login id cannot be empty")
)

// GetPassword retrieves the portal password stored for loginID.
func GetPassword(loginID string) (string, error) {
	if loginID == "" {
		return "", ErrEmptyLogin
	}
	password, err := keyring.Get(constants.AppName, loginID)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return password, nil
}

// SetPassword stores the portal password for loginID.
func SetPassword(loginID, password string) error {
	if loginID == "" {
		return ErrEmptyLogin
	}
	if password == "" {
		return errors.New("password cannot be empty")
	}
	if err := keyring.Set(constants.AppName, loginID, password); err != nil {
		return fmt.Errorf("failed to store password in keyring: %w", err)
	}
	return nil
}

// DeletePassword removes the stored password for loginID.
func DeletePassword(loginID string) error {
	if loginID == "" {
		return ErrEmptyLogin
	}
	if err := keyring.Delete(constants.AppName, loginID); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete password from keyring: %w", err)
	}
	return nil
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort probe.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
