// Package kv maps Settings to and from the key/value rows of the
// settings table.
package kv

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/julianstephens/sfh/internal/constants"
	"github.com/julianstephens/sfh/internal/models"
)

// Entry is one settings row.
type Entry struct {
	Key   string
	Value string
}

// Keys lists every recognized setting key in display order.
var Keys = []string{
	constants.SettingBaseURL,
	constants.SettingLoginID,
	constants.SettingMaxInFlight,
	constants.SettingRequestTimeoutSec,
	constants.SettingDefaultReason,
}

// Encode returns the rows for s in Keys order.
func Encode(s models.Settings) []Entry {
	return []Entry{
		{constants.SettingBaseURL, s.BaseURL},
		{constants.SettingLoginID, s.LoginID},
		{constants.SettingMaxInFlight, strconv.Itoa(s.MaxInFlight)},
		{constants.SettingRequestTimeoutSec, strconv.Itoa(s.RequestTimeoutSec)},
		{constants.SettingDefaultReason, string(s.DefaultReason)},
	}
}

// Decode builds Settings from rows. Unknown keys are ignored so older
// builds can read newer databases.
func Decode(entries []Entry) (models.Settings, error) {
	if len(entries) == 0 {
		return models.Settings{}, fmt.Errorf("settings not found")
	}
	s := models.Settings{}
	for _, e := range entries {
		if err := Set(&s, e.Key, e.Value); err != nil && !isUnknown(err) {
			return models.Settings{}, err
		}
	}
	return s, nil
}

type unknownKeyError string

func (e unknownKeyError) Error() string {
	return fmt.Sprintf("unknown setting %q (known: %s)", string(e), strings.Join(sortedKeys(), ", "))
}

func isUnknown(err error) bool {
	_, ok := err.(unknownKeyError)
	return ok
}

// Set validates value and assigns it to the field named by key.
func Set(s *models.Settings, key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case constants.SettingBaseURL:
		s.BaseURL = strings.TrimRight(value, "/")
	case constants.SettingLoginID:
		s.LoginID = value
	case constants.SettingMaxInFlight:
		n, err := positiveInt(key, value)
		if err != nil {
			return err
		}
		s.MaxInFlight = n
	case constants.SettingRequestTimeoutSec:
		n, err := positiveInt(key, value)
		if err != nil {
			return err
		}
		s.RequestTimeoutSec = n
	case constants.SettingDefaultReason:
		r := constants.ReasonCode(value)
		if value == "" {
			r = constants.ReasonNone
		}
		if !r.Valid() {
			return fmt.Errorf("parsing %s: unknown reason code %q", key, value)
		}
		s.DefaultReason = r
	default:
		return unknownKeyError(key)
	}
	return nil
}

// Get returns the encoded value of key.
func Get(s models.Settings, key string) (string, error) {
	for _, e := range Encode(s) {
		if e.Key == key {
			return e.Value, nil
		}
	}
	return "", unknownKeyError(key)
}

func positiveInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("parsing %s: must be at least 1", key)
	}
	return n, nil
}

func sortedKeys() []string {
	keys := append([]string(nil), Keys...)
	sort.Strings(keys)
	return keys
}
