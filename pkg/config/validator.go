package config

import (
	"fmt"
	"strings"

	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/store"
)

// Recognized keys.
const (
	KeyUserName        = "user.name"
	KeyUserEmail       = "user.email"
	KeyCoreCompression = "core.compression"
)

// Keys lists every recognized key in display order.
var Keys = []string{KeyUserName, KeyUserEmail, KeyCoreCompression}

// IsKnownKey reports whether key is one of Keys.
func IsKnownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// ValidateKeyValue checks a value before it is written to a file.
func ValidateKeyValue(key, value string) error {
	if !IsKnownKey(key) {
		return invalidKey(key)
	}

	section, name, _ := strings.Cut(key, ".")
	switch section {
	case "user":
		return validateUser(name, value)
	case "core":
		return validateCore(name, value)
	}
	return nil
}

func validateUser(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalidValue("user."+name, "value cannot be empty")
	}
	if strings.ContainsAny(value, "<>\n\r\x00") {
		return invalidValue("user."+name, "value cannot contain '<', '>' or control characters")
	}
	if name == "email" && !strings.Contains(value, "@") {
		return invalidValue("user.email", fmt.Sprintf("%q is not an email address", value))
	}
	return nil
}

func validateCore(name, value string) error {
	if name == "compression" {
		if strings.TrimSpace(value) == "" {
			return invalidValue("core.compression", "value cannot be empty")
		}
		if _, err := store.ParseCompression(value); err != nil {
			return invalidValue("core.compression", err.Error())
		}
	}
	return nil
}

func invalidKey(key string) error {
	return errs.New(pkgName, errs.CodeInvalidInput, "validate",
		fmt.Sprintf("unknown key %q (known keys: %s)", key, strings.Join(Keys, ", ")), nil)
}

func invalidValue(key, reason string) error {
	return errs.New(pkgName, errs.CodeInvalidInput, "validate",
		fmt.Sprintf("invalid value for %s: %s", key, reason), nil).WithContext("key", key)
}
