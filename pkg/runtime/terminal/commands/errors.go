package commands

import "fmt"

func errInvalidFlag(flag, reason string) error {
	return fmt.Errorf("invalid --%s: %s", flag, reason)
}
