package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrMissingCredentials indicates that no usable AWS credential source was
// found in the environment.
var ErrMissingCredentials = errors.New("missing AWS credentials")

// ValidateEnv checks for a usable credential source before any network call
// so the failure message names the missing variables instead of surfacing a
// deep SDK error. A configured profile or web-identity role satisfies the
// check without static keys.
func ValidateEnv() error {
	if os.Getenv("AWS_PROFILE") != "" || os.Getenv("AWS_WEB_IDENTITY_TOKEN_FILE") != "" {
		return nil
	}

	var missing []string
	if os.Getenv("AWS_ACCESS_KEY_ID") == "" {
		missing = append(missing, "AWS_ACCESS_KEY_ID")
	}
	if os.Getenv("AWS_SECRET_ACCESS_KEY") == "" {
		missing = append(missing, "AWS_SECRET_ACCESS_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s must be set to a valid AWS access key",
			ErrMissingCredentials, strings.Join(missing, " and "))
	}
	return nil
}
