// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/dynofleet/lib/secret"
)

// OpenToken reads the Heroku API token into a secret buffer. The
// caller must Close it.
func (h HerokuConfig) OpenToken() (*secret.Buffer, error) {
	switch {
	case h.TokenFile != "":
		token, err := secret.ReadFromPath(h.TokenFile)
		if err != nil {
			return nil, fmt.Errorf("reading heroku token from %s: %w", h.TokenFile, err)
		}
		return token, nil
	case h.TokenEnv != "":
		token, err := secret.ReadFromEnv(h.TokenEnv)
		if err != nil {
			return nil, fmt.Errorf("reading heroku token: %w", err)
		}
		return token, nil
	default:
		return nil, errors.New("no heroku token source configured")
	}
}
