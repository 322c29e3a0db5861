// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the dynofleet daemon configuration.
//
// Configuration comes from exactly one file, named by the
// DYNOFLEET_CONFIG environment variable ([Load]) or a --config flag
// ([LoadFile]). There is no search path and no per-field environment
// override. The file format follows the extension: .yaml and .yml are
// YAML, .json and .jsonc are JSON with comments and trailing commas
// allowed. Unknown keys are errors in both formats.
//
// After decoding, ${VAR} and ${VAR:-default} references in path-like
// fields (heroku.token_file, heroku.api_url, service.socket_path) are
// expanded from the environment.
//
// [Config.Validate] reports every problem at once rather than stopping
// at the first.
package config
