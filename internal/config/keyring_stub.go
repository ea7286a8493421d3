/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

//go:build nokeyring

package config

import "errors"

// Headless and CI builds compile with -tags nokeyring; the sync token then
// comes from BRD_SYNC_TOKEN only.
var errKeyringDisabled = errors.New("keyring disabled in this build")

func init() {
	keyringGet = func(service, key string) (string, error) { return "", errKeyringDisabled }
	keyringSet = func(service, key, value string) error { return errKeyringDisabled }
	keyringDelete = func(service, key string) error { return errKeyringDisabled }
}
