// Copyright 2026 The Nagar Mitra Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// removeUserUploads deletes every file a vendor uploaded (permit scans,
// id proofs). Called on logout and on account deletion. Removing
// uploads for an id that never uploaded anything is a no-op.
func removeUserUploads(dataDir, userId string) error {
	if userId == "" || strings.Contains(userId, "..") || strings.ContainsRune(userId, os.PathSeparator) {
		return errors.New("refusing upload removal for suspect userId")
	}
	return os.RemoveAll(filepath.Join(dataDir, "uploads", userId))
}
