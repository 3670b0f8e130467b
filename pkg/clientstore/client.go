// Copyright 2026 The Nagar Mitra Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

// Package clientstore implements ClientStore from gopkg.in/oauth2.v3
// using BuntDB (https://github.com/tidwall/buntdb). Partner systems
// that pull compliance data register a client here; each client is
// tied to the vendor account (user id) that authorized it.
package clientstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidwall/buntdb"
	"gopkg.in/oauth2.v3"
	"gopkg.in/oauth2.v3/models"
)

var (
	// DefaultTTL is the value used as TTL on buntdb.SetOptions.
	// Zero or negative disables expiration.
	DefaultTTL time.Duration = 0
)

func New(path string) (*ClientStore, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, err
	}
	return &ClientStore{db: db}, nil
}

type ClientStore struct {
	db *buntdb.DB
}

var _ oauth2.ClientStore = (*ClientStore)(nil)

func (cs *ClientStore) Close() error {
	return cs.db.Close()
}

// record is the stored shape of one client. One key per client keeps
// writes atomic without a multi-key transaction dance.
type record struct {
	ID     string `json:"id"`
	Secret string `json:"secret"`
	Domain string `json:"domain"`
	UserID string `json:"userId"`
}

func clientKey(id string) string {
	return fmt.Sprintf("client:%s", id)
}

func (cs *ClientStore) GetByID(id string) (oauth2.ClientInfo, error) {
	var rec record
	err := cs.db.View(func(tx *buntdb.Tx) error {
		v, err := tx.Get(clientKey(id))
		if err != nil {
			return err
		}
		return json.Unmarshal([]byte(v), &rec)
	})
	if err != nil {
		return &models.Client{}, fmt.Errorf("problem reading client %s: %v", id, err)
	}
	return &models.Client{
		ID:     rec.ID,
		Secret: rec.Secret,
		Domain: rec.Domain,
		UserID: rec.UserID,
	}, nil
}

// GetByUserID finds every client a vendor account has authorized.
// No matches is (nil, nil), not an error.
func (cs *ClientStore) GetByUserID(userId string) ([]oauth2.ClientInfo, error) {
	var out []oauth2.ClientInfo
	err := cs.db.View(func(tx *buntdb.Tx) error {
		var scanErr error
		err := tx.AscendKeys("client:*", func(key, value string) bool {
			var rec record
			if err := json.Unmarshal([]byte(value), &rec); err != nil {
				scanErr = err
				return false
			}
			if rec.UserID == userId {
				out = append(out, &models.Client{
					ID:     rec.ID,
					Secret: rec.Secret,
					Domain: rec.Domain,
					UserID: rec.UserID,
				})
			}
			return true
		})
		if err != nil {
			return err
		}
		return scanErr
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (cs *ClientStore) Set(id string, cli oauth2.ClientInfo) error {
	if inc := cli.GetID(); id != inc {
		return fmt.Errorf("ClientStore: id's don't match, id=%s and cli=%s", id, inc)
	}

	bs, err := json.Marshal(record{
		ID:     cli.GetID(),
		Secret: cli.GetSecret(),
		Domain: cli.GetDomain(),
		UserID: cli.GetUserID(),
	})
	if err != nil {
		return err
	}

	err = cs.db.Update(func(tx *buntdb.Tx) error {
		opts := &buntdb.SetOptions{
			Expires: DefaultTTL > 0,
			TTL:     DefaultTTL,
		}
		_, _, err := tx.Set(clientKey(id), string(bs), opts)
		return err
	})
	if err != nil {
		return fmt.Errorf("problem updating client %s: %v", id, err)
	}
	return nil
}

// DeleteByID removes a client. Unknown ids are a no-op.
func (cs *ClientStore) DeleteByID(id string) error {
	err := cs.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(clientKey(id))
		if err == buntdb.ErrNotFound {
			return nil
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("problem deleting client %s: %v", id, err)
	}
	return nil
}
